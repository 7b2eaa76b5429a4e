package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"sparkify/internal/schema"
	"sparkify/internal/storage"
	"sparkify/internal/transform"
	"sparkify/pkg/records"
)

// BenchmarkLogTransform exercises the hot path of log-file processing in a
// simplified, in-memory setup: event parsing, timestamp decomposition, cached
// songplay resolution, and batch loading through a fake repository.
//
// The goal is to approximate per-event throughput without involving I/O or
// actual database drivers.
// Run with:
//
//	go test -run=^$ -bench ^BenchmarkLogTransform$ -cpuprofile cpu.out -memprofile mem.out -count=1
func BenchmarkLogTransform(b *testing.B) {
	ctx := context.Background()

	// A small rotation of natural keys so the resolver cache sees realistic
	// hit rates rather than a single key.
	titles := []string{"Fuck Kitty", "Something Girls", "Der Kleine Dompfaff", "Not In Catalog"}
	recs := make([]records.Record, b.N)
	for i := range recs {
		recs[i] = records.Record{
			"artist":    "Frumpies",
			"song":      titles[i%len(titles)],
			"length":    json.Number("134.47791"),
			"page":      "NextSong",
			"userId":    json.Number(fmt.Sprint(i % 100)),
			"level":     "free",
			"location":  "Philadelphia-Camden-Wilmington, PA-NJ-DE-MD",
			"userAgent": `"Mozilla/5.0"`,
			"sessionId": json.Number("455"),
			"ts":        json.Number("1541903636796"),
		}
	}

	lookup := func(_ context.Context, title, artist string, duration float64) (string, string, bool, error) {
		if title == "Not In Catalog" {
			return "", "", false, nil
		}
		return "SOFKIT12AB0181F51", "ARVBRGZ1187FB4675A", true, nil
	}
	resolver := transform.NewResolver(lookup, true)

	b.ResetTimer()

	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		ev, err := transform.ParseActivityEvent(rec)
		if err != nil {
			b.Fatalf("parse: %v", err)
		}
		_ = transform.DecomposeTimestamp(ev.TS)
		play, err := resolver.Resolve(ctx, ev)
		if err != nil {
			b.Fatalf("resolve: %v", err)
		}
		rows = append(rows, play.Row())
	}

	n, err := storage.UpsertBatches(ctx, discardRepo{}, schema.Songplays, rows, 1000)
	b.StopTimer()

	if err != nil {
		b.Fatalf("UpsertBatches: %v", err)
	}
	if n != int64(b.N) {
		b.Fatalf("written = %d; want %d", n, b.N)
	}
}

// discardRepo reports every batch as written without storing anything, which
// isolates batch-building and iteration costs from actual I/O.
type discardRepo struct{}

func (discardRepo) BulkUpsert(_ context.Context, _ schema.Table, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}

func (discardRepo) LookupSongArtist(context.Context, string, string, float64) (string, string, bool, error) {
	return "", "", false, nil
}

func (discardRepo) Exec(context.Context, string) error { return nil }
func (discardRepo) Close() error                       { return nil }
