// Package etl wires the warehouse pipeline end to end: discover input files,
// parse them, transform records into star-schema rows, and load the rows
// through a storage.Repository.
//
// Processing is strictly sequential: one file at a time, one batch at a time,
// song catalog files before activity log files. The songplay resolver looks up
// song/artist ids against rows loaded earlier in the same run, so the catalog
// must be fully loaded before any log file is read.
package etl

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"sparkify/internal/config"
	"sparkify/internal/datasource/file"
	"sparkify/internal/metrics"
	jsonparser "sparkify/internal/parser/json"
	"sparkify/internal/schema"
	"sparkify/internal/storage"
	"sparkify/internal/transform"
	"sparkify/pkg/records"
)

// defaultBatchSize caps rows per bulk write when the pipeline config does not
// set one. Individual input files are small (tens of records), so this only
// matters for unusually large exports.
const defaultBatchSize = 1000

// Stats aggregates row accounting for one run.
type Stats struct {
	SongFiles int
	LogFiles  int

	ParseErrors int64 // lines skipped by the reader or event parser

	Songs     int64
	Artists   int64
	TimeRows  int64
	Users     int64
	Songplays int64

	CacheHits    int64 // resolutions served from the per-file cache
	StoreLookups int64 // lookups that reached the store
	Matched      int64 // songplays with resolved song/artist ids
	Unmatched    int64 // songplays stored with null ids
}

// Run executes a full ingestion pass: all song catalog files, then all
// activity log files. Any storage error aborts the remainder of the current
// file and the run; files already fully processed are not rolled back
// (re-runs start from a schema reset).
func Run(ctx context.Context, p config.Pipeline, repo storage.Repository) (Stats, error) {
	r := &run{
		job:       p.Job,
		repo:      repo,
		batchSize: pickInt(p.Runtime.BatchSize, getenvInt("SPARKIFY_BATCH_SIZE", defaultBatchSize)),
		nfc:       p.Parser.Options.Bool("normalize_nfc", true),
		cache:     p.Lookup.CacheEnabled(),
	}

	n, err := r.processRoot(ctx, p.Source.SongData, "process_song_file", r.processSongFile)
	r.stats.SongFiles = n
	if err != nil {
		return r.stats, err
	}

	n, err = r.processRoot(ctx, p.Source.LogData, "process_log_file", r.processLogFile)
	r.stats.LogFiles = n
	if err != nil {
		return r.stats, err
	}

	r.logSummary()
	return r.stats, nil
}

// run carries the per-run state shared by the file processors.
type run struct {
	job       string
	repo      storage.Repository
	batchSize int
	nfc       bool
	cache     bool

	stats Stats
}

// processRoot discovers the *.json files under root and runs fn over each in
// order, recording a step metric per file. It returns the number of files
// fully processed.
func (r *run) processRoot(ctx context.Context, root, step string, fn func(context.Context, string) error) (int, error) {
	paths, err := file.Discover(root, ".json")
	if err != nil {
		return 0, fmt.Errorf("discover %s: %w", root, err)
	}
	log.Printf("%d files found in %s", len(paths), root)

	for i, path := range paths {
		start := time.Now()
		err := fn(ctx, path)
		metrics.RecordStep(r.job, step, err, time.Since(start))
		if err != nil {
			return i, fmt.Errorf("%s: %s: %w", step, path, err)
		}
		log.Printf("%s: %d/%d done: %s", step, i+1, len(paths), path)
	}
	return len(paths), nil
}

// readRecords opens and parses one NDJSON file, skipping malformed lines with
// a log entry, and NFC-normalizes string fields when configured.
func (r *run) readRecords(ctx context.Context, path string) ([]records.Record, error) {
	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var skipped int64
	recs, err := jsonparser.ReadRecords(rc, func(line int, err error) {
		log.Printf("%s line %d: skipping: %v", path, line, err)
		skipped++
	})
	r.stats.ParseErrors += skipped
	metrics.RecordParseErrors(r.job, skipped)
	if err != nil {
		return nil, err
	}

	if r.nfc {
		transform.NormalizeNFC(recs)
	}
	return recs, nil
}

// processSongFile loads one song catalog file into the songs and artists
// dimensions.
func (r *run) processSongFile(ctx context.Context, path string) error {
	recs, err := r.readRecords(ctx, path)
	if err != nil {
		return err
	}

	songRows := make([][]any, 0, len(recs))
	artistRows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		song, artist := transform.ExtractSongArtist(rec)
		songRows = append(songRows, song.Row())
		artistRows = append(artistRows, artist.Row())
	}

	n, err := storage.UpsertBatches(ctx, r.repo, schema.Songs, songRows, r.batchSize)
	r.stats.Songs += n
	metrics.RecordRows(r.job, schema.Songs.Name, n)
	if err != nil {
		return err
	}

	n, err = storage.UpsertBatches(ctx, r.repo, schema.Artists, artistRows, r.batchSize)
	r.stats.Artists += n
	metrics.RecordRows(r.job, schema.Artists.Name, n)
	return err
}

// processLogFile loads one activity log file: time rows and user rows for
// every play event, then one songplay fact row per play event, resolved
// against the already-loaded catalog.
func (r *run) processLogFile(ctx context.Context, path string) error {
	recs, err := r.readRecords(ctx, path)
	if err != nil {
		return err
	}

	resolver := transform.NewResolver(r.repo.LookupSongArtist, r.cache)

	var (
		timeRows [][]any
		userRows [][]any
		playRows [][]any

		matched, unmatched int64
	)
	for _, rec := range recs {
		ev, err := transform.ParseActivityEvent(rec)
		if err != nil {
			log.Printf("%s: skipping event: %v", path, err)
			r.stats.ParseErrors++
			metrics.RecordParseErrors(r.job, 1)
			continue
		}
		if !ev.IsPlay() {
			continue
		}

		timeRows = append(timeRows, transform.DecomposeTimestamp(ev.TS).Row())

		if user, ok := transform.ExtractUser(ev); ok {
			userRows = append(userRows, user.Row())
		}

		play, err := resolver.Resolve(ctx, ev)
		if err != nil {
			return err
		}
		if play.SongID != nil {
			matched++
		} else {
			unmatched++
		}
		playRows = append(playRows, play.Row())
	}

	r.stats.CacheHits += resolver.Hits()
	r.stats.StoreLookups += resolver.Misses()
	r.stats.Matched += matched
	r.stats.Unmatched += unmatched
	metrics.RecordLookups(r.job, "cache_hit", resolver.Hits())
	metrics.RecordLookups(r.job, "match", matched)
	metrics.RecordLookups(r.job, "miss", unmatched)

	// Referential order within the file: dimensions before the fact table.
	for _, load := range []struct {
		table schema.Table
		rows  [][]any
		count *int64
	}{
		{schema.Time, timeRows, &r.stats.TimeRows},
		{schema.Users, userRows, &r.stats.Users},
		{schema.Songplays, playRows, &r.stats.Songplays},
	} {
		n, err := storage.UpsertBatches(ctx, r.repo, load.table, load.rows, r.batchSize)
		*load.count += n
		metrics.RecordRows(r.job, load.table.Name, n)
		if err != nil {
			return err
		}
	}
	return nil
}

// logSummary prints the final row accounting for the run.
func (r *run) logSummary() {
	s := r.stats
	log.Printf(
		"summary: song_files=%d log_files=%d parse_errors=%d songs=%d artists=%d time=%d users=%d songplays=%d matched=%d unmatched=%d cache_hits=%d store_lookups=%d",
		s.SongFiles, s.LogFiles, s.ParseErrors,
		s.Songs, s.Artists, s.TimeRows, s.Users, s.Songplays,
		s.Matched, s.Unmatched, s.CacheHits, s.StoreLookups,
	)
}

// getenvInt reads an int from the environment, returning def when unset or
// invalid.
func getenvInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

// pickInt chooses the first positive value, otherwise the fallback.
func pickInt(a, b int) int {
	if a > 0 {
		return a
	}
	return b
}
