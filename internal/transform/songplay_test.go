package transform

import (
	"context"
	"testing"

	"sparkify/internal/model"
)

// fakeLookup serves song/artist ids from a fixed catalog and counts calls.
type fakeLookup struct {
	calls int
	err   error
}

type catalogKey struct {
	title    string
	artist   string
	duration float64
}

var catalog = map[catalogKey][2]string{
	{"Fuck Kitty", "Frumpies", 134.47791}:            {"SOFKIT12AB0181F51", "ARVBRGZ1187FB4675A"},
	{"Something Girls", "Adam Ant", 233.40363}:       {"SONHOTT12A8C13493C", "AR7G5I41187FB4CE6C"},
	{"Der Kleine Dompfaff", "Line Renaud", 152.92036}: {"SOUPIRU12A6D4FA1E1", "ARJIE2Y1187B994AB7"},
}

func (f *fakeLookup) Lookup(_ context.Context, title, artist string, duration float64) (string, string, bool, error) {
	f.calls++
	if f.err != nil {
		return "", "", false, f.err
	}
	ids, ok := catalog[catalogKey{title, artist, duration}]
	if !ok {
		return "", "", false, nil
	}
	return ids[0], ids[1], true, nil
}

func playEvent(title, artist string, length float64) ActivityEvent {
	return ActivityEvent{
		ArtistName: artist,
		SongTitle:  title,
		Length:     length,
		Page:       PlayAction,
		UserID:     "69",
		Level:      "free",
		Location:   "Philadelphia-Camden-Wilmington, PA-NJ-DE-MD",
		UserAgent:  `"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_4)"`,
		SessionID:  455,
		TS:         1541903636796,
	}
}

/*
TestResolveMatched checks the matched path: a play event whose natural key is
in the catalog gets both ids filled in, alongside the event's own fields.
*/
func TestResolveMatched(t *testing.T) {
	fl := &fakeLookup{}
	r := NewResolver(fl.Lookup, true)

	play, err := r.Resolve(context.Background(), playEvent("Fuck Kitty", "Frumpies", 134.47791))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if play.SongID == nil || *play.SongID != "SOFKIT12AB0181F51" {
		t.Errorf("SongID = %v; want SOFKIT12AB0181F51", play.SongID)
	}
	if play.ArtistID == nil || *play.ArtistID != "ARVBRGZ1187FB4675A" {
		t.Errorf("ArtistID = %v; want ARVBRGZ1187FB4675A", play.ArtistID)
	}
	if play.UserID != 69 || play.Level != "free" || play.SessionID != 455 {
		t.Errorf("play = %+v", play)
	}
	if got := play.StartTime.Format(model.TimestampLayout); got != "2018-11-11 02:33:56.796" {
		t.Errorf("StartTime = %s; want 2018-11-11 02:33:56.796", got)
	}
}

/*
TestResolveUnmatched checks that a miss still yields a row: ids stay nil, the
row's positional projection carries SQL NULLs, and no error is returned.
*/
func TestResolveUnmatched(t *testing.T) {
	fl := &fakeLookup{}
	r := NewResolver(fl.Lookup, true)

	play, err := r.Resolve(context.Background(), playEvent("Not In Catalog", "Nobody", 1.0))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if play.SongID != nil || play.ArtistID != nil {
		t.Errorf("ids = %v, %v; want nil, nil", play.SongID, play.ArtistID)
	}

	row := play.Row()
	if len(row) != 8 {
		t.Fatalf("row has %d columns; want 8", len(row))
	}
	if row[3] != nil || row[4] != nil {
		t.Errorf("row ids = %v, %v; want nil, nil", row[3], row[4])
	}
}

/*
TestResolveCache verifies the per-resolver cache: repeated natural keys within
one resolver hit the store once, and hit/miss counters track that.
*/
func TestResolveCache(t *testing.T) {
	fl := &fakeLookup{}
	r := NewResolver(fl.Lookup, true)
	ctx := context.Background()

	ev := playEvent("Fuck Kitty", "Frumpies", 134.47791)
	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(ctx, ev); err != nil {
			t.Fatalf("Resolve %d: %v", i, err)
		}
	}
	// Misses are cached too.
	miss := playEvent("Not In Catalog", "Nobody", 1.0)
	for i := 0; i < 2; i++ {
		if _, err := r.Resolve(ctx, miss); err != nil {
			t.Fatalf("Resolve miss %d: %v", i, err)
		}
	}

	if fl.calls != 2 {
		t.Errorf("store lookups = %d; want 2", fl.calls)
	}
	if r.Hits() != 3 {
		t.Errorf("Hits() = %d; want 3", r.Hits())
	}
	if r.Misses() != 2 {
		t.Errorf("Misses() = %d; want 2", r.Misses())
	}
}

/*
TestResolveCacheDisabled verifies that with caching off every resolution calls
the store.
*/
func TestResolveCacheDisabled(t *testing.T) {
	fl := &fakeLookup{}
	r := NewResolver(fl.Lookup, false)
	ctx := context.Background()

	ev := playEvent("Fuck Kitty", "Frumpies", 134.47791)
	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(ctx, ev); err != nil {
			t.Fatalf("Resolve %d: %v", i, err)
		}
	}
	if fl.calls != 3 {
		t.Errorf("store lookups = %d; want 3", fl.calls)
	}
	if r.Hits() != 0 {
		t.Errorf("Hits() = %d; want 0", r.Hits())
	}
}

/*
TestResolveRejectsNonPlay verifies a non-play event cannot produce a fact row.
*/
func TestResolveRejectsNonPlay(t *testing.T) {
	r := NewResolver((&fakeLookup{}).Lookup, true)
	ev := playEvent("Something Girls", "Adam Ant", 233.40363)
	ev.Page = "Home"
	if _, err := r.Resolve(context.Background(), ev); err == nil {
		t.Fatal("Resolve returned nil error for a non-play event")
	}
}

/*
TestHashNaturalKeySeparation pins the field separation in the cache key:
shifting bytes between title and artist must change the hash.
*/
func TestHashNaturalKeySeparation(t *testing.T) {
	a := hashNaturalKey("ab", "c", 1.0)
	b := hashNaturalKey("a", "bc", 1.0)
	if a == b {
		t.Fatal("hashNaturalKey collides across the title/artist boundary")
	}
	if hashNaturalKey("x", "y", 1.0) == hashNaturalKey("x", "y", 2.0) {
		t.Fatal("hashNaturalKey ignores duration")
	}
}
