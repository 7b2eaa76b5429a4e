package etl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sparkify/internal/config"
	"sparkify/internal/model"
	"sparkify/internal/schema"
)

// memRepo is an in-memory warehouse: it appends rows per table and serves
// natural-key lookups from the songs and artists rows loaded so far, the way
// the real backends do.
type memRepo struct {
	tables map[string][][]any
}

func newMemRepo() *memRepo {
	return &memRepo{tables: map[string][][]any{}}
}

func (m *memRepo) BulkUpsert(_ context.Context, table schema.Table, rows [][]any) (int64, error) {
	m.tables[table.Name] = append(m.tables[table.Name], rows...)
	return int64(len(rows)), nil
}

func (m *memRepo) LookupSongArtist(_ context.Context, title, artist string, duration float64) (string, string, bool, error) {
	for _, s := range m.tables["songs"] {
		if s[1] != title || s[4] != duration {
			continue
		}
		for _, a := range m.tables["artists"] {
			if a[0] == s[2] && a[1] == artist {
				return s[0].(string), a[0].(string), true, nil
			}
		}
	}
	return "", "", false, nil
}

func (m *memRepo) Exec(context.Context, string) error { return nil }
func (m *memRepo) Close() error                       { return nil }

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const songCatalog = `{"num_songs":1,"artist_id":"ARVBRGZ1187FB4675A","artist_latitude":null,"artist_longitude":null,"artist_location":"","artist_name":"Frumpies","song_id":"SOFKIT12AB0181F51","title":"Fuck Kitty","duration":134.47791,"year":0}
{"num_songs":1,"artist_id":"AR7G5I41187FB4CE6C","artist_latitude":null,"artist_longitude":null,"artist_location":"London, England","artist_name":"Adam Ant","song_id":"SONHOTT12A8C13493C","title":"Something Girls","duration":233.40363,"year":1982}
`

const activityLog = `{"artist":"Frumpies","song":"Fuck Kitty","length":134.47791,"page":"NextSong","userId":"69","firstName":"Anabelle","lastName":"Simpson","gender":"F","level":"free","location":"Philadelphia-Camden-Wilmington, PA-NJ-DE-MD","userAgent":"\"Mozilla/5.0\"","sessionId":455,"ts":1541903636796}
{"artist":"Unknown Band","song":"Not In Catalog","length":201.5,"page":"NextSong","userId":"69","firstName":"Anabelle","lastName":"Simpson","gender":"F","level":"free","location":"Philadelphia-Camden-Wilmington, PA-NJ-DE-MD","userAgent":"\"Mozilla/5.0\"","sessionId":455,"ts":1541903770796}
{"page":"Home","userId":"29","firstName":"Jacqueline","lastName":"Lynch","gender":"F","level":"paid","sessionId":559,"ts":1541903800000}
this line is not json
`

func pipelineFor(songRoot, logRoot string) config.Pipeline {
	return config.Pipeline{
		Job:     "sparkify-test",
		Source:  config.Source{SongData: songRoot, LogData: logRoot},
		Storage: config.Storage{Kind: "memory"},
		Runtime: config.RuntimeConfig{BatchSize: 100},
	}
}

/*
TestRun exercises the full pass over a small dataset: two catalog entries,
then a log file with one matched play, one unmatched play, one non-play
event, and one malformed line.
*/
func TestRun(t *testing.T) {
	songRoot := t.TempDir()
	logRoot := t.TempDir()
	writeFile(t, songRoot, filepath.Join("A", "A", "TRAAA.json"), songCatalog)
	writeFile(t, logRoot, "2018-11-11-events.json", activityLog)

	repo := newMemRepo()
	stats, err := Run(context.Background(), pipelineFor(songRoot, logRoot), repo)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if stats.SongFiles != 1 || stats.LogFiles != 1 {
		t.Errorf("files = %d song, %d log; want 1, 1", stats.SongFiles, stats.LogFiles)
	}
	if stats.Songs != 2 || stats.Artists != 2 {
		t.Errorf("songs = %d, artists = %d; want 2, 2", stats.Songs, stats.Artists)
	}
	if stats.TimeRows != 2 || stats.Users != 2 || stats.Songplays != 2 {
		t.Errorf("time = %d, users = %d, songplays = %d; want 2, 2, 2",
			stats.TimeRows, stats.Users, stats.Songplays)
	}
	if stats.Matched != 1 || stats.Unmatched != 1 {
		t.Errorf("matched = %d, unmatched = %d; want 1, 1", stats.Matched, stats.Unmatched)
	}
	if stats.ParseErrors != 1 {
		t.Errorf("parse errors = %d; want 1", stats.ParseErrors)
	}

	// Dimension contents.
	songs := repo.tables["songs"]
	if len(songs) != 2 || songs[1][0] != "SONHOTT12A8C13493C" || songs[1][4] != 233.40363 {
		t.Errorf("songs = %v", songs)
	}
	if songs[0][3] != nil {
		t.Errorf("zero catalog year stored as %v; want nil", songs[0][3])
	}

	times := repo.tables["time"]
	if len(times) != 2 {
		t.Fatalf("time rows = %v", times)
	}
	first := times[0][0].(time.Time)
	if got := first.Format(model.TimestampLayout); got != "2018-11-11 02:33:56.796" {
		t.Errorf("first start_time = %s; want 2018-11-11 02:33:56.796", got)
	}
	// start_time, hour, day, week, month, year, weekday
	if times[0][1] != 2 || times[0][2] != 11 || times[0][3] != 45 ||
		times[0][4] != 11 || times[0][5] != 2018 || times[0][6] != 6 {
		t.Errorf("first time row = %v", times[0])
	}

	users := repo.tables["users"]
	if len(users) != 2 || users[0][0] != 69 || users[0][4] != "free" {
		t.Errorf("users = %v", users)
	}

	// Fact rows: matched play carries both ids, unmatched carries NULLs.
	plays := repo.tables["songplays"]
	if len(plays) != 2 {
		t.Fatalf("songplays = %v", plays)
	}
	if plays[0][3] != "SOFKIT12AB0181F51" || plays[0][4] != "ARVBRGZ1187FB4675A" {
		t.Errorf("matched play ids = %v, %v", plays[0][3], plays[0][4])
	}
	if plays[1][3] != nil || plays[1][4] != nil {
		t.Errorf("unmatched play ids = %v, %v; want nil, nil", plays[1][3], plays[1][4])
	}
	if plays[0][1] != 69 || plays[0][5] != 455 {
		t.Errorf("matched play = %v", plays[0])
	}
}

/*
TestRunEmptyRoots verifies a run over empty data roots succeeds with zeroed
stats, matching the behavior on a fresh dataset drop.
*/
func TestRunEmptyRoots(t *testing.T) {
	stats, err := Run(context.Background(), pipelineFor(t.TempDir(), t.TempDir()), newMemRepo())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if stats.SongFiles != 0 || stats.LogFiles != 0 || stats.Songplays != 0 {
		t.Errorf("stats = %+v; want all zero", stats)
	}
}

/*
TestRunMissingRoot verifies a missing data root aborts the run with a wrapped
discovery error.
*/
func TestRunMissingRoot(t *testing.T) {
	p := pipelineFor(filepath.Join(t.TempDir(), "absent"), t.TempDir())
	_, err := Run(context.Background(), p, newMemRepo())
	if err == nil {
		t.Fatal("Run returned nil error for a missing song root")
	}
	if !strings.Contains(err.Error(), "discover") {
		t.Errorf("error = %v; want discovery failure", err)
	}
}

/*
TestRunDuplicateKeysWithinFile checks that repeated natural keys in one log
file resolve through the per-file cache: the store sees one lookup per
distinct key.
*/
func TestRunDuplicateKeysWithinFile(t *testing.T) {
	songRoot := t.TempDir()
	logRoot := t.TempDir()
	writeFile(t, songRoot, "TRAAA.json", songCatalog)

	play := `{"artist":"Frumpies","song":"Fuck Kitty","length":134.47791,"page":"NextSong","userId":"69","firstName":"Anabelle","lastName":"Simpson","gender":"F","level":"free","location":"X","userAgent":"UA","sessionId":455,"ts":1541903636796}`
	writeFile(t, logRoot, "events.json", strings.Repeat(play+"\n", 3))

	stats, err := Run(context.Background(), pipelineFor(songRoot, logRoot), newMemRepo())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if stats.Songplays != 3 || stats.Matched != 3 {
		t.Errorf("songplays = %d, matched = %d; want 3, 3", stats.Songplays, stats.Matched)
	}
	if stats.StoreLookups != 1 || stats.CacheHits != 2 {
		t.Errorf("store lookups = %d, cache hits = %d; want 1, 2", stats.StoreLookups, stats.CacheHits)
	}
}
