package transform

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/zeebo/xxh3"

	"sparkify/internal/model"
)

// LookupFunc resolves a natural key (title, artist name, duration) to the
// catalog's (song_id, artist_id) pair. found is false when no catalog entry
// matches; that is a normal outcome, not an error. Matching is exact on all
// three fields, including float equality on duration.
type LookupFunc func(ctx context.Context, title, artist string, duration float64) (songID, artistID string, found bool, err error)

// cacheEntry remembers one lookup outcome together with the full natural key
// it was computed for, so a hash collision can never substitute another
// key's result.
type cacheEntry struct {
	title    string
	artist   string
	duration float64
	songID   string
	artistID string
	found    bool
}

// Resolver assembles songplay fact rows, resolving each play event's
// song/artist identifiers through a LookupFunc.
//
// Lookup results are pure functions of the natural key for a fixed catalog
// snapshot, so the resolver can optionally memoize them for its lifetime
// (one resolver per input file). The cache changes round-trip count only,
// never observable output.
type Resolver struct {
	lookup LookupFunc
	cache  map[uint64]cacheEntry // nil when caching is disabled

	hits   int64
	misses int64 // lookup calls that went to the store
}

// NewResolver returns a Resolver over lookup. When cache is true, repeated
// natural keys within this resolver's lifetime are served from memory.
func NewResolver(lookup LookupFunc, cache bool) *Resolver {
	r := &Resolver{lookup: lookup}
	if cache {
		r.cache = make(map[uint64]cacheEntry)
	}
	return r
}

// Resolve builds the songplay fact row for one play event. The row is always
// produced; when no catalog entry matches the event's title/artist/duration,
// song and artist ids are left null. The only error condition is a failing
// lookup call (storage trouble), which aborts the caller's current file.
func (r *Resolver) Resolve(ctx context.Context, ev ActivityEvent) (model.Songplay, error) {
	if !ev.IsPlay() {
		return model.Songplay{}, fmt.Errorf("resolve: event page %q is not a play", ev.Page)
	}

	songID, artistID, found, err := r.resolveKey(ctx, ev.SongTitle, ev.ArtistName, ev.Length)
	if err != nil {
		return model.Songplay{}, fmt.Errorf("resolve %q / %q: %w", ev.SongTitle, ev.ArtistName, err)
	}

	play := model.Songplay{
		StartTime: DecomposeTimestamp(ev.TS).StartTime,
		Level:     ev.Level,
		SessionID: ev.SessionID,
		Location:  ev.Location,
		UserAgent: ev.UserAgent,
	}
	if id, err := strconv.Atoi(ev.UserID); err == nil {
		play.UserID = id
	}
	if found {
		play.SongID = &songID
		play.ArtistID = &artistID
	}
	return play, nil
}

// Hits returns how many resolutions were served from the cache.
func (r *Resolver) Hits() int64 { return r.hits }

// Misses returns how many resolutions called through to the store.
func (r *Resolver) Misses() int64 { return r.misses }

func (r *Resolver) resolveKey(ctx context.Context, title, artist string, duration float64) (string, string, bool, error) {
	if r.cache == nil {
		r.misses++
		return r.lookup(ctx, title, artist, duration)
	}

	key := hashNaturalKey(title, artist, duration)
	if e, ok := r.cache[key]; ok && e.title == title && e.artist == artist && e.duration == duration {
		r.hits++
		return e.songID, e.artistID, e.found, nil
	}

	r.misses++
	songID, artistID, found, err := r.lookup(ctx, title, artist, duration)
	if err != nil {
		return "", "", false, err
	}
	r.cache[key] = cacheEntry{
		title:    title,
		artist:   artist,
		duration: duration,
		songID:   songID,
		artistID: artistID,
		found:    found,
	}
	return songID, artistID, found, nil
}

// hashNaturalKey folds the natural key into a 64-bit cache key. NUL
// separators keep ("ab","c") and ("a","bc") distinct; the float is hashed by
// bit pattern to preserve exact-equality semantics.
func hashNaturalKey(title, artist string, duration float64) uint64 {
	buf := make([]byte, 0, len(title)+len(artist)+10)
	buf = append(buf, title...)
	buf = append(buf, 0)
	buf = append(buf, artist...)
	buf = append(buf, 0)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(duration))
	return xxh3.Hash(buf)
}
