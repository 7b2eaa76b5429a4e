// Package transform contains the row-shaping core of the pipeline: projecting
// catalog records into song/artist dimension rows, decomposing play-event
// timestamps into the time dimension, extracting user rows, and resolving
// songplay fact rows against the already-loaded catalog.
package transform

import (
	"fmt"

	"sparkify/pkg/records"
)

// PlayAction is the page value that marks an activity event as an actual
// song play. Only these events feed the time and songplays tables.
const PlayAction = "NextSong"

// ActivityEvent is one parsed entry from an activity log file.
type ActivityEvent struct {
	ArtistName string
	SongTitle  string
	Length     float64 // track length in seconds, catalog precision
	Page       string
	UserID     string // raw; empty for unauthenticated events
	FirstName  string
	LastName   string
	Gender     string
	Level      string
	Location   string
	UserAgent  string
	SessionID  int
	TS         int64 // event timestamp, epoch milliseconds
}

// IsPlay reports whether the event represents a song play.
func (e ActivityEvent) IsPlay() bool { return e.Page == PlayAction }

// ParseActivityEvent maps a raw log record onto an ActivityEvent.
//
// Non-play events (login, home page, etc.) only need the fields the user
// extractor reads, so missing timestamps or session ids are tolerated there.
// For play events ts and sessionId are required: without them neither a time
// row nor a songplay row can be built, so the record is rejected.
func ParseActivityEvent(rec records.Record) (ActivityEvent, error) {
	ev := ActivityEvent{
		ArtistName: rec.String("artist"),
		SongTitle:  rec.String("song"),
		Page:       rec.String("page"),
		UserID:     rec.String("userId"),
		FirstName:  rec.String("firstName"),
		LastName:   rec.String("lastName"),
		Gender:     rec.String("gender"),
		Level:      rec.String("level"),
		Location:   rec.String("location"),
		UserAgent:  rec.String("userAgent"),
	}

	if n, ok := rec.Int64("sessionId"); ok {
		ev.SessionID = int(n)
	}
	if f, ok := rec.Float("length"); ok {
		ev.Length = f
	}

	ts, tsOK := rec.Int64("ts")
	ev.TS = ts

	if ev.IsPlay() {
		if !tsOK {
			return ev, fmt.Errorf("play event missing ts")
		}
		if !rec.Has("sessionId") {
			return ev, fmt.Errorf("play event missing sessionId")
		}
	}
	return ev, nil
}
