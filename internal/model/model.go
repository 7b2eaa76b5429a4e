// Package model defines the typed dimension and fact rows of the warehouse
// star schema. Each type carries a Row method that projects the struct into
// the positional []any slice expected by storage.Repository.BulkUpsert, in
// the column order declared by the schema package.
package model

import "time"

// TimestampLayout renders start_time values the way they are compared in the
// acceptance data: second fraction kept to milliseconds, no timezone suffix
// (all timestamps are decomposed at UTC).
const TimestampLayout = "2006-01-02 15:04:05.000"

// Song is a songs-dimension row.
type Song struct {
	ID       string
	Title    string
	ArtistID string
	Year     int
	Duration float64
}

// Row projects the song into songs-table column order. A zero year means
// "unknown" in the catalog and is stored as NULL.
func (s Song) Row() []any {
	return []any{s.ID, s.Title, s.ArtistID, nullifyZero(s.Year), s.Duration}
}

// Artist is an artists-dimension row. Latitude and Longitude are nil when the
// catalog record carries no coordinates.
type Artist struct {
	ID        string
	Name      string
	Location  string
	Latitude  *float64
	Longitude *float64
}

// Row projects the artist into artists-table column order.
func (a Artist) Row() []any {
	return []any{a.ID, a.Name, a.Location, deref(a.Latitude), deref(a.Longitude)}
}

// TimeEntry is a time-dimension row derived from one play event's timestamp.
// Week is the ISO week number; Weekday uses the Monday=0..Sunday=6 convention.
type TimeEntry struct {
	StartTime time.Time
	Hour      int
	Day       int
	Week      int
	Month     int
	Year      int
	Weekday   int
}

// Row projects the entry into time-table column order.
func (t TimeEntry) Row() []any {
	return []any{t.StartTime, t.Hour, t.Day, t.Week, t.Month, t.Year, t.Weekday}
}

// User is a users-dimension row. Level is the subscription level at the time
// of the event and is refreshed on conflict (last write wins).
type User struct {
	ID        int
	FirstName string
	LastName  string
	Gender    string
	Level     string
}

// Row projects the user into users-table column order.
func (u User) Row() []any {
	return []any{u.ID, u.FirstName, u.LastName, u.Gender, u.Level}
}

// Songplay is the fact row for one play event. SongID and ArtistID are nil
// when the natural-key lookup found no catalog match; the row is stored
// anyway.
type Songplay struct {
	StartTime time.Time
	UserID    int
	Level     string
	SongID    *string
	ArtistID  *string
	SessionID int
	Location  string
	UserAgent string
}

// Row projects the songplay into songplays-table column order (songplay_id is
// store-generated and excluded).
func (p Songplay) Row() []any {
	return []any{
		p.StartTime,
		p.UserID,
		p.Level,
		derefStr(p.SongID),
		derefStr(p.ArtistID),
		p.SessionID,
		p.Location,
		p.UserAgent,
	}
}

// nullifyZero maps 0 to SQL NULL. The catalog uses 0 for "year unknown".
func nullifyZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func deref(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
