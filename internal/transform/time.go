package transform

import (
	"time"

	"sparkify/internal/model"
)

// DecomposeTimestamp converts an epoch-millisecond timestamp into a
// time-dimension row.
//
// The calendar conversion happens at UTC so the decomposition is a pure
// deterministic function of the input: the same millisecond value always
// yields the same row, on any host. Week is the ISO-8601 week number and
// Weekday follows the Monday=0..Sunday=6 convention used throughout the
// warehouse.
func DecomposeTimestamp(ms int64) model.TimeEntry {
	t := time.UnixMilli(ms).UTC()
	_, week := t.ISOWeek()

	return model.TimeEntry{
		StartTime: t,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		// time.Weekday has Sunday=0; shift to Monday=0.
		Weekday: (int(t.Weekday()) + 6) % 7,
	}
}
