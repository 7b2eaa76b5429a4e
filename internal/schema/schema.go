// Package schema declares the star-schema tables of the warehouse: their
// column order, conflict keys, and conflict policies. Storage backends render
// these declarations into their own SQL dialect; the transform layer uses the
// column order when projecting typed rows.
package schema

// ConflictPolicy selects what a backend does when an incoming row collides
// with an existing row on the table's key columns.
type ConflictPolicy int

const (
	// ConflictNone: plain insert, no declared uniqueness (songplays).
	ConflictNone ConflictPolicy = iota
	// ConflictIgnore: insert-or-ignore on the key (songs, artists, time).
	ConflictIgnore
	// ConflictUpdate: insert-or-update of UpdateColumns on the key, last
	// write wins (users: the subscription level changes between events).
	ConflictUpdate
)

// Table describes one warehouse table.
type Table struct {
	// Name is the bare table name.
	Name string

	// Columns is the insert column order. Store-generated surrogate keys
	// (songplays.songplay_id) are not listed.
	Columns []string

	// Key lists the conflict-target columns. Empty for ConflictNone.
	Key []string

	// OnConflict selects the upsert behavior on a Key collision.
	OnConflict ConflictPolicy

	// UpdateColumns lists the columns refreshed by ConflictUpdate.
	UpdateColumns []string
}

var (
	// Songplays is the fact table. Duplicate plays across repeated runs are
	// possible; idempotency comes from resetting the schema before a re-run.
	Songplays = Table{
		Name: "songplays",
		Columns: []string{
			"start_time", "user_id", "level", "song_id",
			"artist_id", "session_id", "location", "user_agent",
		},
		OnConflict: ConflictNone,
	}

	// Users upserts on user_id so the latest subscription level sticks.
	Users = Table{
		Name:          "users",
		Columns:       []string{"user_id", "first_name", "last_name", "gender", "level"},
		Key:           []string{"user_id"},
		OnConflict:    ConflictUpdate,
		UpdateColumns: []string{"level"},
	}

	Songs = Table{
		Name:       "songs",
		Columns:    []string{"song_id", "title", "artist_id", "year", "duration"},
		Key:        []string{"song_id"},
		OnConflict: ConflictIgnore,
	}

	Artists = Table{
		Name:       "artists",
		Columns:    []string{"artist_id", "name", "location", "latitude", "longitude"},
		Key:        []string{"artist_id"},
		OnConflict: ConflictIgnore,
	}

	// Time holds one row per distinct play-event timestamp.
	Time = Table{
		Name:       "time",
		Columns:    []string{"start_time", "hour", "day", "week", "month", "year", "weekday"},
		Key:        []string{"start_time"},
		OnConflict: ConflictIgnore,
	}
)

// All returns every warehouse table, in DDL application order.
func All() []Table {
	return []Table{Songplays, Users, Songs, Artists, Time}
}
