package sqlite

import (
	"fmt"
	"strings"

	"sparkify/internal/schema"
)

// upsertSQL renders the per-row upsert statement for a table. SQLite shares
// the ON CONFLICT clause family with Postgres.
func upsertSQL(t schema.Table) string {
	cols := strings.Join(t.Columns, ", ")
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
	base := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, cols, marks)

	switch t.OnConflict {
	case schema.ConflictIgnore:
		return fmt.Sprintf("%s ON CONFLICT(%s) DO NOTHING", base, strings.Join(t.Key, ", "))

	case schema.ConflictUpdate:
		sets := make([]string, len(t.UpdateColumns))
		for i, c := range t.UpdateColumns {
			sets[i] = fmt.Sprintf("%s = excluded.%s", c, c)
		}
		return fmt.Sprintf("%s ON CONFLICT(%s) DO UPDATE SET %s",
			base, strings.Join(t.Key, ", "), strings.Join(sets, ", "))

	default:
		return base
	}
}

// Star-schema DDL in SQLite dialect: dynamic typing makes most column types
// advisory, but the declared affinities mirror the Postgres schema. Text
// timestamps sort and compare correctly in the fixed layout used by bindRow.
var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS songplays (
		songplay_id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_time TEXT,
		user_id INTEGER,
		level TEXT,
		song_id TEXT,
		artist_id TEXT,
		session_id INTEGER,
		location TEXT,
		user_agent TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		first_name TEXT,
		last_name TEXT,
		gender TEXT,
		level TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS songs (
		song_id TEXT PRIMARY KEY,
		title TEXT,
		artist_id TEXT,
		year INTEGER,
		duration REAL
	)`,
	`CREATE TABLE IF NOT EXISTS artists (
		artist_id TEXT PRIMARY KEY,
		name TEXT,
		location TEXT,
		latitude REAL,
		longitude REAL
	)`,
	`CREATE TABLE IF NOT EXISTS time (
		start_time TEXT PRIMARY KEY,
		hour INTEGER,
		day INTEGER,
		week INTEGER,
		month INTEGER,
		year INTEGER,
		weekday INTEGER
	)`,
}

var dropStatements = []string{
	`DROP TABLE IF EXISTS songplays`,
	`DROP TABLE IF EXISTS users`,
	`DROP TABLE IF EXISTS songs`,
	`DROP TABLE IF EXISTS artists`,
	`DROP TABLE IF EXISTS time`,
}
