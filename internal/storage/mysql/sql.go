package mysql

import (
	"fmt"
	"strings"

	"sparkify/internal/schema"
)

// upsertSQL renders the per-row upsert statement for a table in MySQL
// dialect. The conflict target is implicit (any unique key), which matches
// this schema: each upserting table has exactly one primary key.
func upsertSQL(t schema.Table) string {
	cols := strings.Join(t.Columns, ", ")
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")

	switch t.OnConflict {
	case schema.ConflictIgnore:
		return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s)", t.Name, cols, marks)

	case schema.ConflictUpdate:
		sets := make([]string, len(t.UpdateColumns))
		for i, c := range t.UpdateColumns {
			sets[i] = fmt.Sprintf("%s = VALUES(%s)", c, c)
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
			t.Name, cols, marks, strings.Join(sets, ", "))

	default:
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, cols, marks)
	}
}

// Star-schema DDL in MySQL dialect. Identifier columns get explicit VARCHAR
// lengths (required for indexed columns); DATETIME(3) keeps millisecond
// precision on start_time. `time` is quoted: it is a reserved-adjacent name.
var createStatements = []string{
	"CREATE TABLE IF NOT EXISTS songplays (" +
		" songplay_id INT NOT NULL AUTO_INCREMENT PRIMARY KEY," +
		" start_time DATETIME(3)," +
		" user_id INT," +
		" level VARCHAR(16)," +
		" song_id VARCHAR(32)," +
		" artist_id VARCHAR(32)," +
		" session_id INT," +
		" location VARCHAR(255)," +
		" user_agent VARCHAR(512)" +
		")",
	"CREATE TABLE IF NOT EXISTS users (" +
		" user_id INT PRIMARY KEY," +
		" first_name VARCHAR(128)," +
		" last_name VARCHAR(128)," +
		" gender VARCHAR(4)," +
		" level VARCHAR(16)" +
		")",
	"CREATE TABLE IF NOT EXISTS songs (" +
		" song_id VARCHAR(32) PRIMARY KEY," +
		" title VARCHAR(512)," +
		" artist_id VARCHAR(32)," +
		" year INT," +
		" duration DOUBLE" +
		")",
	"CREATE TABLE IF NOT EXISTS artists (" +
		" artist_id VARCHAR(32) PRIMARY KEY," +
		" name VARCHAR(512)," +
		" location VARCHAR(255)," +
		" latitude DOUBLE," +
		" longitude DOUBLE" +
		")",
	"CREATE TABLE IF NOT EXISTS `time` (" +
		" start_time DATETIME(3) PRIMARY KEY," +
		" hour SMALLINT," +
		" day SMALLINT," +
		" week SMALLINT," +
		" month SMALLINT," +
		" year SMALLINT," +
		" weekday SMALLINT" +
		")",
}

var dropStatements = []string{
	"DROP TABLE IF EXISTS songplays",
	"DROP TABLE IF EXISTS users",
	"DROP TABLE IF EXISTS songs",
	"DROP TABLE IF EXISTS artists",
	"DROP TABLE IF EXISTS `time`",
}
