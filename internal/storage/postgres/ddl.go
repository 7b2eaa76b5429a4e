package postgres

// Star-schema DDL for Postgres. songplay_id is the only surrogate key; all
// other tables key on their natural id. start_time stays TIMESTAMP (no zone)
// because every value is decomposed at UTC before it reaches the store.

var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS songplays (
		songplay_id SERIAL PRIMARY KEY,
		start_time TIMESTAMP,
		user_id INT,
		level VARCHAR,
		song_id VARCHAR,
		artist_id VARCHAR,
		session_id INT,
		location VARCHAR,
		user_agent VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id INT PRIMARY KEY,
		first_name VARCHAR,
		last_name VARCHAR,
		gender VARCHAR,
		level VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS songs (
		song_id VARCHAR PRIMARY KEY,
		title VARCHAR,
		artist_id VARCHAR,
		year INT,
		duration NUMERIC
	)`,
	`CREATE TABLE IF NOT EXISTS artists (
		artist_id VARCHAR PRIMARY KEY,
		name VARCHAR,
		location VARCHAR,
		latitude NUMERIC,
		longitude NUMERIC
	)`,
	`CREATE TABLE IF NOT EXISTS time (
		start_time TIMESTAMP PRIMARY KEY,
		hour SMALLINT,
		day SMALLINT,
		week SMALLINT,
		month SMALLINT,
		year SMALLINT,
		weekday SMALLINT
	)`,
}

var dropStatements = []string{
	`DROP TABLE IF EXISTS songplays`,
	`DROP TABLE IF EXISTS users`,
	`DROP TABLE IF EXISTS songs`,
	`DROP TABLE IF EXISTS artists`,
	`DROP TABLE IF EXISTS time`,
}
