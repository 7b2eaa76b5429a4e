// Package postgres implements the warehouse repository on Postgres using
// pgx v5. Bulk writes COPY into a temporary staging table and then upsert
// into the target table with the conflict action the schema declares.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sparkify/internal/schema"
	"sparkify/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN)
	})
	storage.RegisterDDL("postgres", storage.Statements{Create: createStatements, Drop: dropStatements})
}

// lookupSQL resolves a play event's natural key against the loaded catalog.
// Matching is exact on title, artist name, and duration.
const lookupSQL = `
	SELECT songs.song_id, artists.artist_id
	FROM songs
	JOIN artists ON songs.artist_id = artists.artist_id
	WHERE songs.title = $1
	  AND artists.name = $2
	  AND songs.duration = $3
`

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository opens a pgx connection pool for dsn.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// BulkUpsert loads rows into a session-local temp table via COPY, then moves
// them into the target table in one INSERT..SELECT with the table's conflict
// action. The extra __seq staging column preserves input order so that for
// update-on-conflict tables the last occurrence of a key in the batch wins.
func (r *Repository) BulkUpsert(ctx context.Context, table schema.Table, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: acquire: %w", err)
	}
	defer conn.Release()

	tmp := "staging_" + table.Name
	create := fmt.Sprintf(
		"CREATE TEMP TABLE %s AS SELECT %s FROM %s WHERE false",
		pgIdent(tmp), identList(table.Columns), pgIdent(table.Name),
	)
	if _, err := conn.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("postgres: create staging: %w", err)
	}
	defer func() { _, _ = conn.Exec(ctx, "DROP TABLE IF EXISTS "+pgIdent(tmp)) }()

	if _, err := conn.Exec(ctx, fmt.Sprintf(
		"ALTER TABLE %s ADD COLUMN __seq integer", pgIdent(tmp),
	)); err != nil {
		return 0, fmt.Errorf("postgres: alter staging: %w", err)
	}

	copyCols := append(append([]string{}, table.Columns...), "__seq")
	copyRows := make([][]any, len(rows))
	for i, row := range rows {
		if len(row) != len(table.Columns) {
			return 0, fmt.Errorf("postgres: %s row %d has %d values, want %d",
				table.Name, i, len(row), len(table.Columns))
		}
		copyRows[i] = append(append(make([]any, 0, len(row)+1), row...), i)
	}

	if _, err := conn.CopyFrom(ctx, pgx.Identifier{tmp}, copyCols, pgx.CopyFromRows(copyRows)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return 0, fmt.Errorf("postgres: copy into staging: %s (%s)", pgErr.Detail, pgErr.SQLState())
		}
		return 0, fmt.Errorf("postgres: copy into staging: %w", err)
	}

	tag, err := conn.Exec(ctx, upsertSQL(table, tmp))
	if err != nil {
		return 0, fmt.Errorf("postgres: upsert %s: %w", table.Name, err)
	}
	return tag.RowsAffected(), nil
}

// LookupSongArtist implements the natural-key point query.
func (r *Repository) LookupSongArtist(ctx context.Context, title, artist string, duration float64) (string, string, bool, error) {
	var songID, artistID string
	err := r.pool.QueryRow(ctx, lookupSQL, title, artist, duration).Scan(&songID, &artistID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("postgres: lookup song/artist: %w", err)
	}
	return songID, artistID, true, nil
}

// Exec implements storage.Repository.Exec.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}
