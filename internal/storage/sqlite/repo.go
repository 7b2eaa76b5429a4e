// Package sqlite implements the warehouse repository on SQLite via
// database/sql and the modernc.org driver. SQLite has no COPY equivalent, so
// batches run as prepared per-row upserts inside a single transaction, which
// keeps moderate volumes fast enough for local and development runs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // alternative: github.com/mattn/go-sqlite3

	"sparkify/internal/model"
	"sparkify/internal/schema"
	"sparkify/internal/storage"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN)
	})
	storage.RegisterDDL("sqlite", storage.Statements{Create: createStatements, Drop: dropStatements})
}

const lookupSQL = `
	SELECT songs.song_id, artists.artist_id
	FROM songs
	JOIN artists ON songs.artist_id = artists.artist_id
	WHERE songs.title = ?
	  AND artists.name = ?
	  AND songs.duration = ?
`

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a SQLite database. The DSN is passed straight to
// database/sql, e.g. "file:sparkify.db?cache=shared" or a bare path.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Repository{db: db}, nil
}

// BulkUpsert writes rows through a prepared statement inside one transaction.
// Rows run in input order, so for update-on-conflict tables the batch's last
// occurrence of a key naturally wins.
func (r *Repository) BulkUpsert(ctx context.Context, table schema.Table, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL(table))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare upsert %s: %w", table.Name, err)
	}
	defer stmt.Close()

	var written int64
	for i, row := range rows {
		if len(row) != len(table.Columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: %s row %d has %d values, want %d",
				table.Name, i, len(row), len(table.Columns))
		}
		res, err := stmt.ExecContext(ctx, bindRow(row)...)
		if err != nil {
			_ = tx.Rollback()
			return written, fmt.Errorf("sqlite: upsert %s: %w", table.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			written += n
		}
	}

	if err := tx.Commit(); err != nil {
		return written, fmt.Errorf("sqlite: commit: %w", err)
	}
	return written, nil
}

// LookupSongArtist implements the natural-key point query.
func (r *Repository) LookupSongArtist(ctx context.Context, title, artist string, duration float64) (string, string, bool, error) {
	var songID, artistID string
	err := r.db.QueryRowContext(ctx, lookupSQL, title, artist, duration).Scan(&songID, &artistID)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("sqlite: lookup song/artist: %w", err)
	}
	return songID, artistID, true, nil
}

// Exec implements storage.Repository.Exec.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (r *Repository) Close() error { return r.db.Close() }

// bindRow converts row values into driver-friendly bindings. Timestamps are
// rendered as text so start_time stays byte-comparable as a primary key.
func bindRow(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if t, ok := v.(time.Time); ok {
			out[i] = t.Format(model.TimestampLayout)
			continue
		}
		out[i] = v
	}
	return out
}
