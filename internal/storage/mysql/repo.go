// Package mysql implements the warehouse repository on MySQL/MariaDB via
// database/sql and go-sql-driver. MySQL predates the ON CONFLICT clause, so
// the conflict policies map onto INSERT IGNORE and ON DUPLICATE KEY UPDATE.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"sparkify/internal/model"
	"sparkify/internal/schema"
	"sparkify/internal/storage"
)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN)
	})
	storage.RegisterDDL("mysql", storage.Statements{Create: createStatements, Drop: dropStatements})
}

const lookupSQL = `
	SELECT songs.song_id, artists.artist_id
	FROM songs
	JOIN artists ON songs.artist_id = artists.artist_id
	WHERE songs.title = ?
	  AND artists.name = ?
	  AND songs.duration = ?
`

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a MySQL connection, e.g.
// "user:pass@tcp(localhost:3306)/sparkifydb".
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("mysql: DSN must not be empty")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}

	return &Repository{db: db}, nil
}

// BulkUpsert writes rows through a prepared statement inside one transaction,
// in input order (ON DUPLICATE KEY UPDATE then leaves the batch's last value
// for update-on-conflict tables).
//
// Note: MySQL reports 2 affected rows for an UPDATE taken by ON DUPLICATE
// KEY; the returned count therefore tracks rows submitted, not the driver's
// affected-row arithmetic.
func (r *Repository) BulkUpsert(ctx context.Context, table schema.Table, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL(table))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("mysql: prepare upsert %s: %w", table.Name, err)
	}
	defer stmt.Close()

	var written int64
	for i, row := range rows {
		if len(row) != len(table.Columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("mysql: %s row %d has %d values, want %d",
				table.Name, i, len(row), len(table.Columns))
		}
		if _, err := stmt.ExecContext(ctx, bindRow(row)...); err != nil {
			_ = tx.Rollback()
			return written, fmt.Errorf("mysql: upsert %s: %w", table.Name, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return written, fmt.Errorf("mysql: commit: %w", err)
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
		return "", "", false, fmt.Errorf("mysql: lookup song/artist: %w", err)
	}
	return songID, artistID, true, nil
}

// Exec implements storage.Repository.Exec.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (r *Repository) Close() error { return r.db.Close() }

// bindRow renders timestamps as DATETIME(3) literals; everything else binds
// as-is.
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
