package storage

import (
	"context"
	"fmt"

	"sparkify/internal/schema"
)

// UpsertBatches writes rows to table through repo in batches of at most
// batchSize, sequentially and in input order. Input order matters for the
// users table, where the last occurrence of a key must win.
//
// It returns the total written-row count reported by the backend and the
// first error encountered; on error, rows from earlier batches stay written
// (the run is re-runnable from scratch after a schema reset).
func UpsertBatches(ctx context.Context, repo Repository, table schema.Table, rows [][]any, batchSize int) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("storage: batchSize must be > 0")
	}

	var total int64
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := repo.BulkUpsert(ctx, table, rows[start:end])
		total += n
		if err != nil {
			return total, fmt.Errorf("storage: upsert %s batch %d-%d: %w", table.Name, start, end, err)
		}
	}
	return total, nil
}
