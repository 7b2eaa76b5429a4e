// Package storage contains the storage-agnostic contracts of the warehouse:
// the Repository interface every backend implements, the backend factory
// registry, the DDL registry, and a small batching helper.
//
// Backend packages (postgres, sqlite, mysql) register themselves at init
// time; importing sparkify/internal/storage/all for side effects makes every
// built-in backend available to storage.New.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sparkify/internal/schema"
)

// Repository is the persistence surface the pipeline depends on.
type Repository interface {
	// BulkUpsert persists one batch of rows into table, honoring the
	// table's conflict policy (ignore, update, or plain insert). Rows are
	// positional and must align with table.Columns. It returns the number
	// of rows the store reports as written.
	BulkUpsert(ctx context.Context, table schema.Table, rows [][]any) (int64, error)

	// LookupSongArtist resolves the natural key (title, artist name,
	// duration) against the already-loaded songs and artists dimensions.
	// found is false when no row matches; that is not an error.
	LookupSongArtist(ctx context.Context, title, artist string, duration float64) (songID, artistID string, found bool, err error)

	// Exec runs an arbitrary SQL statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connection resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Kind names a registered backend: "postgres", "sqlite", "mysql".
	Kind string

	// DSN is the backend-specific connection string.
	DSN string
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. It is
// called from backend packages' init functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New constructs the Repository selected by cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind=%q (known: %v)", cfg.Kind, Kinds())
	}
	return fn(ctx, cfg)
}

// Kinds returns the registered backend kinds, sorted.
func Kinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
