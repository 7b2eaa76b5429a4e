package storage

import (
	"context"
	"fmt"
	"sync"
)

// Statements holds one backend dialect's DDL for the full star schema.
// Create and Drop are ordered statement lists applied first to last.
type Statements struct {
	Create []string
	Drop   []string
}

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]Statements{}
)

// RegisterDDL registers (or replaces) the DDL dialect for a backend kind.
// Called from backend packages' init functions alongside Register.
func RegisterDDL(kind string, s Statements) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = s
}

func ddlFor(kind string) (Statements, error) {
	ddlMu.RLock()
	s, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return Statements{}, fmt.Errorf("storage: no DDL registered for kind=%q", kind)
	}
	return s, nil
}

// EnsureSchema creates the warehouse tables for kind via repo. Statements use
// IF NOT EXISTS semantics, so ensuring an existing schema is a no-op.
func EnsureSchema(ctx context.Context, kind string, repo Repository) error {
	s, err := ddlFor(kind)
	if err != nil {
		return err
	}
	for _, stmt := range s.Create {
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// DropSchema drops the warehouse tables for kind via repo. A full
// drop-then-ensure reset is the supported way to make a re-run idempotent.
func DropSchema(ctx context.Context, kind string, repo Repository) error {
	s, err := ddlFor(kind)
	if err != nil {
		return err
	}
	for _, stmt := range s.Drop {
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	return nil
}
