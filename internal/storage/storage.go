// Package storage contains the storage-agnostic warehouse contract and the
// backend factory. The loader depends only on the Warehouse interface; the
// concrete backends (sqlite, postgres, mssql) live in subpackages and
// register themselves at init time, wired in via the storage/all package.
//
// The contract models a single transactional session: Begin opens a unit of
// work, every Reset/Insert call runs inside it, and Commit is a durability
// checkpoint. A run performs exactly two checkpoints (one after the reset,
// one after the full load loop), so a crash mid-load is recovered by
// re-running the whole pipeline, not by resuming.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"flightdw/internal/schema"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the backend: "sqlite", "postgres", or "mssql".
	Kind string

	// DSN is the backend-specific connection string.
	DSN string

	// AutoCreateTables makes the backend apply the warehouse DDL on open.
	AutoCreateTables bool
}

// Warehouse is the store contract consumed by the loader and report runner.
//
// Insert methods returning an int64 yield the store-generated surrogate key.
// InsertDate returns no key: the date dimension is keyed by the computed
// YYYYMMDD integer the caller already has.
type Warehouse interface {
	// Begin opens a unit of work. All subsequent statements run inside it
	// until Commit.
	Begin(ctx context.Context) error

	// Commit durably persists everything since the last checkpoint.
	Commit(ctx context.Context) error

	// Reset deletes all warehouse rows (fact table first, to satisfy
	// referential constraints) and restarts every surrogate-key generator
	// from one.
	Reset(ctx context.Context) error

	InsertAirline(ctx context.Context, code string, name any) (int64, error)
	InsertPassenger(ctx context.Context, p schema.Passenger) (int64, error)
	InsertAirport(ctx context.Context, code string) (int64, error)
	InsertDate(ctx context.Context, d schema.DateRow) error
	InsertFlight(ctx context.Context, f schema.Flight) error

	// Query executes a read statement and returns column names plus rows,
	// for the report runner.
	Query(ctx context.Context, query string) ([]string, [][]any, error)

	Close() error
}

// Factory constructs a Warehouse for a given Config.
type Factory func(ctx context.Context, cfg Config) (Warehouse, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a storage kind. It is
// called from backend packages' init functions.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// New opens a Warehouse of the configured kind.
func New(ctx context.Context, cfg Config) (Warehouse, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return fn(ctx, cfg)
}

// Kinds lists the registered backend kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
