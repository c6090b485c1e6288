// Package storage contains the storage-agnostic contracts used by the
// loaders, plus a small registry that maps a storage kind ("postgres",
// "mssql", "mysql", "sqlite") to a backend constructor.
//
// Backends register themselves from init; binaries pull them in with a blank
// import of storage/all and stay backend-agnostic afterwards.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Repository is the set of write primitives the trip and zone loaders need.
// Each mutating call is one committed unit of work: it either fully applies
// or leaves the table unchanged.
type Repository interface {
	// Ping runs the trivial liveness query (SELECT 1).
	Ping(ctx context.Context) error

	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// DeleteRange removes every row of table whose column value lies in the
	// half-open interval [start, end) and reports the number removed.
	DeleteRange(ctx context.Context, table, column string, start, end time.Time) (int64, error)

	// CopyFrom appends rows (aligned to columns) to table using the
	// backend's bulk path.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// ReplaceAll empties table and appends rows in the same transaction.
	ReplaceAll(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	Close()
}

// Config selects and parameterizes a backend.
type Config struct {
	Kind string // registry key, e.g. "postgres"
	DSN  string // driver-specific connection string
}

// Factory constructs a Repository for cfg. It should not block on the
// network: readiness is probed separately via Ping.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register adds (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted. The slice is a copy.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
