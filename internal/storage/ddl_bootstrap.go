package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"
)

// DDLBootstrapper renders backend-specific CREATE statements for defs and
// applies them through repo.Exec. Implementations must be idempotent.
type DDLBootstrapper func(ctx context.Context, repo Repository, defs ...ddl.TableDef) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the bootstrapper for kind. Backends call
// it from init next to Register.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTables creates the given tables on the backend registered for kind
// when they do not exist yet. Existing tables are never altered.
func EnsureTables(ctx context.Context, kind string, repo Repository, defs ...ddl.TableDef) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, defs...)
}
