package sqlite

import (
	"context"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage"
)

// Kind is the registry key for this backend.
const Kind = "sqlite"

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// WrappedRepo adapts *Repository to storage.Repository. It is exported so
// callers holding a storage.Repository can reach Count in tests.
type WrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*WrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *WrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &WrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL(Kind, func(ctx context.Context, repo storage.Repository, defs ...ddl.TableDef) error {
		return ddl.EnsureTables(ctx, Dialect, repo, defs...)
	})
}
