package mssql

import (
	"context"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage"
)

// Kind is the registry key for this backend.
const Kind = "mssql"

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

func (w *wrappedRepo) Close() {
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
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL(Kind, func(ctx context.Context, repo storage.Repository, defs ...ddl.TableDef) error {
		return ddl.EnsureTables(ctx, Dialect, repo, defs...)
	})
}
