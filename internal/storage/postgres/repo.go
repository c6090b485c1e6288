// Package postgres implements storage.Repository on pgx v5. Appends use the
// COPY protocol; the window delete and the truncate-and-reload each run in
// their own transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pool and returns a Close function for cleanup.
// pgxpool connects lazily, so an unreachable server surfaces on Ping, not
// here.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool}, pool.Close, nil
}

// Ping runs SELECT 1.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	if err := r.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// Exec runs a single statement.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("postgres: exec: %w", describe(err))
	}
	return nil
}

// DeleteRange deletes rows with start <= column < end and commits.
func (r *Repository) DeleteRange(ctx context.Context, table, column string, start, end time.Time) (int64, error) {
	var n int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteRangeSQL(table, column), start, end)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("postgres: delete range: %w", describe(err))
	}
	return n, nil
}

// CopyFrom appends rows with COPY. The COPY is atomic on its own.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, splitFQN(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("postgres: copy: %w", describe(err))
	}
	return n, nil
}

// ReplaceAll truncates table and COPYs rows in one transaction.
func (r *Repository) ReplaceAll(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	var n int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+pgFQN(table)); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		var err error
		n, err = tx.CopyFrom(ctx, splitFQN(table), columns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("postgres: replace %s: %w", table, describe(err))
	}
	return n, nil
}

func deleteRangeSQL(table, column string) string {
	c := pgIdent(column)
	return fmt.Sprintf("DELETE FROM %s WHERE %s >= $1 AND %s < $2", pgFQN(table), c, c)
}

// describe surfaces the server's detail text, which pgx leaves out of
// Error() and which usually names the offending column or value.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (detail: %s, sqlstate %s)", err, pgErr.Detail, pgErr.SQLState())
	}
	return err
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "nyc.taxi_trips" to
// "nyc"."taxi_trips".
func pgFQN(name string) string {
	id := splitFQN(name)
	parts := make([]string, len(id))
	for i, p := range id {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			id = append(id, p)
		}
	}
	return id
}
