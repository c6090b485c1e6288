// Package sqlite implements storage.Repository on modernc.org/sqlite via
// database/sql. SQLite has no bulk-load API, so appends are prepared INSERTs
// inside one transaction per call.
//
// Timestamps are stored as fixed-width UTC text ("2006-01-02 15:04:05.000000"),
// which keeps lexical and chronological order identical so range deletes work
// on TEXT columns.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// TimeLayout is the on-disk timestamp format.
const TimeLayout = "2006-01-02 15:04:05.000000"

// Config holds SQLite repository configuration.
type Config struct {
	// DSN is a file path or URI, e.g. "taxi.db", "file:taxi.db?_pragma=busy_timeout(5000)"
	// or ":memory:".
	DSN string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the database. The pool is pinned to one connection:
// SQLite serializes writers anyway and ":memory:" databases are
// per-connection.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, func() { _ = db.Close() }, nil
}

// Ping runs SELECT 1.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// Exec executes one statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// DeleteRange deletes rows with start <= column < end and commits.
func (r *Repository) DeleteRange(ctx context.Context, table, column string, start, end time.Time) (int64, error) {
	var n int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, deleteRangeSQL(table, column), FormatTime(start), FormatTime(end))
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete range: %w", err)
	}
	return n, nil
}

// CopyFrom inserts rows in one transaction.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	var n int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		n, err = insertRows(ctx, tx, table, columns, rows)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("sqlite: copy: %w", err)
	}
	return n, nil
}

// ReplaceAll deletes every row of table and inserts rows in one
// transaction. SQLite has no TRUNCATE; an unqualified DELETE uses the same
// fast path.
func (r *Repository) ReplaceAll(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	var n int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+sqlTable(table)); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		var err error
		n, err = insertRows(ctx, tx, table, columns, rows)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("sqlite: replace %s: %w", table, err)
	}
	return n, nil
}

// Count returns the number of rows in table.
func (r *Repository) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+sqlTable(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count: %w", err)
	}
	return n, nil
}

func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) (int64, error) {
	stmt, err := tx.PrepareContext(ctx, insertSQL(table, columns))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	var inserted int64
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("row %d: length %d != columns length %d", i, len(row), len(columns))
		}
		for j, v := range row {
			args[j] = bindValue(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
		inserted++
	}
	return inserted, nil
}

func insertSQL(table string, columns []string) string {
	cols := make([]string, len(columns))
	ph := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = sqlIdent(c)
		ph[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sqlTable(table), strings.Join(cols, ", "), strings.Join(ph, ", "))
}

func deleteRangeSQL(table, column string) string {
	c := sqlIdent(column)
	return fmt.Sprintf("DELETE FROM %s WHERE %s >= ? AND %s < ?", sqlTable(table), c, c)
}

// FormatTime renders t in the on-disk layout.
func FormatTime(t time.Time) string { return t.UTC().Format(TimeLayout) }

func bindValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return FormatTime(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return FormatTime(*t)
	default:
		return v
	}
}

func sqlIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// sqlTable quotes a dotted name as a single identifier. SQLite would read
// "nyc"."taxi_trips" as table taxi_trips in an attached database named nyc.
func sqlTable(fqn string) string { return sqlIdent(strings.TrimSpace(fqn)) }
