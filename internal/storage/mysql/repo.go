// Package mysql implements storage.Repository for MySQL/MariaDB using
// go-sql-driver/mysql. Appends are chunked multi-row INSERTs inside one
// transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// rowsPerInsert bounds a single multi-row INSERT so the statement stays well
// under max_allowed_packet and the 65535 placeholder limit.
const rowsPerInsert = 500

// Config holds MySQL repository configuration.
type Config struct {
	DSN string // user:pass@tcp(host:3306)/taxi
}

// Repository is a MySQL-backed storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository parses the DSN, forces UTC time handling and opens a lazy
// pool.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	return &Repository{db: db}, func() { _ = db.Close() }, nil
}

// Ping runs SELECT 1.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("mysql: ping: %w", err)
	}
	return nil
}

// Exec runs a single statement.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// DeleteRange deletes rows with start <= column < end and commits.
func (r *Repository) DeleteRange(ctx context.Context, table, column string, start, end time.Time) (int64, error) {
	var n int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, deleteRangeSQL(table, column), start.UTC(), end.UTC())
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("mysql: delete range: %w", err)
	}
	return n, nil
}

// CopyFrom inserts rows in one transaction.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	var n int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		n, err = insertChunks(ctx, tx, table, columns, rows)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("mysql: copy: %w", err)
	}
	return n, nil
}

// ReplaceAll clears table and inserts rows in one transaction. TRUNCATE would
// commit implicitly in MySQL, so DELETE is used instead.
func (r *Repository) ReplaceAll(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	var n int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+myFQN(table)); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		var err error
		n, err = insertChunks(ctx, tx, table, columns, rows)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("mysql: replace %s: %w", table, err)
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

func insertChunks(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) (int64, error) {
	var total int64
	for lo := 0; lo < len(rows); lo += rowsPerInsert {
		hi := min(lo+rowsPerInsert, len(rows))
		chunk := rows[lo:hi]

		args := make([]any, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			if len(row) != len(columns) {
				return total, fmt.Errorf("row %d: length %d != columns length %d", lo+i, len(row), len(columns))
			}
			args = append(args, row...)
		}
		res, err := tx.ExecContext(ctx, insertSQL(table, columns, len(chunk)), args...)
		if err != nil {
			return total, fmt.Errorf("insert rows %d-%d: %w", lo, hi-1, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func insertSQL(table string, columns []string, nrows int) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = myIdent(c)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	tuples := make([]string, nrows)
	for i := range tuples {
		tuples[i] = tuple
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		myFQN(table), strings.Join(cols, ", "), strings.Join(tuples, ", "))
}

func deleteRangeSQL(table, column string) string {
	c := myIdent(column)
	return fmt.Sprintf("DELETE FROM %s WHERE %s >= ? AND %s < ?", myFQN(table), c, c)
}

func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

func myFQN(name string) string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, myIdent(p))
		}
	}
	return strings.Join(out, ".")
}
