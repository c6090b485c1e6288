// Package ddl defines a small, backend-agnostic model for table definitions
// and renders CREATE TABLE statements for it through a Dialect.
//
// Only creation is supported. Existing tables are never altered; each
// dialect guards creation with its own "if not exists" form.
package ddl

import (
	"context"
	"fmt"
	"strings"
)

// Dialect captures the per-backend differences in DDL rendering. A zero
// Dialect emits names and types verbatim and a plain CREATE TABLE.
type Dialect struct {
	Name string

	// QuoteIdent quotes one identifier segment.
	QuoteIdent func(string) string
	// QuoteTable quotes a dotted table name. Defaults to quoting each
	// non-empty segment with QuoteIdent and joining with '.'.
	QuoteTable func(string) string
	// MapType maps a logical type to a SQL type.
	MapType func(string) string
	// CreateTable wraps the quoted table name and the column body into the
	// final statement.
	CreateTable func(table, body string) string
	// CreateSchema returns a statement that creates schema when missing, or
	// "" when the dialect has nothing to do.
	CreateSchema func(schema string) string
}

func (d Dialect) quoteIdent(s string) string {
	if d.QuoteIdent == nil {
		return s
	}
	return d.QuoteIdent(s)
}

// QuoteFQN quotes a dotted name using the dialect's rules.
func (d Dialect) QuoteFQN(fqn string) string {
	if d.QuoteTable != nil {
		return d.QuoteTable(fqn)
	}
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.quoteIdent(p))
	}
	return strings.Join(out, ".")
}

// BuildCreateTableSQL renders a deterministic CREATE TABLE statement.
//
// Rules:
//   - t.FQN must be non-empty.
//   - Each column needs a Name and either SQLType or a Type the dialect maps.
//   - Primary-key columns are always NOT NULL.
//   - PRIMARY KEY is a trailing constraint clause in column order.
func BuildCreateTableSQL(d Dialect, t TableDef) (string, error) {
	prefix := "ddl"
	if d.Name != "" {
		prefix = d.Name + " ddl"
	}

	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s: table FQN must not be empty", prefix)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", prefix)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", prefix, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" && c.Type != "" && d.MapType != nil {
			typ = d.MapType(c.Type)
		}
		if typ == "" {
			return "", fmt.Errorf("%s: column %s missing SQLType", prefix, name)
		}

		var sb strings.Builder
		sb.WriteString(d.quoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable || c.PrimaryKey {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.quoteIdent(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	table := d.QuoteFQN(fqn)
	body := strings.Join(cols, ",\n  ")
	if d.CreateTable != nil {
		return d.CreateTable(table, body), nil
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", table, body), nil
}

// Execer runs one statement.
type Execer interface {
	Exec(ctx context.Context, sql string) error
}

// EnsureTables creates each schema referenced by defs (when the dialect
// supports it) and then each table, in order.
func EnsureTables(ctx context.Context, d Dialect, ex Execer, defs ...TableDef) error {
	seen := map[string]bool{}
	for _, t := range defs {
		schema, _, ok := strings.Cut(strings.TrimSpace(t.FQN), ".")
		if !ok || d.CreateSchema == nil || seen[schema] {
			continue
		}
		seen[schema] = true
		if stmt := d.CreateSchema(schema); stmt != "" {
			if err := ex.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("create schema %s: %w", schema, err)
			}
		}
	}
	for _, t := range defs {
		stmt, err := BuildCreateTableSQL(d, t)
		if err != nil {
			return err
		}
		if err := ex.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w", t.FQN, err)
		}
	}
	return nil
}
