// Package zones loads the taxi zone lookup table. The table is small and is
// replaced wholesale on every run.
package zones

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/text/cases"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/schema"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/tabular"
)

// ErrBadKey reports a zone row whose LocationID is missing or not an integer.
var ErrBadKey = errors.New("zones: invalid location id")

// Record is one zone row.
type Record struct {
	LocationID  int64
	Borough     *string
	Zone        *string
	ServiceZone *string
}

// Values returns the record in schema.ZoneColumns order.
func (r Record) Values() []any {
	return []any{r.LocationID, str(r.Borough), str(r.Zone), str(r.ServiceZone)}
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// Store is the subset of storage.Repository the zone loader needs.
type Store interface {
	ReplaceAll(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

// Loader replaces the zone table from a lookup file.
type Loader struct {
	Store Store
	Table string
}

// NewLoader returns a loader writing to table (schema.DefaultZonesTable when
// empty).
func NewLoader(store Store, table string) *Loader {
	if table == "" {
		table = schema.DefaultZonesTable
	}
	return &Loader{Store: store, Table: table}
}

// Load reads src to the end and replaces the table with its rows in one
// transaction. It returns the number of rows written. src is not closed.
func (l *Loader) Load(ctx context.Context, src tabular.BatchReader) (int64, error) {
	recs, err := Read(ctx, src)
	if err != nil {
		return 0, err
	}
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = r.Values()
	}
	n, err := l.Store.ReplaceAll(ctx, l.Table, schema.ZoneColumns(), rows)
	if err != nil {
		return 0, fmt.Errorf("zones: replace %s: %w", l.Table, err)
	}
	log.Printf("Loaded %d zone rows", n)
	return n, nil
}

// Read converts every batch of src into zone records. Source columns are
// matched case-insensitively; unknown columns are ignored.
func Read(ctx context.Context, src tabular.BatchReader) ([]Record, error) {
	fold := cases.Fold()
	var out []Record
	line := 0
	for {
		b, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("zones: read: %w", err)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("zones: %w", err)
		}

		idx := map[string]int{}
		for i, c := range b.Columns {
			k := fold.String(strings.TrimSpace(c))
			if _, dup := idx[k]; !dup {
				idx[k] = i
			}
		}
		keyCol, ok := idx[fold.String("LocationID")]
		if !ok && len(b.Rows) > 0 {
			return nil, fmt.Errorf("%w: no LocationID column in %v", ErrBadKey, b.Columns)
		}
		get := func(row []any, name string) *string {
			i, ok := idx[fold.String(name)]
			if !ok {
				return nil
			}
			return text(row[i])
		}

		for _, row := range b.Rows {
			line++
			id, ok := locationID(row[keyCol])
			if !ok {
				return nil, fmt.Errorf("%w: row %d: %v", ErrBadKey, line, row[keyCol])
			}
			out = append(out, Record{
				LocationID:  id,
				Borough:     get(row, "Borough"),
				Zone:        get(row, "Zone"),
				ServiceZone: get(row, "service_zone"),
			})
		}
	}
}
