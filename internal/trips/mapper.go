// Package trips normalizes raw trip batches into the canonical trip schema
// and loads them with a delete-then-append replacement window.
package trips

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/tabular"
)

// ErrMalformedBatch reports a batch that is not tabular. It is fatal for the
// run; per-row problems never produce it.
var ErrMalformedBatch = errors.New("trips: malformed batch")

// MapResult is the outcome of mapping one batch.
type MapResult struct {
	Records []Record
	Scanned int // input rows
	Dropped int // rows without a usable pickup timestamp
}

// Mapper resolves source columns to canonical fields and converts rows. It
// holds only a cache of the last resolved schema, so one Mapper may be reused
// across batches but not shared between goroutines.
type Mapper struct {
	fold cases.Caser

	lastKey string
	plan    []int // plan[i] is the batch column for fields[i], or -1
}

// NewMapper returns a ready Mapper.
func NewMapper() *Mapper {
	return &Mapper{fold: cases.Fold()}
}

// Resolve returns, for every canonical column, the source column chosen for
// the given schema ("" when none of its aliases is present).
func (m *Mapper) Resolve(columns []string) map[string]string {
	plan := m.compile(columns)
	out := make(map[string]string, len(fields))
	for i, f := range fields {
		if plan[i] >= 0 {
			out[f.name] = columns[plan[i]]
		} else {
			out[f.name] = ""
		}
	}
	return out
}

// Map converts b into canonical records. Values that cannot be coerced become
// NULL; rows whose pickup timestamp is NULL are dropped and counted.
func (m *Mapper) Map(b tabular.Batch) (MapResult, error) {
	if err := b.Validate(); err != nil {
		return MapResult{}, fmt.Errorf("%w: %w", ErrMalformedBatch, err)
	}

	res := MapResult{Scanned: len(b.Rows)}
	if len(b.Rows) == 0 {
		return res, nil
	}

	plan := m.plan
	if key := m.schemaKey(b.Columns); key != m.lastKey || plan == nil {
		plan = m.compile(b.Columns)
		m.lastKey, m.plan = key, plan
	}

	res.Records = make([]Record, 0, len(b.Rows))
	for _, row := range b.Rows {
		var rec Record
		for i, f := range fields {
			var raw any
			if plan[i] >= 0 {
				raw = row[plan[i]]
			}
			f.set(&rec, coerce(f.kind, raw))
		}
		if rec.PickupDatetime.IsZero() {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// compile builds the positional plan. The first occurrence of a folded name
// in the schema is the one indexed; the first alias found wins.
func (m *Mapper) compile(columns []string) []int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		k := m.fold.String(strings.TrimSpace(c))
		if _, dup := idx[k]; !dup {
			idx[k] = i
		}
	}

	plan := make([]int, len(fields))
	for i, f := range fields {
		plan[i] = -1
		for _, a := range f.aliases {
			if j, ok := idx[m.fold.String(a)]; ok {
				plan[i] = j
				break
			}
		}
	}
	return plan
}

func (m *Mapper) schemaKey(columns []string) string {
	return strings.Join(columns, "\x00")
}
