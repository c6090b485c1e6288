// Package probe samples a trip file and reports how its columns would be
// mapped onto the canonical trip schema, without touching a database.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/parser"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/schema"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/trips"
)

// DefaultSampleRows is used when Trips is given a non-positive sample size.
const DefaultSampleRows = 1000

// Column describes one source column.
type Column struct {
	Name      string
	Canonical string // "" when no canonical field reads this column
	Type      string // boolean, integer, real, date, timestamp or text
	NonNull   int
}

// Report is the result of probing one file.
type Report struct {
	Path    string
	Format  parser.Format
	Sampled int
	Columns []Column
	// Missing lists canonical fields with no source column; they load as NULL.
	Missing []string
	// Window is the replacement window derived from the file name, zero when
	// the name carries no period (WindowErr is then set).
	Window    trips.Window
	WindowErr error
}

// Unmapped returns the source columns no canonical field reads.
func (r Report) Unmapped() []string {
	var out []string
	for _, c := range r.Columns {
		if c.Canonical == "" {
			out = append(out, c.Name)
		}
	}
	return out
}

// Trips reads up to sampleRows rows from path and builds a Report.
func Trips(ctx context.Context, path string, sampleRows int) (Report, error) {
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}
	format, err := parser.Detect(path)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Path: path, Format: format}
	rep.Window, rep.WindowErr = trips.WindowFromFilename(path)

	rd, err := parser.Open(ctx, path, sampleRows)
	if err != nil {
		return Report{}, err
	}
	defer rd.Close()

	b, err := rd.Next(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return Report{}, fmt.Errorf("probe: read %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return Report{}, fmt.Errorf("probe: %s: %w", path, err)
	}
	rep.Sampled = b.Len()

	resolved := trips.NewMapper().Resolve(b.Columns)
	bySource := make(map[string]string, len(resolved))
	for canonical, src := range resolved {
		if src == "" {
			continue
		}
		bySource[src] = canonical
	}
	for _, c := range schema.TripColumns() {
		if resolved[c] == "" {
			rep.Missing = append(rep.Missing, c)
		}
	}

	rep.Columns = make([]Column, len(b.Columns))
	for j, name := range b.Columns {
		vals := make([]any, 0, len(b.Rows))
		for _, row := range b.Rows {
			vals = append(vals, row[j])
		}
		col := Column{Name: name, Canonical: bySource[name], Type: inferType(vals)}
		for _, v := range vals {
			if !isNull(v) {
				col.NonNull++
			}
		}
		rep.Columns[j] = col
	}
	sort.Strings(rep.Missing)
	return rep, nil
}

// inferType picks the narrowest type every non-null value satisfies. Typed
// Parquet values decide directly; CSV strings are parsed.
func inferType(vals []any) string {
	seen := map[string]bool{}
	for _, v := range vals {
		if isNull(v) {
			continue
		}
		seen[valueType(v)] = true
	}
	switch {
	case len(seen) == 0:
		return "text"
	case len(seen) == 1:
		for t := range seen {
			return t
		}
	case len(seen) == 2 && seen["integer"] && seen["real"]:
		return "real"
	case len(seen) == 2 && seen["date"] && seen["timestamp"]:
		return "timestamp"
	}
	return "text"
}

func valueType(v any) string {
	switch t := v.(type) {
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case float32, float64:
		return "real"
	case time.Time:
		return "timestamp"
	case string:
		return stringType(t)
	case []byte:
		return stringType(string(t))
	default:
		return "text"
	}
}

func stringType(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case isInt(s):
		return "integer"
	case isFloat(s):
		return "real"
	case isBool(s):
		return "boolean"
	}
	if ok, hasTime := parseDateOrTimestamp(s); ok {
		if hasTime {
			return "timestamp"
		}
		return "date"
	}
	return "text"
}

func isNull(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isFloat accepts decimal or scientific notation; integers are not floats.
func isFloat(s string) bool {
	if isInt(s) {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// isBool accepts textual booleans. 1/0 are already integers by the time
// this runs.
func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "t", "f", "yes", "no", "y", "n":
		return true
	}
	return false
}

var (
	timestampLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"01/02/2006 15:04:05",
		"01/02/2006 03:04:05 PM",
	}
	dateLayouts = []string{
		"2006-01-02",
		"01/02/2006",
	}
)

func parseDateOrTimestamp(s string) (ok, hasTime bool) {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, true
		}
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, false
		}
	}
	return false, false
}
