// Package csv reads delimited text files into tabular batches.
//
// The reader streams: it keeps one csv.Reader open over the file and emits at
// most BatchSize rows per Next call, so peak memory is bounded by the batch
// size rather than the file size. A leading byte-order mark is removed by a
// golang.org/x/text decoder before the header is parsed.
//
// Cells are returned as strings. Empty cells (after optional trimming) become
// nil so that downstream coercion treats them as NULL.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/datasource/file"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/tabular"
)

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 10000

// Options tunes the CSV reader. The zero value reads comma-separated files
// with a header row, trimming edge whitespace.
type Options struct {
	BatchSize  int
	Comma      rune
	LazyQuotes bool
	// KeepSpace disables trimming of leading/trailing whitespace in cells.
	KeepSpace bool
}

// Reader is a tabular.BatchReader over a CSV stream.
type Reader struct {
	src     io.Closer
	cr      *csv.Reader
	opt     Options
	header  []string
	line    int
	done    bool
	started bool
}

var _ tabular.BatchReader = (*Reader)(nil)

// Open opens the file at path for batched reading.
func Open(ctx context.Context, path string, opt Options) (*Reader, error) {
	f, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return NewReader(f, opt), nil
}

// NewReader wraps src. The reader takes ownership of src and closes it on
// Close.
func NewReader(src io.ReadCloser, opt Options) *Reader {
	if opt.BatchSize <= 0 {
		opt.BatchSize = DefaultBatchSize
	}
	if opt.Comma == 0 {
		opt.Comma = ','
	}

	// BOMOverride strips a UTF-8 BOM (and honors a UTF-16 one) before the
	// header reaches encoding/csv.
	dec := transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(dec)
	cr.Comma = opt.Comma
	cr.LazyQuotes = opt.LazyQuotes
	cr.ReuseRecord = true
	// FieldsPerRecord stays 0: every record must match the header width,
	// anything else is a structural error.

	return &Reader{src: src, cr: cr, opt: opt}
}

// Header returns the parsed header. It is nil until the first Next call.
func (r *Reader) Header() []string { return r.header }

// Next implements tabular.BatchReader.
func (r *Reader) Next(ctx context.Context) (tabular.Batch, error) {
	if r.done {
		return tabular.Batch{}, io.EOF
	}
	if !r.started {
		r.started = true
		if err := r.readHeader(); err != nil {
			r.done = true
			return tabular.Batch{}, err
		}
	}

	rows := make([][]any, 0, r.opt.BatchSize)
	for len(rows) < r.opt.BatchSize {
		if err := ctx.Err(); err != nil {
			return tabular.Batch{}, err
		}

		rec, err := r.cr.Read()
		r.line++
		if errors.Is(err, io.EOF) {
			r.done = true
			break
		}
		if err != nil {
			r.done = true
			return tabular.Batch{}, fmt.Errorf("csv: line %d: %w", r.line, err)
		}

		row := make([]any, len(rec))
		for i, v := range rec {
			if !r.opt.KeepSpace && hasEdgeSpace(v) {
				v = strings.TrimSpace(v)
			}
			if v == "" {
				continue // nil
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return tabular.Batch{}, io.EOF
	}
	return tabular.Batch{Columns: r.header, Rows: rows}, nil
}

// Close implements tabular.BatchReader.
func (r *Reader) Close() error {
	r.done = true
	return r.src.Close()
}

func (r *Reader) readHeader() error {
	hdr, err := r.cr.Read()
	r.line++
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("csv: read header: %w", err)
	}

	// ReuseRecord means hdr is overwritten by the next Read.
	r.header = make([]string, len(hdr))
	for i, h := range hdr {
		r.header[i] = strings.TrimSpace(h)
	}
	return nil
}

// hasEdgeSpace reports whether s starts or ends with an ASCII space or tab.
// It avoids the allocation of strings.TrimSpace on the common clean path.
func hasEdgeSpace(s string) bool {
	if s == "" {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return first == ' ' || first == '\t' || last == ' ' || last == '\t' || last == '\r'
}
