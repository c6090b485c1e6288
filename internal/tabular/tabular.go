// Package tabular defines the in-memory shape of raw source data as it moves
// from a file reader into the normalizing loaders.
//
// A Batch is a bounded chunk of rows that share one schema. Values are variant
// scalars exactly as the source format produced them (time.Time, integers,
// floats, strings, bools or nil); no coercion happens here.
//
// Readers follow the arrio.Reader convention: Next returns io.EOF once the
// source is exhausted. A reader is finite and not restartable; opening the
// source again starts from the beginning.
package tabular

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed reports a batch that is not tabular (row width does not match
// the schema width).
var ErrMalformed = errors.New("tabular: malformed batch")

// Batch is a chunk of raw rows. Rows[i][j] is the value of Columns[j] in row i.
type Batch struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows in the batch.
func (b Batch) Len() int { return len(b.Rows) }

// Validate checks that every row is positionally aligned with Columns.
func (b Batch) Validate() error {
	if len(b.Columns) == 0 && len(b.Rows) > 0 {
		return fmt.Errorf("%w: %d rows without a schema", ErrMalformed, len(b.Rows))
	}
	for i, r := range b.Rows {
		if len(r) != len(b.Columns) {
			return fmt.Errorf("%w: row %d has %d values, schema has %d columns",
				ErrMalformed, i, len(r), len(b.Columns))
		}
	}
	return nil
}

// BatchReader yields batches lazily from a source.
type BatchReader interface {
	// Next returns the next batch, or io.EOF when the source is exhausted.
	Next(ctx context.Context) (Batch, error)
	// Close releases the underlying file or stream.
	Close() error
}

// SliceReader serves a fixed list of batches. It is handy for small reference
// data that is already in memory and for tests.
type SliceReader struct {
	batches []Batch
	pos     int
	closed  bool
}

// NewSliceReader returns a reader over the given batches.
func NewSliceReader(batches ...Batch) *SliceReader {
	return &SliceReader{batches: batches}
}

// Next implements BatchReader.
func (s *SliceReader) Next(ctx context.Context) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	if s.closed || s.pos >= len(s.batches) {
		return Batch{}, io.EOF
	}
	b := s.batches[s.pos]
	s.pos++
	return b, nil
}

// Close implements BatchReader.
func (s *SliceReader) Close() error {
	s.closed = true
	return nil
}
