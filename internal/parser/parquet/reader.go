// Package parquet streams Parquet files as tabular batches using the Arrow
// Go implementation.
//
// Row groups are decoded through pqarrow's record reader with a fixed batch
// size, and every Arrow record is converted into plain Go scalars before the
// next one is requested, because pqarrow releases the previous record on Read.
package parquet

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/tabular"
)

// DefaultBatchSize matches the historical INGEST_CHUNK_SIZE default.
const DefaultBatchSize = 10000

// Reader is a tabular.BatchReader over one Parquet file.
type Reader struct {
	pf      *file.Reader
	rr      pqarrow.RecordReader
	columns []string
	done    bool
}

var _ tabular.BatchReader = (*Reader)(nil)

// Open opens path and prepares a record reader yielding at most batchSize
// rows per batch.
func Open(ctx context.Context, path string, batchSize int) (*Reader, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("parquet: open %s: %w", path, err)
	}

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: int64(batchSize)}, memory.DefaultAllocator)
	if err != nil {
		pf.Close()
		return nil, fmt.Errorf("parquet: arrow reader %s: %w", path, err)
	}

	rr, err := fr.GetRecordReader(ctx, nil, nil)
	if err != nil {
		pf.Close()
		return nil, fmt.Errorf("parquet: record reader %s: %w", path, err)
	}

	schema := rr.Schema()
	cols := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		cols[i] = f.Name
	}

	return &Reader{pf: pf, rr: rr, columns: cols}, nil
}

// Columns returns the file schema's column names in order.
func (r *Reader) Columns() []string { return r.columns }

// Next implements tabular.BatchReader.
func (r *Reader) Next(ctx context.Context) (tabular.Batch, error) {
	if r.done {
		return tabular.Batch{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return tabular.Batch{}, err
	}

	for {
		rec, err := r.rr.Read()
		if errors.Is(err, io.EOF) {
			r.done = true
			return tabular.Batch{}, io.EOF
		}
		if err != nil {
			r.done = true
			return tabular.Batch{}, fmt.Errorf("parquet: read: %w", err)
		}
		if rec == nil || rec.NumRows() == 0 {
			continue
		}
		return tabular.Batch{Columns: r.columns, Rows: recordRows(rec)}, nil
	}
}

// Close implements tabular.BatchReader.
func (r *Reader) Close() error {
	r.done = true
	if r.rr != nil {
		r.rr.Release()
		r.rr = nil
	}
	if r.pf != nil {
		err := r.pf.Close()
		r.pf = nil
		return err
	}
	return nil
}

// recordRows transposes a columnar record into row-major variant scalars.
func recordRows(rec arrow.Record) [][]any {
	n := int(rec.NumRows())
	rows := make([][]any, n)
	width := int(rec.NumCols())
	for i := range rows {
		rows[i] = make([]any, width)
	}
	for j := 0; j < width; j++ {
		col := rec.Column(j)
		for i := 0; i < n; i++ {
			rows[i][j] = Value(col, i)
		}
	}
	return rows
}

// Value returns element i of arr as a Go scalar: int64, uint64, float64,
// string, bool, time.Time or nil. Unsupported types yield nil.
func Value(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return uint64(a.Value(i))
	case *array.Uint16:
		return uint64(a.Value(i))
	case *array.Uint32:
		return uint64(a.Value(i))
	case *array.Uint64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Decimal128:
		dt := a.DataType().(*arrow.Decimal128Type)
		return a.Value(i).ToFloat64(dt.Scale)
	case *array.Boolean:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return string(a.Value(i))
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit)
	case *array.Date32:
		return a.Value(i).ToTime()
	case *array.Date64:
		return a.Value(i).ToTime()
	case *array.Dictionary:
		return Value(a.Dictionary(), a.GetValueIndex(i))
	default:
		return nil
	}
}
