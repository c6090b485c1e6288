// Package parser opens a local data file as a tabular.BatchReader, picking
// the decoder from the file extension.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/parser/csv"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/parser/parquet"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/tabular"
)

// Format identifies a supported on-disk layout.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

// Detect maps a path to its Format by extension (case-insensitive).
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return FormatParquet, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("parser: unsupported file type %q", filepath.Base(path))
	}
}

// Open returns a batch reader over path yielding at most batchSize rows per
// batch. The caller must Close it.
func Open(ctx context.Context, path string, batchSize int) (tabular.BatchReader, error) {
	f, err := Detect(path)
	if err != nil {
		return nil, err
	}
	if f == FormatParquet {
		r, err := parquet.Open(ctx, path, batchSize)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	r, err := csv.Open(ctx, path, csv.Options{BatchSize: batchSize})
	if err != nil {
		return nil, err
	}
	return r, nil
}
