package parser

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	cases := map[string]Format{
		"green_tripdata_2025-11.parquet": FormatParquet,
		"/data/TRIPS.PARQUET":            FormatParquet,
		"taxi_zone_lookup.csv":           FormatCSV,
		"zones.txt":                      FormatCSV,
	}
	for path, want := range cases {
		got, err := Detect(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := Detect("trips.json")
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestOpen_CSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "taxi_zone_lookup.csv")
	require.NoError(t, os.WriteFile(path, []byte("LocationID,Zone\n1,A\n2,B\n3,C\n"), 0o644))

	r, err := Open(context.Background(), path, 2)
	require.NoError(t, err)
	defer r.Close()

	b, err := r.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())
	b, err = r.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())
	_, err = r.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpen_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "trips.xml", 10)
	assert.Error(t, err)
}
