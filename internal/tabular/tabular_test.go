package tabular

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		batch   Batch
		wantErr bool
	}{
		{name: "empty", batch: Batch{}},
		{name: "aligned", batch: Batch{Columns: []string{"a", "b"}, Rows: [][]any{{1, "x"}, {nil, nil}}}},
		{name: "schema only", batch: Batch{Columns: []string{"a"}}},
		{name: "short row", batch: Batch{Columns: []string{"a", "b"}, Rows: [][]any{{1}}}, wantErr: true},
		{name: "rows without schema", batch: Batch{Rows: [][]any{{1}}}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.batch.Validate()
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrMalformed), "want ErrMalformed, got %v", err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSliceReader(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewSliceReader(
		Batch{Columns: []string{"a"}, Rows: [][]any{{1}}},
		Batch{Columns: []string{"a"}, Rows: [][]any{{2}, {3}}},
	)

	b, err := r.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, b.Len())

	b, err = r.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	_, err = r.Next(ctx)
	require.ErrorIs(t, err, io.EOF)

	require.NoError(t, r.Close())
}

func TestSliceReader_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSliceReader(Batch{}).Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
