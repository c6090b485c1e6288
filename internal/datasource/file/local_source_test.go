package file

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

// TestLocalOpen covers success, missing file, and pre-canceled context.
func TestLocalOpen(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []struct {
		name        string
		path        func(t *testing.T) string
		ctx         context.Context
		wantErrIs   error
		wantContent string
	}{
		{
			name:        "success_reads_content",
			path:        func(t *testing.T) string { return writeFile(t, "zones.csv", "LocationID\n1\n") },
			ctx:         context.Background(),
			wantContent: "LocationID\n1\n",
		},
		{
			name:      "missing_file_keeps_not_exist",
			path:      func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.csv") },
			ctx:       context.Background(),
			wantErrIs: os.ErrNotExist,
		},
		{
			name:      "pre_canceled_context_short_circuits",
			path:      func(t *testing.T) string { return writeFile(t, "x.csv", "ignored") },
			ctx:       canceled,
			wantErrIs: context.Canceled,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			rc, err := NewLocal(c.path(t)).Open(c.ctx)
			if c.wantErrIs != nil {
				require.ErrorIs(t, err, c.wantErrIs)
				assert.Nil(t, rc)
				return
			}
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, c.wantContent, string(got))
		})
	}
}

func TestLocalSizeAndPresent(t *testing.T) {
	t.Parallel()

	small := NewLocal(writeFile(t, "small.parquet", "tiny"))
	n, ok, err := small.Size()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 4, n)
	assert.False(t, small.Present(100))
	assert.True(t, small.Present(3))

	missing := NewLocal(filepath.Join(t.TempDir(), "nope.parquet"))
	_, ok, err = missing.Size()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, missing.Present(0))

	dir := NewLocal(t.TempDir())
	_, _, err = dir.Size()
	assert.Error(t, err)
	assert.False(t, dir.Present(0))
}

func BenchmarkLocalOpen_Success(b *testing.B) {
	p := filepath.Join(b.TempDir(), "data.csv")
	if err := os.WriteFile(p, []byte("payload"), 0o644); err != nil {
		b.Fatalf("write test file: %v", err)
	}
	src := NewLocal(p)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rc, err := src.Open(ctx)
		if err != nil {
			b.Fatal(err)
		}
		if err := rc.Close(); err != nil {
			b.Fatal(err)
		}
	}
}
