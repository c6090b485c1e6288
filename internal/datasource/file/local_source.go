// Package file implements the local filesystem source that the batch readers
// consume once a remote file has been fetched into the data directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/datasource"
)

// Local is a file on local disk.
type Local struct{ path string }

var _ datasource.Source = (*Local)(nil)

// NewLocal returns a Local bound to path. Nothing is touched until Open or
// Size is called.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the bound path.
func (l *Local) Path() string { return l.path }

// Open opens the file for reading. A canceled context short-circuits before
// the filesystem is touched. Filesystem errors keep their identity for
// errors.Is (os.ErrNotExist and friends).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Size reports the file size. ok is false when the file does not exist.
func (l *Local) Size() (size int64, ok bool, err error) {
	fi, err := os.Stat(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("stat %s: %w", l.path, err)
	}
	if fi.IsDir() {
		return 0, false, fmt.Errorf("stat %s: is a directory", l.path)
	}
	return fi.Size(), true, nil
}

// Present reports whether the file exists and is strictly larger than
// minSize bytes. Stat errors count as absent.
func (l *Local) Present(minSize int64) bool {
	n, ok, err := l.Size()
	return err == nil && ok && n > minSize
}
