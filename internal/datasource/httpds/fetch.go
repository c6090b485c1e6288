package httpds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/datasource/file"
)

// DefaultMinSize is the size a local copy must exceed to count as present.
const DefaultMinSize = 100

// chunkSize is the copy buffer used while streaming a download to disk.
const chunkSize = 8 << 10

// DigestSuffix is appended to a file path to name its digest sidecar.
const DigestSuffix = ".xxh3"

// ErrTooSmall is returned when a download is not larger than the minimum
// size, which usually means an error page was served with a 2xx status.
var ErrTooSmall = errors.New("httpds: download too small")

// FetchResult describes what Fetch did.
type FetchResult struct {
	Path    string
	Bytes   int64
	Digest  string
	Skipped bool // the local copy was reused
}

// Fetch makes sure path holds the content of url. An existing file larger
// than minSize is reused when its sidecar digest matches its content; a file
// without a sidecar is reused and the sidecar written. Otherwise the file is
// downloaded to a temporary name in the same directory and renamed into
// place, so a failed download never leaves a truncated file at path.
func (c *Client) Fetch(ctx context.Context, url, path string, minSize int64) (FetchResult, error) {
	if minSize < 0 {
		minSize = DefaultMinSize
	}
	res := FetchResult{Path: path}

	if local := file.NewLocal(path); local.Present(minSize) {
		digest, n, err := digestFile(ctx, local)
		if err != nil {
			return res, err
		}
		recorded, err := ReadDigest(path)
		switch {
		case err == nil && recorded == digest:
			log.Printf("Using existing %s (%s)", path, humanize.Bytes(uint64(n)))
			return FetchResult{Path: path, Bytes: n, Digest: digest, Skipped: true}, nil
		case errors.Is(err, os.ErrNotExist):
			if err := writeDigest(path, digest); err != nil {
				return res, err
			}
			log.Printf("Using existing %s (%s), digest recorded", path, humanize.Bytes(uint64(n)))
			return FetchResult{Path: path, Bytes: n, Digest: digest, Skipped: true}, nil
		case err != nil:
			return res, err
		default:
			log.Printf("Digest mismatch for %s (have %s, recorded %s); downloading again", path, digest, recorded)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("httpds: create %s: %w", dir, err)
		}
	}

	log.Printf("Downloading %s -> %s", url, path)
	resp, err := c.Get(ctx, url)
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".part-*")
	if err != nil {
		return res, fmt.Errorf("httpds: temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	h := xxh3.New()
	n, err := io.CopyBuffer(io.MultiWriter(tmp, h), resp.Body, make([]byte, chunkSize))
	if err != nil {
		return res, fmt.Errorf("httpds: download %s: %w", url, err)
	}
	if n <= minSize {
		return res, fmt.Errorf("%w: %s returned %d bytes", ErrTooSmall, url, n)
	}
	if err := tmp.Sync(); err != nil {
		return res, fmt.Errorf("httpds: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return res, fmt.Errorf("httpds: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return res, fmt.Errorf("httpds: rename into %s: %w", path, err)
	}
	committed = true

	digest := formatDigest(h.Sum64())
	if err := writeDigest(path, digest); err != nil {
		return res, err
	}
	log.Printf("Downloaded %s (%s)", path, humanize.Bytes(uint64(n)))
	return FetchResult{Path: path, Bytes: n, Digest: digest}, nil
}

// ReadDigest returns the digest recorded next to path.
func ReadDigest(path string) (string, error) {
	b, err := os.ReadFile(path + DigestSuffix)
	if err != nil {
		return "", fmt.Errorf("httpds: read digest: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func writeDigest(path, digest string) error {
	if err := os.WriteFile(path+DigestSuffix, []byte(digest+"\n"), 0o644); err != nil {
		return fmt.Errorf("httpds: write digest: %w", err)
	}
	return nil
}

// digestFile hashes the file at l in chunkSize reads.
func digestFile(ctx context.Context, l *file.Local) (string, int64, error) {
	rc, err := l.Open(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("httpds: %w", err)
	}
	defer rc.Close()

	h := xxh3.New()
	n, err := io.CopyBuffer(h, rc, make([]byte, chunkSize))
	if err != nil {
		return "", 0, fmt.Errorf("httpds: hash %s: %w", l.Path(), err)
	}
	return formatDigest(h.Sum64()), n, nil
}
