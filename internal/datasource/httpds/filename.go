package httpds

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	
	"github.com/zeebo/xxh3"
)

// unsafeChars matches runs of characters not allowed in local file names.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// HashString returns the xxh3 digest of s as 16 hex digits.
func HashString(s string) string {
	return formatDigest(xxh3.HashString(s))
}

func formatDigest(h uint64) string { return fmt.Sprintf("%016x", h) }

// FilenameFromURL derives a local file name from the last path segment of
// rawURL, e.g. ".../green_tripdata_2025-11.parquet" keeps its name. It falls
// back to the URL digest when there is no usable segment.
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return HashString(rawURL)
	}
	base := path.Base(u.Path)
	clean := unsafeChars.ReplaceAllString(base, "_")
	if clean == "" || clean == "." || clean == "/" || clean == "_" || clean == ".." {
		return HashString(rawURL)
	}
	return clean
}
