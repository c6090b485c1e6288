package httpds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString(t *testing.T) {
	t.Parallel()

	a := HashString("https://example.com/a")
	assert.Len(t, a, 16)
	assert.Equal(t, a, HashString("https://example.com/a"))
	assert.NotEqual(t, a, HashString("https://example.com/b"))
}

func TestFilenameFromURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://d37ci6vzurychx.cloudfront.net/trip-data/green_tripdata_2025-11.parquet": "green_tripdata_2025-11.parquet",
		"https://d37ci6vzurychx.cloudfront.net/misc/taxi_zone_lookup.csv?x=1":             "taxi_zone_lookup.csv",
		"https://example.com/files/my%20file.csv":                                         "my_file.csv",
	}
	for in, want := range cases {
		assert.Equal(t, want, FilenameFromURL(in), in)
	}

	for _, in := range []string{"https://example.com/", "https://example.com", ":// not a url"} {
		assert.Equal(t, HashString(in), FilenameFromURL(in), in)
	}
}
