// Package datasource names the contract shared by the local and remote
// sources that feed the ingestion readers.
package datasource

import (
	"context"
	"io"
)

// Source opens a byte stream. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
