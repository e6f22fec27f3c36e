// Package datasource defines the contract data sources implement.
package datasource

import (
	"context"
	"io"
)

// Source yields the raw bytes of one extract.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
