// Package file implements the local-filesystem data source the extraction
// step reads raw flight CSVs from.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens one file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local source bound to path. The value is safe for
// concurrent use as long as the path is valid for concurrent reads.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading. A canceled context returns the
// context error without touching the filesystem. Filesystem errors are
// wrapped with the path while keeping errors.Is(err, os.ErrNotExist) intact,
// which is how callers distinguish a missing source file from other I/O
// failures.
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

// Path reports the bound filesystem path.
func (l *Local) Path() string { return l.path }
