package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrConnection marks a lost or unusable store session. Backends wrap
// connection-level failures with it so the loader can tell a fatal session
// loss apart from a recoverable per-row write failure.
var ErrConnection = errors.New("store connection failure")

// ConnErr wraps err as a fatal connection failure.
func ConnErr(err error) error {
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

// IsFatal reports whether err must abort the run instead of skipping the
// current record: connection loss, a bad driver connection, or context
// cancellation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrConnection) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
