// Package parser defines the contract raw-byte parsers implement.
package parser

import (
	"io"

	"flightdw/pkg/records"
)

// Parser turns raw source bytes into records, reporting how many rows were
// skipped as unparseable.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
