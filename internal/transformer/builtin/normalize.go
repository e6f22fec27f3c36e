// Package builtin contains the reusable transformers that make up the
// flight-schema transform chain. Each transformer mutates records in place
// and delegates single-value rules to the clean package so that the same
// normalization is testable in isolation.
package builtin

import (
	"flightdw/internal/clean"
	"flightdw/pkg/records"
)

// Normalize collapses missing-value sentinels to nil and trims whitespace on
// the configured textual fields. Fields listed in Upper are additionally
// upper-cased; Fields are trimmed but keep their original case.
type Normalize struct {
	Fields []string
	Upper  []string
}

func (n Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range n.Fields {
			r[f] = clean.Text(r[f], false)
		}
		for _, f := range n.Upper {
			r[f] = clean.Text(r[f], true)
		}
	}
	return in
}
