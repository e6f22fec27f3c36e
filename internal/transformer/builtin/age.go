package builtin

import (
	"math"

	"flightdw/internal/clean"
	"flightdw/pkg/records"
)

// ImputeAge fills missing ages with the arithmetic mean of the ages present
// in the batch, rounded to the nearest integer. The mean is computed once
// over the whole batch before any row is filled, so the result does not
// depend on row order.
//
// When no row in the batch carries an age, there is no mean to impute from;
// missing ages then stay nil and load as NULL.
type ImputeAge struct {
	Field string
}

func (a ImputeAge) Apply(in []records.Record) []records.Record {
	var (
		sum   float64
		count int
	)
	for _, r := range in {
		if v := clean.Float(r[a.Field], nil); v != nil {
			sum += v.(float64)
			count++
		}
	}

	var fill any
	if count > 0 {
		fill = int64(math.Round(sum / float64(count)))
	}

	for _, r := range in {
		v := clean.Int(r[a.Field], nil)
		if v == nil {
			v = fill
		}
		r[a.Field] = v
	}
	return in
}
