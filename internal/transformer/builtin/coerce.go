package builtin

import (
	"flightdw/internal/clean"
	"flightdw/pkg/records"
)

// Dates parses the configured fields as date/times, day-before-month when
// DayFirst is set. Unparseable values become nil; the loader decides whether
// a nil departure is a skip.
type Dates struct {
	Fields   []string
	DayFirst bool
}

func (d Dates) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range d.Fields {
			r[f] = clean.DateTime(r[f], d.DayFirst)
		}
	}
	return in
}

// Price normalizes a decimal-comma price field into a float64 or nil. A
// price that fails to parse never drops the record; it loads as NULL.
type Price struct {
	Field string
}

func (p Price) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		r[p.Field] = clean.Price(r[p.Field])
	}
	return in
}

// Gender maps single-letter gender codes onto the canonical tokens and
// upper-cases everything else.
type Gender struct {
	Field string
}

func (g Gender) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		r[g.Field] = clean.Gender(r[g.Field])
	}
	return in
}

// FillZero coerces the configured fields to int64, substituting 0 for
// missing or unparseable values.
type FillZero struct {
	Fields []string
}

func (z FillZero) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range z.Fields {
			r[f] = clean.Int(r[f], int64(0))
		}
	}
	return in
}
