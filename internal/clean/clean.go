// Package clean provides pure field-normalization functions used by the
// transform chain. Every function takes a single raw value and returns either
// a typed value or nil (SQL NULL); none of them touch I/O or shared state, so
// they are trivially composable and safe to call from any stage.
//
// Raw values arrive from the CSV parser as strings, but the functions accept
// already-typed values as well so transforms can be re-applied without harm.
package clean

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Canonical gender tokens. Single-letter codes collapse onto these; any other
// non-null value passes through upper-cased.
const (
	GenderMale   = "MASCULINO"
	GenderFemale = "FEMENINO"
)

// missing sentinels collapsed to nil by Text (compared case-insensitively
// after trimming).
var missingSentinels = map[string]struct{}{
	"nan":  {},
	"none": {},
}

// Text trims v and returns it as a string, upper-cased when upper is true.
// nil, non-string non-stringable values, empty-after-trim strings, and the
// textual missing sentinels ("nan", "none") all normalize to nil.
func Text(v any, upper bool) any {
	s, ok := asString(v)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, miss := missingSentinels[strings.ToLower(s)]; miss {
		return nil
	}
	if upper {
		return strings.ToUpper(s)
	}
	return s
}

// Gender maps the single-letter codes M/F onto the canonical gender tokens.
// Any other non-null value passes through trimmed and upper-cased.
func Gender(v any) any {
	t := Text(v, true)
	if t == nil {
		return nil
	}
	switch t.(string) {
	case "M":
		return GenderMale
	case "F":
		return GenderFemale
	default:
		return t
	}
}

// Price treats v as text, replaces a decimal comma with a decimal point, and
// parses the result as a float64. Unparseable values normalize to nil.
func Price(v any) any {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	t := Text(v, false)
	if t == nil {
		return nil
	}
	s := strings.ReplaceAll(t.(string), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return f
}

// Int parses v as an int64; missing or unparseable values normalize to def
// (which may itself be nil). Fractional inputs round half away from zero.
func Int(v any, def any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(math.Round(n))
	}
	t := Text(v, false)
	if t == nil {
		return def
	}
	s := t.(string)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(math.Round(f))
	}
	return def
}

// Float parses v as a float64; missing or unparseable values normalize to def.
func Float(v any, def any) any {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	t := Text(v, false)
	if t == nil {
		return def
	}
	f, err := strconv.ParseFloat(t.(string), 64)
	if err != nil {
		return def
	}
	return f
}

// dateLayouts lists the accepted date/time shapes. The first matching layout
// wins, so the day-first variants come first when dayFirst is requested.
var (
	dayFirstLayouts = []string{
		"2/1/2006 15:04:05",
		"2/1/2006 15:04",
		"2-1-2006 15:04:05",
		"2-1-2006 15:04",
		"2/1/2006",
		"2-1-2006",
	}
	monthFirstLayouts = []string{
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1-2-2006 15:04:05",
		"1-2-2006 15:04",
		"1/2/2006",
		"1-2-2006",
	}
	isoLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// DateTime parses a date/time string and returns a time.Time, or nil when the
// value is missing or matches no known layout. Ambiguous numeric dates are
// disambiguated day-before-month when dayFirst is true. ISO-style values are
// always accepted since they carry no ambiguity.
func DateTime(v any, dayFirst bool) any {
	if t, ok := v.(time.Time); ok {
		return t
	}
	s, ok := asString(v)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	numeric := monthFirstLayouts
	if dayFirst {
		numeric = dayFirstLayouts
	}
	layouts := make([]string, 0, len(numeric)+len(isoLayouts))
	layouts = append(layouts, numeric...)
	layouts = append(layouts, isoLayouts...)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return nil
}

// asString reports v as a string when it is one (or nil-safe no value).
func asString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
