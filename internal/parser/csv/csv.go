// Package csv parses raw flight CSV extracts into records. Malformed rows
// soft-fail: they are counted and skipped so one broken line never aborts an
// extraction.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"flightdw/internal/logging"
	"flightdw/pkg/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// maxLoggedSkips caps how many skipped rows are logged individually; the
// returned counter always carries the full number.
const maxLoggedSkips = 400

// Options configures the CSV parser. All fields are optional; zero values get
// sensible defaults.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	// Without a header, columns are keyed col_0, col_1, ...
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing whitespace from each field value.
	TrimSpace bool

	// HeaderMap maps source header names to canonical column keys, for
	// extracts whose headers use localized or legacy names. Headers not in
	// the map fall back to lowercase with spaces as underscores.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse consumes CSV records from r and returns the parsed rows along with
// the number of rows skipped for parse errors or field-count mismatches.
// Empty cells become nil so downstream normalization sees them as missing.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // width enforced below so bad rows soft-fail

	var headers []string
	if p.opt.HasHeader {
		h, err := cr.Read()
		if err != nil {
			return nil, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = normalizeHeaders(h, p.opt)
	}

	log := logging.L()
	var out []records.Record
	var skipped int
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < maxLoggedSkips {
				log.Warn().Int("row", line).Err(err).Msg("skipping unparseable row")
			}
			skipped++
			continue
		}
		if len(headers) > 0 && len(row) != len(headers) {
			if skipped < maxLoggedSkips {
				log.Warn().Int("row", line).
					Int("expected", len(headers)).Int("got", len(row)).
					Msg("skipping row with wrong field count")
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[keyFor(i, headers)] = emptyToNil(val)
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

// keyFor returns the column key for index idx, using headers when available,
// otherwise synthesizing a "col_N" name.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// emptyToNil converts an empty string to nil; all other values pass through.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical header keys using HeaderMap when
// provided, else lowercase with spaces as underscores. A UTF-8 BOM on the
// first cell is stripped.
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if m, ok := opt.HeaderMap[c]; ok {
			res[i] = m
			continue
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}
