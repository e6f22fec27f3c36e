// Package probe profiles raw flight extracts before a load: per-column null
// counts, distinct cardinality, value lengths, and a few sample values. The
// profile is a quick way to spot a broken extract (wrong delimiter, shifted
// columns, sentinel soup) before it reaches the warehouse.
package probe

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"flightdw/pkg/records"
)

// maxSamples bounds the distinct sample values kept per column.
const maxSamples = 5

// ColumnProfile summarizes one column across the whole extract.
type ColumnProfile struct {
	Name     string
	Rows     int
	Nulls    int // nil cells plus textual missing sentinels
	Distinct int // case- and accent-insensitive
	MinLen   int // shortest non-null value, 0 when all null
	MaxLen   int
	Samples  []string // first few distinct values, folded, sorted
}

// foldTransform decomposes, strips nonspacing marks, and recomposes, so
// accented variants of the same token count as one distinct value.
var foldTransform = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// fold maps a raw cell onto its comparison form.
func fold(s string) string {
	ascii, _, err := transform.String(foldTransform, s)
	if err != nil {
		ascii = s
	}
	return strings.ToUpper(strings.TrimSpace(ascii))
}

// isMissing reports whether the folded value is a textual missing sentinel.
func isMissing(folded string) bool {
	return folded == "" || folded == "NAN" || folded == "NONE"
}

// Profile computes a ColumnProfile for each listed column, one worker per
// column up to the given limit. Results come back in the input column order.
func Profile(ctx context.Context, recs []records.Record, cols []string, workers int) ([]ColumnProfile, error) {
	if workers <= 0 {
		workers = len(cols)
	}
	out := make([]ColumnProfile, len(cols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, col := range cols {
		g.Go(func() error {
			p, err := profileColumn(ctx, recs, col)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func profileColumn(ctx context.Context, recs []records.Record, col string) (ColumnProfile, error) {
	p := ColumnProfile{Name: col, Rows: len(recs)}
	seen := make(map[uint64]struct{})

	for i, rec := range recs {
		// Cancellation check amortized over the scan.
		if i%4096 == 0 {
			select {
			case <-ctx.Done():
				return p, ctx.Err()
			default:
			}
		}

		s, ok := rec[col].(string)
		if !ok {
			p.Nulls++
			continue
		}
		f := fold(s)
		if isMissing(f) {
			p.Nulls++
			continue
		}

		if n := len(s); p.MinLen == 0 || n < p.MinLen {
			p.MinLen = n
		}
		if len(s) > p.MaxLen {
			p.MaxLen = len(s)
		}

		h := xxh3.HashString(f)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		if len(p.Samples) < maxSamples {
			p.Samples = append(p.Samples, f)
		}
	}

	p.Distinct = len(seen)
	sort.Strings(p.Samples)
	return p, nil
}
