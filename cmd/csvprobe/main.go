// Command csvprobe profiles a raw flight CSV extract without loading it:
// per-column null counts, distinct cardinality, value lengths, and sample
// values. Run it against a new extract before pointing the loader at it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"syscall"

	"flightdw/internal/datasource/file"
	"flightdw/internal/logging"
	"flightdw/internal/parser/csv"
	"flightdw/internal/probe"
	"flightdw/internal/report"
)

func main() {
	var (
		path     = flag.String("file", "", "path to the CSV extract (required)")
		comma    = flag.String("comma", ",", "field delimiter")
		noHeader = flag.Bool("no-header", false, "treat the first row as data")
		workers  = flag.Int("workers", runtime.NumCPU(), "concurrent column profilers")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logging.Init(*verbose, true)
	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *path, *comma, !*noHeader, *workers); err != nil {
		logging.L().Error().Err(err).Msg("probe failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, path, comma string, hasHeader bool, workers int) error {
	src := file.NewLocal(path)
	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	opt := csv.Options{HasHeader: hasHeader, TrimSpace: true}
	for _, r := range comma {
		opt.Comma = r
		break
	}
	recs, skipped, err := csv.NewParser(opt).Parse(rc)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("%s: no parseable rows", path)
	}
	if skipped > 0 {
		logging.L().Warn().Int("skipped", skipped).Msg("some rows did not parse")
	}

	cols := make([]string, 0, len(recs[0]))
	for c := range recs[0] {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	profiles, err := probe.Profile(ctx, recs, cols, workers)
	if err != nil {
		return err
	}

	rows := make([][]any, len(profiles))
	for i, p := range profiles {
		rows[i] = []any{
			p.Name, p.Rows, p.Nulls, p.Distinct,
			fmt.Sprintf("%d..%d", p.MinLen, p.MaxLen),
			strings.Join(p.Samples, ", "),
		}
	}
	title := fmt.Sprintf("Column profile: %s (%d rows)", path, len(recs))
	return report.Render(os.Stdout,
		title,
		[]string{"column", "rows", "nulls", "distinct", "len", "samples"},
		rows)
}
