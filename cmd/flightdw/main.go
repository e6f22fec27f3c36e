// Command flightdw runs the flight warehouse pipeline: extract the raw CSV,
// clean it, full-refresh the star schema, and print the analytic report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"flightdw/internal/config"
	"flightdw/internal/datasource"
	"flightdw/internal/datasource/file"
	"flightdw/internal/logging"
	"flightdw/internal/metrics"
	"flightdw/internal/metrics/prompush"
	"flightdw/internal/parser"
	"flightdw/internal/parser/csv"
	"flightdw/internal/report"
	"flightdw/internal/schema"
	"flightdw/internal/storage"
	"flightdw/internal/warehouse"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "flightdw/internal/storage/all"
)

func main() {
	var (
		cfgPath        string
		metricsBackend string
		gatewayURL     string
		validate       bool
	)
	flag.StringVar(&cfgPath, "config", "configs/pipeline.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend override (pushgateway, none)")
	flag.StringVar(&gatewayURL, "pushgateway-url", "", "Pushgateway base URL override")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable debug logs")
	human := flag.Bool("pretty", false, "human-readable console logs")
	flag.Parse()

	logging.Init(*verbose, *human)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.ValidatePipeline(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if len(config.Errors(issues)) > 0 {
		fatalf("configuration has errors")
	}
	if validate {
		fmt.Fprintln(os.Stderr, "configuration OK")
		return
	}

	// Flag overrides beat the config file.
	if metricsBackend != "" {
		cfg.Metrics.Backend = metricsBackend
	}
	if gatewayURL != "" {
		cfg.Metrics.GatewayURL = gatewayURL
	}
	job := cfg.Job
	if job == "" {
		job = "flightdw"
	}
	if cfg.Metrics.Backend == "pushgateway" {
		mb, err := prompush.NewBackend(job, cfg.Metrics.GatewayURL)
		if err != nil {
			fatalf("metrics backend: %v", err)
		}
		metrics.SetBackend(mb)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := run(ctx, cfg, job)
	if ferr := metrics.Flush(); ferr != nil {
		logging.L().Warn().Err(ferr).Msg("metrics flush failed")
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fatalf("source file missing: %v", err)
		}
		fatalf("%v", err)
	}

	fmt.Printf("\nRun complete: %d inserted, %d skipped\n", stats.Inserted, stats.Skipped)
	if len(stats.Errors) > 0 {
		fmt.Printf("First %d record errors:\n", len(stats.Errors))
		for _, e := range stats.Errors {
			fmt.Printf("  %s: %s\n", e.RecordID, e.Reason)
		}
	}
}

func run(ctx context.Context, cfg config.Pipeline, job string) (warehouse.Stats, error) {
	var stats warehouse.Stats

	var src datasource.Source = file.NewLocal(cfg.Source.Path)
	rc, err := src.Open(ctx)
	if err != nil {
		return stats, err
	}
	defer rc.Close()

	var p parser.Parser = csv.NewParser(csv.Options{
		HasHeader: cfg.CSV.HasHeader,
		Comma:     cfg.CSV.CommaRune(),
		TrimSpace: cfg.CSV.TrimSpace,
		HeaderMap: cfg.CSV.HeaderMap,
	})
	recs, skipped, err := p.Parse(rc)
	if err != nil {
		return stats, fmt.Errorf("parse %s: %w", cfg.Source.Path, err)
	}
	logging.L().Info().
		Int("rows", len(recs)).Int("unparseable", skipped).
		Str("source", cfg.Source.Path).
		Msg("extract complete")

	recs = schema.TransformChain(cfg.Transform.DayFirst).Apply(recs)

	wh, err := storage.New(ctx, storage.Config{
		Kind:             cfg.Storage.Kind,
		DSN:              cfg.Storage.DSN,
		AutoCreateTables: cfg.Storage.AutoCreateTables,
	})
	if err != nil {
		return stats, fmt.Errorf("open warehouse: %w", err)
	}
	defer wh.Close()

	loader := warehouse.New(wh, job)
	loader.Report = report.New(wh, cfg.Storage.Kind, os.Stdout).Run
	return loader.Run(ctx, recs)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "flightdw: "+format+"\n", args...)
	os.Exit(1)
}
