// Package config defines the JSON-serializable pipeline configuration for
// flightdw. It is intentionally small and explicit so pipeline files can be
// loaded from disk and passed through the program without additional glue
// code; decoding is performed by the standard library.
//
// Example (trimmed):
//
//	{
//	  "job":     "flights-monthly",
//	  "source":  { "path": "data/flights.csv" },
//	  "csv":     { "has_header": true, "trim_space": true },
//	  "transform": { "day_first": true },
//	  "storage": { "kind": "sqlite", "dsn": "warehouse.db", "auto_create_tables": true }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run; it labels logs and metrics.
	Job string `json:"job"`

	// Source describes where the raw flight extract comes from.
	Source Source `json:"source"`

	// CSV configures how the raw bytes are parsed into records.
	CSV CSV `json:"csv"`

	// Transform configures the cleaning chain applied to parsed records.
	Transform Transform `json:"transform"`

	// Storage describes the warehouse the cleaned records load into.
	Storage Storage `json:"storage"`

	// Metrics optionally configures run-metric publication.
	Metrics Metrics `json:"metrics"`
}

// Source identifies the data source.
type Source struct {
	// Path is the local filesystem path to the input CSV.
	Path string `json:"path"`
}

// CSV holds parser options. Field names mirror the parser's Options.
type CSV struct {
	HasHeader bool `json:"has_header"`

	// Comma is the field delimiter as a one-character string. Empty means ','.
	Comma string `json:"comma"`

	TrimSpace bool `json:"trim_space"`

	// HeaderMap maps source header names to canonical column keys.
	HeaderMap map[string]string `json:"header_map"`
}

// Transform configures the cleaning chain.
type Transform struct {
	// DayFirst disambiguates numeric dates day-before-month.
	DayFirst bool `json:"day_first"`
}

// Storage selects and configures the warehouse backend.
type Storage struct {
	// Kind selects the backend: "sqlite", "postgres", or "mssql".
	Kind string `json:"kind"`

	// DSN is the backend-specific connection string.
	DSN string `json:"dsn"`

	// AutoCreateTables applies the warehouse DDL on open.
	AutoCreateTables bool `json:"auto_create_tables"`
}

// Metrics configures optional metric publication after a run.
type Metrics struct {
	// Backend selects the metrics sink: "" or "none" for no-op,
	// "pushgateway" to push to a Prometheus Pushgateway.
	Backend string `json:"backend"`

	// GatewayURL is the Pushgateway base URL, required for "pushgateway".
	GatewayURL string `json:"gateway_url"`
}

// Load reads and decodes a pipeline file. Unknown JSON fields are rejected so
// typos in option names surface immediately instead of silently defaulting.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("open pipeline config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, fmt.Errorf("decode pipeline config %s: %w", path, err)
	}
	return p, nil
}

// CommaRune returns the configured delimiter as a rune, or 0 when unset.
func (c CSV) CommaRune() rune {
	for _, r := range c.Comma {
		return r
	}
	return 0
}
