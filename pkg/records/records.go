// Package records defines the in-memory row representation shared by the
// parser, transformer, and loader stages.
//
// A Record is a map from canonical column name to a typed value. Values are
// produced as strings by the CSV parser and progressively replaced with typed
// values (int64, float64, time.Time) by the transform chain. A nil value
// models SQL NULL throughout the pipeline.
package records

// Record is one logical row keyed by canonical column name.
type Record map[string]any
