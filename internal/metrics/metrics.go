// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the load pipeline.
//
// It exposes a narrow Backend interface focused on counters and durations,
// with a global, pluggable backend that defaults to a no-op implementation,
// so metrics are always safe to call even when no real backend is
// configured. Concrete metric systems stay isolated in subpackages
// (currently the Prometheus Pushgateway backend in metrics/prompush).
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)      {}
func (nopBackend) ObserveDuration(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency plus success/failure for one run phase
// (reset, load, report).
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	backend.IncCounter("flightdw_step_total", 1, lbls)
	backend.ObserveDuration("flightdw_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a record-level counter for the given run and kind.
// Typical kinds mirror the run statistics: "inserted", "skipped".
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("flightdw_records_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}
