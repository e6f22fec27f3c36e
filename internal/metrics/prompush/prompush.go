// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A load run is a short-lived batch job, so metrics are collected in a
// private registry and pushed once at the end of the run instead of being
// exposed on a scrape endpoint. The package contains all Prometheus-specific
// dependencies so the rest of the project stays decoupled from Prometheus.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"flightdw/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // flightdw_step_total
	stepDuration *prometheus.SummaryVec // flightdw_step_duration_seconds
	rowCounter   *prometheus.CounterVec // flightdw_records_total
}

// NewBackend constructs a Prometheus Pushgateway backend. jobName is the
// Pushgateway "job" grouping key; gatewayURL is the base URL of the server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "flightdw"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdw_step_total",
			Help: "Run phase executions, partitioned by job, step, and status.",
		},
		[]string{"job", "step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "flightdw_step_duration_seconds",
			Help:       "Duration of run phases in seconds, partitioned by job, step, and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"job", "step", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdw_records_total",
			Help: "Record-level counts per job and kind (inserted, skipped).",
		},
		[]string{"job", "kind"},
	)

	for _, c := range []prometheus.Collector{stepCounter, stepDuration, rowCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		stepCounter:  stepCounter,
		stepDuration: stepDuration,
		rowCounter:   rowCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "flightdw_step_total":
		b.stepCounter.WithLabelValues(b.job(labels), labels["step"], labels["status"]).Add(delta)
	case "flightdw_records_total":
		b.rowCounter.WithLabelValues(b.job(labels), labels["kind"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveDuration(name string, value float64, labels metrics.Labels) {
	if name != "flightdw_step_duration_seconds" {
		return
	}
	b.stepDuration.WithLabelValues(b.job(labels), labels["step"], labels["status"]).Observe(value)
}

// job resolves the job label value, falling back to the Pushgateway group
// name when the caller attached none.
func (b *Backend) job(labels metrics.Labels) string {
	if j := labels["job"]; j != "" {
		return j
	}
	return b.jobName
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
