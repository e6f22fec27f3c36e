package metrics

import (
	"errors"
	"testing"
	"time"
)

type captureBackend struct {
	counters  map[string]float64
	labels    map[string]Labels
	durations int
	flushed   int
}

func newCapture() *captureBackend {
	return &captureBackend{counters: map[string]float64{}, labels: map[string]Labels{}}
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.labels[name] = labels
}

func (c *captureBackend) ObserveDuration(string, float64, Labels) { c.durations++ }
func (c *captureBackend) Flush() error                            { c.flushed++; return nil }

func install(t *testing.T, b Backend) {
	t.Helper()
	prev := backend
	SetBackend(b)
	t.Cleanup(func() { backend = prev })
}

func TestRecordStep(t *testing.T) {
	c := newCapture()
	install(t, c)

	RecordStep("job1", "load", nil, 2*time.Second)
	RecordStep("job1", "load", errors.New("boom"), time.Second)

	if c.counters["flightdw_step_total"] != 2 {
		t.Errorf("step total = %v", c.counters["flightdw_step_total"])
	}
	if c.durations != 2 {
		t.Errorf("durations = %d, want 2", c.durations)
	}
	// Last call failed, so its labels carry the failure status.
	if c.labels["flightdw_step_total"]["status"] != "failure" {
		t.Errorf("labels = %v", c.labels["flightdw_step_total"])
	}
}

func TestRecordRows(t *testing.T) {
	c := newCapture()
	install(t, c)

	RecordRows("job1", "inserted", 10)
	RecordRows("job1", "inserted", 5)
	RecordRows("job1", "skipped", 0) // no-op

	if c.counters["flightdw_records_total"] != 15 {
		t.Errorf("records total = %v", c.counters["flightdw_records_total"])
	}
	if got := c.labels["flightdw_records_total"]["kind"]; got != "inserted" {
		t.Errorf("kind label = %q", got)
	}
}

func TestSetBackend_NilKeepsCurrent(t *testing.T) {
	c := newCapture()
	install(t, c)

	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Fatal(err)
	}
	if c.flushed != 1 {
		t.Errorf("flushed = %d, want 1", c.flushed)
	}
}
