// Package metrics records run-level counters and step timings for the
// ingestion job. The backend is pluggable and defaults to a no-op, so callers
// never need to check whether metrics are enabled.
package metrics

import "time"

// Metric names shared by all backends.
const (
	StepTotal           = "taxi_ingest_step_total"
	StepDurationSeconds = "taxi_ingest_step_duration_seconds"
	RecordsTotal        = "taxi_ingest_records_total"
	BatchesTotal        = "taxi_ingest_batches_total"
)

// Record kinds used with RecordRows.
const (
	KindScanned     = "scanned"
	KindDropped     = "dropped"
	KindOutOfWindow = "out_of_window"
	KindInserted    = "inserted"
	KindDeleted     = "deleted"
	KindZones       = "zones"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend receives counters and timings.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics (Pushgateway) or flushes the client.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs b. A nil b restores the no-op backend.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordStep counts one execution of step and observes its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRows adds delta rows of the given kind. Non-positive deltas are
// ignored.
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches adds delta committed batches.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}
