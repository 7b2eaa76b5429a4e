// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the warehouse ETL run.
//
// It mirrors the storage abstraction pattern: a narrow Backend interface, a
// global pluggable backend defaulting to a no-op so instrumentation is always
// safe to call, and concrete systems (Prometheus Pushgateway, Datadog)
// isolated in subpackages. A batch job that exits when done pushes its
// metrics rather than exposing a scrape endpoint.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration-style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics if the backend needs it.
	Flush() error
}

// nopBackend is used by default so metrics stay optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

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

// RecordStep measures one file-processing step: latency plus a
// success/failure counter. Steps are "process_song_file" and
// "process_log_file".
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter("sparkify_step_total", 1, lbls)
	backend.ObserveHistogram("sparkify_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows counts rows written to one warehouse table (songs, artists,
// time, users, songplays).
func RecordRows(job, table string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("sparkify_rows_total", float64(delta), Labels{
		"job":   job,
		"table": table,
	})
}

// RecordParseErrors counts input lines that could not be decoded.
func RecordParseErrors(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("sparkify_parse_errors_total", float64(delta), Labels{
		"job": job,
	})
}

// RecordLookups counts natural-key lookups by outcome. result is one of
// "cache_hit", "match", or "miss".
func RecordLookups(job, result string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("sparkify_lookups_total", float64(delta), Labels{
		"job":    job,
		"result": result,
	})
}
