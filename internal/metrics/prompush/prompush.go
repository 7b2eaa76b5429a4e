// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// The ETL binary is a run-to-completion batch job, so metrics are pushed to a
// Pushgateway at the end of the run instead of being exposed on a scrape
// endpoint. All Prometheus-specific dependencies live here; the rest of the
// project depends only on metrics.Backend.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"sparkify/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" grouping key
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // sparkify_step_total
	stepDuration *prometheus.SummaryVec // sparkify_step_duration_seconds

	rowCounter    *prometheus.CounterVec // sparkify_rows_total
	lookupCounter *prometheus.CounterVec // sparkify_lookups_total
	parseErrors   prometheus.Counter     // sparkify_parse_errors_total
}

// NewBackend constructs a Pushgateway backend. jobName doubles as the
// Pushgateway grouping key; gatewayURL is the base URL of the server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "sparkify"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparkify_step_total",
			Help: "File-processing step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "sparkify_step_duration_seconds",
			Help:       "Duration of file-processing steps in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparkify_rows_total",
			Help: "Rows written per warehouse table.",
		},
		[]string{"table"},
	)
	lookupCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparkify_lookups_total",
			Help: "Song/artist natural-key lookups by outcome (cache_hit, match, miss).",
		},
		[]string{"result"},
	)
	parseErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sparkify_parse_errors_total",
			Help: "Input lines skipped because they could not be decoded.",
		},
	)

	for _, c := range []prometheus.Collector{stepCounter, stepDuration, rowCounter, lookupCounter, parseErrors} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stepCounter:   stepCounter,
		stepDuration:  stepDuration,
		rowCounter:    rowCounter,
		lookupCounter: lookupCounter,
		parseErrors:   parseErrors,
	}, nil
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "sparkify_step_total":
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case "sparkify_rows_total":
		b.rowCounter.WithLabelValues(labels["table"]).Add(delta)

	case "sparkify_lookups_total":
		b.lookupCounter.WithLabelValues(labels["result"]).Add(delta)

	case "sparkify_parse_errors_total":
		b.parseErrors.Add(delta)

	default:
		// unknown metric name: ignore
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "sparkify_step_duration_seconds" {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
