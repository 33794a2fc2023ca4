// Package metrics defines the Prometheus collectors zigdoc exports on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "zigdoc"

// Outcome labels for FilesTotal.
const (
	OutcomeOK      = "ok"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Metrics holds the collectors shared by the collector, indexer and server.
// All fields are safe for concurrent use.
type Metrics struct {
	// FilesTotal counts processed files by outcome.
	FilesTotal *prometheus.CounterVec

	// EntriesTotal counts emitted documentation entries by kind.
	EntriesTotal *prometheus.CounterVec

	// ExtractDuration measures parse plus extraction time per file.
	ExtractDuration prometheus.Histogram

	// IndexRunsTotal counts completed index runs.
	IndexRunsTotal prometheus.Counter

	// HTTPRequestsTotal counts API requests by route and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPDuration measures API latency by route.
	HTTPDuration *prometheus.HistogramVec
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which tests use.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FilesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Zig files processed, by outcome",
		}, []string{"outcome"}),

		EntriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_total",
			Help:      "Documentation entries emitted, by kind",
		}, []string{"kind"}),

		ExtractDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extract_duration_seconds",
			Help:      "Time to parse and extract one file",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}),

		IndexRunsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "runs_total",
			Help:      "Completed index runs",
		}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by route and status code",
		}, []string{"route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveFile records one file's outcome and, for successful extractions, its latency.
// Nil receivers are no-ops.
func (m *Metrics) ObserveFile(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FilesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.ExtractDuration.Observe(elapsed.Seconds())
	}
}

// ObserveEntries adds emitted entry counts.
func (m *Metrics) ObserveEntries(functions, constants, structs, fields int) {
	if m == nil {
		return
	}
	m.EntriesTotal.WithLabelValues("function").Add(float64(functions))
	m.EntriesTotal.WithLabelValues("constant").Add(float64(constants))
	m.EntriesTotal.WithLabelValues("struct").Add(float64(structs))
	m.EntriesTotal.WithLabelValues("field").Add(float64(fields))
}

// ObserveIndexRun records one completed index run.
func (m *Metrics) ObserveIndexRun() {
	if m == nil {
		return
	}
	m.IndexRunsTotal.Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
