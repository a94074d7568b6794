// Package metrics records interpretation-service call outcomes in a prometheus
// registry and can dump them to a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Metrics holds the interpretation-service collectors.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates collectors registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_interpreter_requests_total",
			Help: "Interpretation service requests by operation, provider and outcome",
		}, []string{"operation", "provider", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "statement_interpreter_request_duration_seconds",
			Help:    "Time taken by interpretation service requests",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"operation", "provider"}),
	}

	m.registry.MustRegister(m.requests)
	m.registry.MustRegister(m.duration)
	return m
}

// Observe records one finished request.
func (m *Metrics) Observe(operation, provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, provider, outcome).Inc()
	m.duration.WithLabelValues(operation, provider).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format. The
// file is written to a temporary name and renamed, so a collector never reads a
// partial file.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
