package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for synchronization operations.
type Metrics struct {
	Operations *prometheus.CounterVec
	Latency    *prometheus.HistogramVec
	Stale      *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stridecart_sync_operations_total",
			Help: "Synchronization operations by name and outcome",
		}, []string{"op", "outcome"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stridecart_sync_operation_seconds",
			Help:    "Backend round-trip time of synchronization operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		Stale: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stridecart_stale_completions_total",
			Help: "Completions dropped because a newer request superseded them",
		}, []string{"slice"}),
	}
}

// Observe records one finished operation. A nil *Metrics is a no-op so
// services can run without instrumentation in tests.
func (m *Metrics) Observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.Latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// StaleDropped matches the state.Slice OnStale hook.
func (m *Metrics) StaleDropped(slice string) {
	if m == nil {
		return
	}
	m.Stale.WithLabelValues(slice).Inc()
}
