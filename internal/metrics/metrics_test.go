package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Observe("cart.fetch", time.Now(), nil)
	m.Observe("cart.fetch", time.Now(), errors.New("boom"))
	m.Observe("cart.fetch", time.Now(), nil)
	m.StaleDropped("cart")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("cart.fetch", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("cart.fetch", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Stale.WithLabelValues("cart")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe("x", time.Now(), nil)
		m.StaleDropped("cart")
	})
}
