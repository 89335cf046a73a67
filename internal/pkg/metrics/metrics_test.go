package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveFetch("savings", "ok", time.Millisecond)
	m.ObserveFetch("savings", "ok", time.Millisecond)
	m.ObserveFetch("savings", "failed", time.Millisecond)
	m.TxPhase("deposit", "confirmed")
	m.CacheCleared()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("savings", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("savings", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.txPhases.WithLabelValues("deposit", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheClears))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch("x", "ok", 0)
		m.TxPhase("a", "b")
		m.CacheCleared()
		m.Notified("error")
	})
}
