// Package metrics holds the Prometheus collectors for store fetches and transactions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	registry      *prometheus.Registry
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	txPhases      *prometheus.CounterVec
	cacheClears   prometheus.Counter
	notifications *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wrmb",
			Name:      "store_fetch_total",
			Help:      "Store fetch cycles by result.",
		}, []string{"store", "result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wrmb",
			Name:      "store_fetch_duration_seconds",
			Help:      "Duration of a store fetch batch.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"store"}),
		txPhases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wrmb",
			Name:      "tx_phase_total",
			Help:      "Transaction phases reached by action.",
		}, []string{"action", "phase"}),
		cacheClears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wrmb",
			Name:      "binding_cache_clears_total",
			Help:      "Times the contract binding cache was invalidated.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wrmb",
			Name:      "notifications_total",
			Help:      "Notifications raised by type.",
		}, []string{"type"}),
	}
	m.registry.MustRegister(m.fetchTotal, m.fetchDuration, m.txPhases, m.cacheClears, m.notifications)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFetch records one fetch cycle. result is "ok", "failed", "stale" or "skipped".
func (m *Metrics) ObserveFetch(store, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(store, result).Inc()
	if result == "ok" || result == "failed" {
		m.fetchDuration.WithLabelValues(store).Observe(d.Seconds())
	}
}

// TxPhase records a transaction reaching a phase.
func (m *Metrics) TxPhase(action, phase string) {
	if m == nil {
		return
	}
	m.txPhases.WithLabelValues(action, phase).Inc()
}

// CacheCleared records a binding cache invalidation.
func (m *Metrics) CacheCleared() {
	if m == nil {
		return
	}
	m.cacheClears.Inc()
}

// Notified records a notification.
func (m *Metrics) Notified(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}
