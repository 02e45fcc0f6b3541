// Package metrics wires Prometheus instrumentation across the token
// registry, session cache, and callback dispatch path — grounded on the
// teacher's monitoring package, which exposes the same
// counter/histogram/gauge shapes (registered under its own
// "bubblyui_" prefix) for its composable system. Here the prefix is
// "botui_" and the dimensions are tokens, sessions, and dispatch
// latency instead of composables.
package metrics

import (
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the Prometheus-backed metrics sink a CallbackRegistry,
// SessionCache, and dispatch loop report into. A nil *Collector is valid
// and every method becomes a no-op, so instrumentation can be wired
// optionally without every call site needing a nil check of its own.
type Collector struct {
	tokensIssued   *prometheus.CounterVec
	tokensEvicted  *prometheus.CounterVec
	sessionGauge   prometheus.Gauge
	dispatchLatency *prometheus.HistogramVec
}

// New creates and registers the page runtime's metrics against reg.
// Registering the same Collector twice against the same registry panics,
// matching the teacher's fail-fast-at-startup stance on duplicate
// registration.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botui_callback_tokens_issued_total",
			Help: "Total number of callback tokens issued, partitioned by element kind.",
		}, []string{"kind"}),
		tokensEvicted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botui_callback_tokens_evicted_total",
			Help: "Total number of callback tokens evicted by TTL cache clearing.",
		}, []string{"reason"}),
		sessionGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "botui_session_cache_size",
			Help: "Current number of chat sessions held in the session cache.",
		}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "botui_dispatch_duration_seconds",
			Help:    "Time to dispatch one update (callback query or message) to its handler.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
	}
	reg.MustRegister(c.tokensIssued, c.tokensEvicted, c.sessionGauge, c.dispatchLatency)
	return c
}

func (c *Collector) TokenIssued(kind string) {
	if c == nil {
		return
	}
	c.tokensIssued.WithLabelValues(kind).Inc()
}

func (c *Collector) TokenEvicted(reason string, n int) {
	if c == nil {
		return
	}
	c.tokensEvicted.WithLabelValues(reason).Add(float64(n))
}

func (c *Collector) SetSessionCount(n int) {
	if c == nil {
		return
	}
	c.sessionGauge.Set(float64(n))
}

// ObserveDispatch records one update's dispatch latency. Use as:
//
//	defer collector.ObserveDispatch("callback")()
func (c *Collector) ObserveDispatch(kind string) func() {
	if c == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		c.dispatchLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}

// Snapshot dumps the session gauge's current metric family, so a caller
// can read a live value without scraping an HTTP endpoint.
func (c *Collector) Snapshot() (*dto.Metric, error) {
	m := &dto.Metric{}
	if c == nil {
		return m, nil
	}
	if err := c.sessionGauge.Write(m); err != nil {
		return nil, err
	}
	return m, nil
}
