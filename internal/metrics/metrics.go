// Package metrics exposes the daemon's Prometheus instrumentation behind a
// single registry so /metrics only reports netlog series.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reasons recorded on the dropped counter.
const (
	DropRateLimit = "ratelimit"
	DropSuppress  = "whitelist"
)

// Metrics owns every series the daemon exports. Counters are updated on the
// submission path; the ring gauges are refreshed from store stats.
type Metrics struct {
	registry *prometheus.Registry

	eventsTotal    *prometheus.CounterVec
	droppedTotal   *prometheus.CounterVec
	evictedTotal   prometheus.Counter
	truncatedTotal prometheus.Counter

	ringLiveRecords prometheus.Gauge
	ringUsedBytes   prometheus.Gauge
	sessionsOpen    prometheus.Gauge

	appendSeconds prometheus.Histogram
}

// New builds and registers the full metric set on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netlog_events_total",
				Help: "Connection events observed, by probe.",
			},
			[]string{"probe"},
		),
		droppedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netlog_dropped_total",
				Help: "Events discarded before reaching the ring, by reason.",
			},
			[]string{"reason"},
		),
		evictedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "netlog_evicted_records_total",
				Help: "Records evicted from the ring to make room.",
			},
		),
		truncatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "netlog_truncated_paths_total",
				Help: "Appends whose executable path was truncated.",
			},
		),
		ringLiveRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "netlog_ring_live_records",
				Help: "Records currently held in the ring.",
			},
		),
		ringUsedBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "netlog_ring_used_bytes",
				Help: "Arena bytes spanned by live records.",
			},
		),
		sessionsOpen: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "netlog_sessions_open",
				Help: "Reader sessions currently open.",
			},
		),
		appendSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "netlog_append_duration_seconds",
				Help:    "Time spent appending one event to the ring.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	m.register()
	return m
}

func (m *Metrics) register() {
	for _, c := range []prometheus.Collector{
		m.eventsTotal,
		m.droppedTotal,
		m.evictedTotal,
		m.truncatedTotal,
		m.ringLiveRecords,
		m.ringUsedBytes,
		m.sessionsOpen,
		m.appendSeconds,
	} {
		m.registry.MustRegister(c)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveEvent counts one event from the named probe.
func (m *Metrics) ObserveEvent(probe string) {
	m.eventsTotal.WithLabelValues(probe).Inc()
}

// ObserveDrop counts one event discarded before the ring.
func (m *Metrics) ObserveDrop(reason string) {
	m.droppedTotal.WithLabelValues(reason).Inc()
}

// ObserveTruncation counts one path truncation.
func (m *Metrics) ObserveTruncation() {
	m.truncatedTotal.Inc()
}

// ObserveAppend records the latency of one ring append.
func (m *Metrics) ObserveAppend(seconds float64) {
	m.appendSeconds.Observe(seconds)
}

// OnEvict counts an evicted sequence range. Satisfies the ring's eviction
// hook interface.
func (m *Metrics) OnEvict(minSeq, maxSeq uint64) {
	m.evictedTotal.Add(float64(maxSeq - minSeq + 1))
}

// SetRingStats refreshes the ring occupancy gauges.
func (m *Metrics) SetRingStats(liveRecords, usedBytes, sessionsOpen float64) {
	m.ringLiveRecords.Set(liveRecords)
	m.ringUsedBytes.Set(usedBytes)
	m.sessionsOpen.Set(sessionsOpen)
}
