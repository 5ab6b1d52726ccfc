// Package metrics defines the Prometheus metrics exported by the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "receiptsplit"

// Share computation outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeNoParticipants = "no_participants"
	OutcomeInvalid        = "invalid"
)

// Metrics holds every collector on a private registry.
// Safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests  *prometheus.CounterVec
	RPCDuration  *prometheus.HistogramVec
	RateLimited  *prometheus.CounterVec
	Computations *prometheus.CounterVec
	Unclaimed    prometheus.Counter
	Orphaned     prometheus.Counter
	BillsPurged  prometheus.Counter
}

// New creates and registers all metrics. Go runtime and process collectors
// are included when withRuntime is set.
func New(withRuntime bool) *Metrics {
	registry := prometheus.NewRegistry()
	if withRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: registry,
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_rate_limited_total",
			Help:      "RPC calls rejected by the rate limiter.",
		}, []string{"procedure"}),
		Computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_computations_total",
			Help:      "Share computations by outcome.",
		}, []string{"outcome"}),
		Unclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unclaimed_items_total",
			Help:      "Items reported unclaimed by share computations.",
		}),
		Orphaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_selections_total",
			Help:      "Selections ignored because they named a non-participant.",
		}),
		BillsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bills_purged_total",
			Help:      "Bills deleted by retention cleanup.",
		}),
	}

	registry.MustRegister(
		m.RPCRequests,
		m.RPCDuration,
		m.RateLimited,
		m.Computations,
		m.Unclaimed,
		m.Orphaned,
		m.BillsPurged,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveComputation records the outcome of one share computation.
func (m *Metrics) ObserveComputation(outcome string, unclaimed, orphaned int) {
	m.Computations.WithLabelValues(outcome).Inc()
	m.Unclaimed.Add(float64(unclaimed))
	m.Orphaned.Add(float64(orphaned))
}
