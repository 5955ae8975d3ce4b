package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/cortex/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the brain collectors on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	events       *prometheus.CounterVec
	tickDuration prometheus.Histogram
	nodes        prometheus.Gauge
	links        prometheus.Gauge
	signals      prometheus.Gauge
	active       prometheus.Gauge
	version      prometheus.Gauge
}

// NewMetrics creates and registers the brain collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cortex_events_total",
				Help: "Total number of brain events by type",
			},
			[]string{"type"},
		),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cortex_tick_duration_seconds",
			Help:    "Duration of decay and signal ticks",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cortex_nodes",
			Help: "Number of concepts in the brain",
		}),
		links: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cortex_links",
			Help: "Number of relations in the brain, dangling ones included",
		}),
		signals: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cortex_signals_live",
			Help: "Number of signals in flight",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cortex_nodes_active",
			Help: "Number of concepts with a non-zero activation level",
		}),
		version: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cortex_snapshot_version",
			Help: "Version of the last published snapshot",
		}),
	}

	m.registry.MustRegister(
		m.events, m.tickDuration,
		m.nodes, m.links, m.signals, m.active, m.version,
	)
	return m
}

// Registry exposes the underlying registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks feeding the event counters, chained before next.
func (m *Metrics) Hooks(next domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNode: func(ctx context.Context, e *domain.NodeEvent) {
			m.events.WithLabelValues(string(e.Type)).Inc()
			if next.OnNode != nil {
				next.OnNode(ctx, e)
			}
		},
		OnLink: func(ctx context.Context, e *domain.LinkEvent) {
			m.events.WithLabelValues(string(e.Type)).Inc()
			if next.OnLink != nil {
				next.OnLink(ctx, e)
			}
		},
		OnSignal: func(ctx context.Context, e *domain.SignalEvent) {
			m.events.WithLabelValues(string(e.Type)).Inc()
			if next.OnSignal != nil {
				next.OnSignal(ctx, e)
			}
		},
		OnTick: func(ctx context.Context, d time.Duration) {
			m.tickDuration.Observe(d.Seconds())
			if next.OnTick != nil {
				next.OnTick(ctx, d)
			}
		},
	}
}

// OnSnapshot implements graph.Observer.
func (m *Metrics) OnSnapshot(s domain.Snapshot) {
	active := 0
	for _, n := range s.Nodes {
		if n.ActivationLevel > 0 {
			active++
		}
	}
	m.nodes.Set(float64(len(s.Nodes)))
	m.links.Set(float64(len(s.Links)))
	m.signals.Set(float64(len(s.Signals)))
	m.active.Set(float64(active))
	m.version.Set(float64(s.Version))
}
