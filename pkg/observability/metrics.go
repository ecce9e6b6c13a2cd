package observability

import (
	"context"
	"errors"

	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultOK       = "ok"
	ResultCapacity = "capacity"
	ResultInvalid  = "invalid"
)

// Metrics records compilations in Prometheus.
type Metrics struct {
	compilations *prometheus.CounterVec
	duration     prometheus.Histogram
	nodes        *prometheus.CounterVec
	programBytes prometheus.Histogram
	cache        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		compilations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soundboard_compilations_total",
				Help: "Total number of compilations by result",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "soundboard_compile_duration_seconds",
				Help:    "Duration of compilations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		nodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soundboard_nodes_encoded_total",
				Help: "Total number of menu paths encoded, by kind",
			},
			[]string{"kind"},
		),
		programBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "soundboard_program_bytes",
				Help:    "Size of compiled programs",
				Buckets: prometheus.ExponentialBuckets(1024, 2, 10),
			},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soundboard_cache_lookups_total",
				Help: "Artifact cache lookups by outcome",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.compilations, m.duration, m.nodes, m.programBytes, m.cache)
	return m
}

// Hooks returns compiler hooks that feed the collectors.
func (m *Metrics) Hooks() domain.CompileHooks {
	return domain.CompileHooks{
		OnNodeEncoded: func(_ context.Context, e *domain.NodeEvent) {
			m.nodes.WithLabelValues(string(e.Kind)).Inc()
		},
		OnCompiled: func(_ context.Context, e *domain.CompileEvent) {
			m.compilations.WithLabelValues(Result(e.Err)).Inc()
			m.duration.Observe(e.Duration.Seconds())
			if e.Err == nil {
				m.programBytes.Observe(float64(e.Stats.Bytes))
			}
		},
	}
}

// CacheLookup records an artifact cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if hit {
		m.cache.WithLabelValues("hit").Inc()
		return
	}
	m.cache.WithLabelValues("miss").Inc()
}

// Result classifies a compilation error for the result label.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}
	var ce *domain.CompileError
	if errors.As(err, &ce) && ce.Kind() == domain.KindCapacity {
		return ResultCapacity
	}
	return ResultInvalid
}

// NodesCounter exposes the per-kind node counter.
func (m *Metrics) NodesCounter(kind string) prometheus.Counter {
	return m.nodes.WithLabelValues(kind)
}
