package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "channels"

// Interaction outcomes.
const (
	OutcomeScored          = "scored"
	OutcomeUnmapped        = "not_in_identifier_map"
	OutcomeNotInHypergraph = "not_in_hypergraph"
	OutcomeAdmitted        = "admitted"
	OutcomeBipartite       = "bipartite"
)

// Metrics holds the collectors of one run on a private registry, so a run
// can be exported as a node_exporter textfile as well as scraped.
type Metrics struct {
	registry *prometheus.Registry

	Interactions  *prometheus.CounterVec
	Inputs        *prometheus.CounterVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	RelaxDuration prometheus.Histogram
	RelaxRounds   prometheus.Histogram
	RelaxReached  prometheus.Histogram
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Interactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interactions_total",
				Help:      "Interactions processed, by outcome.",
			},
			[]string{"outcome"},
		),
		Inputs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inputs_total",
				Help:      "Interaction input files, by status (scored or skipped).",
			},
			[]string{"status"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relax_cache_hits_total",
			Help:      "Relaxations served from the aggregate cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relax_cache_misses_total",
			Help:      "Relaxations computed.",
		}),
		RelaxDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relax_duration_seconds",
			Help:      "Time spent computing one distance labeling.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
		RelaxRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relax_rounds",
			Help:      "Relaxation rounds that connected at least one node.",
			Buckets:   prometheus.LinearBuckets(0, 2, 16),
		}),
		RelaxReached: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relax_reached_nodes",
			Help:      "Nodes with a finite distance per labeling.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
	m.registry.MustRegister(
		m.Interactions,
		m.Inputs,
		m.CacheHits,
		m.CacheMisses,
		m.RelaxDuration,
		m.RelaxRounds,
		m.RelaxReached,
		collectors.NewGoCollector(),
	)
	return m
}

// CacheHit implements brelax.Recorder.
func (m *Metrics) CacheHit() { m.CacheHits.Inc() }

// CacheMiss implements brelax.Recorder.
func (m *Metrics) CacheMiss() { m.CacheMisses.Inc() }

// Relaxed implements brelax.Recorder.
func (m *Metrics) Relaxed(rounds, reached int, elapsed time.Duration) {
	m.RelaxDuration.Observe(elapsed.Seconds())
	m.RelaxRounds.Observe(float64(rounds))
	m.RelaxReached.Observe(float64(reached))
}

// CountInteractions adds n interactions under outcome.
func (m *Metrics) CountInteractions(outcome string, n int) {
	m.Interactions.WithLabelValues(outcome).Add(float64(n))
}

// InputDone records a finished unit of work; skipped marks a pre-existing output.
func (m *Metrics) InputDone(skipped bool) {
	status := "scored"
	if skipped {
		status = "skipped"
	}
	m.Inputs.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the registry to path for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
