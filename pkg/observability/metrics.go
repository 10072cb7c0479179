package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics exported by the graph builder
type Metrics struct {
	// Build metrics
	BuildsTotal   prometheus.Counter
	BuildDuration prometheus.Histogram

	// Load metrics
	VectorsLoaded prometheus.Counter

	// Construction metrics
	MedoidDuration    prometheus.Histogram
	VerticesProcessed *prometheus.CounterVec
	PassDuration      *prometheus.HistogramVec

	// Graph shape metrics
	GraphEdges     prometheus.Gauge
	GraphAvgDegree prometheus.Gauge
}

// NewMetrics creates and registers all builder metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BuildsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vamana_builds_total",
				Help: "Total number of completed graph builds",
			},
		),
		BuildDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vamana_build_duration_seconds",
				Help:    "End-to-end build duration in seconds",
				Buckets: []float64{.1, .5, 1, 5, 15, 60, 300, 900, 3600},
			},
		),
		VectorsLoaded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vamana_vectors_loaded_total",
				Help: "Total number of vectors loaded from datasets",
			},
		),
		MedoidDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vamana_medoid_duration_seconds",
				Help:    "Medoid selection duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		VerticesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vamana_vertices_processed_total",
				Help: "Vertices refined per pass",
			},
			[]string{"pass"},
		),
		PassDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vamana_pass_duration_seconds",
				Help:    "Refinement pass duration in seconds",
				Buckets: []float64{.1, .5, 1, 5, 15, 60, 300, 900, 3600},
			},
			[]string{"pass"},
		),
		GraphEdges: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vamana_graph_edges",
				Help: "Outgoing edges in the most recently built graph",
			},
		),
		GraphAvgDegree: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vamana_graph_avg_out_degree",
				Help: "Average out-degree of the most recently built graph",
			},
		),
	}
}

// ObserveGraph records the shape of a finished graph
func (m *Metrics) ObserveGraph(edges, vertices int) {
	m.GraphEdges.Set(float64(edges))
	if vertices > 0 {
		m.GraphAvgDegree.Set(float64(edges) / float64(vertices))
	}
}
