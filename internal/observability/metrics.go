package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus metrics of one trustgraph run. Each
// Collector owns its registry so tests and repeated runs never collide.
type Collector struct {
	registry *prometheus.Registry

	Nodes            prometheus.Gauge
	Edges            prometheus.Gauge
	Components       prometheus.Gauge
	LargestComponent prometheus.Gauge
	Representatives  prometheus.Gauge
	MeanTrust        prometheus.Gauge
	MeanClustering   prometheus.Gauge

	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec
}

// NewCollector creates a collector with every metric under namespace.
func NewCollector(namespace string) *Collector {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}

	c := &Collector{
		registry:         prometheus.NewRegistry(),
		Nodes:            gauge("graph_nodes", "Number of nodes in the analyzed trust network"),
		Edges:            gauge("graph_edges", "Number of edges in the analyzed trust network"),
		Components:       gauge("graph_components", "Number of weakly-connected components"),
		LargestComponent: gauge("graph_largest_component_nodes", "Node count of the largest component"),
		Representatives:  gauge("representatives_selected", "Number of representative nodes selected"),
		MeanTrust:        gauge("trust_score_mean", "Mean trust score across all nodes"),
		MeanClustering:   gauge("clustering_coefficient_mean", "Mean clustering coefficient across all nodes"),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		StageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_errors_total",
				Help:      "Pipeline stage failures",
			},
			[]string{"stage"},
		),
	}

	c.registry.MustRegister(
		c.Nodes,
		c.Edges,
		c.Components,
		c.LargestComponent,
		c.Representatives,
		c.MeanTrust,
		c.MeanClustering,
		c.StageDuration,
		c.StageErrors,
	)
	return c
}

// Registry exposes the underlying registry as a gatherer.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveStage records the duration of a stage and counts it as failed
// when err is non-nil.
func (c *Collector) ObserveStage(stage string, d time.Duration, err error) {
	c.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		c.StageErrors.WithLabelValues(stage).Inc()
	}
}

// WriteTextfile writes all metrics in the Prometheus text format for the
// node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
