// Package report turns raw benchmark samples into three output forms: a
// live console table, a latency histogram usable by any
// Prometheus-compatible scraper, and a PNG chart comparing index
// structures.
package report

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects per-operation latency samples into a Prometheus
// histogram vector, labeled by index structure and operation name, so a
// long-running benchmark process can expose /metrics alongside the CSV
// and chart outputs.
type Recorder struct {
	registry  *prometheus.Registry
	latencyNs *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	latencyNs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bpptreebench_operation_latency_nanoseconds",
		Help:    "Per-operation latency observed while benchmarking an index structure.",
		Buckets: prometheus.ExponentialBuckets(100, 4, 12),
	}, []string{"structure", "config", "operation"})
	registry.MustRegister(latencyNs)
	return &Recorder{registry: registry, latencyNs: latencyNs}
}

func (r *Recorder) Observe(structure, config, operation string, ns int64) {
	r.latencyNs.WithLabelValues(structure, config, operation).Observe(float64(ns))
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }
