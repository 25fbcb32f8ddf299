package observe

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process counters exposed on /metrics.
type Metrics struct {
	UploadsTotal     prometheus.Counter
	InferencesTotal  prometheus.Counter
	InferenceErrors  prometheus.Counter
	ValidationsTotal prometheus.Counter
	ExportsTotal     prometheus.Counter
	InferenceSeconds prometheus.Histogram

	registry *prometheus.Registry
}

// New creates the metrics set on a private registry.
func New() *Metrics {
	m := &Metrics{
		UploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "visionpulse_uploads_total",
			Help: "Total accepted image uploads",
		}),
		InferencesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "visionpulse_inferences_total",
			Help: "Total successful inference calls",
		}),
		InferenceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "visionpulse_inference_errors_total",
			Help: "Total failed inference calls",
		}),
		ValidationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "visionpulse_validations_total",
			Help: "Total box validation verdicts applied",
		}),
		ExportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "visionpulse_exports_total",
			Help: "Total label exports",
		}),
		InferenceSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "visionpulse_inference_seconds",
			Help:    "Detector wall-clock time per inference",
			Buckets: prometheus.DefBuckets,
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.UploadsTotal,
		m.InferencesTotal,
		m.InferenceErrors,
		m.ValidationsTotal,
		m.ExportsTotal,
		m.InferenceSeconds,
	)

	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
