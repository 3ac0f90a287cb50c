// Package metrics provides Prometheus metrics for the pricing service.
// It covers prediction throughput and latency, validation rejections,
// and the state of the loaded model artifact, all exposed through the
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pricing service.
type Metrics struct {
	// Prediction metrics
	PredictionsTotal   prometheus.Counter   // Total number of successful prediction batches
	PredictionFailures prometheus.Counter   // Total number of failed prediction attempts
	PredictionLatency  prometheus.Histogram // End-to-end pipeline latency in seconds
	BatchSize          prometheus.Histogram // Records per prediction request

	// Request validation metrics
	ValidationErrors prometheus.Counter // Total number of rejected requests

	// Model artifact metrics
	ModelLoaded prometheus.Gauge // 1 when the artifact is loaded, 0 otherwise
	ModelAge    prometheus.Gauge // Age of the loaded artifact in seconds

	// HTTP metrics
	RequestsTotal *prometheus.CounterVec // Requests by handler and status class
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry, which keeps
// tests isolated from the global Prometheus state.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricing_predictions_total",
			Help: "Total number of successful prediction batches",
		}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricing_prediction_failures_total",
			Help: "Total number of failed prediction attempts",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pricing_prediction_latency_seconds",
			Help:    "Pipeline prediction latency in seconds (end-to-end)",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pricing_batch_size",
			Help:    "Number of records per prediction request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		ValidationErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricing_validation_errors_total",
			Help: "Total number of requests rejected by input validation",
		}),
		ModelLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pricing_model_loaded",
			Help: "Whether the model artifact is loaded (1) or not (0)",
		}),
		ModelAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pricing_model_age_seconds",
			Help: "Age of the loaded model artifact in seconds",
		}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricing_http_requests_total",
			Help: "HTTP requests by handler and status class",
		}, []string{"handler", "status"}),
	}
}
