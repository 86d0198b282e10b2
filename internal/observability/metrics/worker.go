package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

type WorkerMetrics struct {
	registry *prometheus.Registry
	pipeline *Pipeline
	service  string

	requestsInFlight prometheus.Gauge
	requestBytes     prometheus.Histogram
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	requestsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lcv",
			Subsystem: "worker",
			Name:      "analysis_requests_in_flight",
			Help:      "Number of analysis requests being served.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	requestBytes := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lcv",
			Subsystem: "worker",
			Name:      "request_bytes",
			Help:      "Size of documents received over the request subject.",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 7),
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(requestsInFlight, requestBytes)

	return &WorkerMetrics{
		registry:         registry,
		pipeline:         newPipeline(registry, service),
		service:          service,
		requestsInFlight: requestsInFlight,
		requestBytes:     requestBytes,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) Pipeline() *Pipeline { return m.pipeline }

func (m *WorkerMetrics) StartRequest(size int) {
	m.requestsInFlight.Inc()
	m.requestBytes.Observe(float64(size))
}

func (m *WorkerMetrics) FinishRequest() {
	m.requestsInFlight.Dec()
}

// Track wraps one request: in-flight accounting plus the pipeline outcome.
func (m *WorkerMetrics) Track(size int, run func() (*domain.Analysis, error)) (*domain.Analysis, error) {
	start := time.Now()
	m.StartRequest(size)
	defer m.FinishRequest()

	analysis, err := run()
	m.pipeline.RecordAnalysis(analysis, time.Since(start), err)
	return analysis, err
}
