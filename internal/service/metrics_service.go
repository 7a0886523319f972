package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// plan synthesis loop.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	oracleDuration  *prometheus.HistogramVec
	planOutcomes    *prometheus.CounterVec
	planAttempts    prometheus.Histogram
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	oracleDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oracle_request_duration_seconds",
		Help:    "Duration of language model requests",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"operation", "outcome"})

	planOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_generation_total",
		Help: "Plan generation runs by result",
	}, []string{"result"})

	planAttempts := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plan_generation_attempts",
		Help:    "Oracle attempts consumed per plan generation run",
		Buckets: []float64{1, 2, 3, 4, 5},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, oracleDuration, planOutcomes, planAttempts, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		oracleDuration:  oracleDuration,
		planOutcomes:    planOutcomes,
		planAttempts:    planAttempts,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveOracleRequest times an individual language model call.
func (m *MetricsService) ObserveOracleRequest(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.oracleDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// ObservePlanGeneration records the terminal result of a synthesis run and
// how many attempts it consumed.
func (m *MetricsService) ObservePlanGeneration(result string, attempts int) {
	if m == nil {
		return
	}
	m.planOutcomes.WithLabelValues(result).Inc()
	m.planAttempts.Observe(float64(attempts))
}
