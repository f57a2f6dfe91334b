package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation. A nil *MetricsService records nothing.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	uploads           *prometheus.CounterVec
	watermarkDuration *prometheus.HistogramVec
	storageDuration   *prometheus.HistogramVec
	compensations     *prometheus.CounterVec
	rateLimited       prometheus.Counter
}

// NewMetricsService registers the service collectors.
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

	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_uploads_total",
		Help: "Document uploads by outcome",
	}, []string{"outcome"})

	watermarkDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "watermark_duration_seconds",
		Help:    "Time spent watermarking a document",
		Buckets: prometheus.DefBuckets,
	}, []string{"mime"})

	storageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "objectstore_operation_duration_seconds",
		Help:    "Duration of object store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "outcome"})

	compensations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_compensations_total",
		Help: "Compensating deletes of orphaned objects by outcome",
	}, []string{"outcome"})

	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limited_requests_total",
		Help: "Requests rejected by the upload rate limiter",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, uploads, watermarkDuration, storageDuration, compensations, rateLimited, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		uploads:           uploads,
		watermarkDuration: watermarkDuration,
		storageDuration:   storageDuration,
		compensations:     compensations,
		rateLimited:       rateLimited,
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

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordUpload counts an upload attempt by outcome (stored, rejected, failed).
func (m *MetricsService) RecordUpload(outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
}

// ObserveWatermark records the time spent watermarking a document of the given MIME type.
func (m *MetricsService) ObserveWatermark(mime string, duration time.Duration) {
	if m == nil {
		return
	}
	m.watermarkDuration.WithLabelValues(mime).Observe(duration.Seconds())
}

// ObserveStorage records an object store call.
func (m *MetricsService) ObserveStorage(op string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.storageDuration.WithLabelValues(op, outcomeLabel(err)).Observe(duration.Seconds())
}

// RecordCompensation counts a compensating delete (deleted, queued, dropped).
func (m *MetricsService) RecordCompensation(outcome string) {
	if m == nil {
		return
	}
	m.compensations.WithLabelValues(outcome).Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func (m *MetricsService) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
