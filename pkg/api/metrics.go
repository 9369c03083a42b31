package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Codec throughput metrics
	rowsTotal  *prometheus.CounterVec
	bytesTotal *prometheus.CounterVec

	// Codec failure metrics
	codecErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "muninn_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "muninn_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		rowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "muninn_codec_rows_total",
				Help: "Total number of rows processed by the codec service",
			},
			[]string{"operation", "status"},
		),

		bytesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "muninn_codec_bytes_total",
				Help: "Total row bytes processed by the codec service",
			},
			[]string{"operation"},
		),

		codecErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "muninn_codec_errors_total",
				Help: "Total codec failures by error kind",
			},
			[]string{"operation", "kind"},
		),
	}
}

// RecordRows records rows flowing through a codec operation
func (m *Metrics) RecordRows(operation string, success bool, rows int, bytes int) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.rowsTotal.WithLabelValues(operation, status).Add(float64(rows))
	m.bytesTotal.WithLabelValues(operation).Add(float64(bytes))
}

// RecordCodecError records a codec failure by kind
func (m *Metrics) RecordCodecError(operation, kind string) {
	m.codecErrorsTotal.WithLabelValues(operation, kind).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// responseWriter captures the status code written by a handler
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
