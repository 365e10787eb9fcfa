package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	submissionsTotal *prometheus.CounterVec
	uploadsTotal     *prometheus.CounterVec
	exportsTotal     *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daylight",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daylight",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "daylight",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	submissionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daylight",
			Subsystem: "journal",
			Name:      "submissions_total",
			Help:      "Total accepted journal entry submissions.",
		},
		[]string{"service", "kind"},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daylight",
			Subsystem: "evidence",
			Name:      "uploads_total",
			Help:      "Total accepted evidence uploads.",
		},
		[]string{"service"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daylight",
			Subsystem: "export",
			Name:      "timelines_total",
			Help:      "Total timeline exports rendered.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		submissionsTotal,
		uploadsTotal,
		exportsTotal,
	)

	return &HTTPServerMetrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		submissionsTotal: submissionsTotal,
		uploadsTotal:     uploadsTotal,
		exportsTotal:     exportsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())

		if recorder.statusCode == http.StatusAccepted {
			switch {
			case r.URL.Path == "/v1/journal-entries":
				m.submissionsTotal.WithLabelValues(service, "submit").Inc()
			case strings.HasSuffix(r.URL.Path, "/redo"):
				m.submissionsTotal.WithLabelValues(service, "redo").Inc()
			case r.URL.Path == "/v1/evidence":
				m.uploadsTotal.WithLabelValues(service).Inc()
			}
		}
		if recorder.statusCode == http.StatusOK && r.URL.Path == "/v1/export/timeline" {
			m.exportsTotal.WithLabelValues(service).Inc()
		}
	})
}

// normalizePath collapses entity ids so the path label stays bounded.
func normalizePath(path string) string {
	switch {
	case strings.HasSuffix(path, "/redo"):
		return "/v1/journal-entries/{entry_id}/redo"
	case strings.HasPrefix(path, "/v1/journal-entries/"):
		return "/v1/journal-entries/{entry_id}"
	case strings.HasPrefix(path, "/v1/jobs/"):
		return "/v1/jobs/{job_id}"
	case strings.HasPrefix(path, "/v1/evidence/"):
		return "/v1/evidence/{evidence_id}"
	default:
		return path
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
