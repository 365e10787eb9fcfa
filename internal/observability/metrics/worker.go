package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics covers the extraction and summarization pipelines.
type WorkerMetrics struct {
	registry *prometheus.Registry

	extractionTotal    *prometheus.CounterVec
	extractionDuration *prometheus.HistogramVec
	extractionInFlight prometheus.Gauge
	eventsPerRun       *prometheus.HistogramVec
	degradedRunsTotal  *prometheus.CounterVec
	summarizeTotal     *prometheus.CounterVec
	queueLag           *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	extractionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daylight",
			Subsystem: "worker",
			Name:      "extraction_runs_total",
			Help:      "Total extraction runs by status.",
		},
		[]string{"service", "status"},
	)
	extractionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daylight",
			Subsystem: "worker",
			Name:      "extraction_duration_seconds",
			Help:      "Extraction run duration in seconds by status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
		},
		[]string{"service", "status"},
	)
	extractionInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "daylight",
			Subsystem: "worker",
			Name:      "extraction_in_flight",
			Help:      "Number of in-flight extraction runs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	eventsPerRun := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daylight",
			Subsystem: "worker",
			Name:      "events_per_run",
			Help:      "Distribution of events created per completed run.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"service"},
	)
	degradedRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daylight",
			Subsystem: "worker",
			Name:      "degraded_runs_total",
			Help:      "Completed extraction runs that committed with warnings.",
		},
		[]string{"service"},
	)
	summarizeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daylight",
			Subsystem: "worker",
			Name:      "evidence_summarize_total",
			Help:      "Total evidence summarizations by status.",
		},
		[]string{"service", "status"},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daylight",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between job creation and claim.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		extractionTotal,
		extractionDuration,
		extractionInFlight,
		eventsPerRun,
		degradedRunsTotal,
		summarizeTotal,
		queueLag,
	)

	return &WorkerMetrics{
		registry:           registry,
		extractionTotal:    extractionTotal,
		extractionDuration: extractionDuration,
		extractionInFlight: extractionInFlight,
		eventsPerRun:       eventsPerRun,
		degradedRunsTotal:  degradedRunsTotal,
		summarizeTotal:     summarizeTotal,
		queueLag:           queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartExtraction() {
	m.extractionInFlight.Inc()
}

func (m *WorkerMetrics) FinishExtraction(service string, duration time.Duration, err error) {
	m.extractionInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.extractionTotal.WithLabelValues(service, status).Inc()
	m.extractionDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveRunResult(service string, eventsCreated int, degraded bool) {
	m.eventsPerRun.WithLabelValues(service).Observe(float64(eventsCreated))
	if degraded {
		m.degradedRunsTotal.WithLabelValues(service).Inc()
	}
}

func (m *WorkerMetrics) RecordSummarize(service string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.summarizeTotal.WithLabelValues(service, status).Inc()
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
