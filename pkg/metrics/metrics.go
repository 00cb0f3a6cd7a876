// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Audit outcomes recorded by AuditsTotal.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// AuditsTotal counts audits by language and outcome.
	AuditsTotal *prometheus.CounterVec

	// StageDuration tracks time spent per workflow stage.
	StageDuration *prometheus.HistogramVec

	// AuditScore records the overall score of completed audits.
	AuditScore prometheus.Histogram

	// MediaAnnotated records how many media entries carried licensing metadata.
	MediaAnnotated prometheus.Histogram

	// RequestDuration tracks HTTP request latency by method and status.
	RequestDuration *prometheus.HistogramVec
}

// New creates Metrics with process and Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AuditsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "elpaudit_audits_total",
				Help: "Audits processed by language and outcome",
			},
			[]string{"language", "outcome"},
		),
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "elpaudit_stage_duration_seconds",
				Help:    "Time spent in each audit stage",
				Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"stage"},
		),
		AuditScore: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "elpaudit_audit_score",
				Help:    "Overall score of completed audits",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		MediaAnnotated: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "elpaudit_media_annotated",
				Help:    "Media entries with licensing metadata per audit",
				Buckets: prometheus.LinearBuckets(0, 5, 11),
			},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "elpaudit_http_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status"},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStage records the duration of a workflow stage started at start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Middleware records RequestDuration for every request passing through next.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.RequestDuration.
			WithLabelValues(r.Method, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
