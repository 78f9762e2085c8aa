// Package metrics exposes Prometheus instrumentation for the admin server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Form submission outcomes.
const (
	OutcomeSubmitted = "submitted"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Metrics holds the server's collectors.
type Metrics struct {
	registry        *prometheus.Registry
	FormSubmissions *prometheus.CounterVec
	MethodChanges   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FormSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paysplit",
			Name:      "form_submissions_total",
			Help:      "Form submissions by form ID and outcome.",
		}, []string{"form_id", "outcome"}),
		MethodChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paysplit",
			Name:      "method_changes_total",
			Help:      "Payment split method changes by action.",
		}, []string{"action"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "paysplit",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
	m.registry.MustRegister(
		m.FormSubmissions,
		m.MethodChanges,
		m.RequestDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Form records one form submission.
func (m *Metrics) Form(formID, outcome string) {
	m.FormSubmissions.WithLabelValues(formID, outcome).Inc()
}

// Change records one method change.
func (m *Metrics) Change(action string) {
	m.MethodChanges.WithLabelValues(action).Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
