package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/sieve/pkg/validator"
)

// Validation outcomes used as the "outcome" label.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// UnknownForm labels rate-limited requests for names that are not registered.
const UnknownForm = "unknown"

// Metrics records validation counters on a private Prometheus registry.
type Metrics struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rateLimited *prometheus.CounterVec
}

// NewMetrics creates the collectors together with Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sieve_validations_total",
			Help: "Validations performed, by form and outcome.",
		}, []string{"form", "outcome"}),
		fieldErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sieve_validation_errors_total",
			Help: "Field errors reported, by form and error code.",
		}, []string{"form", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sieve_validation_duration_seconds",
			Help:    "Time spent extracting and validating a submission.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"form"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sieve_rate_limited_total",
			Help: "Submissions rejected by the rate limiter, by form.",
		}, []string{"form"}),
	}
	m.registry.MustRegister(
		m.validations,
		m.fieldErrors,
		m.duration,
		m.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests or extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Observe records one validation. errs may be nil.
func (m *Metrics) Observe(form, outcome string, errs validator.Errors, elapsed time.Duration) {
	m.validations.WithLabelValues(form, outcome).Inc()
	m.duration.WithLabelValues(form).Observe(elapsed.Seconds())
	for field := range errs {
		code := "custom"
		if rec, ok := errs.Record(field); ok && rec.Code != "" {
			code = rec.Code
		}
		m.fieldErrors.WithLabelValues(form, code).Inc()
	}
}

// RateLimited counts a submission rejected before validation.
func (m *Metrics) RateLimited(form string) {
	m.rateLimited.WithLabelValues(form).Inc()
}
