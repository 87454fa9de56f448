package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	Registry *prometheus.Registry

	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	flowTransitions *prometheus.CounterVec
	payments        *prometheus.CounterVec
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coaching",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coaching",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "path"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coaching",
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Errors returned to clients by code.",
		}, []string{"method", "path", "code"}),
		flowTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coaching",
			Subsystem: "flow",
			Name:      "transitions_total",
			Help:      "Flow controller operations by outcome.",
		}, []string{"operation", "outcome"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coaching",
			Subsystem: "payments",
			Name:      "checkouts_total",
			Help:      "Simulated checkouts by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.errors, m.flowTransitions, m.payments,
	)
	return m
}

// RecordRequest observes a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, path, code).Inc()
}

// RecordFlow counts a flow controller operation.
func (m *Metrics) RecordFlow(operation, outcome string) {
	if m == nil {
		return
	}
	m.flowTransitions.WithLabelValues(operation, outcome).Inc()
}

// RecordPayment counts a checkout attempt.
func (m *Metrics) RecordPayment(provider, outcome string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(provider, outcome).Inc()
}
