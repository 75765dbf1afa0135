// Package metrics provides Prometheus metrics for the Pulse analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus collectors for the service.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Upstream event store health
	storeQueryDuration *prometheus.HistogramVec
	storeErrors        *prometheus.CounterVec

	// Dashboard degradation and throttling
	degradedResponses *prometheus.CounterVec
	rateLimited       *prometheus.CounterVec

	// Ingest pipeline
	eventsIngested  prometheus.Counter
	eventsDuplicate prometheus.Counter
	leadsCaptured   prometheus.Counter
}

// NewManager creates a Manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "pulse",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"endpoint", "method"})

	m.storeQueryDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "store_query_duration_ms",
		Help:      "Event store call latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"operation"})

	m.storeErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "store_errors_total",
		Help:      "Event store call failures by operation.",
	}, []string{"operation"})

	m.degradedResponses = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "degraded_responses_total",
		Help:      "Read responses served as typed empty payloads after an upstream failure.",
	}, []string{"endpoint"})

	m.rateLimited = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected with 429 by limiter category.",
	}, []string{"category"})

	m.eventsIngested = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_ingested_total",
		Help:      "Events accepted and written to the store.",
	})

	m.eventsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_duplicate_total",
		Help:      "Ingest requests acknowledged as duplicates.",
	})

	m.leadsCaptured = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "leads_captured_total",
		Help:      "Marketing leads stored.",
	})

	return m
}

// Registry exposes the manager's registry for exposition handlers.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Default global manager used by package-level helpers.
var global = NewManager()

// GetRegistry returns the global registry.
func GetRegistry() *prometheus.Registry { return global.Registry() }

// RecordHTTPRequest counts one finished HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	global.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records the latency of one HTTP request.
func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	global.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordStoreQuery records the latency of one event store call.
func RecordStoreQuery(operation string, durationMs float64) {
	global.storeQueryDuration.WithLabelValues(operation).Observe(durationMs)
}

// RecordStoreError counts one failed event store call.
func RecordStoreError(operation string) {
	global.storeErrors.WithLabelValues(operation).Inc()
}

// RecordDegradedResponse counts one empty-success fallback response.
func RecordDegradedResponse(endpoint string) {
	global.degradedResponses.WithLabelValues(endpoint).Inc()
}

// RecordRateLimited counts one 429 rejection.
func RecordRateLimited(category string) {
	global.rateLimited.WithLabelValues(category).Inc()
}

// RecordEventIngested counts one stored event.
func RecordEventIngested() { global.eventsIngested.Inc() }

// RecordEventDuplicate counts one duplicate ingest acknowledgement.
func RecordEventDuplicate() { global.eventsDuplicate.Inc() }

// RecordLeadCaptured counts one stored lead.
func RecordLeadCaptured() { global.leadsCaptured.Inc() }
