package telemetry

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates Prometheus instrumentation for the sync client.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	interactionsInFlight prometheus.Gauge
	interactionsTotal    *prometheus.CounterVec
	interactionDuration  *prometheus.HistogramVec
	notificationsTotal   *prometheus.CounterVec
	staleFetchesTotal    *prometheus.CounterVec
}

// NewMetrics registers the client's collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	interactionsInFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tapp_interactions_in_flight",
		Help: "Number of API interactions currently in flight",
	})

	interactionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tapp_interactions_total",
		Help: "Total API interactions by operation and outcome",
	}, []string{"operation", "outcome"})

	interactionDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tapp_interaction_duration_seconds",
		Help:    "Duration of API interactions in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	notificationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tapp_notifications_total",
		Help: "Total user-facing notifications by severity",
	}, []string{"severity"})

	staleFetchesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tapp_stale_fetches_discarded_total",
		Help: "Fetch results discarded because the active session changed in flight",
	}, []string{"collection"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(interactionsInFlight, interactionsTotal, interactionDuration, notificationsTotal, staleFetchesTotal, goroutines)

	return &Metrics{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		interactionsInFlight: interactionsInFlight,
		interactionsTotal:    interactionsTotal,
		interactionDuration:  interactionDuration,
		notificationsTotal:   notificationsTotal,
		staleFetchesTotal:    staleFetchesTotal,
	}
}

// Handler exposes the registry for the status server.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// InteractionStarted marks one interaction in flight.
func (m *Metrics) InteractionStarted() {
	if m == nil {
		return
	}
	m.interactionsInFlight.Inc()
}

// InteractionEnded records an interaction's outcome and duration.
func (m *Metrics) InteractionEnded(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.interactionsInFlight.Dec()
	m.interactionsTotal.WithLabelValues(operation, outcome).Inc()
	m.interactionDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// NotificationEmitted counts a user-facing notification.
func (m *Metrics) NotificationEmitted(severity string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(severity).Inc()
}

// StaleFetchDiscarded counts a discarded fetch result.
func (m *Metrics) StaleFetchDiscarded(collection string) {
	if m == nil {
		return
	}
	m.staleFetchesTotal.WithLabelValues(collection).Inc()
}
