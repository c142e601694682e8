package handler

// metrics.go counts and times the operations executed by the handler

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "todoql",
			Name:      "operations_total",
			Help:      "GraphQL operations executed, by operation type and outcome.",
		}, []string{"type", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "todoql",
			Name:      "operation_duration_seconds",
			Help:      "Time taken to execute GraphQL operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"type"}),
	}
	reg.MustRegister(m.operations, m.duration)
	return m
}

func (m *metrics) observe(opType string, ok bool, elapsed time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.operations.WithLabelValues(opType, outcome).Inc()
	m.duration.WithLabelValues(opType).Observe(elapsed.Seconds())
}

// MetricsHandler returns an HTTP handler that serves the handler's registry in the Prometheus text format.
// If auth is on it requires the same session token as GraphQL requests.
func (h *Handler) MetricsHandler() http.Handler {
	metrics := promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.authorized(r) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		metrics.ServeHTTP(w, r)
	})
}
