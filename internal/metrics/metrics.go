// Package metrics provides Prometheus metrics definitions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fuelsentinel"

var (
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Price source requests by category and outcome",
		},
		[]string{"category", "status"},
	)

	upstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Price source request latency in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"category"},
	)

	firings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "firings_total",
			Help:      "Daily notification firings by outcome",
		},
		[]string{"status"},
	)

	deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "deliveries_total",
			Help:      "Per-recipient delivery attempts by outcome",
		},
		[]string{"status"},
	)

	commands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "commands_total",
			Help:      "Inbound chat commands by name",
		},
		[]string{"command"},
	)

	subscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "subscribers",
			Name:      "count",
			Help:      "Number of ids held by each subscriber store",
		},
		[]string{"store"},
	)
)

// RecordUpstream records one price source request.
func RecordUpstream(category, status string, duration time.Duration) {
	upstreamRequests.WithLabelValues(category, status).Inc()
	upstreamDuration.WithLabelValues(category).Observe(duration.Seconds())
}

// RecordFiring records the outcome of a scheduler firing.
func RecordFiring(status string) {
	firings.WithLabelValues(status).Inc()
}

// RecordDelivery records one delivery attempt outcome: sent, failed or evicted.
func RecordDelivery(status string) {
	deliveries.WithLabelValues(status).Inc()
}

// RecordCommand counts an inbound chat command.
func RecordCommand(command string) {
	commands.WithLabelValues(command).Inc()
}

// SetSubscribers updates the size gauge of a subscriber store.
func SetSubscribers(store string, n int) {
	subscribers.WithLabelValues(store).Set(float64(n))
}
