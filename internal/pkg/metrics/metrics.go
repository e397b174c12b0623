// Package metrics holds the Prometheus collectors of the dispatch service.
// They are registered on the default registry and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandOutcomes counts handled commands by name and outcome
	// (applied, degraded, rejected, failed).
	CommandOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dispatch",
		Name:      "command_outcomes_total",
		Help:      "Handled commands by outcome",
	}, []string{"command", "outcome"})

	// Degradations counts every degraded path taken.
	Degradations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dispatch",
		Name:      "degradations_total",
		Help:      "Degraded paths taken while serving commands",
	}, []string{"kind"})

	PublishedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dispatch",
		Name:      "published_events_total",
		Help:      "Delivery events handed to the broker",
	}, []string{"subject", "result"})

	ConsumedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dispatch",
		Name:      "consumed_events_total",
		Help:      "order.created messages processed by the consumer",
	}, []string{"result"})

	LiveDeliveries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dispatch",
		Name:      "live_deliveries_total",
		Help:      "Route updates handed to live observers",
	})

	LiveObservers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dispatch",
		Name:      "live_observers",
		Help:      "Currently connected live observers",
	})
)
