// Package metrics holds the engine's Prometheus collectors. Everything is
// registered on the default registry and served from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lendqube_reservations_created_total",
		Help: "Reservations successfully placed against a mapping.",
	})

	ReservationsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lendqube_reservations_expired_total",
		Help: "Reservations released by the expiry sweeper.",
	})

	Disbursements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lendqube_disbursements_total",
		Help: "Disbursement outcomes by status.",
	}, []string{"status"})

	AutoDebitCharges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lendqube_autodebit_charges_total",
		Help: "Auto-debit charge attempts by outcome.",
	}, []string{"outcome"})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lendqube_webhook_events_total",
		Help: "Outbound merchant webhook deliveries by outcome.",
	}, []string{"outcome"})
)
