// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_verifications_total",
			Help: "Webhook signature verifications by result",
		},
		[]string{"result"},
	)

	WebhookRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_rate_limited_total",
			Help: "Webhook deliveries rejected by the per-IP rate limiter",
		},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_dispatched_total",
			Help: "Accepted webhook events by type and dispatch outcome",
		},
		[]string{"type", "outcome"},
	)

	TenantResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_resolutions_total",
			Help: "Tenant middleware outcomes by code",
		},
		[]string{"outcome"},
	)

	SweepRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_removed_total",
			Help: "Entries removed by background sweeps",
		},
		[]string{"target"},
	)
)
