package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

var (
	// GrantsTotal counts connection grants by access type and source (paid, free).
	GrantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access",
			Name:      "grants_total",
			Help:      "Total connection grants by access type and source",
		},
		[]string{"access_type", "source"},
	)

	// PaymentOutcomesTotal counts checkout outcomes reported by the gateway or client.
	PaymentOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "outcomes_total",
			Help:      "Total payment outcomes by result",
		},
		[]string{"outcome"},
	)

	// ReviewTriggersTotal counts review solicitation attempts by outcome.
	ReviewTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access",
			Name:      "review_triggers_total",
			Help:      "Total review solicitation attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ReconciliationTotal counts payments captured without a recorded grant.
	ReconciliationTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "reconciliation_required_total",
			Help:      "Payments captured whose connection could not be recorded",
		},
	)

	// GatewayLatency observes payment gateway call latency by operation.
	GatewayLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "gateway_request_seconds",
			Help:      "Payment gateway request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
