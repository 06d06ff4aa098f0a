package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		NotifyRequests,
		NotifyDuration,
		ManualReviewTotal,
	)
}

var (
	// Count of notification deliveries grouped by final outcome.
	// outcome: applied|already_terminal|ignored|malformed|signature_mismatch|
	//          source_rejected|order_not_found|amount_mismatch|store_unavailable
	NotifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_notify_requests_total",
			Help: "Count of /api/v1/payment/notify deliveries by outcome.",
		},
		[]string{"outcome"},
	)

	// Latency of the notification pipeline grouped by outcome.
	NotifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_notify_duration_seconds",
			Help:    "Duration of the notification pipeline in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"outcome"},
	)

	// Notifications and orders flagged for a human to look at.
	// reason: amount_mismatch|order_not_found|stale_pending
	ManualReviewTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_manual_review_total",
			Help: "Events flagged for manual review by reason.",
		},
		[]string{"reason"},
	)
)
