package model

// External gateway status vocabulary.
const (
	ExternalStatusComplete  = "COMPLETE"
	ExternalStatusFailed    = "FAILED"
	ExternalStatusCancelled = "CANCELLED"
)

// MapExternalStatus translates the gateway's status vocabulary into the
// internal order lifecycle. Unknown values map to the safest state: pending
// with fulfillment unchanged, never to a successful payment. The third
// return reports whether the value was recognized.
func MapExternalStatus(external string) (PaymentStatus, FulfillmentStatus, bool) {
	switch external {
	case ExternalStatusComplete:
		return PaymentStatusPaid, FulfillmentStatusConfirmed, true
	case ExternalStatusFailed:
		return PaymentStatusFailed, FulfillmentUnchanged, true
	case ExternalStatusCancelled:
		return PaymentStatusFailed, FulfillmentStatusCancelled, true
	default:
		return PaymentStatusPending, FulfillmentUnchanged, false
	}
}
