package repository

import "context"

// ProcessedNotificationCache remembers gateway transaction ids that already
// reached a terminal outcome so re-deliveries can be absorbed without a store
// round trip. It is an optimization only; the conditional write in
// OrderRepository remains the authoritative idempotency guard.
type ProcessedNotificationCache interface {
	MarkProcessed(ctx context.Context, gatewayTxnID, outcome string) error
	ProcessedOutcome(ctx context.Context, gatewayTxnID string) (string, bool, error)
}
