package repository

import (
	"context"
	"time"

	"shop-payment-engine/internal/domain/model"
)

// -----------------------------
// Orders
// -----------------------------

// OrderRepository is the engine's window onto the external Order Store.
// The engine never creates orders and never touches total_amount.
type OrderRepository interface {
	// FindByReference matches either the internal id or the human-readable
	// order number, interchangeably.
	FindByReference(ctx context.Context, qx any, ref string) (*model.Order, error)

	// MarkPaymentIfPending applies payment/fulfillment status and the gateway
	// transaction id in a single conditional write that only succeeds while
	// payment_status is still 'pending'. Returns false when the order was
	// already terminal (idempotent no-op). fulfillment may be
	// model.FulfillmentUnchanged to keep the current value.
	MarkPaymentIfPending(ctx context.Context, qx any, ref string, payment model.PaymentStatus, fulfillment model.FulfillmentStatus, gatewayTxnID string) (bool, error)

	// ListPendingOlderThan returns orders stuck in 'pending' since before the
	// cutoff, for the manual-review sweeper.
	ListPendingOlderThan(ctx context.Context, qx any, olderThan time.Time, limit int) ([]*model.Order, error)
}
