package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // awaiting gateway notification
	PaymentStatusPaid    PaymentStatus = "paid"    // gateway confirmed the payment
	PaymentStatusFailed  PaymentStatus = "failed"  // gateway reported failure or cancellation
)

type FulfillmentStatus string

const (
	FulfillmentStatusPending   FulfillmentStatus = "pending"
	FulfillmentStatusConfirmed FulfillmentStatus = "confirmed"
	FulfillmentStatusCancelled FulfillmentStatus = "cancelled"
	FulfillmentStatusShipped   FulfillmentStatus = "shipped"
	FulfillmentStatusDelivered FulfillmentStatus = "delivered"
)

// FulfillmentUnchanged marks a transition that leaves fulfillment as-is
// (e.g. a FAILED notification keeps whatever fulfillment state the order had).
const FulfillmentUnchanged FulfillmentStatus = ""

// Order is owned by the checkout flow; this engine only reads it and moves
// payment_status out of 'pending' exactly once. TotalAmount is computed
// server-side at order creation and is never overwritten here.
type Order struct {
	ID                string            // UUID
	Number            string            // human-readable, e.g. "ORD-1001"
	TotalAmount       decimal.Decimal   // authoritative gross total
	Currency          string            // ISO code, e.g. "ZAR"
	PaymentStatus     PaymentStatus     // see constants above
	FulfillmentStatus FulfillmentStatus //
	PaymentReference  *string           // gateway transaction id, set on confirmation
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Terminal reports whether the order has already left 'pending'.
func (o *Order) Terminal() bool {
	return o.PaymentStatus == PaymentStatusPaid || o.PaymentStatus == PaymentStatusFailed
}

// AmountMatches reconciles the notified gross amount against the stored
// total. Both sides are rounded to two decimals half-away-from-zero first;
// the stored total is authoritative and never adjusted toward the notified
// value.
func (o *Order) AmountMatches(notified decimal.Decimal) bool {
	return o.TotalAmount.Round(2).Equal(notified.Round(2))
}
