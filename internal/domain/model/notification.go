package model

import "time"

// NotificationEnvelope is the ephemeral, untrusted payload delivered by the
// payment gateway. Fields excludes the signature field itself.
type NotificationEnvelope struct {
	Fields           map[string]string
	ClaimedSignature string
	SourceAddress    string
}

// Well-known gateway field names carried in NotificationEnvelope.Fields.
const (
	FieldOrderReference = "m_payment_id"   // our order reference (id or number)
	FieldGatewayTxnID   = "pf_payment_id"  // gateway-assigned transaction id
	FieldAmountGross    = "amount_gross"   // notified gross amount
	FieldPaymentStatus  = "payment_status" // external status vocabulary
	FieldSignature      = "signature"
)

// NotificationRecord is the audit trail row written for every processed
// notification; mismatches surface here for manual review.
type NotificationRecord struct {
	ID            string // ULID, sortable by arrival time
	OrderRef      string
	GatewayTxnID  string
	Outcome       string
	Reason        string
	SourceAddress string
	CreatedAt     time.Time
}
