package payment

import (
	"crypto/hmac"
	"strings"

	"shop-payment-engine/internal/domain"
	"shop-payment-engine/internal/domain/model"
	"shop-payment-engine/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.NotificationVerifier = (*NotificationVerifier)(nil)

// NotificationVerifier yields the authenticity verdict for an inbound
// notification. A mismatch terminates processing before any state is touched.
type NotificationVerifier struct {
	codec *SignatureCodec
}

func NewNotificationVerifier(codec *SignatureCodec) *NotificationVerifier {
	return &NotificationVerifier{codec: codec}
}

// Verify recomputes the expected signature over the envelope fields and
// compares it against the claimed one in constant time.
func (v *NotificationVerifier) Verify(env *model.NotificationEnvelope) error {
	if env == nil || env.ClaimedSignature == "" {
		return domain.ErrSignatureMismatch
	}
	expected := v.codec.Sign(env.Fields)
	claimed := strings.ToLower(strings.TrimSpace(env.ClaimedSignature))
	if !hmac.Equal([]byte(expected), []byte(claimed)) {
		return domain.ErrSignatureMismatch
	}
	return nil
}
