package adapter

import "shop-payment-engine/internal/domain/model"

// NotificationVerifier yields the authenticity verdict for an inbound
// notification envelope.
type NotificationVerifier interface {
	Verify(env *model.NotificationEnvelope) error
}

// SourceAuthenticator checks the network origin of a notification.
type SourceAuthenticator interface {
	Enabled() bool
	Authenticate(sourceAddress string) error
}

// ParameterSigner computes the canonical signature over a flat parameter set.
// Shared by outbound redirect construction and inbound verification.
type ParameterSigner interface {
	Sign(fields map[string]string) string
}
