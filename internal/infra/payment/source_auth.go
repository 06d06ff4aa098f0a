package payment

import (
	"shop-payment-engine/internal/domain"
	"shop-payment-engine/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.SourceAuthenticator = (*SourceAuthenticator)(nil)

// SourceAuthenticator checks the network origin of a notification against a
// configured allow-list of gateway addresses. Defense in depth: disabling it
// is a legitimate configuration, but an explicit one, never a silent no-op.
type SourceAuthenticator struct {
	enabled bool
	allowed map[string]struct{}
}

func NewSourceAuthenticator(enabled bool, addresses []string) *SourceAuthenticator {
	allowed := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		allowed[a] = struct{}{}
	}
	return &SourceAuthenticator{enabled: enabled, allowed: allowed}
}

func (a *SourceAuthenticator) Enabled() bool { return a.enabled }

// Authenticate returns nil when the layer is disabled or the address is
// allow-listed, domain.ErrSourceRejected otherwise.
func (a *SourceAuthenticator) Authenticate(sourceAddress string) error {
	if !a.enabled {
		return nil
	}
	if _, ok := a.allowed[sourceAddress]; !ok {
		return domain.ErrSourceRejected
	}
	return nil
}
