package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strings"

	"shop-payment-engine/internal/domain/model"
	"shop-payment-engine/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.ParameterSigner = (*SignatureCodec)(nil)

// SignatureCodec builds the canonical parameter string and its keyed digest.
// The same codec signs outbound redirect parameters and recomputes expected
// signatures for inbound notifications, so the two paths cannot diverge.
//
// Canonical form: drop the "signature" key and every empty value, sort the
// remaining keys by byte order, form-encode each value (space as '+'), join
// as key=value pairs with '&', then append the encoded passphrase when one
// is configured.
type SignatureCodec struct {
	signingKey []byte
	passphrase string
}

// NewSignatureCodec fails when no signing key is configured: serving traffic
// without a key would silently skip verification.
func NewSignatureCodec(signingKey, passphrase string) (*SignatureCodec, error) {
	if signingKey == "" {
		return nil, errors.New("gateway signing key is required")
	}
	return &SignatureCodec{signingKey: []byte(signingKey), passphrase: passphrase}, nil
}

// Canonicalize serializes fields into the deterministic byte string the
// signature is computed over. Ordering of the input map never matters.
func (c *SignatureCodec) Canonicalize(fields map[string]string) []byte {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == model.FieldSignature || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fields[k]))
	}
	if c.passphrase != "" {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString("passphrase=")
		b.WriteString(url.QueryEscape(c.passphrase))
	}
	return []byte(b.String())
}

// Sign returns the lowercase hex HMAC-SHA256 of the canonical string.
func (c *SignatureCodec) Sign(fields map[string]string) string {
	h := hmac.New(sha256.New, c.signingKey)
	h.Write(c.Canonicalize(fields))
	return hex.EncodeToString(h.Sum(nil))
}
