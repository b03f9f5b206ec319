package auth

import (
	"crypto/rsa"
	"time"
)

type ctxKey struct{}

var userCtxKey = ctxKey{}

// Middleware authenticates requests from a bearer token or assertion cookie.
// With no verification key configured every request passes through anonymous.
type Middleware struct {
	adminRole string
	devBypass bool

	assertCookieName string
	assertIssuer     string
	assertAudience   string
	assertLeeway     time.Duration

	rsaKey     *rsa.PublicKey
	hmacSecret []byte
}

// Enabled reports whether any verification key is configured.
func (m *Middleware) Enabled() bool {
	return m != nil && (m.rsaKey != nil || len(m.hmacSecret) > 0)
}
