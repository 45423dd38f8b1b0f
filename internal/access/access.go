// Package access implements the optional shared-password gate in front of
// the interactive and network surfaces.
package access

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// Gate compares supplied passwords against the configured one.
// The zero Gate is disabled and admits everything.
type Gate struct {
	digest []byte
}

// NewGate creates a gate for password. An empty password disables the gate.
func NewGate(password string) Gate {
	if password == "" {
		return Gate{}
	}
	return Gate{digest: sum(password)}
}

// Enabled reports whether a password is required.
func (g Gate) Enabled() bool {
	return g.digest != nil
}

// Check returns domain.ErrUnauthorized unless supplied matches.
// Both sides are hashed before the constant-time comparison.
func (g Gate) Check(supplied string) error {
	if !g.Enabled() {
		return nil
	}
	if !hmac.Equal(g.digest, sum(supplied)) {
		return domain.ErrUnauthorized
	}
	return nil
}

func sum(s string) []byte {
	h := sha256.Sum256([]byte(s))
	return h[:]
}
