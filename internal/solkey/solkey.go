// Package solkey validates and generates base58-encoded ed25519 addresses.
package solkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ErrInvalidAddress is returned for addresses that do not decode to a
// 32-byte ed25519 curve point.
var ErrInvalidAddress = errors.New("invalid address")

// Validate checks that addr is a base58-encoded 32-byte point on the
// ed25519 curve.
func Validate(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	if !isOnCurve(raw) {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	return nil
}

// NewAddress generates a fresh ed25519 keypair and returns the public key
// base58-encoded. Used by callers that need wallet-shaped identities.
func NewAddress() (string, error) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate keypair: %w", err)
	}
	return base58.Encode(pub), nil
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
