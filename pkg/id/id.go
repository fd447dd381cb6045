// Package id generates opaque request identifiers.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns a random identifier of exactly 32 lowercase hex
// characters, the format the idempotency layer accepts for
// X-Request-Id.
func NewID32() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
