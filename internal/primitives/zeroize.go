package primitives

import (
	"crypto/rand"
	"crypto/subtle"
)

// Zeroize overwrites b with fresh random bytes and then zeros it, per
// spec §4.1's memory-hygiene rule: every secret buffer (shared
// secrets, message keys, chain keys, wrap keys, ephemeral private
// halves) gets this treatment immediately after its last use. The
// random pass defeats compilers that would otherwise elide a
// write-only zeroing loop.
func Zeroize(b []byte) {
	if len(b) == 0 {
		return
	}
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeEqual compares two byte slices without leaking timing
// information about where they first differ. Used for every secret
// comparison: CID verification, DID-derived key checks, recipient
// matching.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
