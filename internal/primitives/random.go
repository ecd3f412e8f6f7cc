// Package primitives implements the cryptographic building blocks the
// rest of the module is built on: random bytes, hashing, signing, AEAD,
// key agreement, key derivation, and password hashing. Nothing in this
// package touches the network or disk.
package primitives

import (
	"crypto/rand"
	"fmt"
	"io"
)

// MaxRandomLength bounds a single random-bytes request. The source
// protocol treats anything larger as a misuse of the API rather than a
// legitimate key-material request.
const MaxRandomLength = 65536

// RandomBytes returns n cryptographically secure random bytes from the
// operating system's CSPRNG. n must be in (0, MaxRandomLength].
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 || n > MaxRandomLength {
		return nil, fmt.Errorf("%w: random length %d out of range (1..%d)", ErrInputValidation, n, MaxRandomLength)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return buf, nil
}
