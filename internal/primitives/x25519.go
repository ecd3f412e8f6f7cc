package primitives

import (
	"golang.org/x/crypto/curve25519"
)

// X25519KeySize is the fixed scalar/point length for Curve25519.
const X25519KeySize = 32

// EncryptionKeyPair holds an X25519 key pair used for ECDH key
// agreement (never for signing).
type EncryptionKeyPair struct {
	Public  [X25519KeySize]byte
	Private [X25519KeySize]byte
}

// GenerateEncryptionKeyPair creates a fresh X25519 key pair from the OS
// CSPRNG.
func GenerateEncryptionKeyPair() (EncryptionKeyPair, error) {
	var kp EncryptionKeyPair
	priv, err := RandomBytes(X25519KeySize)
	if err != nil {
		return kp, err
	}
	copy(kp.Private[:], priv)
	pub, err := curve25519.X25519(kp.Private[:], curve25519.Basepoint)
	if err != nil {
		return kp, Invalid("derive x25519 public key: %v", err)
	}
	copy(kp.Public[:], pub)
	return kp, nil
}

// EncryptionKeyPairFromSeed derives an X25519 key pair from 32 bytes of
// seed material (already-derived HKDF output, not a raw password).
func EncryptionKeyPairFromSeed(seed [32]byte) (EncryptionKeyPair, error) {
	var kp EncryptionKeyPair
	copy(kp.Private[:], seed[:])
	pub, err := curve25519.X25519(kp.Private[:], curve25519.Basepoint)
	if err != nil {
		return kp, Invalid("derive x25519 public key: %v", err)
	}
	copy(kp.Public[:], pub)
	return kp, nil
}

// ECDH performs X25519(privateScalar, publicPoint), producing raw
// shared-secret bytes. The result is uniform-looking input key
// material and must always be passed through HKDF before use as an
// AEAD key — never used directly.
func ECDH(private, public [X25519KeySize]byte) ([X25519KeySize]byte, error) {
	var out [X25519KeySize]byte
	shared, err := curve25519.X25519(private[:], public[:])
	if err != nil {
		return out, Invalid("x25519 agreement: %v", err)
	}
	copy(out[:], shared)
	return out, nil
}
