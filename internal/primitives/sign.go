package primitives

import (
	"crypto/ed25519"
)

// SigningPublicKeySize and SigningPrivateKeySize are the fixed Ed25519
// key lengths the spec treats as invariants, never parameters.
const (
	SigningPublicKeySize  = ed25519.PublicKeySize  // 32
	SigningPrivateKeySize = ed25519.PrivateKeySize // 64 (seed || public)
	SignatureSize         = ed25519.SignatureSize  // 64
)

// SigningKeyPair holds an Ed25519 identity key pair. Private is the
// full 64-byte seed||public form; it is zeroized when the owner is
// done with it.
type SigningKeyPair struct {
	Public  [SigningPublicKeySize]byte
	Private [SigningPrivateKeySize]byte
}

// GenerateSigningKeyPair creates a fresh Ed25519 key pair from the OS
// CSPRNG.
func GenerateSigningKeyPair() (SigningKeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return SigningKeyPair{}, err
	}
	var kp SigningKeyPair
	copy(kp.Public[:], pub)
	copy(kp.Private[:], priv)
	return kp, nil
}

// SigningKeyPairFromSeed derives an Ed25519 key pair from a 32-byte
// seed, as required when an identity is created from caller-supplied
// seed material.
func SigningKeyPairFromSeed(seed [32]byte) SigningKeyPair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	var kp SigningKeyPair
	copy(kp.Public[:], priv.Public().(ed25519.PublicKey))
	copy(kp.Private[:], priv)
	return kp
}

// Sign signs data with either a 32-byte seed or a full 64-byte private
// key, matching the spec's "accept either" contract.
func Sign(private []byte, data []byte) ([]byte, error) {
	priv, err := normalizeSigningPrivate(private)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(priv, data), nil
}

// Verify reports whether sig is a valid Ed25519 signature over data by
// public. It never panics on malformed input — any length mismatch
// simply yields false.
func Verify(public []byte, data []byte, sig []byte) bool {
	if len(public) != SigningPublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(public, data, sig)
}

// SignHash computes BLAKE3(data) and signs the digest, the "higher
// level" signing primitive the spec names (signHash/verifyHash).
func SignHash(private []byte, data []byte) ([]byte, error) {
	digest := Hash256(data)
	return Sign(private, digest[:])
}

// VerifyHash composes identically to SignHash: recompute BLAKE3(data)
// and verify the signature over the digest.
func VerifyHash(public []byte, data []byte, sig []byte) bool {
	digest := Hash256(data)
	return Verify(public, digest[:], sig)
}

func normalizeSigningPrivate(private []byte) (ed25519.PrivateKey, error) {
	switch len(private) {
	case 32:
		return ed25519.NewKeyFromSeed(private), nil
	case SigningPrivateKeySize:
		return ed25519.PrivateKey(private), nil
	default:
		return nil, Invalid("signing private key must be 32 or %d bytes, got %d", SigningPrivateKeySize, len(private))
	}
}
