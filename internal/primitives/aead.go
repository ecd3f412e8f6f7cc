package primitives

import (
	"golang.org/x/crypto/chacha20poly1305"
)

// AEADKeySize and AEADNonceSize are the fixed XChaCha20-Poly1305
// parameters: a 256-bit key and a 192-bit (24-byte) nonce, the latter
// large enough that random nonce reuse under a single key is
// negligible for this module's message volumes.
const (
	AEADKeySize   = chacha20poly1305.KeySize  // 32
	AEADNonceSize = chacha20poly1305.NonceSizeX // 24
	AEADTagSize   = chacha20poly1305.Overhead  // 16
)

// Encrypt seals plaintext under key with a freshly generated random
// nonce and optional associated data, returning the nonce and the
// ciphertext (with the 16-byte Poly1305 tag appended) separately.
func Encrypt(key [AEADKeySize]byte, plaintext, aad []byte) (nonce [AEADNonceSize]byte, ciphertext []byte, err error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nonce, nil, Invalid("aead init: %v", err)
	}
	nb, err := RandomBytes(AEADNonceSize)
	if err != nil {
		return nonce, nil, err
	}
	copy(nonce[:], nb)
	ciphertext = aead.Seal(nil, nonce[:], plaintext, aad)
	return nonce, ciphertext, nil
}

// Decrypt opens ciphertext under key/nonce/aad. Any mismatch — wrong
// key, wrong nonce, flipped ciphertext bit, wrong AAD — yields the same
// Authentication error regardless of which part was wrong, so timing
// and error shape never distinguish the cause.
func Decrypt(key [AEADKeySize]byte, nonce [AEADNonceSize]byte, ciphertext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, Invalid("aead init: %v", err)
	}
	plaintext, err := aead.Open(nil, nonce[:], ciphertext, aad)
	if err != nil {
		return nil, AuthFailed("aead open failed")
	}
	return plaintext, nil
}

// TryDecrypt is Decrypt but returns (nil, nil) instead of an error on
// authentication failure, for callers that want to probe rather than
// propagate.
func TryDecrypt(key [AEADKeySize]byte, nonce [AEADNonceSize]byte, ciphertext, aad []byte) []byte {
	pt, err := Decrypt(key, nonce, ciphertext, aad)
	if err != nil {
		return nil
	}
	return pt
}
