package primitives

import (
	"crypto/sha256"
	"crypto/sha512"

	"lukechampine.com/blake3"
)

// HashSize is the output length of every BLAKE3 digest this module
// computes; every primary hash, CID digest, and payload hash is this
// many bytes.
const HashSize = 32

// Hash256 computes the unkeyed BLAKE3-256 digest of data.
func Hash256(data []byte) [HashSize]byte {
	return blake3.Sum256(data)
}

// KeyedHash256 computes BLAKE3 in keyed mode. key must be 32 bytes.
func KeyedHash256(data []byte, key [HashSize]byte) ([HashSize]byte, error) {
	h, err := blake3.NewKeyed(key[:])
	if err != nil {
		return [HashSize]byte{}, Invalid("keyed hash: %v", err)
	}
	h.Write(data)
	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// DeriveKeyBLAKE3 is the BLAKE3 "key derivation" mode: a context string
// plus input key material expanded to dkLen bytes. Every future KDF
// purpose that wants BLAKE3 rather than HKDF-SHA256 gets its own
// context string here — never reuse one across purposes.
func DeriveKeyBLAKE3(context string, ikm []byte, dkLen int) []byte {
	out := make([]byte, dkLen)
	blake3.DeriveKey(out, context, ikm)
	return out
}

// SHA256 and SHA512 exist only for the interoperability points the
// spec names explicitly (HKDF-SHA256, and any future wire format that
// demands SHA-512) — never used as the module's primary hash.
func SHA256(data []byte) [32]byte { return sha256.Sum256(data) }
func SHA512(data []byte) [64]byte { return sha512.Sum512(data) }
