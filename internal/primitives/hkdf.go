package primitives

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// HKDF info constants. Every KDF purpose in the module gets its own
// string here; a new purpose always gets a new constant rather than
// reusing one of these — see spec §4.1.
const (
	InfoSigningKeyV2          = "rootless-signing-key-v2"
	InfoEncryptionKeyV2       = "rootless-encryption-key-v2"
	InfoX3DH                  = "x3dh-v1"
	InfoRootKeyV2             = "rootless-root-key-v2"
	InfoChainKeyV2            = "rootless-chain-key-v2"
	InfoMessageKeyV2          = "rootless-message-key-v2"
	InfoMultiRecipientWrapV2  = "rootless-multi-recipient-wrap-v2"
	InfoSealedBoxV2           = "rootless-sealed-box-v2"
	InfoKeyWrapV2             = "rootless-key-wrap-v2"
)

// DefaultHKDFSalt is the 32-byte all-zero salt used whenever a caller
// does not supply one explicitly.
var DefaultHKDFSalt = make([]byte, 32)

// HKDFSHA256 runs extract-then-expand HKDF over SHA-256, returning
// length bytes of output key material. A nil salt is replaced with
// DefaultHKDFSalt.
func HKDFSHA256(ikm, salt []byte, info string, length int) ([]byte, error) {
	if salt == nil {
		salt = DefaultHKDFSalt
	}
	reader := hkdf.New(sha256.New, ikm, salt, []byte(info))
	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, Invalid("hkdf expand: %v", err)
	}
	return out, nil
}

// HKDF32 is HKDFSHA256 specialized to the common 32-byte output case
// used by nearly every KDF step in C5/C6.
func HKDF32(ikm, salt []byte, info string) ([32]byte, error) {
	var out [32]byte
	b, err := HKDFSHA256(ikm, salt, info, 32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}
