package identifiers

import (
	"strings"

	"github.com/mr-tron/base58"

	"github.com/rootlessnet/protocol/internal/primitives"
)

// DID method codec bytes (spec §4.2): which multicodec-tagged key type
// is embedded in the identifier.
const (
	CodecEd25519 = 0xed
	CodecX25519  = 0xec

	didPrefix       = "did:rootless:key:"
	didMulticodecV1 = 0x01
)

// KeyKind names which codec produced a DID.
type KeyKind int

const (
	KeyKindEd25519 KeyKind = iota
	KeyKindX25519
)

func codecFor(kind KeyKind) (byte, error) {
	switch kind {
	case KeyKindEd25519:
		return CodecEd25519, nil
	case KeyKindX25519:
		return CodecX25519, nil
	default:
		return 0, primitives.Invalid("unknown key kind %d", kind)
	}
}

func kindForCodec(codec byte) (KeyKind, error) {
	switch codec {
	case CodecEd25519:
		return KeyKindEd25519, nil
	case CodecX25519:
		return KeyKindX25519, nil
	default:
		return 0, primitives.Invalid("unknown did codec 0x%x", codec)
	}
}

// DID builds "did:rootless:key:" + base58btc(codec || 0x01 || pub) for
// the given 32-byte public key and key kind.
func DID(pub [32]byte, kind KeyKind) (string, error) {
	codec, err := codecFor(kind)
	if err != nil {
		return "", err
	}
	body := make([]byte, 0, 34)
	body = append(body, codec, didMulticodecV1)
	body = append(body, pub[:]...)
	return didPrefix + base58.Encode(body), nil
}

// ParseDID splits a DID text form into its method ("key"), key kind,
// and embedded public key, rejecting anything that does not match the
// exact "did:rootless:key:<base58btc>" shape.
func ParseDID(did string) (kind KeyKind, pub [32]byte, err error) {
	parts := strings.Split(did, ":")
	if len(parts) != 4 || parts[0] != "did" || parts[1] != "rootless" || parts[2] != "key" {
		return kind, pub, primitives.Invalid("malformed did: %q", did)
	}
	raw, decErr := base58.Decode(parts[3])
	if decErr != nil {
		return kind, pub, primitives.Invalid("decode did base58btc: %v", decErr)
	}
	if len(raw) != 34 {
		return kind, pub, primitives.Invalid("did payload must be 34 bytes, got %d", len(raw))
	}
	if raw[1] != didMulticodecV1 {
		return kind, pub, primitives.Invalid("unsupported did multicodec version byte 0x%x", raw[1])
	}
	kind, err = kindForCodec(raw[0])
	if err != nil {
		return kind, pub, err
	}
	copy(pub[:], raw[2:])
	return kind, pub, nil
}

// IsValidDID wraps ParseDID as a boolean, per spec §4.2.
func IsValidDID(did string) bool {
	_, _, err := ParseDID(did)
	return err == nil
}
