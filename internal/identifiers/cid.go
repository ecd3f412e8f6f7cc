// Package identifiers implements the two self-describing names the
// protocol builds everything else on: content identifiers (CIDs) for
// content objects and decentralized identifiers (DIDs) for identities
// (spec §4.2).
package identifiers

import (
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"

	"github.com/rootlessnet/protocol/internal/primitives"
)

// cidVersion and rawCodec are the two leading bytes of every CID this
// module produces: CIDv1 over the "raw" codec — the content is opaque
// signed-object bytes, not a format multicodec needs to interpret.
const (
	cidVersion = 0x01
	rawCodec   = 0x55
)

// CID computes the content identifier for bytes: CIDv1, raw codec,
// BLAKE3-256 multihash, multibase base32-lower text form.
//
// This resolves spec §9 Open Question Q1 in favor of the standard
// multibase-prefixed CIDv1 string ("b" + base32-lower) rather than a
// bare base32 string: every multiformats-based peer implementation
// expects the prefix, and omitting it would make the identifier
// unrecognizable outside this module.
func CID(data []byte) (string, error) {
	digest := primitives.Hash256(data)
	mh, err := multihash.Encode(digest[:], multihash.BLAKE3)
	if err != nil {
		return "", primitives.Invalid("encode multihash: %v", err)
	}
	body := append([]byte{cidVersion, rawCodec}, mh...)
	text, err := multibase.Encode(multibase.Base32, body)
	if err != nil {
		return "", primitives.Invalid("encode multibase: %v", err)
	}
	return text, nil
}

// VerifyCID recomputes CID(data) and compares it to cid in constant
// time, per spec §4.2's verifyCID helper.
func VerifyCID(cid string, data []byte) bool {
	want, err := CID(data)
	if err != nil {
		return false
	}
	return primitives.ConstantTimeEqual([]byte(want), []byte(cid))
}

// ParseCID decodes a CID string and validates that it has exactly the
// shape this module produces: CIDv1, raw codec, 32-byte BLAKE3
// multihash. Any other shape is rejected rather than partially
// accepted.
func ParseCID(cid string) (digest [32]byte, err error) {
	_, body, decErr := multibase.Decode(cid)
	if decErr != nil {
		return digest, primitives.Invalid("decode cid multibase: %v", decErr)
	}
	if len(body) < 2 || body[0] != cidVersion || body[1] != rawCodec {
		return digest, primitives.Invalid("cid is not a rootless CIDv1/raw identifier")
	}
	decoded, decErr := multihash.Decode(body[2:])
	if decErr != nil {
		return digest, primitives.Invalid("decode cid multihash: %v", decErr)
	}
	if decoded.Code != multihash.BLAKE3 || decoded.Length != 32 {
		return digest, primitives.Invalid("cid multihash is not a 32-byte BLAKE3 digest")
	}
	copy(digest[:], decoded.Digest)
	return digest, nil
}

// IsValidCID reports whether s parses as a well-formed rootless CID,
// without needing the original bytes.
func IsValidCID(s string) bool {
	_, err := ParseCID(s)
	return err == nil
}
