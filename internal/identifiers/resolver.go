package identifiers

import "github.com/rootlessnet/protocol/internal/primitives"

// Resolver maps a DID to the signing and encryption public keys it
// controls. This is the capability interface spec §9 describes: the
// core never caches resolution results globally, so a resolver backed
// by a mutable registry (key rotation, revocation) is visible on the
// very next call.
type Resolver interface {
	Resolve(did string) (signingPub [32]byte, encryptionPub [32]byte, err error)
}

// KeyMethodResolver resolves the trivial did:rootless:key: method by
// decoding the public key embedded in the identifier itself — no
// network or storage lookup needed. It only resolves a DID to the key
// kind actually encoded; callers needing "the other" key pair (e.g. an
// Ed25519 DID's paired X25519 encryption key) must track that mapping
// themselves, since the did:key method embeds exactly one key.
type KeyMethodResolver struct{}

// Resolve implements Resolver for did:rootless:key: identifiers. It
// returns the embedded key in both return slots when the DID encodes
// an Ed25519 signing key, and in the encryption slot only when it
// encodes an X25519 key — a caller that needs both classes of key for
// one identity must resolve the identity's IdentityDocument directly
// rather than relying on this trivial resolver.
func (KeyMethodResolver) Resolve(did string) ([32]byte, [32]byte, error) {
	kind, pub, err := ParseDID(did)
	if err != nil {
		return [32]byte{}, [32]byte{}, err
	}
	switch kind {
	case KeyKindEd25519:
		return pub, [32]byte{}, nil
	case KeyKindX25519:
		return [32]byte{}, pub, nil
	default:
		return [32]byte{}, [32]byte{}, primitives.Invalid("unresolvable did key kind")
	}
}
