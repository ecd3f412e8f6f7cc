package identity

import (
	"time"

	"github.com/rootlessnet/protocol/internal/identifiers"
	"github.com/rootlessnet/protocol/internal/primitives"
)

// CreateOptions configures identity creation. Seed is optional: when
// present, both key pairs are derived from it deterministically (spec
// §4.3 step 1); when nil, both are generated fresh from the OS CSPRNG.
type CreateOptions struct {
	Seed *[32]byte
	Type Type
}

// Create builds a new Identity: derives or generates its key set,
// computes its DID, and builds + signs its IdentityDocument.
func Create(opts CreateOptions) (*Identity, error) {
	keySet, err := deriveOrGenerateKeySet(opts.Seed)
	if err != nil {
		return nil, err
	}

	did, err := identifiers.DID(keySet.Signing.Public, identifiers.KeyKindEd25519)
	if err != nil {
		return nil, err
	}

	idType := opts.Type
	if idType == "" {
		idType = TypePersistent
	}

	now := time.Now().UnixMilli()
	doc := Document{
		Version: DocumentVersion,
		DID:     did,
		Type:    idType,
		PublicKeys: []PublicKeyEntry{
			{
				ID:        did + "#key-1",
				Purpose:   PurposeSigning,
				PublicKey: hexEncode(keySet.Signing.Public[:]),
				Created:   now,
			},
			{
				ID:        did + "#key-2",
				Purpose:   PurposeEncryption,
				PublicKey: hexEncode(keySet.Encryption.Public[:]),
				Created:   now,
			},
		},
		Created: now,
		Updated: now,
	}

	if err := signDocument(&doc, keySet); err != nil {
		return nil, err
	}

	return &Identity{
		DID:      did,
		Type:     idType,
		Document: doc,
		KeySet:   keySet,
		Created:  now,
	}, nil
}

// deriveOrGenerateKeySet implements spec §4.3 step 1: seed-derived
// materials are HKDF-expanded under distinct info strings and zeroized
// immediately after deriving each key pair; an absent seed falls back
// to fresh CSPRNG generation for both pairs.
func deriveOrGenerateKeySet(seed *[32]byte) (KeySet, error) {
	if seed == nil {
		signing, err := primitives.GenerateSigningKeyPair()
		if err != nil {
			return KeySet{}, err
		}
		encryption, err := primitives.GenerateEncryptionKeyPair()
		if err != nil {
			return KeySet{}, err
		}
		return KeySet{Signing: signing, Encryption: encryption}, nil
	}

	signingMaterial, err := primitives.HKDF32(seed[:], nil, primitives.InfoSigningKeyV2)
	if err != nil {
		return KeySet{}, err
	}
	signing := primitives.SigningKeyPairFromSeed(signingMaterial)
	primitives.Zeroize(signingMaterial[:])

	encryptionMaterial, err := primitives.HKDF32(seed[:], nil, primitives.InfoEncryptionKeyV2)
	if err != nil {
		return KeySet{}, err
	}
	encryption, err := primitives.EncryptionKeyPairFromSeed(encryptionMaterial)
	primitives.Zeroize(encryptionMaterial[:])
	if err != nil {
		return KeySet{}, err
	}

	return KeySet{Signing: signing, Encryption: encryption}, nil
}

// signDocument computes the document's signing transcript (canonical
// bytes without proof), signs it (hash-then-sign), and attaches the
// resulting proof.
func signDocument(doc *Document, keySet KeySet) error {
	transcript, err := documentSigningBytes(*doc)
	if err != nil {
		return err
	}
	sig, err := primitives.SignHash(keySet.Signing.Private[:], transcript)
	if err != nil {
		return err
	}
	doc.Proof = &Proof{
		Type:               ProofTypeEd25519V2,
		Created:            time.Now().UnixMilli(),
		VerificationMethod: doc.DID + "#key-1",
		Signature:          hexEncode(sig),
	}
	return nil
}

func hexEncode(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hextable[v>>4]
		out[i*2+1] = hextable[v&0x0f]
	}
	return string(out)
}
