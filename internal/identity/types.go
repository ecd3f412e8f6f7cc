// Package identity implements KeySet and Identity (spec §4.3): key
// generation/derivation, identity document construction and
// verification, and password-encrypted export/import.
package identity

import (
	"github.com/rootlessnet/protocol/internal/primitives"
)

// Type is one of the three identity lifecycles spec §3 names.
type Type string

const (
	TypeEphemeral   Type = "ephemeral"
	TypePersistent  Type = "persistent"
	TypeRecoverable Type = "recoverable"
)

// DocumentVersion is the only identity-document version this module
// emits or accepts.
const DocumentVersion = 2

// KeySet bundles the two key pairs every identity owns.
type KeySet struct {
	Signing    primitives.SigningKeyPair
	Encryption primitives.EncryptionKeyPair
}

// Zeroize destroys every private half in the key set. Call this when a
// KeySet's owner (an Identity) is dropped.
func (k *KeySet) Zeroize() {
	primitives.Zeroize(k.Signing.Private[:])
	primitives.Zeroize(k.Encryption.Private[:])
}

// PublicKeyEntry is one entry in an IdentityDocument's publicKeys list.
type PublicKeyEntry struct {
	ID         string `json:"id"`
	Purpose    string `json:"purpose"` // "signing" | "encryption"
	PublicKey  string `json:"publicKey"` // hex
	Created    int64  `json:"created"`
	Expires    *int64 `json:"expires,omitempty"`
	Revoked    *int64 `json:"revoked,omitempty"`
}

const (
	PurposeSigning    = "signing"
	PurposeEncryption = "encryption"
)

// Proof is the Ed25519 signature binding an IdentityDocument to its
// did#key-1 signing key.
type Proof struct {
	Type                string `json:"type"`
	Created             int64  `json:"created"`
	VerificationMethod  string `json:"verificationMethod"`
	Signature           string `json:"signature"` // hex
}

const ProofTypeEd25519V2 = "rootless-ed25519-v2"

// Document is the signed, publishable description of an identity's
// keys (spec §3 IdentityDocument).
type Document struct {
	Version    int              `json:"version"`
	DID        string           `json:"did"`
	Type       Type             `json:"type"`
	PublicKeys []PublicKeyEntry `json:"publicKeys"`
	Created    int64            `json:"created"`
	Updated    int64            `json:"updated"`
	Proof      *Proof           `json:"proof,omitempty"`
}

// Identity is a fully materialized self-sovereign identity: its DID,
// lifecycle type, published document, and private key set.
type Identity struct {
	DID      string
	Type     Type
	Document Document
	KeySet   KeySet
	Created  int64
}

// Zeroize destroys this identity's private key material.
func (id *Identity) Zeroize() {
	id.KeySet.Zeroize()
}
