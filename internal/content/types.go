// Package content implements the Content Object: canonical
// serialization, payload encryption (none / multi-recipient / self),
// hash binding, signing, verification, and decryption (spec §4.4).
package content

import "github.com/rootlessnet/protocol/internal/primitives"

// Version is the only content object version this module emits or
// accepts.
const Version = 2

// Encryption names how a content object's payload is protected.
type Encryption string

const (
	EncryptionNone       Encryption = "none"
	EncryptionRecipients Encryption = "recipients"
	EncryptionSelf       Encryption = "self"
	EncryptionZone       Encryption = "zone"
)

// ClearPayload carries plaintext bytes directly on the wire.
type ClearPayload struct {
	Type string `json:"type"` // "clear"
	Data []byte `json:"data"`
}

// RecipientEntry is one wrapped-content-key slot in a recipients
// payload.
type RecipientEntry struct {
	DID           string                           `json:"did"`
	EncryptedKey  []byte                           `json:"encryptedKey"`
	Nonce         [primitives.AEADNonceSize]byte   `json:"nonce"`
}

// RecipientsPayload carries a content key wrapped once per recipient,
// plus the payload itself encrypted once under that content key.
type RecipientsPayload struct {
	Type            string                         `json:"type"` // "recipients"
	EphemeralPublic [primitives.X25519KeySize]byte `json:"ephemeralPublic"`
	Recipients      []RecipientEntry               `json:"recipients"`
	Ciphertext      []byte                         `json:"ciphertext"`
	Nonce           [primitives.AEADNonceSize]byte `json:"nonce"`
}

// SelfPayload is a sealed box addressed to the author's own encryption
// key.
type SelfPayload struct {
	Type            string                         `json:"type"` // "self"
	EphemeralPublic [primitives.X25519KeySize]byte `json:"ephemeralPublic"`
	Ciphertext      []byte                         `json:"ciphertext"`
	Nonce           [primitives.AEADNonceSize]byte `json:"nonce"`
}

// Object is a fully assembled, signed content object (spec §3
// ContentObject).
type Object struct {
	Version           int        `json:"version"`
	ID                string     `json:"id,omitempty"`
	Author            string     `json:"author"`
	Timestamp         int64      `json:"timestamp"`
	ExpiresAt         *int64     `json:"expiresAt,omitempty"`
	Zone              string     `json:"zone,omitempty"`
	Parent            string     `json:"parent,omitempty"`
	Thread            string     `json:"thread,omitempty"`
	Mentions          []string   `json:"mentions,omitempty"`
	ContentType       string     `json:"contentType"`
	PayloadEncryption Encryption `json:"payloadEncryption"`
	Payload           any        `json:"payload"`
	PayloadHash       [32]byte   `json:"payloadHash"`
	Tags              []string   `json:"tags,omitempty"`
	Language          string     `json:"language,omitempty"`
	Extensions        any        `json:"extensions,omitempty"`
	Signature         []byte     `json:"signature,omitempty"`
}

// RecipientKey names one recipient of a recipients-encrypted object by
// DID and its resolved X25519 encryption public key. The content
// package does not resolve DIDs itself (spec §9's resolver capability
// lives at the identifiers/session boundary); the caller resolves each
// recipient's current encryption key before calling Create.
type RecipientKey struct {
	DID                 string
	EncryptionPublicKey [primitives.X25519KeySize]byte
}

// CreateInput is everything a caller supplies to assemble a new
// Object; EncryptionKey/SigningKey come from the author's identity.
type CreateInput struct {
	Zone              string
	Parent            string
	Thread            string
	Mentions          []string
	ContentType       string
	PayloadEncryption Encryption
	Payload           []byte
	Recipients        []RecipientKey // required when PayloadEncryption == recipients
	Tags              []string
	Language          string
	Extensions        any
	ExpiresAt         *int64
}
