package identity

import (
	"encoding/hex"
	"encoding/json"

	"github.com/rootlessnet/protocol/internal/canon"
	"github.com/rootlessnet/protocol/internal/primitives"
	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// ExportVersion is the only export envelope format this module emits
// or accepts.
const ExportVersion = 1

// ExportedIdentity is the portable, password-protected form of an
// Identity (spec §4.3 / §6): everything needed to reconstruct the
// KeySet and Document, sealed under a key derived from the caller's
// passphrase.
type ExportedIdentity struct {
	Version     int                      `json:"version"`
	KDF         primitives.PasswordKDFParams `json:"kdf"`
	Nonce       [primitives.AEADNonceSize]byte `json:"nonce"`
	Ciphertext  []byte                   `json:"ciphertext"`
}

// exportPayload is the plaintext sealed inside an ExportedIdentity: the
// raw key material plus enough document metadata to rebuild Document
// without re-deriving it (Type and timestamps are not derivable from
// keys alone).
type exportPayload struct {
	SigningPrivate    [primitives.SigningPrivateKeySize]byte `json:"signingPrivate"`
	EncryptionPrivate [primitives.X25519KeySize]byte         `json:"encryptionPrivate"`
	Type              Type     `json:"type"`
	Document          Document `json:"document"`
}

// Export password-protects id for offline storage or transfer. The KDF
// parameters are generated fresh (a new random salt every call) and
// persisted alongside the ciphertext so Import can reproduce the exact
// wrap key.
func Export(id *Identity, password string) (*ExportedIdentity, error) {
	params, err := primitives.DefaultPasswordKDFParams()
	if err != nil {
		return nil, err
	}
	return ExportWithParams(id, password, params)
}

// ExportWithParams is Export with caller-supplied Argon2id cost
// parameters (spec §4.1 leaves the exact cost to the host; this module
// only mandates the algorithm). The salt in params is ignored — a
// fresh one is always generated here, since reusing a caller-supplied
// salt across exports would be a KDF misuse the caller is unlikely to
// intend. Host tunables normally reach this through
// config.Config.KDFParams.
func ExportWithParams(id *Identity, password string, params primitives.PasswordKDFParams) (*ExportedIdentity, error) {
	salt, err := primitives.RandomBytes(16)
	if err != nil {
		return nil, err
	}
	copy(params.Salt[:], salt)

	wrapKey := primitives.DeriveWrapKey(password, params)
	defer primitives.Zeroize(wrapKey[:])

	payload := exportPayload{
		SigningPrivate:    id.KeySet.Signing.Private,
		EncryptionPrivate: id.KeySet.Encryption.Private,
		Type:              id.Type,
		Document:          id.Document,
	}
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, rootlesserr.Wrap(rootlesserr.KindInputValidation, "marshal export payload", err)
	}
	defer primitives.Zeroize(plaintext)

	nonce, ciphertext, err := primitives.Encrypt(wrapKey, plaintext, exportAAD())
	if err != nil {
		return nil, err
	}

	return &ExportedIdentity{
		Version:    ExportVersion,
		KDF:        params,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}

// Import reverses Export. A wrong password produces the same
// Authentication error as any other AEAD failure — this module never
// distinguishes "bad password" from "corrupt ciphertext" in its error
// shape.
func Import(exported *ExportedIdentity, password string) (*Identity, error) {
	if exported.Version != ExportVersion {
		return nil, rootlesserr.New(rootlesserr.KindInputValidation, "unsupported export version")
	}

	wrapKey := primitives.DeriveWrapKey(password, exported.KDF)
	defer primitives.Zeroize(wrapKey[:])

	plaintext, err := primitives.Decrypt(wrapKey, exported.Nonce, exported.Ciphertext, exportAAD())
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(plaintext)

	var payload exportPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, rootlesserr.Wrap(rootlesserr.KindInputValidation, "unmarshal export payload", err)
	}

	keySet := KeySet{}
	keySet.Signing.Private = payload.SigningPrivate
	copy(keySet.Signing.Public[:], payload.SigningPrivate[32:])
	keySet.Encryption.Private = payload.EncryptionPrivate
	keySet.Encryption.Public = payload.Document.mustEncryptionPublic()

	return &Identity{
		DID:      payload.Document.DID,
		Type:     payload.Type,
		Document: payload.Document,
		KeySet:   keySet,
		Created:  payload.Document.Created,
	}, nil
}

// exportAAD binds the export ciphertext to its purpose, the same AAD
// discipline C4 content objects use.
func exportAAD() []byte {
	b, _ := canon.Bytes(map[string]any{"purpose": "rootless-identity-export-v1"})
	return b
}

// mustEncryptionPublic recovers the encryption public key from the
// document's own published key-1 entry, so Import never has to
// recompute an X25519 basepoint multiplication just to fill in a field
// already present in the signed document.
func (d Document) mustEncryptionPublic() [32]byte {
	var out [32]byte
	entry, ok := findKey(d.PublicKeys, PurposeEncryption)
	if !ok {
		return out
	}
	raw, err := hex.DecodeString(entry.PublicKey)
	if err != nil || len(raw) != 32 {
		return out
	}
	copy(out[:], raw)
	return out
}
