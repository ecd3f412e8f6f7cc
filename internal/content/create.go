package content

import (
	"time"

	"github.com/rootlessnet/protocol/internal/identifiers"
	"github.com/rootlessnet/protocol/internal/metrics"
	"github.com/rootlessnet/protocol/internal/primitives"
	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// AuthorKeys is the minimal author key material Create needs: it takes
// raw key material rather than an *identity.Identity to avoid an
// import cycle between internal/identity and internal/content (both
// sit at the same layer in the dependency graph — identity never
// depends on content, and content must not depend back on identity).
type AuthorKeys struct {
	DID               string
	SigningPrivate    []byte // 32- or 64-byte Ed25519 private
	EncryptionPrivate [primitives.X25519KeySize]byte
	EncryptionPublic  [primitives.X25519KeySize]byte
}

// ErrZoneKeyRequired is returned by Create for payloadEncryption=zone,
// which spec §9 Q3 places out of scope for this core: zone-level
// encryption requires a group-key management design this module does
// not implement.
var ErrZoneKeyRequired = rootlesserr.New(rootlesserr.KindProtocol, "zone encryption requires a zone key, which this core does not manage")

// Create assembles, encrypts, and signs a new content object (spec
// §4.4 step 1-4).
func Create(in CreateInput, author AuthorKeys) (*Object, error) {
	payloadHash := primitives.Hash256(in.Payload)

	var payload any
	switch in.PayloadEncryption {
	case "", EncryptionNone:
		payload = ClearPayload{Type: "clear", Data: in.Payload}
	case EncryptionRecipients:
		p, err := encryptRecipients(in, author)
		if err != nil {
			return nil, err
		}
		payload = p
	case EncryptionSelf:
		p, err := encryptSelf(in, author)
		if err != nil {
			return nil, err
		}
		payload = p
	case EncryptionZone:
		return nil, ErrZoneKeyRequired
	default:
		return nil, rootlesserr.New(rootlesserr.KindInputValidation, "unknown payload encryption "+string(in.PayloadEncryption))
	}

	enc := in.PayloadEncryption
	if enc == "" {
		enc = EncryptionNone
	}
	metrics.ContentObjectsTotal.WithLabelValues(string(enc)).Inc()

	obj := Object{
		Version:           Version,
		Author:            author.DID,
		Timestamp:         time.Now().UnixMilli(),
		ExpiresAt:         in.ExpiresAt,
		Zone:              in.Zone,
		Parent:            in.Parent,
		Thread:            in.Thread,
		Mentions:          in.Mentions,
		ContentType:       in.ContentType,
		PayloadEncryption: enc,
		Payload:           payload,
		PayloadHash:       payloadHash,
		Tags:              in.Tags,
		Language:          in.Language,
		Extensions:        in.Extensions,
	}

	transcript, err := signingBytes(obj)
	if err != nil {
		return nil, err
	}
	sig, err := primitives.SignHash(author.SigningPrivate, transcript)
	if err != nil {
		return nil, err
	}
	obj.Signature = sig

	idTranscript, err := idBytes(obj)
	if err != nil {
		return nil, err
	}
	id, err := identifiers.CID(idTranscript)
	if err != nil {
		return nil, err
	}
	obj.ID = id

	return &obj, nil
}

// encryptRecipients implements spec §4.4 step 2 "recipients": a fresh
// content key and ephemeral X25519 pair, one wrapped content key per
// recipient, one payload ciphertext shared by all recipients.
func encryptRecipients(in CreateInput, author AuthorKeys) (RecipientsPayload, error) {
	if len(in.Recipients) == 0 {
		return RecipientsPayload{}, rootlesserr.New(rootlesserr.KindProtocol, "recipients encryption requires at least one recipient")
	}

	contentKeyBytes, err := primitives.RandomBytes(primitives.AEADKeySize)
	if err != nil {
		return RecipientsPayload{}, err
	}
	var contentKey [primitives.AEADKeySize]byte
	copy(contentKey[:], contentKeyBytes)
	defer primitives.Zeroize(contentKey[:])

	ephemeral, err := primitives.GenerateEncryptionKeyPair()
	if err != nil {
		return RecipientsPayload{}, err
	}
	defer primitives.Zeroize(ephemeral.Private[:])

	aad := contentAAD(Version, author.DID, in.ContentType)

	entries := make([]RecipientEntry, 0, len(in.Recipients))
	for _, recipient := range in.Recipients {
		shared, err := primitives.ECDH(ephemeral.Private, recipient.EncryptionPublicKey)
		if err != nil {
			return RecipientsPayload{}, err
		}
		wrapKey, err := primitives.HKDF32(shared[:], nil, primitives.InfoMultiRecipientWrapV2)
		primitives.Zeroize(shared[:])
		if err != nil {
			return RecipientsPayload{}, err
		}

		nonce, encryptedKey, err := primitives.Encrypt(wrapKey, contentKey[:], aad)
		primitives.Zeroize(wrapKey[:])
		if err != nil {
			return RecipientsPayload{}, err
		}

		entries = append(entries, RecipientEntry{
			DID:          recipient.DID,
			EncryptedKey: encryptedKey,
			Nonce:        nonce,
		})
	}

	nonce, ciphertext, err := primitives.Encrypt(contentKey, in.Payload, aad)
	if err != nil {
		return RecipientsPayload{}, err
	}

	return RecipientsPayload{
		Type:            "recipients",
		EphemeralPublic: ephemeral.Public,
		Recipients:      entries,
		Ciphertext:      ciphertext,
		Nonce:           nonce,
	}, nil
}

// encryptSelf implements spec §4.4 step 2 "self": a sealed box
// addressed to the author's own encryption public key.
func encryptSelf(in CreateInput, author AuthorKeys) (SelfPayload, error) {
	ephemeral, err := primitives.GenerateEncryptionKeyPair()
	if err != nil {
		return SelfPayload{}, err
	}
	defer primitives.Zeroize(ephemeral.Private[:])

	shared, err := primitives.ECDH(ephemeral.Private, author.EncryptionPublic)
	if err != nil {
		return SelfPayload{}, err
	}
	key, err := primitives.HKDF32(shared[:], nil, primitives.InfoSealedBoxV2)
	primitives.Zeroize(shared[:])
	if err != nil {
		return SelfPayload{}, err
	}
	defer primitives.Zeroize(key[:])

	aad := contentAAD(Version, author.DID, in.ContentType)
	nonce, ciphertext, err := primitives.Encrypt(key, in.Payload, aad)
	if err != nil {
		return SelfPayload{}, err
	}

	return SelfPayload{
		Type:            "self",
		EphemeralPublic: ephemeral.Public,
		Ciphertext:      ciphertext,
		Nonce:           nonce,
	}, nil
}
