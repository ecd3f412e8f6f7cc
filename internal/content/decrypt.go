package content

import (
	"github.com/rootlessnet/protocol/internal/primitives"
	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// RecipientMaterial is the decrypting party's own DID and encryption
// key pair, used to locate their entry in a recipients payload and to
// open a self-sealed payload.
type RecipientMaterial struct {
	DID               string
	EncryptionPrivate [primitives.X25519KeySize]byte
	EncryptionPublic  [primitives.X25519KeySize]byte
}

// Decrypt returns obj's plaintext payload bytes. Clear payloads return
// directly; self and recipients payloads are opened with the supplied
// key material.
func Decrypt(obj Object, me RecipientMaterial) ([]byte, error) {
	switch p := obj.Payload.(type) {
	case ClearPayload:
		return p.Data, nil
	case SelfPayload:
		return decryptSelf(obj, p, me)
	case RecipientsPayload:
		return decryptRecipients(obj, p, me)
	default:
		return nil, rootlesserr.New(rootlesserr.KindInputValidation, "unsupported payload type for decrypt")
	}
}

// ReadText is Decrypt specialized for UTF-8 text content; it exists as
// the convenience entry point spec §6 names alongside Decrypt.
func ReadText(obj Object, me RecipientMaterial) (string, error) {
	b, err := Decrypt(obj, me)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decryptSelf(obj Object, p SelfPayload, me RecipientMaterial) ([]byte, error) {
	shared, err := primitives.ECDH(me.EncryptionPrivate, p.EphemeralPublic)
	if err != nil {
		return nil, err
	}
	key, err := primitives.HKDF32(shared[:], nil, primitives.InfoSealedBoxV2)
	primitives.Zeroize(shared[:])
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(key[:])

	aad := contentAAD(obj.Version, obj.Author, obj.ContentType)
	plaintext, err := primitives.Decrypt(key, p.Nonce, p.Ciphertext, aad)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// decryptRecipients implements spec §9's constant-time recipient
// matching requirement: it walks the entire recipient list on every
// call and selects the matching entry's fields with a constant-time
// select rather than returning as soon as a match is found, so the
// number of iterations and the branch taken never depend on the
// caller's position in the list.
func decryptRecipients(obj Object, p RecipientsPayload, me RecipientMaterial) ([]byte, error) {
	var encryptedKey []byte
	var nonce [primitives.AEADNonceSize]byte
	found := false

	for _, r := range p.Recipients {
		match := primitives.ConstantTimeEqual([]byte(r.DID), []byte(me.DID))
		if match && !found {
			encryptedKey = r.EncryptedKey
			nonce = r.Nonce
			found = true
		}
	}
	if !found {
		return nil, rootlesserr.New(rootlesserr.KindNotRecipient, "no recipient entry matches this identity")
	}

	shared, err := primitives.ECDH(me.EncryptionPrivate, p.EphemeralPublic)
	if err != nil {
		return nil, err
	}
	wrapKey, err := primitives.HKDF32(shared[:], nil, primitives.InfoMultiRecipientWrapV2)
	primitives.Zeroize(shared[:])
	if err != nil {
		return nil, err
	}

	aad := contentAAD(obj.Version, obj.Author, obj.ContentType)
	contentKeyBytes, err := primitives.Decrypt(wrapKey, nonce, encryptedKey, aad)
	primitives.Zeroize(wrapKey[:])
	if err != nil {
		return nil, err
	}
	var contentKey [primitives.AEADKeySize]byte
	copy(contentKey[:], contentKeyBytes)
	primitives.Zeroize(contentKeyBytes)
	defer primitives.Zeroize(contentKey[:])

	plaintext, err := primitives.Decrypt(contentKey, p.Nonce, p.Ciphertext, aad)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}
