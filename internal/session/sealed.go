package session

import (
	"github.com/rootlessnet/protocol/internal/primitives"
	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// sealedSenderAAD binds the sealed message version into the AEAD
// associated data, the same way content.contentAAD binds an object's
// version and author — here there is no author to bind, since the
// whole point of a sealed message is that the sender is anonymous
// (spec §4.7, property 11).
func sealedSenderAAD(version int) []byte {
	return []byte{byte(version)}
}

// SealedSend builds a one-shot anonymous envelope addressed to
// recipientEncPub: no session, no sender identity, just an ephemeral
// X25519 key and a sealed ciphertext (spec §4.7 sealedSend). This
// mirrors content.encryptSelf's sealed-box construction, addressed to
// an arbitrary recipient instead of the author.
func (m *Manager) SealedSend(recipientEncPub [primitives.X25519KeySize]byte, plaintext []byte) (*SealedMessage, error) {
	ephemeral, err := primitives.GenerateEncryptionKeyPair()
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(ephemeral.Private[:])

	shared, err := primitives.ECDH(ephemeral.Private, recipientEncPub)
	if err != nil {
		return nil, err
	}
	key, err := primitives.HKDF32(shared[:], nil, primitives.InfoSealedBoxV2)
	primitives.Zeroize(shared[:])
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(key[:])

	nonce, ciphertext, err := primitives.Encrypt(key, plaintext, sealedSenderAAD(SealedMessageVersion))
	if err != nil {
		return nil, err
	}

	return &SealedMessage{
		Version:         SealedMessageVersion,
		Type:            "sealed",
		EphemeralPublic: ephemeral.Public,
		Nonce:           nonce,
		Ciphertext:      ciphertext,
	}, nil
}

// SealedReceive opens a SealedMessage addressed to this manager's own
// identity encryption key (spec §4.7 sealedReceive).
func (m *Manager) SealedReceive(msg SealedMessage) ([]byte, error) {
	if msg.Version != SealedMessageVersion {
		return nil, rootlesserr.New(rootlesserr.KindProtocol, "unsupported sealed message version")
	}

	m.mu.RLock()
	myPriv := m.identity.KeySet.Encryption.Private
	m.mu.RUnlock()

	shared, err := primitives.ECDH(myPriv, msg.EphemeralPublic)
	if err != nil {
		return nil, err
	}
	key, err := primitives.HKDF32(shared[:], nil, primitives.InfoSealedBoxV2)
	primitives.Zeroize(shared[:])
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(key[:])

	return primitives.Decrypt(key, msg.Nonce, msg.Ciphertext, sealedSenderAAD(SealedMessageVersion))
}
