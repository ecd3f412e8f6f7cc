package ratchet

import "github.com/rootlessnet/protocol/internal/primitives"

// InitAsInitiator builds the sender-side ratchet state right after an
// X3DH handshake (spec §4.6 "Initialization, sender side"): a fresh DH
// pair is generated immediately and ratcheted against the peer's
// signed prekey, so the initiator can send right away.
func InitAsInitiator(sharedSecret [32]byte, peerSignedPrekeyPub [32]byte, maxSkip int) (*State, error) {
	dhSend, err := primitives.GenerateEncryptionKeyPair()
	if err != nil {
		return nil, err
	}

	dhOut, err := primitives.ECDH(dhSend.Private, peerSignedPrekeyPub)
	if err != nil {
		return nil, err
	}
	rootKey, sendChainKey, err := kdfRootKey(sharedSecret, dhOut)
	primitives.Zeroize(dhOut[:])
	if err != nil {
		return nil, err
	}

	st := newState(maxSkip)
	st.DHSendPublic = dhSend.Public
	st.DHSendPrivate = dhSend.Private
	st.DHReceive = &peerSignedPrekeyPub
	st.RootKey = rootKey
	st.SendChainKey = &sendChainKey
	return st, nil
}

// InitAsResponder builds the receiver-side ratchet state (spec §4.6
// "Initialization, receiver side"): no ratchet step happens yet, since
// the responder has nothing to ratchet against until the first message
// arrives carrying the initiator's ratchet public key.
func InitAsResponder(sharedSecret [32]byte, ourSignedPrekey primitives.EncryptionKeyPair, maxSkip int) *State {
	st := newState(maxSkip)
	st.RootKey = sharedSecret
	st.DHSendPublic = ourSignedPrekey.Public
	st.DHSendPrivate = ourSignedPrekey.Private
	return st
}
