package ratchet

import "github.com/rootlessnet/protocol/internal/primitives"

// Encrypt advances the send chain and seals plaintext under the
// resulting message key (spec §4.6 Encrypt). The header is bound as
// associated data so a tampered header is caught by the AEAD tag
// rather than silently misrouting the message at the receiver.
func Encrypt(st *State, plaintext []byte) (*Message, error) {
	if st.SendChainKey == nil {
		return nil, ErrRatchetNotReady
	}

	mk, nextChain, err := kdfChain(*st.SendChainKey)
	if err != nil {
		return nil, err
	}

	header := Header{
		DHPublic: st.DHSendPublic,
		N:        st.SendN,
		PN:       st.PreviousSendN,
	}

	nonce, ciphertext, err := primitives.Encrypt(mk, plaintext, headerAAD(header))
	primitives.Zeroize(mk[:])
	if err != nil {
		return nil, err
	}

	st.SendChainKey = &nextChain
	st.SendN++

	return &Message{Header: header, Nonce: nonce, Ciphertext: ciphertext}, nil
}

func headerAAD(h Header) []byte {
	out := make([]byte, 0, 40)
	out = append(out, h.DHPublic[:]...)
	out = append(out, byte(h.N>>24), byte(h.N>>16), byte(h.N>>8), byte(h.N))
	out = append(out, byte(h.PN>>24), byte(h.PN>>16), byte(h.PN>>8), byte(h.PN))
	return out
}
