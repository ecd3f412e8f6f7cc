package ratchet

import "github.com/rootlessnet/protocol/internal/primitives"

// kdfChain implements spec §4.6 kdfChain: derive a message key and the
// next chain key from the current chain key, under distinct info
// strings so compromising one never helps derive the other.
func kdfChain(chain [32]byte) (messageKey, nextChain [32]byte, err error) {
	messageKey, err = primitives.HKDF32(chain[:], nil, primitives.InfoMessageKeyV2)
	if err != nil {
		return messageKey, nextChain, err
	}
	nextChain, err = primitives.HKDF32(chain[:], nil, primitives.InfoChainKeyV2)
	return messageKey, nextChain, err
}

// kdfRootKey implements spec §4.6 kdfRootKey: derive a new root key
// and a fresh chain key from the current root and a DH ratchet output.
func kdfRootKey(root, dh [32]byte) (newRoot, chain [32]byte, err error) {
	ikm := make([]byte, 0, 64)
	ikm = append(ikm, root[:]...)
	ikm = append(ikm, dh[:]...)
	defer primitives.Zeroize(ikm)

	newRoot, err = primitives.HKDF32(ikm, nil, primitives.InfoRootKeyV2)
	if err != nil {
		return newRoot, chain, err
	}
	chain, err = primitives.HKDF32(ikm, nil, primitives.InfoChainKeyV2)
	return newRoot, chain, err
}
