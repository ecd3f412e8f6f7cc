package ratchet

import (
	"github.com/rootlessnet/protocol/internal/metrics"
	"github.com/rootlessnet/protocol/internal/primitives"
)

// Decrypt implements spec §4.6 Decrypt's three-step procedure: try the
// skipped-key cache, perform a DH ratchet step if the header carries a
// new ratchet public key, then skip forward within the (possibly new)
// receive chain to the message's counter.
func Decrypt(st *State, msg Message) ([]byte, error) {
	key := skippedKeyID{DHPub: msg.Header.DHPublic, N: msg.Header.N}
	if mk, ok := st.skippedKeys[key]; ok {
		delete(st.skippedKeys, key)
		removeSkippedOrder(st, key)
		pt, err := primitives.Decrypt(mk, msg.Nonce, msg.Ciphertext, headerAAD(msg.Header))
		primitives.Zeroize(mk[:])
		return pt, err
	}

	if st.DHReceive == nil || !primitives.ConstantTimeEqual(st.DHReceive[:], msg.Header.DHPublic[:]) {
		if st.DHReceive != nil {
			if err := skipMessageKeys(st, msg.Header.PN); err != nil {
				return nil, err
			}
		}
		if err := dhRatchetStep(st, msg.Header.DHPublic); err != nil {
			return nil, err
		}
	}

	if err := skipMessageKeys(st, msg.Header.N); err != nil {
		return nil, err
	}

	mk, nextChain, err := kdfChain(*st.ReceiveChainKey)
	if err != nil {
		return nil, err
	}
	st.ReceiveChainKey = &nextChain
	st.ReceiveN++

	pt, err := primitives.Decrypt(mk, msg.Nonce, msg.Ciphertext, headerAAD(msg.Header))
	primitives.Zeroize(mk[:])
	return pt, err
}

// dhRatchetStep performs the two-sided DH ratchet (spec §4.6 state
// diagram): it absorbs the peer's new ratchet public key into the
// receive chain, then immediately generates a fresh DH pair of our own
// and derives the next send chain from it, so a reply is ready without
// an extra round trip.
func dhRatchetStep(st *State, theirNewDHPub [32]byte) error {
	dhOut, err := primitives.ECDH(st.DHSendPrivate, theirNewDHPub)
	if err != nil {
		return err
	}
	newRoot, recvChain, err := kdfRootKey(st.RootKey, dhOut)
	primitives.Zeroize(dhOut[:])
	if err != nil {
		return err
	}

	freshDH, err := primitives.GenerateEncryptionKeyPair()
	if err != nil {
		return err
	}

	dhOut2, err := primitives.ECDH(freshDH.Private, theirNewDHPub)
	if err != nil {
		return err
	}
	root2, sendChain, err := kdfRootKey(newRoot, dhOut2)
	primitives.Zeroize(dhOut2[:])
	if err != nil {
		return err
	}

	primitives.Zeroize(st.DHSendPrivate[:])
	metrics.RatchetDHStepsTotal.Inc()
	logger.Printf("dh ratchet step, previousSendN=%d receiveN reset", st.SendN)

	st.PreviousSendN = st.SendN
	st.SendN = 0
	st.ReceiveN = 0
	st.DHReceive = &theirNewDHPub
	st.RootKey = root2
	st.SendChainKey = &sendChain
	st.ReceiveChainKey = &recvChain
	st.DHSendPublic = freshDH.Public
	st.DHSendPrivate = freshDH.Private
	return nil
}

// skipMessageKeys derives and caches every message key in the current
// receive chain from ReceiveN up to (not including) upTo, honoring
// MaxSkip and evicting the oldest cached key (FIFO) once the cache
// grows past it (spec §4.6, §3 skippedKeys ownership note).
func skipMessageKeys(st *State, upTo uint32) error {
	if st.ReceiveChainKey == nil {
		return nil
	}
	if upTo < st.ReceiveN {
		return nil
	}
	if int(upTo-st.ReceiveN) > st.MaxSkip {
		return ErrTooManySkipped
	}

	for st.ReceiveN < upTo {
		mk, nextChain, err := kdfChain(*st.ReceiveChainKey)
		if err != nil {
			return err
		}
		id := skippedKeyID{DHPub: *st.DHReceive, N: st.ReceiveN}
		st.skippedKeys[id] = mk
		st.skippedOrder = append(st.skippedOrder, id)
		st.ReceiveChainKey = &nextChain
		st.ReceiveN++

		if len(st.skippedOrder) > st.MaxSkip {
			oldest := st.skippedOrder[0]
			st.skippedOrder = st.skippedOrder[1:]
			if v, ok := st.skippedKeys[oldest]; ok {
				z := v
				primitives.Zeroize(z[:])
				delete(st.skippedKeys, oldest)
				metrics.SkippedKeysEvictedTotal.Inc()
				logger.Printf("evicted oldest skipped key, cache size %d exceeded MaxSkip %d", len(st.skippedOrder)+1, st.MaxSkip)
			}
		}
	}
	metrics.SkippedKeysCached.Set(float64(len(st.skippedOrder)))
	return nil
}

func removeSkippedOrder(st *State, key skippedKeyID) {
	for i, id := range st.skippedOrder {
		if id == key {
			st.skippedOrder = append(st.skippedOrder[:i], st.skippedOrder[i+1:]...)
			return
		}
	}
}
