// Package ratchet implements the Double Ratchet algorithm (spec
// §4.6): a Diffie-Hellman ratchet combined with per-message symmetric
// chain ratchets, giving forward secrecy and post-compromise security
// to an established session.
package ratchet

import (
	"log"
	"os"

	"github.com/rootlessnet/protocol/internal/primitives"
	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// DefaultMaxSkip bounds how many consecutive message keys a receive
// chain will derive and cache ahead of the next expected message.
const DefaultMaxSkip = 1000

// logger reports ratchet lifecycle events (DH resets, skipped-key
// eviction), bracketed the same way the teacher's stateful managers
// log.
var logger = log.New(os.Stdout, "[RATCHET] ", log.Ldate|log.Ltime|log.LUTC)

// ErrRatchetNotReady is returned by Encrypt when no send chain has
// been established yet (the responder side before its first send, per
// spec §4.6's lazy-ratchet description).
var ErrRatchetNotReady = rootlesserr.New(rootlesserr.KindProtocol, "ratchet has no send chain yet")

// ErrTooManySkipped is returned when a single decrypt would need to
// skip more than State.MaxSkip message keys at once.
var ErrTooManySkipped = rootlesserr.New(rootlesserr.KindProtocol, "too many skipped messages in one step")

// skippedKeyID identifies one cached out-of-order message key by the
// sender's ratchet public key at the time and the message counter
// within that chain (spec §9: "a hash map with value-typed keys").
type skippedKeyID struct {
	DHPub [32]byte
	N     uint32
}

// State is a conversation's full Double Ratchet state (spec §3
// RatchetState). It is a plain value with no internal locking; a
// caller sharing one State across goroutines must serialize access
// itself (spec §5).
type State struct {
	DHSendPublic  [32]byte
	DHSendPrivate [32]byte
	DHReceive     *[32]byte

	RootKey         [32]byte
	SendChainKey    *[32]byte
	ReceiveChainKey *[32]byte

	SendN         uint32
	ReceiveN      uint32
	PreviousSendN uint32

	skippedKeys  map[skippedKeyID][32]byte
	skippedOrder []skippedKeyID

	MaxSkip int
}

// Header is the per-message ratchet header (spec §3 EncryptedMessage).
type Header struct {
	DHPublic [32]byte
	N        uint32
	PN       uint32
}

// Message is an encrypted ratchet message ready for the wire.
type Message struct {
	Header     Header
	Nonce      [primitives.AEADNonceSize]byte
	Ciphertext []byte
}

func newState(maxSkip int) *State {
	if maxSkip <= 0 {
		maxSkip = DefaultMaxSkip
	}
	return &State{
		skippedKeys: make(map[skippedKeyID][32]byte),
		MaxSkip:     maxSkip,
	}
}

// Zeroize destroys every private and secret value this state holds:
// the current DH private half, root key, both chain keys, and every
// cached skipped message key.
func (s *State) Zeroize() {
	primitives.Zeroize(s.DHSendPrivate[:])
	primitives.Zeroize(s.RootKey[:])
	if s.SendChainKey != nil {
		primitives.Zeroize(s.SendChainKey[:])
	}
	if s.ReceiveChainKey != nil {
		primitives.Zeroize(s.ReceiveChainKey[:])
	}
	for k, v := range s.skippedKeys {
		mk := v
		primitives.Zeroize(mk[:])
		delete(s.skippedKeys, k)
	}
	s.skippedOrder = nil
}
