// Package session implements the Session Manager (spec §4.7): it
// wires an identity, its prekey set, and the X3DH/ratchet packages
// together into per-conversation state, plus a parallel sealed
// (anonymous) one-shot envelope path.
package session

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rootlessnet/protocol/internal/identity"
	"github.com/rootlessnet/protocol/internal/primitives"
	"github.com/rootlessnet/protocol/internal/ratchet"
	"github.com/rootlessnet/protocol/internal/x3dh"
)

// logger reports session lifecycle events (conversation created,
// state exported/imported), bracketed the same way the teacher's
// stateful managers log.
var logger = log.New(os.Stdout, "[SESSION] ", log.Ldate|log.Ltime|log.LUTC)

// DirectMessageVersion and SealedMessageVersion are the only wire
// versions this package emits or accepts.
const (
	DirectMessageVersion = 2
	SealedMessageVersion = 2
)

// Conversation holds one peer's ratchet session plus the bookkeeping
// the manager needs to route and log messages.
type Conversation struct {
	ID           string
	Participants []string
	Ratchet      *ratchet.State
	Created      int64
	LastMessage  int64
}

// DirectMessage is a ratchet-encrypted message on the wire, carrying
// its sender DID in the clear (spec §4.7: "sender DID in the clear
// only for direct messages").
type DirectMessage struct {
	Version        int             `json:"version"`
	ID             string          `json:"id"`
	ConversationID string          `json:"conversationId"`
	Sender         string          `json:"sender"`
	Type           string          `json:"type"`
	Encrypted      ratchet.Message `json:"encrypted"`
	Timestamp      int64           `json:"timestamp"`
	ReplyTo        string          `json:"replyTo,omitempty"`
	ExpiresAt      *int64          `json:"expiresAt,omitempty"`
}

// SealedMessage carries no sender metadata on the wire: only an
// ephemeral X25519 public key and the sealed ciphertext (spec §4.7,
// property 11).
type SealedMessage struct {
	Version         int                            `json:"version"`
	Type            string                         `json:"type"` // "sealed"
	EphemeralPublic [primitives.X25519KeySize]byte `json:"ephemeralPublic"`
	Nonce           [primitives.AEADNonceSize]byte `json:"nonce"`
	Ciphertext      []byte                         `json:"ciphertext"`
}

// Manager owns one identity's prekey set and its live conversations.
// It embeds a sync.RWMutex guarding conversations, following the
// teacher's idiom of an explicit lock field on every stateful manager
// rather than hidden internal locking (spec §5).
type Manager struct {
	mu sync.RWMutex

	identity      *identity.Identity
	prekeys       *x3dh.PrekeySet
	conversations map[string]*Conversation

	// MaxSkip bounds how many skipped message keys any conversation's
	// ratchet will cache (spec §4.6). Zero means ratchet.DefaultMaxSkip.
	MaxSkip int
}

// NewManager wires an identity and a freshly generated prekey set into
// a new Manager. otpCount<=0 uses x3dh.DefaultOneTimePrekeyCount.
func NewManager(id *identity.Identity, otpCount int) (*Manager, error) {
	prekeys, err := x3dh.GeneratePrekeySet(id.KeySet.Encryption.Public, id.KeySet.Signing.Private[:], otpCount)
	if err != nil {
		return nil, err
	}
	return &Manager{
		identity:      id,
		prekeys:       prekeys,
		conversations: make(map[string]*Conversation),
	}, nil
}

// PublishBundle returns the public projection of this manager's
// current prekey set, ready to be published to discovery.
func (m *Manager) PublishBundle() x3dh.Bundle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prekeys.PublicBundle()
}

func newConversationID() string {
	return uuid.NewString()
}

func newMessageID() string {
	return uuid.NewString()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// primitiveKeyPair wraps a raw public/private pair into the shape the
// ratchet package expects for a responder's initial signed prekey.
func primitiveKeyPair(public, private [32]byte) primitives.EncryptionKeyPair {
	return primitives.EncryptionKeyPair{Public: public, Private: private}
}
