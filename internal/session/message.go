package session

import (
	"github.com/rootlessnet/protocol/internal/metrics"
	"github.com/rootlessnet/protocol/internal/ratchet"
	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// SendOptions carries the optional fields a caller may attach to an
// outgoing DirectMessage.
type SendOptions struct {
	ReplyTo   string
	ExpiresAt *int64
}

// Send ratchet-encrypts plaintext for the given conversation and wraps
// it in a DirectMessage, advancing the sender's chain (spec §4.7 send).
func (m *Manager) Send(conversationID string, plaintext []byte, msgType string, opts SendOptions) (*DirectMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversations[conversationID]
	if !ok {
		return nil, errUnknownConversation
	}

	encrypted, err := ratchet.Encrypt(conv.Ratchet, plaintext)
	if err != nil {
		metrics.RatchetMessagesTotal.WithLabelValues("send", "error").Inc()
		return nil, err
	}
	metrics.RatchetMessagesTotal.WithLabelValues("send", "ok").Inc()

	now := nowMillis()
	conv.LastMessage = now

	return &DirectMessage{
		Version:        DirectMessageVersion,
		ID:             newMessageID(),
		ConversationID: conversationID,
		Sender:         m.identity.DID,
		Type:           msgType,
		Encrypted:      *encrypted,
		Timestamp:      now,
		ReplyTo:        opts.ReplyTo,
		ExpiresAt:      opts.ExpiresAt,
	}, nil
}

// Receive ratchet-decrypts an incoming DirectMessage against its
// conversation and returns the plaintext (spec §4.7 receive).
func (m *Manager) Receive(msg DirectMessage) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversations[msg.ConversationID]
	if !ok {
		return nil, errUnknownConversation
	}
	if msg.Version != DirectMessageVersion {
		return nil, rootlesserr.New(rootlesserr.KindProtocol, "unsupported direct message version")
	}
	if msg.ExpiresAt != nil && *msg.ExpiresAt < nowMillis() {
		return nil, rootlesserr.New(rootlesserr.KindFreshness, "message expired")
	}

	plaintext, err := ratchet.Decrypt(conv.Ratchet, msg.Encrypted)
	if err != nil {
		metrics.RatchetMessagesTotal.WithLabelValues("receive", "error").Inc()
		return nil, err
	}
	metrics.RatchetMessagesTotal.WithLabelValues("receive", "ok").Inc()

	conv.LastMessage = nowMillis()
	return plaintext, nil
}

// Conversation looks up a live conversation by id.
func (m *Manager) Conversation(conversationID string) (*Conversation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, ok := m.conversations[conversationID]
	return conv, ok
}
