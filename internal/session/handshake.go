package session

import (
	"strconv"

	"github.com/rootlessnet/protocol/internal/metrics"
	"github.com/rootlessnet/protocol/internal/ratchet"
	"github.com/rootlessnet/protocol/internal/rootlesserr"
	"github.com/rootlessnet/protocol/internal/x3dh"
)

// InitiateResult is a new Conversation plus the handshake fields the
// caller must send to the peer out of band so Accept can complete the
// other half of X3DH (spec §4.7 initiate).
type InitiateResult struct {
	Conversation        *Conversation
	EphemeralPublic     [32]byte
	UsedSignedPrekeyID  uint32
	UsedOneTimePrekeyID *uint32
}

// Initiate establishes a new conversation with peerDID by running the
// initiator side of X3DH against their published bundle, then seeding
// a Double Ratchet from the resulting shared secret.
func (m *Manager) Initiate(peerDID string, peerBundle x3dh.Bundle, peerSigningPub [32]byte) (*InitiateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result, err := x3dh.Initiate(m.identity.KeySet.Encryption.Private, peerSigningPub, peerBundle)
	if err != nil {
		return nil, err
	}

	ratchetState, err := ratchet.InitAsInitiator(result.SharedSecret, peerBundle.SignedPrekey, m.maxSkip())
	if err != nil {
		return nil, err
	}

	now := nowMillis()
	conv := &Conversation{
		ID:           newConversationID(),
		Participants: []string{m.identity.DID, peerDID},
		Ratchet:      ratchetState,
		Created:      now,
		LastMessage:  now,
	}
	m.conversations[conv.ID] = conv
	metrics.HandshakesTotal.WithLabelValues("initiator", strconv.FormatBool(result.UsedOneTimePrekeyID != nil)).Inc()
	logger.Printf("conversation %s established as initiator with %s", conv.ID, peerDID)

	return &InitiateResult{
		Conversation:        conv,
		EphemeralPublic:     result.EphemeralPublic,
		UsedSignedPrekeyID:  result.UsedSignedPrekeyID,
		UsedOneTimePrekeyID: result.UsedOneTimePrekeyID,
	}, nil
}

// Accept completes the responder side of X3DH using this manager's own
// prekey set and seeds a Double Ratchet session for the new
// conversation with initiatorDID.
func (m *Manager) Accept(initiatorDID string, initiatorIdentityEncPub, initiatorEphemeralPub [32]byte, usedSignedPrekeyID uint32, usedOneTimePrekeyID *uint32) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, err := x3dh.Respond(m.prekeys, m.identity.KeySet.Encryption.Private, initiatorIdentityEncPub, initiatorEphemeralPub, usedSignedPrekeyID, usedOneTimePrekeyID)
	if err != nil {
		return nil, err
	}

	ourSignedPrekey := primitiveKeyPair(m.prekeys.SignedPrekey.Public, m.prekeys.SignedPrekey.Private)
	ratchetState := ratchet.InitAsResponder(resp.SharedSecret, ourSignedPrekey, m.maxSkip())

	now := nowMillis()
	conv := &Conversation{
		ID:           newConversationID(),
		Participants: []string{initiatorDID, m.identity.DID},
		Ratchet:      ratchetState,
		Created:      now,
		LastMessage:  now,
	}
	m.conversations[conv.ID] = conv
	metrics.HandshakesTotal.WithLabelValues("responder", strconv.FormatBool(usedOneTimePrekeyID != nil)).Inc()
	logger.Printf("conversation %s established as responder to %s", conv.ID, initiatorDID)
	return conv, nil
}

// maxSkip returns the configured skipped-key bound, or the ratchet
// package default if the host never overrode it.
func (m *Manager) maxSkip() int {
	if m.MaxSkip > 0 {
		return m.MaxSkip
	}
	return ratchet.DefaultMaxSkip
}

// errUnknownConversation is returned by Send/Receive for an unrecognized
// or already-closed conversation id.
var errUnknownConversation = rootlesserr.New(rootlesserr.KindProtocol, "unknown conversation id")
