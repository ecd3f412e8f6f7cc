package session

import (
	"encoding/json"
	"io"

	"github.com/rootlessnet/protocol/internal/identity"
	"github.com/rootlessnet/protocol/internal/ratchet"
	"github.com/rootlessnet/protocol/internal/x3dh"
)

// conversationWire is the serialized form of one Conversation: Ratchet
// goes through ratchet.State's own MarshalJSON/UnmarshalJSON.
type conversationWire struct {
	ID           string          `json:"id"`
	Participants []string        `json:"participants"`
	Ratchet      *ratchet.State  `json:"ratchet"`
	Created      int64           `json:"created"`
	LastMessage  int64           `json:"lastMessage"`
}

type managerStateWire struct {
	Prekeys       *x3dh.PrekeySet             `json:"prekeys"`
	Conversations map[string]conversationWire `json:"conversations"`
	MaxSkip       int                         `json:"maxSkip"`
}

// ExportState serializes this manager's prekey set and every live
// conversation (spec §4.7 exportState). The identity itself is not
// included: hosts persist it separately through identity.Export, the
// same separation the teacher's own session stores keep between
// long-term key material and per-conversation ratchet state.
func (m *Manager) ExportState(w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wire := managerStateWire{
		Prekeys:       m.prekeys,
		Conversations: make(map[string]conversationWire, len(m.conversations)),
		MaxSkip:       m.MaxSkip,
	}
	for id, conv := range m.conversations {
		wire.Conversations[id] = conversationWire{
			ID:           conv.ID,
			Participants: conv.Participants,
			Ratchet:      conv.Ratchet,
			Created:      conv.Created,
			LastMessage:  conv.LastMessage,
		}
	}
	logger.Printf("exporting manager state with %d conversations", len(wire.Conversations))
	return json.NewEncoder(w).Encode(wire)
}

// ImportState rebuilds a Manager from a blob produced by ExportState,
// reattaching the caller's own identity (spec §4.7 importState).
func ImportState(r io.Reader, id *identity.Identity) (*Manager, error) {
	var wire managerStateWire
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, err
	}

	m := &Manager{
		identity:      id,
		prekeys:       wire.Prekeys,
		conversations: make(map[string]*Conversation, len(wire.Conversations)),
		MaxSkip:       wire.MaxSkip,
	}
	for convID, conv := range wire.Conversations {
		m.conversations[convID] = &Conversation{
			ID:           conv.ID,
			Participants: conv.Participants,
			Ratchet:      conv.Ratchet,
			Created:      conv.Created,
			LastMessage:  conv.LastMessage,
		}
	}
	logger.Printf("imported manager state with %d conversations", len(m.conversations))
	return m, nil
}
