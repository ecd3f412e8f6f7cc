package ratchet

import "encoding/json"

// skippedEntry is the wire form of one skipped-key cache entry,
// needed because skippedKeyID/[32]byte aren't valid JSON object keys.
type skippedEntry struct {
	DHPub [32]byte `json:"dhPub"`
	N     uint32   `json:"n"`
	Key   [32]byte `json:"key"`
}

type stateWire struct {
	DHSendPublic    [32]byte       `json:"dhSendPublic"`
	DHSendPrivate   [32]byte       `json:"dhSendPrivate"`
	DHReceive       *[32]byte      `json:"dhReceive,omitempty"`
	RootKey         [32]byte       `json:"rootKey"`
	SendChainKey    *[32]byte      `json:"sendChainKey,omitempty"`
	ReceiveChainKey *[32]byte      `json:"receiveChainKey,omitempty"`
	SendN           uint32         `json:"sendN"`
	ReceiveN        uint32         `json:"receiveN"`
	PreviousSendN   uint32         `json:"previousSendN"`
	Skipped         []skippedEntry `json:"skipped"`
	MaxSkip         int            `json:"maxSkip"`
}

// MarshalJSON serializes the full ratchet state for storage (spec
// §4.6 Serialization). Every field marked sensitive in the struct
// comment remains sensitive here: the host is responsible for
// encrypting this blob at rest, this package only produces the bytes.
func (s *State) MarshalJSON() ([]byte, error) {
	entries := make([]skippedEntry, 0, len(s.skippedOrder))
	for _, id := range s.skippedOrder {
		entries = append(entries, skippedEntry{DHPub: id.DHPub, N: id.N, Key: s.skippedKeys[id]})
	}
	wire := stateWire{
		DHSendPublic:    s.DHSendPublic,
		DHSendPrivate:   s.DHSendPrivate,
		DHReceive:       s.DHReceive,
		RootKey:         s.RootKey,
		SendChainKey:    s.SendChainKey,
		ReceiveChainKey: s.ReceiveChainKey,
		SendN:           s.SendN,
		ReceiveN:        s.ReceiveN,
		PreviousSendN:   s.PreviousSendN,
		Skipped:         entries,
		MaxSkip:         s.MaxSkip,
	}
	return json.Marshal(wire)
}

// UnmarshalJSON restores a State previously produced by MarshalJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	var wire stateWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	restored := newState(wire.MaxSkip)
	restored.DHSendPublic = wire.DHSendPublic
	restored.DHSendPrivate = wire.DHSendPrivate
	restored.DHReceive = wire.DHReceive
	restored.RootKey = wire.RootKey
	restored.SendChainKey = wire.SendChainKey
	restored.ReceiveChainKey = wire.ReceiveChainKey
	restored.SendN = wire.SendN
	restored.ReceiveN = wire.ReceiveN
	restored.PreviousSendN = wire.PreviousSendN
	for _, entry := range wire.Skipped {
		id := skippedKeyID{DHPub: entry.DHPub, N: entry.N}
		restored.skippedKeys[id] = entry.Key
		restored.skippedOrder = append(restored.skippedOrder, id)
	}

	*s = *restored
	return nil
}
