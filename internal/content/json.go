package content

import (
	"encoding/json"

	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// objectWire is the JSON shape of Object with Payload left raw, so
// UnmarshalJSON can pick the concrete payload type from
// payloadEncryption before decoding it.
type objectWire struct {
	Version           int             `json:"version"`
	ID                string          `json:"id,omitempty"`
	Author            string          `json:"author"`
	Timestamp         int64           `json:"timestamp"`
	ExpiresAt         *int64          `json:"expiresAt,omitempty"`
	Zone              string          `json:"zone,omitempty"`
	Parent            string          `json:"parent,omitempty"`
	Thread            string          `json:"thread,omitempty"`
	Mentions          []string        `json:"mentions,omitempty"`
	ContentType       string          `json:"contentType"`
	PayloadEncryption Encryption      `json:"payloadEncryption"`
	Payload           json.RawMessage `json:"payload"`
	PayloadHash       []byte          `json:"payloadHash"`
	Tags              []string        `json:"tags,omitempty"`
	Language          string          `json:"language,omitempty"`
	Extensions        any             `json:"extensions,omitempty"`
	Signature         []byte          `json:"signature,omitempty"`
}

// MarshalJSON encodes Object for wire transport (distinct from the
// canonical signing transcript in canon.go, which never goes through
// this path).
func (o Object) MarshalJSON() ([]byte, error) {
	rawPayload, err := json.Marshal(o.Payload)
	if err != nil {
		return nil, err
	}
	wire := objectWire{
		Version:           o.Version,
		ID:                o.ID,
		Author:            o.Author,
		Timestamp:         o.Timestamp,
		ExpiresAt:         o.ExpiresAt,
		Zone:              o.Zone,
		Parent:            o.Parent,
		Thread:            o.Thread,
		Mentions:          o.Mentions,
		ContentType:       o.ContentType,
		PayloadEncryption: o.PayloadEncryption,
		Payload:           rawPayload,
		PayloadHash:       o.PayloadHash[:],
		Tags:              o.Tags,
		Language:          o.Language,
		Extensions:        o.Extensions,
		Signature:         o.Signature,
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes Object from the wire form, resolving Payload
// to its concrete type via payloadEncryption.
func (o *Object) UnmarshalJSON(data []byte) error {
	var wire objectWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var payload any
	switch wire.PayloadEncryption {
	case "", EncryptionNone:
		var p ClearPayload
		if err := json.Unmarshal(wire.Payload, &p); err != nil {
			return err
		}
		payload = p
	case EncryptionRecipients:
		var p RecipientsPayload
		if err := json.Unmarshal(wire.Payload, &p); err != nil {
			return err
		}
		payload = p
	case EncryptionSelf:
		var p SelfPayload
		if err := json.Unmarshal(wire.Payload, &p); err != nil {
			return err
		}
		payload = p
	default:
		return rootlesserr.New(rootlesserr.KindInputValidation, "unknown payloadEncryption in wire object: "+string(wire.PayloadEncryption))
	}

	var payloadHash [32]byte
	copy(payloadHash[:], wire.PayloadHash)

	*o = Object{
		Version:           wire.Version,
		ID:                wire.ID,
		Author:            wire.Author,
		Timestamp:         wire.Timestamp,
		ExpiresAt:         wire.ExpiresAt,
		Zone:              wire.Zone,
		Parent:            wire.Parent,
		Thread:            wire.Thread,
		Mentions:          wire.Mentions,
		ContentType:       wire.ContentType,
		PayloadEncryption: wire.PayloadEncryption,
		Payload:           payload,
		PayloadHash:       payloadHash,
		Tags:              wire.Tags,
		Language:          wire.Language,
		Extensions:        wire.Extensions,
		Signature:         wire.Signature,
	}
	return nil
}
