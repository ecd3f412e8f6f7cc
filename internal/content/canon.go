package content

import (
	"github.com/rootlessnet/protocol/internal/canon"
)

// canonPayload converts a typed payload value into its canonical
// transcript form. Byte slices and fixed-size byte arrays are
// hex-encoded, per spec §9 Q1.
func canonPayload(payload any) map[string]any {
	switch p := payload.(type) {
	case ClearPayload:
		return map[string]any{
			"type": p.Type,
			"data": canon.Hex(p.Data),
		}
	case RecipientsPayload:
		recipients := make([]any, 0, len(p.Recipients))
		for _, r := range p.Recipients {
			recipients = append(recipients, map[string]any{
				"did":          r.DID,
				"encryptedKey": canon.Hex(r.EncryptedKey),
				"nonce":        canon.Hex(r.Nonce[:]),
			})
		}
		return map[string]any{
			"type":            p.Type,
			"ephemeralPublic": canon.Hex(p.EphemeralPublic[:]),
			"recipients":      recipients,
			"ciphertext":      canon.Hex(p.Ciphertext),
			"nonce":           canon.Hex(p.Nonce[:]),
		}
	case SelfPayload:
		return map[string]any{
			"type":            p.Type,
			"ephemeralPublic": canon.Hex(p.EphemeralPublic[:]),
			"ciphertext":      canon.Hex(p.Ciphertext),
			"nonce":           canon.Hex(p.Nonce[:]),
		}
	default:
		return nil
	}
}

// canonObject builds the canonical transcript map for an Object.
// includeID/includeSignature control the two-pass serialization spec
// §4.4 step 4 requires: sign over the transcript without id or
// signature, then compute the id over the transcript with signature
// but without id.
func canonObject(o Object, includeID, includeSignature bool) map[string]any {
	m := map[string]any{
		"version":           o.Version,
		"author":            o.Author,
		"timestamp":         o.Timestamp,
		"contentType":       o.ContentType,
		"payloadEncryption": string(o.PayloadEncryption),
		"payload":           canonPayload(o.Payload),
		"payloadHash":       canon.Hex(o.PayloadHash[:]),
	}
	if includeID && o.ID != "" {
		m["id"] = o.ID
	}
	if includeSignature && len(o.Signature) > 0 {
		m["signature"] = canon.Hex(o.Signature)
	}
	if o.ExpiresAt != nil {
		m["expiresAt"] = *o.ExpiresAt
	}
	if o.Zone != "" {
		m["zone"] = o.Zone
	}
	if o.Parent != "" {
		m["parent"] = o.Parent
	}
	if o.Thread != "" {
		m["thread"] = o.Thread
	}
	if len(o.Mentions) > 0 {
		mentions := make([]any, len(o.Mentions))
		for i, v := range o.Mentions {
			mentions[i] = v
		}
		m["mentions"] = mentions
	}
	if len(o.Tags) > 0 {
		tags := make([]any, len(o.Tags))
		for i, v := range o.Tags {
			tags[i] = v
		}
		m["tags"] = tags
	}
	if o.Language != "" {
		m["language"] = o.Language
	}
	if o.Extensions != nil {
		m["extensions"] = o.Extensions
	}
	return m
}

// signingBytes is the transcript signed (and verified): everything
// except id and signature.
func signingBytes(o Object) ([]byte, error) {
	return canon.Bytes(canonObject(o, false, false))
}

// idBytes is the transcript the content identifier is computed over:
// everything except id, including the signature.
func idBytes(o Object) ([]byte, error) {
	return canon.Bytes(canonObject(o, false, true))
}
