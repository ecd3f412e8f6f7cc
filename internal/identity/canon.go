package identity

import "github.com/rootlessnet/protocol/internal/canon"

// canonDocument builds the canonical transcript map for a Document.
// When includeProof is false (the signing/verification transcript),
// the proof field is entirely absent rather than present-but-null, per
// spec §4.3 ("the document without its own proof field").
func canonDocument(d Document, includeProof bool) map[string]any {
	keys := make([]any, 0, len(d.PublicKeys))
	for _, k := range d.PublicKeys {
		entry := map[string]any{
			"id":        k.ID,
			"purpose":   k.Purpose,
			"publicKey": k.PublicKey,
			"created":   k.Created,
		}
		if k.Expires != nil {
			entry["expires"] = *k.Expires
		}
		if k.Revoked != nil {
			entry["revoked"] = *k.Revoked
		}
		keys = append(keys, entry)
	}

	m := map[string]any{
		"version":    d.Version,
		"did":        d.DID,
		"type":       string(d.Type),
		"publicKeys": keys,
		"created":    d.Created,
		"updated":    d.Updated,
	}
	if includeProof && d.Proof != nil {
		m["proof"] = map[string]any{
			"type":               d.Proof.Type,
			"created":            d.Proof.Created,
			"verificationMethod": d.Proof.VerificationMethod,
			"signature":          d.Proof.Signature,
		}
	}
	return m
}

// documentSigningBytes returns the canonical byte transcript signed
// (and later verified) for a document: everything except proof.
func documentSigningBytes(d Document) ([]byte, error) {
	return canon.Bytes(canonDocument(d, false))
}
