package identity

import (
	"encoding/hex"
	"time"

	"github.com/rootlessnet/protocol/internal/identifiers"
	"github.com/rootlessnet/protocol/internal/primitives"
	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// clockSkewTolerance bounds how far into the future a document's
// created/proof.created timestamp may sit before it is rejected, per
// spec §4.3.
const clockSkewTolerance = 5 * time.Minute

// VerifyIdentityDocument checks a document's internal consistency and
// signature, accumulating every applicable failure rather than
// stopping at the first (spec §7). A nil error and a Valid()
// Diagnostics both indicate success.
func VerifyIdentityDocument(doc Document) (*rootlesserr.Diagnostics, error) {
	diag := &rootlesserr.Diagnostics{}

	if doc.Version != DocumentVersion {
		diag.Add("INVALID_VERSION")
	}

	kind, didPub, didErr := identifiers.ParseDID(doc.DID)
	if didErr != nil {
		diag.Add("INVALID_DID")
	}

	signingEntry, hasSigning := findKey(doc.PublicKeys, PurposeSigning)
	if !hasSigning {
		diag.Add("MISSING_SIGNING_KEY")
	}

	var signingPub [32]byte
	if hasSigning {
		raw, err := hex.DecodeString(signingEntry.PublicKey)
		if err != nil || len(raw) != 32 {
			diag.Add("MALFORMED_SIGNING_KEY")
		} else {
			copy(signingPub[:], raw)
			if didErr == nil {
				if kind != identifiers.KeyKindEd25519 || !primitives.ConstantTimeEqual(didPub[:], signingPub[:]) {
					diag.Add("DID_KEY_MISMATCH")
				}
			}
		}
	}

	now := time.Now().UnixMilli()
	skewLimit := now + clockSkewTolerance.Milliseconds()
	if doc.Created > skewLimit {
		diag.Add("FUTURE_TIMESTAMP")
	}

	for _, k := range doc.PublicKeys {
		if k.Revoked != nil && *k.Revoked <= now {
			diag.Add("KEY_REVOKED")
		}
		if k.Expires != nil && *k.Expires <= now {
			diag.Add("KEY_EXPIRED")
		}
	}

	if doc.Proof == nil {
		diag.Add("MISSING_PROOF")
	} else {
		if doc.Proof.Created > skewLimit {
			diag.Add("FUTURE_TIMESTAMP")
		}
		if doc.Proof.VerificationMethod != doc.DID+"#key-1" {
			diag.Add("UNKNOWN_VERIFICATION_METHOD")
		}
		sig, err := hex.DecodeString(doc.Proof.Signature)
		if err != nil {
			diag.Add("MALFORMED_SIGNATURE")
		} else if hasSigning {
			transcript, tErr := documentSigningBytes(doc)
			if tErr != nil || !primitives.VerifyHash(signingPub[:], transcript, sig) {
				diag.Add("INVALID_SIGNATURE")
			}
		}
	}

	if !diag.Valid() {
		return diag, rootlesserr.New(rootlesserr.KindAuthentication, "identity document failed verification")
	}
	return diag, nil
}

func findKey(keys []PublicKeyEntry, purpose string) (PublicKeyEntry, bool) {
	for _, k := range keys {
		if k.Purpose == purpose {
			return k, true
		}
	}
	return PublicKeyEntry{}, false
}
