package content

import (
	"time"

	"github.com/rootlessnet/protocol/internal/identifiers"
	"github.com/rootlessnet/protocol/internal/metrics"
	"github.com/rootlessnet/protocol/internal/primitives"
	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// futureTolerance bounds how far ahead of local clock a timestamp may
// sit before Verify rejects it (spec §4.4 / §5).
const futureTolerance = 5 * time.Minute

// Verify checks an object's structural consistency, CID, signature,
// and freshness, accumulating every applicable failure (spec §4.4).
// resolver is optional: when nil, the author's signing key must be
// recoverable from the DID itself (did:rootless:key: embeds an Ed25519
// key directly); when supplied, it is used to look up the author's
// signing key by DID, enabling non-"key"-method DIDs.
func Verify(obj Object, resolver identifiers.Resolver) (*rootlesserr.Diagnostics, error) {
	diag := &rootlesserr.Diagnostics{}

	if obj.Version != Version {
		diag.Add("INVALID_VERSION")
	}

	idTranscript, idErr := idBytes(obj)
	if idErr != nil || !identifiers.VerifyCID(obj.ID, idTranscript) {
		diag.Add("INVALID_CID")
	}

	var signingPub [32]byte
	var haveSigningKey bool
	if resolver != nil {
		pub, _, err := resolver.Resolve(obj.Author)
		if err != nil {
			diag.Add("AUTHOR_KEY_NOT_FOUND")
		} else {
			signingPub = pub
			haveSigningKey = true
		}
	} else {
		kind, pub, err := identifiers.ParseDID(obj.Author)
		if err != nil || kind != identifiers.KeyKindEd25519 {
			diag.Add("INVALID_AUTHOR_DID")
		} else {
			signingPub = pub
			haveSigningKey = true
		}
	}

	if haveSigningKey {
		transcript, err := signingBytes(obj)
		if err != nil || !primitives.VerifyHash(signingPub[:], transcript, obj.Signature) {
			diag.Add("INVALID_SIGNATURE")
		}
	}

	now := time.Now().UnixMilli()
	if obj.Timestamp > now+futureTolerance.Milliseconds() {
		diag.Add("FUTURE_TIMESTAMP")
	}
	if obj.ExpiresAt != nil && *obj.ExpiresAt < now {
		diag.Add("EXPIRED")
	}

	if clear, ok := obj.Payload.(ClearPayload); ok {
		want := primitives.Hash256(clear.Data)
		if !primitives.ConstantTimeEqual(want[:], obj.PayloadHash[:]) {
			diag.Add("INVALID_PAYLOAD_HASH")
		}
	}

	for _, tag := range diag.Tags {
		metrics.ContentVerifyFailuresTotal.WithLabelValues(tag).Inc()
	}

	if !diag.Valid() {
		return diag, rootlesserr.New(rootlesserr.KindAuthentication, "content object failed verification")
	}
	return diag, nil
}
