// Package x3dh implements the Extended Triple Diffie-Hellman
// asynchronous handshake (spec §4.5): prekey generation, bundle
// publication, initiator and responder computation, and one-time
// prekey consumption.
package x3dh

import (
	"log"
	"os"
	"time"

	"github.com/rootlessnet/protocol/internal/primitives"
)

// logger reports prekey lifecycle events (rotation, refill), bracketed
// the same way the teacher's config and security managers log.
var logger = log.New(os.Stdout, "[X3DH] ", log.Ldate|log.Ltime|log.LUTC)

// DefaultOneTimePrekeyCount is how many OTPs PrekeySet generation
// creates when the host does not override the count (spec §4.5).
const DefaultOneTimePrekeyCount = 100

// SignedPrekeyRotationWindow is how long a signed prekey remains valid
// before NeedsSignedPrekeyRotation reports true.
const SignedPrekeyRotationWindow = 7 * 24 * time.Hour

// SignedPrekey is a periodically rotated X25519 key signed by the
// owning identity's signing key.
type SignedPrekey struct {
	ID        uint32                         `json:"id"`
	Public    [primitives.X25519KeySize]byte `json:"public"`
	Private   [primitives.X25519KeySize]byte `json:"private"`
	Signature [primitives.SignatureSize]byte `json:"signature"`
	Created   int64                          `json:"created"`
}

// OneTimePrekey is a single-use X25519 key; Used is set atomically on
// first consumption.
type OneTimePrekey struct {
	ID      uint32                         `json:"id"`
	Public  [primitives.X25519KeySize]byte `json:"public"`
	Private [primitives.X25519KeySize]byte `json:"private"`
	Used    bool                           `json:"used"`
}

// PrekeySet is everything an identity holds privately for X3DH:
// its own encryption identity key, current signed prekey, and pool of
// one-time prekeys.
type PrekeySet struct {
	IdentityKey    [primitives.X25519KeySize]byte `json:"identityKey"`
	SignedPrekey   SignedPrekey                   `json:"signedPrekey"`
	OneTimePrekeys []OneTimePrekey                `json:"oneTimePrekeys"`
}

// PublicOneTimePrekey is the public projection of an unused OTP, the
// only form ever published to discovery.
type PublicOneTimePrekey struct {
	ID     uint32                         `json:"id"`
	Public [primitives.X25519KeySize]byte `json:"public"`
}

// Bundle is the public projection of a PrekeySet published for
// asynchronous session establishment (spec §3 PrekeyBundle).
type Bundle struct {
	IdentityKey     [primitives.X25519KeySize]byte `json:"identityKey"`
	SignedPrekeyID  uint32                         `json:"signedPrekeyId"`
	SignedPrekey    [primitives.X25519KeySize]byte `json:"signedPrekeyPublic"`
	SPKSignature    [primitives.SignatureSize]byte `json:"signedPrekeySignature"`
	OneTimePrekeys  []PublicOneTimePrekey          `json:"oneTimePrekeys"`
}

// InitiatorResult is the outcome of an initiator-side X3DH computation
// (spec §4.5 step 6).
type InitiatorResult struct {
	SharedSecret        [32]byte
	EphemeralPublic     [primitives.X25519KeySize]byte
	UsedSignedPrekeyID  uint32
	UsedOneTimePrekeyID *uint32
}

// ResponderResult mirrors InitiatorResult for the responder side.
type ResponderResult struct {
	SharedSecret [32]byte
}

// Zeroize destroys every private half this prekey set owns. Call this
// when the owning identity or session manager is dropped.
func (ps *PrekeySet) Zeroize() {
	primitives.Zeroize(ps.SignedPrekey.Private[:])
	for i := range ps.OneTimePrekeys {
		primitives.Zeroize(ps.OneTimePrekeys[i].Private[:])
	}
}
