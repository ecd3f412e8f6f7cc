package x3dh

import (
	"github.com/rootlessnet/protocol/internal/primitives"
	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// ErrUnknownSignedPrekey is returned by Respond when the declared
// signed-prekey id does not match the responder's current one.
var ErrUnknownSignedPrekey = rootlesserr.New(rootlesserr.KindProtocol, "unknown signed prekey id")

// ErrUnknownOneTimePrekey is returned when a one-time prekey id is not
// present, or has already been consumed (spec §4.5 step 3, single-use).
var ErrUnknownOneTimePrekey = rootlesserr.New(rootlesserr.KindProtocol, "unknown or already-consumed one-time prekey id")

// Initiate computes the initiator side of X3DH (spec §4.5): verify the
// peer's signed prekey signature, generate an ephemeral key, compute
// DH1..DH4 (DH4 only if the bundle offers an unused OTP), and derive
// the shared secret.
func Initiate(myIdentityEncPriv [primitives.X25519KeySize]byte, peerSigningPub [32]byte, peer Bundle) (*InitiatorResult, error) {
	if !primitives.Verify(peerSigningPub[:], peer.SignedPrekey[:], peer.SPKSignature[:]) {
		return nil, rootlesserr.New(rootlesserr.KindAuthentication, "peer signed prekey signature invalid")
	}

	ephemeral, err := primitives.GenerateEncryptionKeyPair()
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(ephemeral.Private[:])

	dh1, err := primitives.ECDH(myIdentityEncPriv, peer.SignedPrekey)
	if err != nil {
		return nil, err
	}
	dh2, err := primitives.ECDH(ephemeral.Private, peer.IdentityKey)
	if err != nil {
		return nil, err
	}
	dh3, err := primitives.ECDH(ephemeral.Private, peer.SignedPrekey)
	if err != nil {
		return nil, err
	}

	var usedOTP *uint32
	concat := make([]byte, 0, 32*4)
	concat = append(concat, dh1[:]...)
	concat = append(concat, dh2[:]...)
	concat = append(concat, dh3[:]...)

	if len(peer.OneTimePrekeys) > 0 {
		otp := peer.OneTimePrekeys[0]
		dh4, err := primitives.ECDH(ephemeral.Private, otp.Public)
		if err != nil {
			return nil, err
		}
		concat = append(concat, dh4[:]...)
		primitives.Zeroize(dh4[:])
		id := otp.ID
		usedOTP = &id
	}

	sk, err := primitives.HKDF32(concat, nil, primitives.InfoX3DH)
	primitives.Zeroize(dh1[:])
	primitives.Zeroize(dh2[:])
	primitives.Zeroize(dh3[:])
	primitives.Zeroize(concat)
	if err != nil {
		return nil, err
	}

	return &InitiatorResult{
		SharedSecret:        sk,
		EphemeralPublic:     ephemeral.Public,
		UsedSignedPrekeyID:  peer.SignedPrekeyID,
		UsedOneTimePrekeyID: usedOTP,
	}, nil
}

// Respond computes the responder side of X3DH. myIdentityEncPriv is
// the responder's own identity encryption private key — PrekeySet only
// carries the public half (it is published in bundles), so the caller
// supplies the private half separately, mirroring how Initiate takes
// it as an explicit parameter. DH pairing mirrors Initiate exactly
// with private/public halves swapped (spec §4.5 step 2).
func Respond(ps *PrekeySet, myIdentityEncPriv [primitives.X25519KeySize]byte, peerIdentityEncPub, peerEphemeralPub [primitives.X25519KeySize]byte, usedSignedPrekeyID uint32, usedOneTimePrekeyID *uint32) (*ResponderResult, error) {
	if ps.SignedPrekey.ID != usedSignedPrekeyID {
		return nil, ErrUnknownSignedPrekey
	}

	dh1, err := primitives.ECDH(ps.SignedPrekey.Private, peerIdentityEncPub)
	if err != nil {
		return nil, err
	}
	dh2, err := primitives.ECDH(myIdentityEncPriv, peerEphemeralPub)
	if err != nil {
		return nil, err
	}
	dh3, err := primitives.ECDH(ps.SignedPrekey.Private, peerEphemeralPub)
	if err != nil {
		return nil, err
	}

	concat := make([]byte, 0, 32*4)
	concat = append(concat, dh1[:]...)
	concat = append(concat, dh2[:]...)
	concat = append(concat, dh3[:]...)

	if usedOneTimePrekeyID != nil {
		idx := -1
		for i, otp := range ps.OneTimePrekeys {
			if otp.ID == *usedOneTimePrekeyID {
				idx = i
				break
			}
		}
		if idx < 0 || ps.OneTimePrekeys[idx].Used {
			return nil, ErrUnknownOneTimePrekey
		}
		dh4, err := primitives.ECDH(ps.OneTimePrekeys[idx].Private, peerEphemeralPub)
		if err != nil {
			return nil, err
		}
		concat = append(concat, dh4[:]...)
		primitives.Zeroize(dh4[:])
		ps.OneTimePrekeys[idx].Used = true
	}

	sk, err := primitives.HKDF32(concat, nil, primitives.InfoX3DH)
	primitives.Zeroize(dh1[:])
	primitives.Zeroize(dh2[:])
	primitives.Zeroize(dh3[:])
	primitives.Zeroize(concat)
	if err != nil {
		return nil, err
	}

	return &ResponderResult{SharedSecret: sk}, nil
}
