package x3dh

import (
	"encoding/binary"
	"time"

	"github.com/rootlessnet/protocol/internal/metrics"
	"github.com/rootlessnet/protocol/internal/primitives"
)

// GeneratePrekeySet builds a fresh PrekeySet for an identity (spec
// §4.5): one signed prekey, signed with the raw 32-byte public key (no
// pre-hash, per §6's wire-exact surface), and otpCount one-time
// prekeys. otpCount<=0 falls back to DefaultOneTimePrekeyCount.
func GeneratePrekeySet(identityEncPub [primitives.X25519KeySize]byte, signingPrivate []byte, otpCount int) (*PrekeySet, error) {
	if otpCount <= 0 {
		otpCount = DefaultOneTimePrekeyCount
	}

	spk, err := generateSignedPrekey(signingPrivate)
	if err != nil {
		return nil, err
	}

	otps := make([]OneTimePrekey, 0, otpCount)
	for i := 0; i < otpCount; i++ {
		otp, err := generateOneTimePrekey()
		if err != nil {
			return nil, err
		}
		otps = append(otps, otp)
	}

	return &PrekeySet{
		IdentityKey:    identityEncPub,
		SignedPrekey:   spk,
		OneTimePrekeys: otps,
	}, nil
}

func generateSignedPrekey(signingPrivate []byte) (SignedPrekey, error) {
	pair, err := primitives.GenerateEncryptionKeyPair()
	if err != nil {
		return SignedPrekey{}, err
	}
	id, err := randomID()
	if err != nil {
		return SignedPrekey{}, err
	}
	sig, err := primitives.Sign(signingPrivate, pair.Public[:])
	if err != nil {
		return SignedPrekey{}, err
	}
	var spk SignedPrekey
	spk.ID = id
	spk.Public = pair.Public
	spk.Private = pair.Private
	copy(spk.Signature[:], sig)
	spk.Created = time.Now().UnixMilli()
	return spk, nil
}

func generateOneTimePrekey() (OneTimePrekey, error) {
	pair, err := primitives.GenerateEncryptionKeyPair()
	if err != nil {
		return OneTimePrekey{}, err
	}
	id, err := randomID()
	if err != nil {
		return OneTimePrekey{}, err
	}
	return OneTimePrekey{ID: id, Public: pair.Public, Private: pair.Private}, nil
}

func randomID() (uint32, error) {
	b, err := primitives.RandomBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// PublicBundle projects a PrekeySet's public material into a Bundle
// for publication to discovery, including only unused OTPs.
func (ps *PrekeySet) PublicBundle() Bundle {
	otps := make([]PublicOneTimePrekey, 0, len(ps.OneTimePrekeys))
	for _, otp := range ps.OneTimePrekeys {
		if !otp.Used {
			otps = append(otps, PublicOneTimePrekey{ID: otp.ID, Public: otp.Public})
		}
	}
	return Bundle{
		IdentityKey:    ps.IdentityKey,
		SignedPrekeyID: ps.SignedPrekey.ID,
		SignedPrekey:   ps.SignedPrekey.Public,
		SPKSignature:   ps.SignedPrekey.Signature,
		OneTimePrekeys: otps,
	}
}

// NeedsSignedPrekeyRotation reports whether the current signed prekey
// is older than SignedPrekeyRotationWindow.
func (ps *PrekeySet) NeedsSignedPrekeyRotation(now time.Time) bool {
	age := now.Sub(time.UnixMilli(ps.SignedPrekey.Created))
	return age > SignedPrekeyRotationWindow
}

// RotateSignedPrekey replaces the current signed prekey with a fresh
// one, zeroizing the old private half.
func (ps *PrekeySet) RotateSignedPrekey(signingPrivate []byte) error {
	fresh, err := generateSignedPrekey(signingPrivate)
	if err != nil {
		return err
	}
	primitives.Zeroize(ps.SignedPrekey.Private[:])
	ps.SignedPrekey = fresh
	metrics.PrekeyRotationsTotal.Inc()
	logger.Printf("rotated signed prekey, new id=%d", fresh.ID)
	return nil
}

// RefillOneTimePrekeys appends count fresh OTPs to the set.
func (ps *PrekeySet) RefillOneTimePrekeys(count int) error {
	for i := 0; i < count; i++ {
		otp, err := generateOneTimePrekey()
		if err != nil {
			return err
		}
		ps.OneTimePrekeys = append(ps.OneTimePrekeys, otp)
	}
	logger.Printf("refilled %d one-time prekeys, pool now %d", count, len(ps.OneTimePrekeys))
	return nil
}
