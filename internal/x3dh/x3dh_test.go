package x3dh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootlessnet/protocol/internal/primitives"
)

type party struct {
	signing    primitives.SigningKeyPair
	encryption primitives.EncryptionKeyPair
	prekeys    *PrekeySet
}

func newParty(t *testing.T, otpCount int) party {
	t.Helper()
	signing, err := primitives.GenerateSigningKeyPair()
	require.NoError(t, err)
	encryption, err := primitives.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	ps, err := GeneratePrekeySet(encryption.Public, signing.Private[:], otpCount)
	require.NoError(t, err)
	return party{signing: signing, encryption: encryption, prekeys: ps}
}

// TestX3DHSymmetry is property 8 / scenario S4's core algebraic claim.
func TestX3DHSymmetry(t *testing.T) {
	initiator := newParty(t, 0)
	responder := newParty(t, 5)

	bundle := responder.prekeys.PublicBundle()
	require.Len(t, bundle.OneTimePrekeys, 5)

	result, err := Initiate(initiator.encryption.Private, responder.signing.Public, bundle)
	require.NoError(t, err)
	require.NotNil(t, result.UsedOneTimePrekeyID)

	resp, err := Respond(
		responder.prekeys,
		responder.encryption.Private,
		initiator.encryption.Public,
		result.EphemeralPublic,
		result.UsedSignedPrekeyID,
		result.UsedOneTimePrekeyID,
	)
	require.NoError(t, err)

	assert.Equal(t, result.SharedSecret, resp.SharedSecret)
}

func TestX3DHWithoutOneTimePrekey(t *testing.T) {
	initiator := newParty(t, 0)
	responder := newParty(t, 0)

	bundle := responder.prekeys.PublicBundle()
	assert.Empty(t, bundle.OneTimePrekeys)

	result, err := Initiate(initiator.encryption.Private, responder.signing.Public, bundle)
	require.NoError(t, err)
	assert.Nil(t, result.UsedOneTimePrekeyID)

	resp, err := Respond(
		responder.prekeys,
		responder.encryption.Private,
		initiator.encryption.Public,
		result.EphemeralPublic,
		result.UsedSignedPrekeyID,
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, result.SharedSecret, resp.SharedSecret)
}

func TestOneTimePrekeyIsSingleUse(t *testing.T) {
	responder := newParty(t, 1)
	otpID := responder.prekeys.OneTimePrekeys[0].ID

	_, err := Respond(
		responder.prekeys,
		responder.encryption.Private,
		[primitives.X25519KeySize]byte{1},
		[primitives.X25519KeySize]byte{2},
		responder.prekeys.SignedPrekey.ID,
		&otpID,
	)
	require.NoError(t, err)
	assert.True(t, responder.prekeys.OneTimePrekeys[0].Used)

	_, err = Respond(
		responder.prekeys,
		responder.encryption.Private,
		[primitives.X25519KeySize]byte{1},
		[primitives.X25519KeySize]byte{2},
		responder.prekeys.SignedPrekey.ID,
		&otpID,
	)
	require.ErrorIs(t, err, ErrUnknownOneTimePrekey)
}

func TestRespondRejectsUnknownSignedPrekey(t *testing.T) {
	responder := newParty(t, 0)

	_, err := Respond(
		responder.prekeys,
		responder.encryption.Private,
		[primitives.X25519KeySize]byte{1},
		[primitives.X25519KeySize]byte{2},
		responder.prekeys.SignedPrekey.ID+1,
		nil,
	)
	require.ErrorIs(t, err, ErrUnknownSignedPrekey)
}

func TestInitiateRejectsBadSignature(t *testing.T) {
	initiator := newParty(t, 0)
	responder := newParty(t, 0)
	bundle := responder.prekeys.PublicBundle()
	bundle.SPKSignature[0] ^= 0xff

	_, err := Initiate(initiator.encryption.Private, responder.signing.Public, bundle)
	require.Error(t, err)
}

func TestNeedsSignedPrekeyRotation(t *testing.T) {
	responder := newParty(t, 0)
	now := time.UnixMilli(responder.prekeys.SignedPrekey.Created).Add(SignedPrekeyRotationWindow + time.Hour)
	assert.True(t, responder.prekeys.NeedsSignedPrekeyRotation(now))
	assert.False(t, responder.prekeys.NeedsSignedPrekeyRotation(time.UnixMilli(responder.prekeys.SignedPrekey.Created)))
}
