package ratchet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootlessnet/protocol/internal/primitives"
)

func pairedStates(t *testing.T, maxSkip int) (*State, *State) {
	t.Helper()
	responderSPK, err := primitives.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	var shared [32]byte
	copy(shared[:], []byte("shared-secret-from-x3dh-handshk"))

	initiator, err := InitAsInitiator(shared, responderSPK.Public, maxSkip)
	require.NoError(t, err)
	responder := InitAsResponder(shared, responderSPK, maxSkip)
	return initiator, responder
}

// TestOutOfOrderWithinWindow is scenario S5.
func TestOutOfOrderWithinWindow(t *testing.T) {
	a, b := pairedStates(t, DefaultMaxSkip)

	plaintexts := []string{"m0", "m1", "m2", "m3"}
	messages := make([]*Message, len(plaintexts))
	for i, pt := range plaintexts {
		msg, err := Encrypt(a, []byte(pt))
		require.NoError(t, err)
		messages[i] = msg
	}

	order := []int{2, 0, 3, 1}
	for _, i := range order {
		pt, err := Decrypt(b, *messages[i])
		require.NoError(t, err)
		assert.Equal(t, plaintexts[i], string(pt))
	}
}

func TestTooManySkippedRaisesError(t *testing.T) {
	a, b := pairedStates(t, 5)

	var last *Message
	for i := 0; i < 7; i++ {
		msg, err := Encrypt(a, []byte("x"))
		require.NoError(t, err)
		last = msg
	}

	_, err := Decrypt(b, *last)
	require.ErrorIs(t, err, ErrTooManySkipped)
}

// TestDHRatchetStep is scenario S6.
func TestDHRatchetStep(t *testing.T) {
	a, b := pairedStates(t, DefaultMaxSkip)

	msg1, err := Encrypt(a, []byte("hello from A"))
	require.NoError(t, err)
	pt1, err := Decrypt(b, *msg1)
	require.NoError(t, err)
	assert.Equal(t, "hello from A", string(pt1))

	reply1, err := Encrypt(b, []byte("hi back"))
	require.NoError(t, err)
	assert.NotEqual(t, msg1.Header.DHPublic, reply1.Header.DHPublic)

	pt2, err := Decrypt(a, *reply1)
	require.NoError(t, err)
	assert.Equal(t, "hi back", string(pt2))
	assert.Equal(t, uint32(0), reply1.Header.PN)

	msg2, err := Encrypt(a, []byte("second message"))
	require.NoError(t, err)
	pt3, err := Decrypt(b, *msg2)
	require.NoError(t, err)
	assert.Equal(t, "second message", string(pt3))
}

// TestForwardSecrecy is property 10: decrypting a message consumes its
// key, so the same ciphertext cannot be decrypted twice.
func TestForwardSecrecy(t *testing.T) {
	a, b := pairedStates(t, DefaultMaxSkip)

	msg, err := Encrypt(a, []byte("one time only"))
	require.NoError(t, err)

	_, err = Decrypt(b, *msg)
	require.NoError(t, err)

	_, err = Decrypt(b, *msg)
	require.Error(t, err)
}

func TestEncryptBeforeChainReadyFails(t *testing.T) {
	responderSPK, err := primitives.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	var shared [32]byte
	responder := InitAsResponder(shared, responderSPK, DefaultMaxSkip)

	_, err = Encrypt(responder, []byte("too early"))
	require.ErrorIs(t, err, ErrRatchetNotReady)
}

func TestStateRoundTripsThroughJSON(t *testing.T) {
	a, b := pairedStates(t, DefaultMaxSkip)

	msg, err := Encrypt(a, []byte("persisted"))
	require.NoError(t, err)

	data, err := json.Marshal(a)
	require.NoError(t, err)
	var restored State
	require.NoError(t, json.Unmarshal(data, &restored))

	pt, err := Decrypt(b, *msg)
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(pt))

	assert.Equal(t, a.RootKey, restored.RootKey)
	assert.Equal(t, a.SendN, restored.SendN)
}

// TestManySendsBothDirections is property 9: an extended back-and-forth
// sequence still decrypts everywhere.
func TestManySendsBothDirections(t *testing.T) {
	a, b := pairedStates(t, DefaultMaxSkip)

	for round := 0; round < 5; round++ {
		msg, err := Encrypt(a, []byte("from a"))
		require.NoError(t, err)
		pt, err := Decrypt(b, *msg)
		require.NoError(t, err)
		assert.Equal(t, "from a", string(pt))

		reply, err := Encrypt(b, []byte("from b"))
		require.NoError(t, err)
		pt2, err := Decrypt(a, *reply)
		require.NoError(t, err)
		assert.Equal(t, "from b", string(pt2))
	}
}
