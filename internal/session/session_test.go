package session

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootlessnet/protocol/internal/identity"
)

func seedBytes(from, to byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = from + byte(i)
	}
	_ = to
	return s
}

func newTestIdentity(t *testing.T, seed [32]byte) *identity.Identity {
	t.Helper()
	id, err := identity.Create(identity.CreateOptions{Seed: &seed})
	require.NoError(t, err)
	return id
}

// TestFullHandshakeAndExchange is scenario S8: two identities, a full
// X3DH handshake, and a back-and-forth over the resulting ratchet.
func TestFullHandshakeAndExchange(t *testing.T) {
	alice := newTestIdentity(t, seedBytes(0x01, 0x20))
	bob := newTestIdentity(t, seedBytes(0x21, 0x40))

	aliceMgr, err := NewManager(alice, 5)
	require.NoError(t, err)
	bobMgr, err := NewManager(bob, 5)
	require.NoError(t, err)

	bobBundle := bobMgr.PublishBundle()

	initResult, err := aliceMgr.Initiate(bob.DID, bobBundle, bob.KeySet.Signing.Public)
	require.NoError(t, err)
	require.NotNil(t, initResult.UsedOneTimePrekeyID)

	bobConv, err := bobMgr.Accept(
		alice.DID,
		alice.KeySet.Encryption.Public,
		initResult.EphemeralPublic,
		initResult.UsedSignedPrekeyID,
		initResult.UsedOneTimePrekeyID,
	)
	require.NoError(t, err)

	msg1, err := aliceMgr.Send(initResult.Conversation.ID, []byte("hello bob"), "text", SendOptions{})
	require.NoError(t, err)

	pt1, err := bobMgr.Receive(remapConversation(*msg1, bobConv.ID))
	require.NoError(t, err)
	assert.Equal(t, "hello bob", string(pt1))

	reply, err := bobMgr.Send(bobConv.ID, []byte("hi alice"), "text", SendOptions{})
	require.NoError(t, err)

	pt2, err := aliceMgr.Receive(remapConversation(*reply, initResult.Conversation.ID))
	require.NoError(t, err)
	assert.Equal(t, "hi alice", string(pt2))
}

// remapConversation rewrites a DirectMessage's conversation id to the
// receiving side's own id for that conversation, since each party
// names the same logical conversation with its own locally generated
// id (spec §4.7: Conversation.ID is local bookkeeping, not shared
// wire state).
func remapConversation(msg DirectMessage, conversationID string) DirectMessage {
	msg.ConversationID = conversationID
	return msg
}

func TestSealedSendReceiveRoundTrip(t *testing.T) {
	alice := newTestIdentity(t, seedBytes(0x01, 0x20))
	bob := newTestIdentity(t, seedBytes(0x21, 0x40))

	aliceMgr, err := NewManager(alice, 1)
	require.NoError(t, err)
	bobMgr, err := NewManager(bob, 1)
	require.NoError(t, err)

	sealed, err := aliceMgr.SealedSend(bob.KeySet.Encryption.Public, []byte("anonymous hello"))
	require.NoError(t, err)
	assert.Equal(t, "sealed", sealed.Type)

	pt, err := bobMgr.SealedReceive(*sealed)
	require.NoError(t, err)
	assert.Equal(t, "anonymous hello", string(pt))
}

func TestSealedMessageCarriesNoSenderMetadata(t *testing.T) {
	alice := newTestIdentity(t, seedBytes(0x01, 0x20))
	bob := newTestIdentity(t, seedBytes(0x21, 0x40))

	aliceMgr, err := NewManager(alice, 1)
	require.NoError(t, err)

	sealed, err := aliceMgr.SealedSend(bob.KeySet.Encryption.Public, []byte("who am i"))
	require.NoError(t, err)

	data, err := json.Marshal(sealed)
	require.NoError(t, err)
	assert.NotContains(t, string(data), alice.DID)
}

func TestReceiveRejectsExpiredMessage(t *testing.T) {
	alice := newTestIdentity(t, seedBytes(0x01, 0x20))
	bob := newTestIdentity(t, seedBytes(0x21, 0x40))

	aliceMgr, err := NewManager(alice, 5)
	require.NoError(t, err)
	bobMgr, err := NewManager(bob, 5)
	require.NoError(t, err)

	bobBundle := bobMgr.PublishBundle()
	initResult, err := aliceMgr.Initiate(bob.DID, bobBundle, bob.KeySet.Signing.Public)
	require.NoError(t, err)
	bobConv, err := bobMgr.Accept(alice.DID, alice.KeySet.Encryption.Public, initResult.EphemeralPublic, initResult.UsedSignedPrekeyID, initResult.UsedOneTimePrekeyID)
	require.NoError(t, err)

	past := nowMillis() - 1000
	msg, err := aliceMgr.Send(initResult.Conversation.ID, []byte("too late"), "text", SendOptions{ExpiresAt: &past})
	require.NoError(t, err)

	_, err = bobMgr.Receive(remapConversation(*msg, bobConv.ID))
	require.Error(t, err)
}

func TestExportImportStatePreservesConversations(t *testing.T) {
	alice := newTestIdentity(t, seedBytes(0x01, 0x20))
	bob := newTestIdentity(t, seedBytes(0x21, 0x40))

	aliceMgr, err := NewManager(alice, 5)
	require.NoError(t, err)
	bobMgr, err := NewManager(bob, 5)
	require.NoError(t, err)

	bobBundle := bobMgr.PublishBundle()
	initResult, err := aliceMgr.Initiate(bob.DID, bobBundle, bob.KeySet.Signing.Public)
	require.NoError(t, err)
	_, err = bobMgr.Accept(alice.DID, alice.KeySet.Encryption.Public, initResult.EphemeralPublic, initResult.UsedSignedPrekeyID, initResult.UsedOneTimePrekeyID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, aliceMgr.ExportState(&buf))

	restored, err := ImportState(&buf, alice)
	require.NoError(t, err)

	_, ok := restored.Conversation(initResult.Conversation.ID)
	assert.True(t, ok)

	msg, err := restored.Send(initResult.Conversation.ID, []byte("after restore"), "text", SendOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.Encrypted.Ciphertext)
}

func TestUnknownConversationIsRejected(t *testing.T) {
	alice := newTestIdentity(t, seedBytes(0x01, 0x20))
	aliceMgr, err := NewManager(alice, 1)
	require.NoError(t, err)

	_, err = aliceMgr.Send("does-not-exist", []byte("x"), "text", SendOptions{})
	require.ErrorIs(t, err, errUnknownConversation)
}
