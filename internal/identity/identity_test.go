package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

func seedBytes(from, to byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = from + byte(i)
	}
	_ = to
	return s
}

func TestCreateFromSeedIsDeterministic(t *testing.T) {
	seed := seedBytes(0x01, 0x20)

	a, err := Create(CreateOptions{Seed: &seed})
	require.NoError(t, err)
	b, err := Create(CreateOptions{Seed: &seed})
	require.NoError(t, err)

	assert.Equal(t, a.DID, b.DID)
	assert.Equal(t, a.KeySet.Signing.Public, b.KeySet.Signing.Public)
	assert.Equal(t, a.KeySet.Encryption.Public, b.KeySet.Encryption.Public)
}

func TestCreateWithoutSeedIsRandom(t *testing.T) {
	a, err := Create(CreateOptions{})
	require.NoError(t, err)
	b, err := Create(CreateOptions{})
	require.NoError(t, err)
	assert.NotEqual(t, a.DID, b.DID)
}

func TestCreatedDocumentVerifies(t *testing.T) {
	seed := seedBytes(0x01, 0x20)
	id, err := Create(CreateOptions{Seed: &seed})
	require.NoError(t, err)

	diag, err := VerifyIdentityDocument(id.Document)
	require.NoError(t, err)
	assert.True(t, diag.Valid())
}

func TestVerifyDetectsSignatureBitFlip(t *testing.T) {
	seed := seedBytes(0x01, 0x20)
	id, err := Create(CreateOptions{Seed: &seed})
	require.NoError(t, err)

	doc := id.Document
	sig := []byte(doc.Proof.Signature)
	flipped := make([]byte, len(sig))
	copy(flipped, sig)
	if flipped[0] == '0' {
		flipped[0] = '1'
	} else {
		flipped[0] = '0'
	}
	doc.Proof.Signature = string(flipped)

	diag, err := VerifyIdentityDocument(doc)
	require.Error(t, err)
	assert.True(t, diag.Has("INVALID_SIGNATURE") || diag.Has("MALFORMED_SIGNATURE"))
	assert.True(t, rootlesserr.Of(err, rootlesserr.KindAuthentication))
}

func TestVerifyDetectsDIDKeyMismatch(t *testing.T) {
	seedA := seedBytes(0x01, 0x20)
	seedB := seedBytes(0x21, 0x40)
	idA, err := Create(CreateOptions{Seed: &seedA})
	require.NoError(t, err)
	idB, err := Create(CreateOptions{Seed: &seedB})
	require.NoError(t, err)

	doc := idA.Document
	doc.DID = idB.DID

	diag, err := VerifyIdentityDocument(doc)
	require.Error(t, err)
	assert.True(t, diag.Has("DID_KEY_MISMATCH"))
}

func TestExportImportRoundTrip(t *testing.T) {
	seed := seedBytes(0x01, 0x20)
	id, err := Create(CreateOptions{Seed: &seed})
	require.NoError(t, err)

	exported, err := Export(id, "correct horse battery staple")
	require.NoError(t, err)

	imported, err := Import(exported, "correct horse battery staple")
	require.NoError(t, err)

	assert.Equal(t, id.DID, imported.DID)
	assert.Equal(t, id.KeySet.Signing.Private, imported.KeySet.Signing.Private)
	assert.Equal(t, id.KeySet.Encryption.Private, imported.KeySet.Encryption.Private)
}

func TestExportImportRejectsWrongPassword(t *testing.T) {
	seed := seedBytes(0x01, 0x20)
	id, err := Create(CreateOptions{Seed: &seed})
	require.NoError(t, err)

	exported, err := Export(id, "correct horse battery staple")
	require.NoError(t, err)

	_, err = Import(exported, "wrong password")
	require.Error(t, err)
	assert.True(t, rootlesserr.Of(err, rootlesserr.KindAuthentication))
}

func TestExportUsesFreshSaltEachCall(t *testing.T) {
	seed := seedBytes(0x01, 0x20)
	id, err := Create(CreateOptions{Seed: &seed})
	require.NoError(t, err)

	a, err := Export(id, "pw")
	require.NoError(t, err)
	b, err := Export(id, "pw")
	require.NoError(t, err)

	assert.NotEqual(t, a.KDF.Salt, b.KDF.Salt)
	assert.NotEqual(t, a.Nonce, b.Nonce)
}
