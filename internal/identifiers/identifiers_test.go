package identifiers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootlessnet/protocol/internal/primitives"
)

func TestCIDDeterministic(t *testing.T) {
	a, err := CID([]byte("hello rootlessnet"))
	require.NoError(t, err)
	b, err := CID([]byte("hello rootlessnet"))
	require.NoError(t, err)
	c, err := CID([]byte("hello rootlessnet!"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, VerifyCID(a, []byte("hello rootlessnet")))
	assert.False(t, VerifyCID(a, []byte("tampered")))
}

func TestParseCIDRejectsForeignShapes(t *testing.T) {
	good, err := CID([]byte("payload"))
	require.NoError(t, err)
	assert.True(t, IsValidCID(good))

	assert.False(t, IsValidCID("not-a-cid"))
	assert.False(t, IsValidCID(""))
}

func TestDIDRoundTrip(t *testing.T) {
	kp, err := primitives.GenerateSigningKeyPair()
	require.NoError(t, err)

	did, err := DID(kp.Public, KeyKindEd25519)
	require.NoError(t, err)
	assert.Contains(t, did, "did:rootless:key:")

	kind, pub, err := ParseDID(did)
	require.NoError(t, err)
	assert.Equal(t, KeyKindEd25519, kind)
	assert.Equal(t, kp.Public, pub)
	assert.True(t, IsValidDID(did))
}

func TestParseDIDRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"did:rootless:key:",
		"did:other:key:abc",
		"did:rootless:key:not-base58!!!",
	}
	for _, c := range cases {
		assert.False(t, IsValidDID(c), "expected invalid: %q", c)
	}
}

func TestKeyMethodResolver(t *testing.T) {
	kp, err := primitives.GenerateSigningKeyPair()
	require.NoError(t, err)
	did, err := DID(kp.Public, KeyKindEd25519)
	require.NoError(t, err)

	var resolver KeyMethodResolver
	signingPub, _, err := resolver.Resolve(did)
	require.NoError(t, err)
	assert.Equal(t, kp.Public, signingPub)
}
