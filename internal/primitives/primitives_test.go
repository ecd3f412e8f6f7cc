package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomBytesLengthBounds(t *testing.T) {
	_, err := RandomBytes(0)
	require.Error(t, err)

	_, err = RandomBytes(MaxRandomLength + 1)
	require.Error(t, err)

	b, err := RandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)
}

func TestHash256Deterministic(t *testing.T) {
	a := Hash256([]byte("hello"))
	b := Hash256([]byte("hello"))
	c := Hash256([]byte("hello!"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateSigningKeyPair()
	require.NoError(t, err)

	msg := []byte("rootless protocol message")
	sig, err := Sign(kp.Private[:], msg)
	require.NoError(t, err)
	assert.True(t, Verify(kp.Public[:], msg, sig))

	// Seed-only signing must produce the same verification result.
	var seed [32]byte
	copy(seed[:], kp.Private[:32])
	sig2, err := Sign(seed[:], msg)
	require.NoError(t, err)
	assert.True(t, Verify(kp.Public[:], msg, sig2))

	assert.False(t, Verify(kp.Public[:], []byte("tampered"), sig))
}

func TestVerifyNeverPanicsOnMalformedInput(t *testing.T) {
	assert.False(t, Verify([]byte("short"), []byte("msg"), []byte("sig")))
	assert.False(t, Verify(nil, nil, nil))
}

func TestSignHashVerifyHash(t *testing.T) {
	kp, err := GenerateSigningKeyPair()
	require.NoError(t, err)

	data := []byte("content object bytes")
	sig, err := SignHash(kp.Private[:], data)
	require.NoError(t, err)
	assert.True(t, VerifyHash(kp.Public[:], data, sig))
}

func TestAEADRoundTrip(t *testing.T) {
	var key [AEADKeySize]byte
	copy(key[:], mustRandom(t, AEADKeySize))

	plaintext := []byte("for your eyes only")
	aad := []byte("context")

	nonce, ct, err := Encrypt(key, plaintext, aad)
	require.NoError(t, err)

	pt, err := Decrypt(key, nonce, ct, aad)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)

	// Flip a ciphertext byte.
	tampered := append([]byte(nil), ct...)
	tampered[0] ^= 0x01
	_, err = Decrypt(key, nonce, tampered, aad)
	assert.Error(t, err)

	// Wrong AAD.
	_, err = Decrypt(key, nonce, ct, []byte("wrong context"))
	assert.Error(t, err)

	// Wrong key.
	var other [AEADKeySize]byte
	copy(other[:], mustRandom(t, AEADKeySize))
	_, err = Decrypt(other, nonce, ct, aad)
	assert.Error(t, err)

	assert.Nil(t, TryDecrypt(other, nonce, ct, aad))
}

func TestECDHAgreement(t *testing.T) {
	a, err := GenerateEncryptionKeyPair()
	require.NoError(t, err)
	b, err := GenerateEncryptionKeyPair()
	require.NoError(t, err)

	sharedA, err := ECDH(a.Private, b.Public)
	require.NoError(t, err)
	sharedB, err := ECDH(b.Private, a.Public)
	require.NoError(t, err)

	assert.True(t, ConstantTimeEqual(sharedA[:], sharedB[:]))
}

func TestHKDFDeterministicPerInfo(t *testing.T) {
	ikm := []byte("shared secret material")
	a, err := HKDF32(ikm, nil, InfoChainKeyV2)
	require.NoError(t, err)
	b, err := HKDF32(ikm, nil, InfoChainKeyV2)
	require.NoError(t, err)
	c, err := HKDF32(ikm, nil, InfoRootKeyV2)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestPasswordKDFHonorsPersistedParams(t *testing.T) {
	params, err := DefaultPasswordKDFParams()
	require.NoError(t, err)

	k1 := DeriveWrapKey("correct horse", params)
	k2 := DeriveWrapKey("correct horse", params)
	k3 := DeriveWrapKey("staple", params)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestZeroizeClearsBuffer(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5}
	Zeroize(b)
	for _, v := range b {
		assert.Zero(t, v)
	}
}

func mustRandom(t *testing.T, n int) []byte {
	t.Helper()
	b, err := RandomBytes(n)
	require.NoError(t, err)
	return b
}
