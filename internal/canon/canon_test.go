package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesSortsKeys(t *testing.T) {
	v := map[string]any{
		"zeta":  1,
		"alpha": 2,
		"mid":   map[string]any{"b": 1, "a": 2},
	}
	out, err := Bytes(v)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mid":{"a":2,"b":1},"zeta":1}`, string(out))
}

func TestBytesOmitsNilFields(t *testing.T) {
	v := map[string]any{
		"present": "x",
		"absent":  nil,
	}
	out, err := Bytes(v)
	require.NoError(t, err)
	assert.Equal(t, `{"present":"x"}`, string(out))
}

func TestBytesPreservesArrayOrder(t *testing.T) {
	v := map[string]any{"tags": []any{"c", "a", "b"}}
	out, err := Bytes(v)
	require.NoError(t, err)
	assert.Equal(t, `{"tags":["c","a","b"]}`, string(out))
}

func TestBytesDeterministic(t *testing.T) {
	v := map[string]any{"a": 1, "b": "two", "c": []any{1, 2, 3}}
	a, err := Bytes(v)
	require.NoError(t, err)
	b, err := Bytes(v)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHexEncoding(t *testing.T) {
	assert.Equal(t, "deadbeef", Hex([]byte{0xde, 0xad, 0xbe, 0xef}))
}
