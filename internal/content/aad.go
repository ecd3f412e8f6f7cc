package content

import "github.com/rootlessnet/protocol/internal/canon"

// contentAAD builds the fixed associated-data string bound into every
// multi-recipient and self-sealed AEAD call this package makes
// (resolves spec §9 Q2): version, author DID, content type. Named
// "content-aad-v2" since this binding did not exist in the source
// protocol and is an interop-relevant addition.
func contentAAD(version int, author, contentType string) []byte {
	b, _ := canon.Bytes(map[string]any{
		"purpose":     "content-aad-v2",
		"version":     version,
		"author":      author,
		"contentType": contentType,
	})
	return b
}
