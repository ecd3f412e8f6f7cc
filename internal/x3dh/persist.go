package x3dh

import (
	"encoding/json"
	"io"

	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// Save serializes ps to w as JSON. Unlike the source protocol (spec §9
// Q4), PrekeySet is a plain persistable value with explicit Save/Load
// hooks rather than being regenerated on every process start — the
// host decides where the bytes live (file, KV store, secret manager);
// this package only knows how to produce and consume them.
func (ps *PrekeySet) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(ps); err != nil {
		return rootlesserr.Wrap(rootlesserr.KindInputValidation, "encode prekey set", err)
	}
	return nil
}

// Load reconstructs a PrekeySet previously written by Save.
func Load(r io.Reader) (*PrekeySet, error) {
	var ps PrekeySet
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ps); err != nil {
		return nil, rootlesserr.Wrap(rootlesserr.KindInputValidation, "decode prekey set", err)
	}
	return &ps, nil
}
