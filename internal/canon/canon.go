// Package canon implements the one canonicalization this module uses
// for every signature transcript and CID computation (spec §9 Open
// Question Q1, resolved): deterministic JSON with object keys sorted
// lexically at every nesting level, arrays kept in source order,
// absent optional fields omitted, and byte strings hex-encoded rather
// than emitted as integer arrays. Two implementations that both follow
// this package produce byte-identical transcripts for the same value.
package canon

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Bytes marshals v (built from maps, slices, strings, numbers, bools,
// and nil — the same subset encoding/json already supports) into the
// canonical form: sorted object keys, no insignificant whitespace.
//
// v should be produced via ToMap/ToValue-style conversion from a
// concrete Go struct rather than passed as the struct directly, so
// callers control exactly which fields are present and how byte slices
// are represented (hex strings, via Hex below).
func Bytes(v any) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encode(&buf, normalized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Hex renders a byte slice the way every canonical transcript in this
// module represents one: lowercase hex, no prefix. This is the
// deliberate replacement for the source protocol's "array of integers"
// byte encoding, which spec §9 calls out as fragile and wasteful.
func Hex(b []byte) string {
	return hex.EncodeToString(b)
}

// normalize round-trips v through encoding/json to collapse it to the
// plain map[string]any / []any / string / float64 / bool / nil value
// space, so struct field ordering and tags are resolved exactly once
// by the standard library before we take over ordering.
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon: marshal for normalization: %w", err)
	}
	var out any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("canon: decode for normalization: %w", err)
	}
	return out, nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(minimalNumber(val))
	case string:
		encodeString(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		return encodeObject(buf, val)
	default:
		return fmt.Errorf("canon: unsupported value type %T", v)
	}
	return nil
}

func encodeObject(buf *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v == nil {
			// Absent/undefined optional fields are omitted, never
			// written as null (spec §4.3 canonical serialization rule).
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodeString(buf, k)
		buf.WriteByte(':')
		if err := encode(buf, m[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// minimalNumber re-renders a json.Number in minimal decimal form: no
// trailing zeros, no unnecessary exponent, matching the spec's
// "numbers are minimal decimal form" rule. Integral values (the
// overwhelming majority in this module — timestamps, counters) already
// round-trip exactly through json.Number's string form.
func minimalNumber(n json.Number) string {
	return n.String()
}
