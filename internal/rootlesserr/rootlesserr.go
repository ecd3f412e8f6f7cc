// Package rootlesserr defines the error-kind taxonomy shared by every
// component in the module (spec §7): InputValidation, Authentication,
// Protocol, Freshness, and NotRecipient. Every fallible function in the
// module returns a value or one of these, never a bare string error,
// so a caller can branch with errors.Is/errors.As instead of matching
// on message text.
package rootlesserr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// KindInputValidation marks malformed input: wrong-length keys or
	// nonces, unparsable DIDs/CIDs, an out-of-range random request.
	KindInputValidation Kind = iota
	// KindAuthentication marks an AEAD tag mismatch, a wrong password
	// on import, or an invalid signature.
	KindAuthentication
	// KindProtocol marks a structural protocol violation: wrong
	// version, DID/key mismatch, unknown prekey id, ratchet not ready,
	// too many skipped messages, an empty recipient set.
	KindProtocol
	// KindFreshness marks a timestamp outside the tolerated window: a
	// future-dated object, an expired object, an expired signed prekey.
	KindFreshness
	// KindNotRecipient marks a multi-recipient payload with no entry
	// matching the caller's encryption key.
	KindNotRecipient
)

func (k Kind) String() string {
	switch k {
	case KindInputValidation:
		return "input_validation"
	case KindAuthentication:
		return "authentication"
	case KindProtocol:
		return "protocol"
	case KindFreshness:
		return "freshness"
	case KindNotRecipient:
		return "not_recipient"
	default:
		return "unknown"
	}
}

// Error is a typed error carrying a Kind alongside the usual message
// and wrapped cause, so callers can test with errors.Is against the
// package-level sentinels below and still get a useful %w chain.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's Kind,
// letting callers write errors.Is(err, rootlesserr.ErrAuthentication)
// without caring about the specific message.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*Error)
	if !ok {
		return false
	}
	return sentinel.Kind == e.Kind && sentinel.Msg == ""
}

// New builds an *Error of the given kind with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error of the given kind wrapping err.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Sentinels usable with errors.Is to test only the Kind, ignoring
// message text.
var (
	ErrInputValidation = &Error{Kind: KindInputValidation}
	ErrAuthentication  = &Error{Kind: KindAuthentication}
	ErrProtocol        = &Error{Kind: KindProtocol}
	ErrFreshness       = &Error{Kind: KindFreshness}
	ErrNotRecipient    = &Error{Kind: KindNotRecipient}
)

// Of reports whether err is a *rootlesserr.Error of the given kind.
func Of(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Diagnostics accumulates every applicable failure from a verification
// pass instead of stopping at the first one, per spec §7: callers and
// test suites need to assert structural properties of invalid objects,
// not just "it failed".
type Diagnostics struct {
	Tags []string
}

// Add records a failure tag (e.g. "INVALID_SIGNATURE").
func (d *Diagnostics) Add(tag string) {
	d.Tags = append(d.Tags, tag)
}

// Valid reports whether no failures were recorded.
func (d *Diagnostics) Valid() bool {
	return len(d.Tags) == 0
}

// Has reports whether tag was recorded.
func (d *Diagnostics) Has(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
