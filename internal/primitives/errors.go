package primitives

import (
	"fmt"

	"github.com/rootlessnet/protocol/internal/rootlesserr"
)

// ErrInputValidation is re-exported so callers in this package can
// write errors.Is(err, primitives.ErrInputValidation) without importing
// rootlesserr directly.
var ErrInputValidation = rootlesserr.ErrInputValidation

// ErrAuthentication is re-exported for AEAD-open and signature-verify
// failure paths.
var ErrAuthentication = rootlesserr.ErrAuthentication

// Invalid builds an InputValidation error with a formatted message.
func Invalid(format string, args ...any) error {
	return rootlesserr.New(rootlesserr.KindInputValidation, fmt.Sprintf(format, args...))
}

// AuthFailed builds an Authentication error with a formatted message.
func AuthFailed(format string, args ...any) error {
	return rootlesserr.New(rootlesserr.KindAuthentication, fmt.Sprintf(format, args...))
}
