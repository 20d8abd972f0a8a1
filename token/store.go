package token

import (
	"fmt"

	"github.com/appadook/full-stack-portfolio/internal/errors"
)

// Kind names one of the two credentials the client holds.
type Kind string

const (
	// Access is the short-lived JWT attached to API requests.
	Access Kind = "access"
	// Refresh is the long-lived credential used only to mint new access tokens.
	Refresh Kind = "refresh"
)

// Kinds lists every token kind.
var Kinds = []Kind{Access, Refresh}

// Validate returns ErrUnknownTokenKind for anything but Access and Refresh.
func (k Kind) Validate() error {
	switch k {
	case Access, Refresh:
		return nil
	default:
		return fmt.Errorf("%w: %q", errors.ErrUnknownTokenKind, string(k))
	}
}

// Store is the persistent key-value holder for the access and refresh tokens.
// It performs no validation of the token contents.
type Store interface {
	Get(kind Kind) (string, bool)
	Set(kind Kind, value string) error
	Clear(kind Kind) error
	ClearAll() error
}
