package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portfolio admin client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Token errors
	ErrMalformedToken   = errors.New("malformed token")
	ErrMissingExpiry    = errors.New("token has no expiry claim")
	ErrNoRefreshToken   = errors.New("no refresh token")
	ErrRefreshFailed    = errors.New("token refresh failed")
	ErrUnknownTokenKind = errors.New("unknown token kind")

	// Entity errors
	ErrValidation     = errors.New("validation failed")
	ErrMissingID      = errors.New("entity has no id")
	ErrUnknownKind    = errors.New("unknown entity kind")
	ErrUnknownSection = errors.New("unknown section")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf. A nil err stays nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
