package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/appadook/full-stack-portfolio/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// ExpiresAt decodes the exp claim of a JWT access token. The signature is not
// verified; the backend remains the authority on validity.
func ExpiresAt(rawToken string) (time.Time, error) {
	if strings.TrimSpace(rawToken) == "" {
		return time.Time{}, errors.ErrMalformedToken
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", errors.ErrMalformedToken, err)
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", errors.ErrMalformedToken, err)
	}
	if exp == nil {
		return time.Time{}, errors.ErrMissingExpiry
	}
	return exp.Time, nil
}

// IsExpired reports whether the token's expiry is at or before now. Tokens
// that cannot be decoded are reported as expired together with the decode error.
func IsExpired(rawToken string, now time.Time) (bool, error) {
	exp, err := ExpiresAt(rawToken)
	if err != nil {
		return true, err
	}
	return !exp.After(now), nil
}
