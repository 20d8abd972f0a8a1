package auth

import "errors"

var (
	ErrIncompleteTokenPair = errors.New("token response is missing access or refresh token")
	ErrEmptyAccessToken    = errors.New("refresh response has no access token")
)
