package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/appadook/full-stack-portfolio/internal/errors"
	"github.com/appadook/full-stack-portfolio/token"
)

const (
	LoginPath    = "/api/token/"
	RefreshPath  = "/api/token/refresh/"
	RegisterPath = "/api/register/"
)

// TokenPair is the body returned by the login and refresh endpoints. Refresh
// is only populated by refresh when the backend rotates refresh tokens.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// User is the account created by Register.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Poster is the slice of the API gateway the auth endpoints need.
type Poster interface {
	Post(ctx context.Context, path string, in, out any) error
}

// Service talks to the token endpoints and keeps the token store in sync
// with login and logout.
type Service struct {
	api   Poster
	store token.Store
}

func NewService(api Poster, store token.Store) *Service {
	return &Service{
		api:   api,
		store: store,
	}
}

// Login exchanges credentials for a token pair and stores both tokens.
func (s *Service) Login(ctx context.Context, username, password string) error {
	if err := checkCredentials(username, password); err != nil {
		return err
	}

	var pair TokenPair
	if err := s.api.Post(ctx, LoginPath, credentials{Username: username, Password: password}, &pair); err != nil {
		return errors.Wrapf(err, "login")
	}
	if pair.Access == "" || pair.Refresh == "" {
		return ErrIncompleteTokenPair
	}

	if err := s.store.Set(token.Access, pair.Access); err != nil {
		return errors.Wrapf(err, "storing access token")
	}
	if err := s.store.Set(token.Refresh, pair.Refresh); err != nil {
		return errors.Wrapf(err, "storing refresh token")
	}
	log.Info().Str("username", username).Msg("Logged in")
	return nil
}

// Refresh mints a new access token. It does not touch the token store; the
// session guard decides what to keep or clear.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, errors.ErrNoRefreshToken
	}

	var pair TokenPair
	if err := s.api.Post(ctx, RefreshPath, refreshRequest{Refresh: refreshToken}, &pair); err != nil {
		return TokenPair{}, fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err)
	}
	if pair.Access == "" {
		return TokenPair{}, fmt.Errorf("%w: %w", errors.ErrRefreshFailed, ErrEmptyAccessToken)
	}
	return pair, nil
}

// Register creates a new backend account. It does not log in.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	if err := checkCredentials(username, password); err != nil {
		return nil, err
	}

	var user User
	if err := s.api.Post(ctx, RegisterPath, credentials{Username: username, Password: password}, &user); err != nil {
		return nil, errors.Wrapf(err, "register")
	}
	return &user, nil
}

// Logout forgets both tokens.
func (s *Service) Logout() error {
	if err := s.store.ClearAll(); err != nil {
		return errors.Wrapf(err, "clearing tokens")
	}
	log.Info().Msg("Logged out")
	return nil
}

func checkCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return errors.ErrInvalidCredentials
	}
	return nil
}
