package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/appadook/full-stack-portfolio/auth"
	"github.com/appadook/full-stack-portfolio/internal/errors"
	"github.com/appadook/full-stack-portfolio/token"
)

// Refresher mints a new access token from a refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
}

var _ Refresher = (*auth.Service)(nil)

// Guard decides once whether the stored session may enter a protected view,
// refreshing an expired access token when it can.
type Guard struct {
	store     token.Store
	refresher Refresher
	nowFunc   func() time.Time

	mu    sync.Mutex
	state State
}

type GuardOption func(*Guard)

func WithNowFunc(now func() time.Time) GuardOption {
	return func(g *Guard) {
		g.nowFunc = now
	}
}

func NewGuard(store token.Store, refresher Refresher, opts ...GuardOption) *Guard {
	g := &Guard{
		store:     store,
		refresher: refresher,
		nowFunc:   token.NowTimeFunc,
		state:     Pending,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current state without doing any work.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Reset puts the guard back to Pending so the next Authorize re-checks.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Pending
}

// Authorize resolves the guard. Once resolved, later calls return the same
// state without touching the store or the network.
func (g *Guard) Authorize(ctx context.Context) State {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Pending {
		return g.state
	}
	g.state = g.check(ctx)
	return g.state
}

func (g *Guard) check(ctx context.Context) State {
	access, ok := g.store.Get(token.Access)
	if !ok || access == "" {
		return g.refresh(ctx)
	}

	expired, err := token.IsExpired(access, g.nowFunc())
	if err != nil {
		log.Debug().Err(err).Msg("Stored access token is unusable, refreshing")
		return g.refresh(ctx)
	}
	if expired {
		log.Debug().Msg("Access token expired, refreshing")
		return g.refresh(ctx)
	}
	return Authorized
}

func (g *Guard) refresh(ctx context.Context) State {
	refresh, _ := g.store.Get(token.Refresh)

	pair, err := g.refresher.Refresh(ctx, refresh)
	if err != nil {
		log.Warn().Err(err).Msg("Session refresh failed")
		return g.logout()
	}

	if err := g.store.Set(token.Access, pair.Access); err != nil {
		log.Err(err).Msg("Failed to store refreshed access token")
		return g.logout()
	}
	if pair.Refresh != "" {
		if err := g.store.Set(token.Refresh, pair.Refresh); err != nil {
			log.Err(err).Msg("Failed to store rotated refresh token")
		}
	}
	return Authorized
}

func (g *Guard) logout() State {
	if err := g.store.ClearAll(); err != nil {
		log.Err(err).Msg("Failed to clear tokens")
	}
	return Unauthorized
}

// Protect runs fn only for an authorized session.
func Protect(ctx context.Context, guard *Guard, fn func(context.Context) error) error {
	if guard.Authorize(ctx) != Authorized {
		return errors.ErrUnauthorized
	}
	return fn(ctx)
}
