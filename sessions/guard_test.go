package sessions_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/appadook/full-stack-portfolio/auth"
	"github.com/appadook/full-stack-portfolio/gateway"
	"github.com/appadook/full-stack-portfolio/internal/errors"
	"github.com/appadook/full-stack-portfolio/internal/fakebackend"
	"github.com/appadook/full-stack-portfolio/sessions"
	"github.com/appadook/full-stack-portfolio/token"
	tokenfakerepo "github.com/appadook/full-stack-portfolio/token/repofake"
)

const (
	refreshRoute = "POST /api/token/refresh/"
	user         = "admin"
)

type fixture struct {
	backend *fakebackend.Backend
	store   *tokenfakerepo.FakeTokenStore
	guard   *sessions.Guard
}

func newFixture(t *testing.T, access, refresh func(b *fakebackend.Backend) string, opts ...fakebackend.Option) *fixture {
	t.Helper()
	opts = append([]fakebackend.Option{fakebackend.WithUser(user, "pw")}, opts...)
	backend, srv := fakebackend.NewServer(t, opts...)

	var a, r string
	if access != nil {
		a = access(backend)
	}
	if refresh != nil {
		r = refresh(backend)
	}
	store := tokenfakerepo.NewSeededTokenStore(a, r)
	svc := auth.NewService(gateway.New(srv.URL, store), store)

	return &fixture{
		backend: backend,
		store:   store,
		guard:   sessions.NewGuard(store, svc),
	}
}

func accessFor(ttl time.Duration) func(b *fakebackend.Backend) string {
	return func(b *fakebackend.Backend) string { return b.IssueAccess(user, ttl) }
}

func validRefresh(b *fakebackend.Backend) string { return b.IssueRefresh(user) }

func constant(v string) func(*fakebackend.Backend) string {
	return func(*fakebackend.Backend) string { return v }
}

func requireLoggedOut(t *testing.T, store token.Store) {
	t.Helper()
	_, ok := store.Get(token.Access)
	require.False(t, ok, "access token should be cleared")
	_, ok = store.Get(token.Refresh)
	require.False(t, ok, "refresh token should be cleared")
}

func TestGuard_NoTokens(t *testing.T) {
	f := newFixture(t, nil, nil)

	require.Equal(t, sessions.Unauthorized, f.guard.Authorize(context.Background()))
	require.Equal(t, 0, f.backend.TotalCalls())
	requireLoggedOut(t, f.store)

	err := sessions.Protect(context.Background(), f.guard, func(context.Context) error {
		t.Fatal("protected view must not run")
		return nil
	})
	require.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestGuard_RefreshTokenOnly(t *testing.T) {
	f := newFixture(t, nil, validRefresh)

	require.Equal(t, sessions.Authorized, f.guard.Authorize(context.Background()))
	require.Equal(t, 1, f.backend.Calls(refreshRoute))

	access, ok := f.store.Get(token.Access)
	require.True(t, ok)
	expired, err := token.IsExpired(access, time.Now())
	require.NoError(t, err)
	require.False(t, expired)
}

func TestGuard_ValidAccessToken(t *testing.T) {
	f := newFixture(t, accessFor(time.Hour), validRefresh)
	before, _ := f.store.Get(token.Access)

	require.Equal(t, sessions.Authorized, f.guard.Authorize(context.Background()))
	require.Equal(t, 0, f.backend.TotalCalls())
	require.Equal(t, 0, f.store.Writes())

	after, _ := f.store.Get(token.Access)
	require.Equal(t, before, after)
}

func TestGuard_ExpiredAccessTokenRefreshes(t *testing.T) {
	f := newFixture(t, accessFor(-time.Minute), validRefresh)
	before, _ := f.store.Get(token.Access)

	require.Equal(t, sessions.Authorized, f.guard.Authorize(context.Background()))
	require.Equal(t, 1, f.backend.Calls(refreshRoute))

	after, ok := f.store.Get(token.Access)
	require.True(t, ok)
	require.NotEqual(t, before, after)
	expired, err := token.IsExpired(after, time.Now())
	require.NoError(t, err)
	require.False(t, expired)
}

func TestGuard_RefreshFailureLogsOut(t *testing.T) {
	tests := []struct {
		name    string
		refresh func(*fakebackend.Backend) string
		setup   func(*fakebackend.Backend)
	}{
		{name: "rejected refresh token", refresh: constant("revoked")},
		{name: "server error", refresh: validRefresh, setup: func(b *fakebackend.Backend) {
			b.Fail(refreshRoute, http.StatusInternalServerError)
		}},
		{name: "no refresh token", refresh: nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFixture(t, accessFor(-time.Minute), test.refresh)
			if test.setup != nil {
				test.setup(f.backend)
			}

			require.Equal(t, sessions.Unauthorized, f.guard.Authorize(context.Background()))
			requireLoggedOut(t, f.store)
		})
	}
}

func TestGuard_MalformedAccessTokenRefreshes(t *testing.T) {
	for _, raw := range []string{"garbage", "a.b.c"} {
		t.Run(raw, func(t *testing.T) {
			f := newFixture(t, constant(raw), validRefresh)

			require.Equal(t, sessions.Authorized, f.guard.Authorize(context.Background()))
			require.Equal(t, 1, f.backend.Calls(refreshRoute))
		})
	}
}

func TestGuard_ExpiryBoundary(t *testing.T) {
	now := time.Now()
	backend, srv := fakebackend.NewServer(t, fakebackend.WithUser(user, "pw"), fakebackend.WithNowFunc(func() time.Time { return now }))
	store := tokenfakerepo.NewSeededTokenStore(backend.IssueAccess(user, 0), backend.IssueRefresh(user))
	guard := sessions.NewGuard(store, auth.NewService(gateway.New(srv.URL, store), store),
		sessions.WithNowFunc(func() time.Time { return now.Truncate(time.Second) }))

	require.Equal(t, sessions.Authorized, guard.Authorize(context.Background()))
	require.Equal(t, 1, backend.Calls(refreshRoute), "exp equal to now counts as expired")
}

func TestGuard_StoresRotatedRefreshToken(t *testing.T) {
	f := newFixture(t, accessFor(-time.Minute), validRefresh, fakebackend.WithRefreshRotation())
	before, _ := f.store.Get(token.Refresh)

	require.Equal(t, sessions.Authorized, f.guard.Authorize(context.Background()))

	after, ok := f.store.Get(token.Refresh)
	require.True(t, ok)
	require.NotEqual(t, before, after)
}

func TestGuard_ResolvesOnce(t *testing.T) {
	f := newFixture(t, accessFor(-time.Minute), validRefresh)
	ctx := context.Background()

	require.Equal(t, sessions.Pending, f.guard.State())
	require.Equal(t, sessions.Authorized, f.guard.Authorize(ctx))
	require.Equal(t, sessions.Authorized, f.guard.Authorize(ctx))
	require.Equal(t, 1, f.backend.Calls(refreshRoute))

	f.guard.Reset()
	require.Equal(t, sessions.Pending, f.guard.State())
	require.Equal(t, sessions.Authorized, f.guard.Authorize(ctx))
	require.Equal(t, 1, f.backend.Calls(refreshRoute), "refreshed token is still valid")
}

func TestProtect_RunsForAuthorizedSession(t *testing.T) {
	f := newFixture(t, accessFor(time.Hour), validRefresh)

	ran := false
	err := sessions.Protect(context.Background(), f.guard, func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "pending", sessions.Pending.String())
	require.Equal(t, "authorized", sessions.Authorized.String())
	require.Equal(t, "unauthorized", sessions.Unauthorized.String())
}
