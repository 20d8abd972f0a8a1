package gateway

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/appadook/full-stack-portfolio/token"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Middleware decorates an outbound round trip.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain wraps base with mw. The first middleware is the outermost, so it sees
// the request first and the response last.
func Chain(base http.RoundTripper, mw ...Middleware) http.RoundTripper {
	chained := base
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// AttachBearer sets "Authorization: Bearer <access>" when an access token is
// stored. Requests go out unauthenticated otherwise.
func AttachBearer(store token.Store) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			access, ok := store.Get(token.Access)
			if !ok || access == "" {
				return next.RoundTrip(r)
			}
			// RoundTrippers must not modify the caller's request.
			r = r.Clone(r.Context())
			(&oauth2.Token{AccessToken: access, TokenType: "Bearer"}).SetAuthHeader(r)
			return next.RoundTrip(r)
		})
	}
}

// ClearOnUnauthorized drops the stored access token whenever any endpoint
// answers 401. The response is still returned to the caller; redirecting to
// login is left to the session guard.
func ClearOnUnauthorized(store token.Store) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(r)
			if err == nil && resp.StatusCode == http.StatusUnauthorized {
				if clearErr := store.Clear(token.Access); clearErr != nil {
					log.Err(clearErr).Str("path", r.URL.Path).Msg("Failed to clear access token after 401")
				} else {
					log.Debug().Str("path", r.URL.Path).Msg("Access token cleared after 401")
				}
			}
			return resp, err
		})
	}
}

// RequestID stamps a uuid on requests that do not already carry one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, uuid.NewString())
			return next.RoundTrip(r)
		})
	}
}

func Logging() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			event := log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", r.Header.Get(RequestIDHeader)).
				Dur("elapsed", time.Since(start))
			if err != nil {
				event.Err(err).Msg("request failed")
				return resp, err
			}
			event.Int("status", resp.StatusCode).Msg("request")
			return resp, err
		})
	}
}

// Timeout bounds each round trip, including reading the response body.
func Timeout(d time.Duration) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			resp, err := next.RoundTrip(r.WithContext(ctx))
			if err != nil {
				cancel()
				return nil, err
			}
			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		})
	}
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
