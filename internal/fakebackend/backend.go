// Package fakebackend serves the portfolio REST contract from memory. It
// issues real HS256 access tokens so bearer handling, expiry and 401 paths
// behave as they do against the production backend.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultSecret = "fakebackend-secret-0123456789abcdef"

// Backend is an in-memory portfolio backend.
type Backend struct {
	secret    []byte
	accessTTL time.Duration
	nowFunc   func() time.Time
	rotate    bool

	mu            sync.Mutex
	users         map[string]string // username -> password
	userIDs       map[string]int
	refreshTokens map[string]string // refresh token -> username
	collections   map[string]*collection
	calls         map[string]int
	failures      map[string]int

	router chi.Router
}

type Option func(*Backend)

func WithUser(username, password string) Option {
	return func(b *Backend) {
		b.addUser(username, password)
	}
}

func WithAccessTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		b.accessTTL = ttl
	}
}

// WithRefreshRotation makes the refresh endpoint return a new refresh token
// and invalidate the one it was given.
func WithRefreshRotation() Option {
	return func(b *Backend) {
		b.rotate = true
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(b *Backend) {
		b.nowFunc = now
	}
}

// WithRecords seeds a collection ("experiences" or "projects") with any
// JSON-encodable values. Records without an id get one.
func WithRecords(collectionName string, records ...any) Option {
	return func(b *Backend) {
		c := b.collection(collectionName)
		for _, r := range records {
			data, err := json.Marshal(r)
			if err != nil {
				panic(fmt.Sprintf("fakebackend: encoding seed record: %v", err))
			}
			var rec record
			if err := json.Unmarshal(data, &rec); err != nil {
				panic(fmt.Sprintf("fakebackend: seed record must be an object: %v", err))
			}
			c.insert(rec, b.now())
		}
	}
}

func New(opts ...Option) *Backend {
	b := &Backend{
		secret:        []byte(defaultSecret),
		accessTTL:     5 * time.Minute,
		nowFunc:       time.Now,
		users:         make(map[string]string),
		userIDs:       make(map[string]int),
		refreshTokens: make(map[string]string),
		collections:   make(map[string]*collection),
		calls:         make(map[string]int),
		failures:      make(map[string]int),
	}
	b.collection("experiences")
	b.collection("projects")

	for _, opt := range opts {
		opt(b)
	}

	b.router = b.routes()
	return b
}

// NewServer starts the backend on an httptest server that is closed when
// the test ends.
func NewServer(tb testing.TB, opts ...Option) (*Backend, *httptest.Server) {
	tb.Helper()
	b := New(opts...)
	srv := httptest.NewServer(b)
	tb.Cleanup(srv.Close)
	return b, srv
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

func (b *Backend) routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/api/token/", b.route("POST /api/token/", b.handleLogin))
	r.Post("/api/token/refresh/", b.route("POST /api/token/refresh/", b.handleRefresh))
	r.Post("/api/register/", b.route("POST /api/register/", b.handleRegister))

	for _, name := range []string{"experiences", "projects"} {
		base := "/api/" + name + "/"
		r.Get(base, b.route("GET "+base, b.handleList(name)))
		r.Get(base+"{id}/", b.route("GET "+base+"{id}/", b.handleGet(name)))

		r.Group(func(r chi.Router) {
			r.Use(b.requireAuth)
			r.Post(base+"create/", b.route("POST "+base+"create/", b.handleCreate(name)))
			r.Put(base+"update/{id}/", b.route("PUT "+base+"update/{id}/", b.handleUpdate(name)))
			r.Delete(base+"delete/{id}/", b.route("DELETE "+base+"delete/{id}/", b.handleDelete(name)))
		})
	}
	return r
}

// route counts calls per route key and applies injected failures.
func (b *Backend) route(key string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[key]++
		status := b.failures[key]
		b.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		h(w, r)
	}
}

// Calls returns how often a route key (e.g. "POST /api/token/refresh/") was hit.
// Requests rejected by the auth check are not counted.
func (b *Backend) Calls(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

// TotalCalls returns the number of counted requests across all routes.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.calls {
		total += n
	}
	return total
}

// Fail makes the route answer with status until Heal is called.
func (b *Backend) Fail(key string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[key] = status
}

func (b *Backend) Heal(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, key)
}

// IssueAccess signs an access token for username that expires after ttl
// (negative ttl yields an already expired token).
func (b *Backend) IssueAccess(username string, ttl time.Duration) string {
	now := b.now()
	claims := jwtlib.MapClaims{
		"token_type": "access",
		"user_id":    username,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
		"jti":        uuid.NewString(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(fmt.Sprintf("fakebackend: signing token: %v", err))
	}
	return signed
}

// IssueRefresh registers and returns an opaque refresh token for username.
func (b *Backend) IssueRefresh(username string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueRefreshLocked(username)
}

// RevokeRefresh invalidates a refresh token.
func (b *Backend) RevokeRefresh(refresh string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.refreshTokens, refresh)
}

// Records returns a snapshot of a collection in insertion order.
func (b *Backend) Records(collectionName string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.collection(collectionName).list()
}

func (b *Backend) issueRefreshLocked(username string) string {
	refresh := uuid.NewString()
	b.refreshTokens[refresh] = username
	return refresh
}

func (b *Backend) addUser(username, password string) int {
	b.users[username] = password
	if _, ok := b.userIDs[username]; !ok {
		b.userIDs[username] = len(b.userIDs) + 1
	}
	return b.userIDs[username]
}

func (b *Backend) now() time.Time {
	return b.nowFunc()
}

func (b *Backend) collection(name string) *collection {
	c, ok := b.collections[name]
	if !ok {
		c = &collection{items: make(map[string]record)}
		b.collections[name] = c
	}
	return c
}

// record is one stored document.
type record map[string]any

type collection struct {
	items map[string]record
	order []string
}

func (c *collection) insert(rec record, now time.Time) record {
	id, _ := rec["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}
	rec["id"] = id
	if _, ok := rec["created_at"]; !ok {
		rec["created_at"] = now.UTC().Format(time.RFC3339Nano)
	}
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = rec
	return rec
}

func (c *collection) list() []map[string]any {
	out := make([]map[string]any, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.items[id]))
	}
	return out
}

func (c *collection) remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func clone(rec record) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func missingFields(rec record, fields ...string) map[string][]string {
	errs := map[string][]string{}
	for _, f := range fields {
		v, ok := rec[f]
		if !ok || v == nil {
			errs[f] = []string{"This field is required."}
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			errs[f] = []string{"This field may not be blank."}
		}
	}
	return errs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
