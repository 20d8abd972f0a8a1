package fakebackend

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

var requiredFields = map[string][]string{
	"experiences": {"title", "company", "duration", "description", "technologies", "image"},
	"projects":    {"title", "description", "image", "technologies", "category"},
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}

	b.mu.Lock()
	password, ok := b.users[creds.Username]
	if !ok || password != creds.Password {
		b.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	refresh := b.issueRefreshLocked(creds.Username)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"access":  b.IssueAccess(creds.Username, b.accessTTL),
		"refresh": refresh,
	})
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Refresh == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"refresh": {"This field is required."}})
		return
	}

	b.mu.Lock()
	username, ok := b.refreshTokens[body.Refresh]
	var rotated string
	if ok && b.rotate {
		delete(b.refreshTokens, body.Refresh)
		rotated = b.issueRefreshLocked(username)
	}
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}

	resp := map[string]string{"access": b.IssueAccess(username, b.accessTTL)}
	if rotated != "" {
		resp["refresh"] = rotated
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"This field may not be blank."}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[creds.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"A user with that username already exists."}})
		return
	}
	id := b.addUser(creds.Username, creds.Password)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "username": creds.Username})
}

// requireAuth mirrors the backend's IsAuthenticated permission with JWT
// authentication: a missing or invalid bearer token yields 401.
func (b *Backend) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authorization header must contain two space-delimited values"})
			return
		}

		_, err := jwtlib.Parse(parts[1], func(t *jwtlib.Token) (any, error) {
			return b.secret, nil
		}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}), jwtlib.WithTimeFunc(b.now), jwtlib.WithExpirationRequired())
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type", "code": "token_not_valid"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleList(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		items := b.collection(name).list()
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, items)
	}
}

func (b *Backend) handleGet(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		b.mu.Lock()
		rec, ok := b.collection(name).items[id]
		var out map[string]any
		if ok {
			out = clone(rec)
		}
		b.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (b *Backend) handleCreate(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || rec == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
			return
		}
		if errs := missingFields(rec, requiredFields[name]...); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		delete(rec, "id")
		b.mu.Lock()
		created := clone(b.collection(name).insert(rec, b.now()))
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, created)
	}
}

func (b *Backend) handleUpdate(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var rec record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || rec == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
			return
		}
		if errs := missingFields(rec, requiredFields[name]...); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		c := b.collection(name)
		existing, ok := c.items[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}

		rec["id"] = id
		rec["created_at"] = existing["created_at"]
		rec["updated_at"] = b.now().UTC().Format("2006-01-02T15:04:05.000000")
		c.items[id] = rec
		writeJSON(w, http.StatusOK, clone(rec))
	}
}

func (b *Backend) handleDelete(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		b.mu.Lock()
		removed := b.collection(name).remove(id)
		b.mu.Unlock()

		if !removed {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}
