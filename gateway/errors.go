package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/appadook/full-stack-portfolio/internal/errors"
)

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *HTTPError) Error() string {
	if detail := e.Detail(); detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Is lets callers match on the package sentinels, e.g. errors.ErrUnauthorized.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case errors.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case errors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Detail extracts the backend's {"detail": "..."} message, if any.
func (e *HTTPError) Detail() string {
	var body struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal([]byte(e.Body), &body) != nil {
		return ""
	}
	return body.Detail
}

// StatusCode returns the HTTP status carried by err, or 0 for transport errors.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
