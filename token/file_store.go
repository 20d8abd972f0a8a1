package token

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/appadook/full-stack-portfolio/internal/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore persists the token pair as an oauth2.Token JSON document so the
// session survives process restarts. The file is written with 0600 permissions
// and replaced atomically on every write.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the token file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(kind Kind) (string, bool) {
	if kind.Validate() != nil {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.load()
	if err != nil {
		log.Err(err).Str("path", s.path).Msg("Failed to read token file")
		return "", false
	}

	value := fieldFor(tok, kind)
	return *value, *value != ""
}

func (s *FileStore) Set(kind Kind, value string) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.load()
	if err != nil {
		// A corrupt file is replaced rather than blocking a fresh login.
		log.Err(err).Str("path", s.path).Msg("Discarding unreadable token file")
		tok = &oauth2.Token{}
	}

	*fieldFor(tok, kind) = value
	if kind == Access {
		tok.TokenType = "Bearer"
		tok.Expiry, _ = ExpiresAt(value)
	}
	return s.save(tok)
}

func (s *FileStore) Clear(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.load()
	if err != nil {
		return s.remove()
	}

	*fieldFor(tok, kind) = ""
	if kind == Access {
		tok.Expiry = time.Time{}
	}
	return s.save(tok)
}

func (s *FileStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove()
}

func (s *FileStore) load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &oauth2.Token{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}
	return &tok, nil
}

func (s *FileStore) save(tok *oauth2.Token) error {
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return s.remove()
	}

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting token file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing token file: %w", err)
	}
	return nil
}

func (s *FileStore) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

func fieldFor(tok *oauth2.Token, kind Kind) *string {
	if kind == Refresh {
		return &tok.RefreshToken
	}
	return &tok.AccessToken
}
