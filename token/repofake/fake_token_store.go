package tokenfakerepo

import (
	"sync"

	"github.com/appadook/full-stack-portfolio/token"
)

var _ token.Store = (*FakeTokenStore)(nil)

// FakeTokenStore is an in-memory token.Store that also records how often it
// was written to, for assertions in tests.
type FakeTokenStore struct {
	tokens map[token.Kind]string
	writes int
	clears int
	lock   sync.RWMutex
}

func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{
		tokens: make(map[token.Kind]string),
	}
}

// NewSeededTokenStore returns a store holding the given pair. Empty values are
// left absent.
func NewSeededTokenStore(access, refresh string) *FakeTokenStore {
	s := NewFakeTokenStore()
	if access != "" {
		s.tokens[token.Access] = access
	}
	if refresh != "" {
		s.tokens[token.Refresh] = refresh
	}
	return s
}

func (s *FakeTokenStore) Get(kind token.Kind) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	v, ok := s.tokens[kind]
	return v, ok
}

func (s *FakeTokenStore) Set(kind token.Kind, value string) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.tokens[kind] = value
	s.writes++
	return nil
}

func (s *FakeTokenStore) Clear(kind token.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.tokens, kind)
	s.clears++
	return nil
}

func (s *FakeTokenStore) ClearAll() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.tokens = make(map[token.Kind]string)
	s.clears++
	return nil
}

func (s *FakeTokenStore) Writes() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.writes
}

func (s *FakeTokenStore) Clears() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.clears
}
