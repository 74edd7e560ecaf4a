// Package session keeps one UI state per browser session in memory.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"wallet_dashboard/internal/app/state"
)

// Store maps session ids to state.State values. Entries expire after the
// configured idle TTL; every Dispatch refreshes it.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewStore creates a store. cleanup is how often expired sessions are purged.
func NewStore(ttl, cleanup time.Duration) *Store {
	return &Store{cache: cache.New(ttl, cleanup)}
}

// NewID returns a fresh opaque session id.
func NewID() string {
	return uuid.NewString()
}

// Get returns the session's state, or the zero (disconnected) state.
func (s *Store) Get(id string) state.State {
	if v, ok := s.cache.Get(id); ok {
		return v.(state.State)
	}
	return state.State{}
}

// Dispatch reduces ev into the session's state and returns the result.
func (s *Store) Dispatch(id string, ev state.Event) state.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := state.Reduce(s.Get(id), ev)
	s.cache.Set(id, next, cache.DefaultExpiration)
	return next
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
