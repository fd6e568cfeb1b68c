// Package session holds the ephemeral, TTL-bound records shared between the
// agent process and browser pages. Nothing here survives a restart.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TTL is the lifetime of every session.
const TTL = 30 * time.Minute

var (
	// ErrNotFound is returned for tokens that were never issued or already evicted.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned once for a token read after its expiry; the
	// record is evicted and later reads see ErrNotFound.
	ErrExpired = errors.New("session expired")
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store is a mutex-guarded token → record map with lazy expiry on read.
type Store[T any] struct {
	mu    sync.Mutex
	items map[string]entry[T]
	ttl   time.Duration
	now   func() time.Time
}

// NewStore creates an empty store. now may be nil to use the wall clock.
func NewStore[T any](ttl time.Duration, now func() time.Time) *Store[T] {
	if now == nil {
		now = time.Now
	}
	return &Store[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
		now:   now,
	}
}

// Put issues a fresh token and stores the record built for it.
func (s *Store[T]) Put(build func(token string, createdAt, expiresAt time.Time) T) T {
	token := uuid.NewString()
	createdAt := s.now()
	expiresAt := createdAt.Add(s.ttl)
	value := build(token, createdAt, expiresAt)

	s.mu.Lock()
	s.items[token] = entry[T]{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
	return value
}

// Lookup returns the record for token, evicting it if expired.
func (s *Store[T]) Lookup(token string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, ok := s.items[token]
	if !ok {
		return zero, ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.items, token)
		return zero, ErrExpired
	}
	return e.value, nil
}

// Get is Lookup without the reason for absence.
func (s *Store[T]) Get(token string) (T, bool) {
	v, err := s.Lookup(token)
	return v, err == nil
}

// Update applies fn to a live record. It returns false if the token is
// absent or expired.
func (s *Store[T]) Update(token string, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[token]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.items, token)
		return false
	}
	fn(&e.value)
	s.items[token] = e
	return true
}

// Sweep evicts every expired record and returns how many were removed.
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for token, e := range s.items {
		if now.After(e.expiresAt) {
			delete(s.items, token)
			n++
		}
	}
	return n
}
