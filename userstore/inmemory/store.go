// Package inmemory provides a thread-safe in-memory implementation of
// [userstore.Store].
//
// It is intended for use in tests and prototyping. Do not use it in production.
package inmemory

import (
	"context"
	"sync"

	"github.com/hasbyte1/go-saltedhash/userstore"
)

// Store is a thread-safe in-memory implementation of [userstore.Store] and
// [userstore.Counter].
type Store struct {
	mu     sync.RWMutex
	hashes map[string]string // keyed by user name
}

var (
	_ userstore.Store   = (*Store)(nil)
	_ userstore.Counter = (*Store)(nil)
)

// New creates an empty [Store].
func New() *Store {
	return &Store{hashes: make(map[string]string)}
}

// Init is a no-op.
func (s *Store) Init(context.Context) error { return nil }

// Create stores a new user. Returns false when the name is already taken.
func (s *Store) Create(_ context.Context, name, hash string) (bool, error) {
	if err := userstore.CheckRecord(name, hash); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.hashes[name]; exists {
		return false, nil
	}
	s.hashes[name] = hash
	return true, nil
}

// Modify replaces the hash of an existing user. Returns false when absent.
func (s *Store) Modify(_ context.Context, name, hash string) (bool, error) {
	if err := userstore.CheckRecord(name, hash); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hashes[name]; !ok {
		return false, nil
	}
	s.hashes[name] = hash
	return true, nil
}

// GetHash retrieves the hash stored for name.
func (s *Store) GetHash(_ context.Context, name string) (string, bool, error) {
	if err := userstore.CheckName(name); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hashes[name]
	return h, ok, nil
}

// Remove deletes the user. Returns false when absent.
func (s *Store) Remove(_ context.Context, name string) (bool, error) {
	if err := userstore.CheckName(name); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hashes[name]; !ok {
		return false, nil
	}
	delete(s.hashes, name)
	return true, nil
}

// WipeEverything removes all users.
func (s *Store) WipeEverything(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.hashes)
	return nil
}

// UserCount implements [userstore.Counter].
func (s *Store) UserCount(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hashes), nil
}
