// Package memory provides an in-memory snapshot store used for tests and
// ephemeral environments.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"nanoeln/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.SnapshotStore = (*Store)(nil)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("memory snapshot store closed")

// Store keeps snapshot payloads in process memory. Payloads are copied on
// the way in and out so callers never alias stored bytes.
type Store struct {
	mu      sync.RWMutex
	buckets map[string][]byte
	closed  bool
	// FailSave, when set, is returned from Save without applying any entry.
	// Tests use it to simulate a full or unavailable backend.
	FailSave error
}

// NewStore constructs an empty in-memory snapshot store.
func NewStore() *Store {
	return &Store{buckets: make(map[string][]byte)}
}

// Load returns a copy of the payload stored under key.
func (s *Store) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, ErrClosed
	}
	payload, ok := s.buckets[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

// Save stores a copy of every entry. Either all entries are applied or none.
func (s *Store) Save(_ context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.FailSave != nil {
		return s.FailSave
	}
	for key, payload := range entries {
		s.buckets[key] = append([]byte(nil), payload...)
	}
	return nil
}

// Keys lists the stored keys in lexical order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.buckets))
	for k := range s.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close marks the store closed; subsequent calls fail with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
