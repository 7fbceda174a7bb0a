// Package memory implements an in-memory blob store for tests and
// ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/blob"
)

// Store keeps objects in process memory.
type Store struct {
	mu   sync.RWMutex
	objs map[uuid.UUID][]byte
}

var _ blob.Store = (*Store)(nil)

// New returns an empty in-memory blob store.
func New() *Store { return &Store{objs: make(map[uuid.UUID][]byte)} }

// Driver returns the blob driver identifier.
func (s *Store) Driver() blob.Driver { return blob.DriverMemory }

// Save stores a copy of everything read from r under id.
func (s *Store) Save(_ context.Context, id uuid.UUID, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read blob %s: %w", id, err)
	}
	s.mu.Lock()
	s.objs[id] = b
	s.mu.Unlock()
	return nil
}

// Read returns a copy of the object stored under id.
func (s *Store) Read(_ context.Context, id uuid.UUID) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objs[id]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, true, nil
}

// Delete removes the object stored under id.
func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	delete(s.objs, id)
	s.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objs)
}
