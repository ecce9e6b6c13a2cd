package memory

import (
	"context"
	"sync"

	"github.com/aretw0/soundboard/pkg/domain"
)

// Store implements ports.ArtifactStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Artifact
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Artifact),
	}
}

// Save stores a copy of the artifact.
func (s *Store) Save(ctx context.Context, artifact *domain.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[artifact.Key] = *artifact
	return nil
}

// Load retrieves a copy of the artifact, so callers can't mutate the store through it.
func (s *Store) Load(ctx context.Context, key string) (*domain.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artifact, ok := s.data[key]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return &artifact, nil
}

// Delete removes the artifact.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}
