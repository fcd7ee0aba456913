package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps collections in process memory. It is the single-session
// model: nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[Collection][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[Collection][]byte)}
}

// Get returns a copy of the stored document.
func (s *MemoryStore) Get(_ context.Context, c Collection) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.docs[c]), nil
}

// Put stores a copy of doc.
func (s *MemoryStore) Put(_ context.Context, c Collection, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[c] = slices.Clone(doc)
	return nil
}
