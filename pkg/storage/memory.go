package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/lineplanner/pkg/snapshot"
)

// MemoryStore is an in-memory snapshot store for development and testing.
// Records are lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string // record IDs in save order
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Save stores a snapshot.
func (s *MemoryStore) Save(ctx context.Context, snap snapshot.Snapshot) (Record, error) {
	rec := newRecord(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	return rec, nil
}

// Load retrieves a record by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Latest retrieves the most recently saved record.
func (s *MemoryStore) Latest(ctx context.Context) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return Record{}, ErrNotFound
	}
	return s.records[s.order[len(s.order)-1]], nil
}

// List returns all records, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.records[s.order[i]])
	}
	return out, nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
