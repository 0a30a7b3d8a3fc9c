package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/lineplanner/pkg/observability"
	"github.com/matzehuels/lineplanner/pkg/snapshot"
)

// Instrumented wraps a store and emits observability events for every
// operation. backend names the wrapped implementation in the events
// ("memory", "file", "redis", "mongo").
type Instrumented struct {
	inner   Store
	backend string
}

// NewInstrumented wraps a store with observability hooks.
func NewInstrumented(inner Store, backend string) *Instrumented {
	return &Instrumented{inner: inner, backend: backend}
}

// Save stores a snapshot and reports the serialized size and duration.
func (s *Instrumented) Save(ctx context.Context, snap snapshot.Snapshot) (Record, error) {
	start := time.Now()
	rec, err := s.inner.Save(ctx, snap)

	size := 0
	if data, merr := json.Marshal(snap); merr == nil {
		size = len(data)
	}
	observability.Storage().OnSave(ctx, s.backend, rec.ID, size, time.Since(start), err)
	return rec, err
}

// Load retrieves a record by ID.
func (s *Instrumented) Load(ctx context.Context, id string) (Record, error) {
	start := time.Now()
	rec, err := s.inner.Load(ctx, id)
	observability.Storage().OnLoad(ctx, s.backend, id, time.Since(start), err)
	return rec, err
}

// Latest retrieves the most recently saved record.
func (s *Instrumented) Latest(ctx context.Context) (Record, error) {
	start := time.Now()
	rec, err := s.inner.Latest(ctx)
	observability.Storage().OnLoad(ctx, s.backend, rec.ID, time.Since(start), err)
	return rec, err
}

// List returns all records, newest first.
func (s *Instrumented) List(ctx context.Context) ([]Record, error) {
	return s.inner.List(ctx)
}

// Delete removes a record.
func (s *Instrumented) Delete(ctx context.Context, id string) error {
	err := s.inner.Delete(ctx, id)
	observability.Storage().OnDelete(ctx, s.backend, id, err)
	return err
}

// Close closes the wrapped store.
func (s *Instrumented) Close() error { return s.inner.Close() }

var _ Store = (*Instrumented)(nil)
