// Package storage persists network snapshots across sessions.
//
// This package defines the Store interface for snapshot storage with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for single-machine setups
//   - redis: Redis-backed storage for shared deployments
//   - mongo: MongoDB-backed storage for durable history
//
// Backends persist the serialized snapshot produced by pkg/snapshot; they
// never interpret the network state themselves. Each saved snapshot gets a
// generated record ID, so a backend keeps the full save history rather
// than a single slot.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/lineplanner/pkg/snapshot"
)

// ErrNotFound is returned when a requested snapshot record does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Record is a stored snapshot with metadata.
type Record struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	LineCount  int               `json:"line_count"`
	PointCount int               `json:"point_count"`
	Snapshot   snapshot.Snapshot `json:"snapshot"`
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save stores a snapshot under a freshly generated record ID and
	// returns the complete record.
	Save(ctx context.Context, snap snapshot.Snapshot) (Record, error)

	// Load retrieves a record by ID. Returns ErrNotFound if it doesn't exist.
	Load(ctx context.Context, id string) (Record, error)

	// Latest retrieves the most recently saved record.
	// Returns ErrNotFound when the backend is empty.
	Latest(ctx context.Context) (Record, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]Record, error)

	// Delete removes a record. Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// newRecord assembles a record with a generated ID and current timestamp.
func newRecord(snap snapshot.Snapshot) Record {
	return Record{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		LineCount:  len(snap.Lines),
		PointCount: len(snap.Points),
		Snapshot:   snap,
	}
}
