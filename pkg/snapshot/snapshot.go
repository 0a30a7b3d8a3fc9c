package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/lineplanner/pkg/network"
)

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// Marshal converts a store's state to JSON bytes.
func Marshal(s *network.Store) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON bytes to a Snapshot.
// The snapshot is only structurally decoded; apply it with [Restore] or
// [ToStore] to get reference checking.
func Unmarshal(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Write writes a store's state as JSON to an io.Writer.
func Write(s *network.Store, w io.Writer) error {
	return writeTo(s, w)
}

// WriteFile writes a store's state to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(s *network.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(s, f)
}

// Read decodes a JSON snapshot from an io.Reader.
func Read(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// ReadFile reads a JSON file and returns the decoded snapshot.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(s *network.Store, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromStore(s)); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

func checkKey(key, id int, kind string) error {
	if key != id {
		return fmt.Errorf("%s key %d disagrees with record ID %d: %w", kind, key, id, network.ErrInvalidSnapshot)
	}
	return nil
}
