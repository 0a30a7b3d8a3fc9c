// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about storage operations and network
// mutations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStorageHooks(&myStorageHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Storage().OnSave(ctx, backend, id, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Storage Hooks
// =============================================================================

// StorageHooks receives events from snapshot storage backends.
type StorageHooks interface {
	// OnSave records a snapshot save. size is the serialized size in bytes.
	OnSave(ctx context.Context, backend, id string, size int, duration time.Duration, err error)

	// OnLoad records a snapshot load.
	OnLoad(ctx context.Context, backend, id string, duration time.Duration, err error)

	// OnDelete records a snapshot deletion.
	OnDelete(ctx context.Context, backend, id string, err error)
}

// =============================================================================
// Mutation Hooks
// =============================================================================

// MutationHooks receives events from network store mutations at the API
// boundary. Counts reflect the store state after the mutation.
type MutationHooks interface {
	// OnMutation records a completed mutation operation.
	OnMutation(ctx context.Context, op string, lineCount, pointCount int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStorageHooks is a no-op implementation of StorageHooks.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}
func (NoopStorageHooks) OnLoad(context.Context, string, string, time.Duration, error)      {}
func (NoopStorageHooks) OnDelete(context.Context, string, string, error)                   {}

// NoopMutationHooks is a no-op implementation of MutationHooks.
type NoopMutationHooks struct{}

func (NoopMutationHooks) OnMutation(context.Context, string, int, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storageHooks  StorageHooks  = NoopStorageHooks{}
	mutationHooks MutationHooks = NoopMutationHooks{}
	hooksMu       sync.RWMutex
)

// SetStorageHooks registers custom storage hooks.
// This should be called once at application startup before any storage operations.
func SetStorageHooks(h StorageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storageHooks = h
	}
}

// SetMutationHooks registers custom mutation hooks.
// This should be called once at application startup.
func SetMutationHooks(h MutationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		mutationHooks = h
	}
}

// Storage returns the registered storage hooks.
func Storage() StorageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storageHooks
}

// Mutation returns the registered mutation hooks.
func Mutation() MutationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return mutationHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	storageHooks = NoopStorageHooks{}
	mutationHooks = NoopMutationHooks{}
}
