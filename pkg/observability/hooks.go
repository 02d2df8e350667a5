// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about scene walks, override edits, draft storage and
// re-import runs.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages never
// import a logging or metrics backend for instrumentation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetWalkHooks(&myWalkHooks{})
//	    observability.SetDraftHooks(&myDraftHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Walk().OnWalkStart(ctx, asset)
//	// ... walk the scene ...
//	observability.Walk().OnWalkComplete(ctx, asset, stats, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Walk Hooks
// =============================================================================

// WalkStats summarizes one scene walk.
type WalkStats struct {
	Nodes, Meshes, Materials, Animations int
	Issues                               int
}

// WalkHooks receives events from scene walks.
type WalkHooks interface {
	OnWalkStart(ctx context.Context, asset string)
	OnWalkComplete(ctx context.Context, asset string, stats WalkStats, duration time.Duration)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from override edits. Store operations are
// synchronous and take no context.
type StoreHooks interface {
	// OnOverrideSet records an accepted override write.
	OnOverrideSet(kind, id, key string)

	// OnOverrideCleared records a removed override key.
	OnOverrideCleared(kind, id, key string)

	// OnOverrideRejected records a write refused with the given error.
	OnOverrideRejected(kind, id, key string, err error)
}

// =============================================================================
// Draft Hooks
// =============================================================================

// DraftHooks receives events from draft storage.
type DraftHooks interface {
	// OnDraftHit records a draft found for an asset.
	OnDraftHit(ctx context.Context, backend string)

	// OnDraftMiss records an asset without a stored draft.
	OnDraftMiss(ctx context.Context, backend string)

	// OnDraftSet records a draft write.
	OnDraftSet(ctx context.Context, backend string, size int)
}

// =============================================================================
// Reimport Hooks
// =============================================================================

// ReimportHooks receives events from re-import triggers.
type ReimportHooks interface {
	OnReimportStart(ctx context.Context, asset, trigger string)
	OnReimportComplete(ctx context.Context, asset, trigger string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopWalkHooks is a no-op implementation of WalkHooks.
type NoopWalkHooks struct{}

func (NoopWalkHooks) OnWalkStart(context.Context, string)                               {}
func (NoopWalkHooks) OnWalkComplete(context.Context, string, WalkStats, time.Duration) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnOverrideSet(string, string, string)             {}
func (NoopStoreHooks) OnOverrideCleared(string, string, string)         {}
func (NoopStoreHooks) OnOverrideRejected(string, string, string, error) {}

// NoopDraftHooks is a no-op implementation of DraftHooks.
type NoopDraftHooks struct{}

func (NoopDraftHooks) OnDraftHit(context.Context, string)      {}
func (NoopDraftHooks) OnDraftMiss(context.Context, string)     {}
func (NoopDraftHooks) OnDraftSet(context.Context, string, int) {}

// NoopReimportHooks is a no-op implementation of ReimportHooks.
type NoopReimportHooks struct{}

func (NoopReimportHooks) OnReimportStart(context.Context, string, string) {}
func (NoopReimportHooks) OnReimportComplete(context.Context, string, string, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	walkHooks     WalkHooks     = NoopWalkHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	draftHooks    DraftHooks    = NoopDraftHooks{}
	reimportHooks ReimportHooks = NoopReimportHooks{}
	hooksMu       sync.RWMutex
)

// SetWalkHooks registers custom walk hooks.
// This should be called once at application startup before any walk.
func SetWalkHooks(h WalkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		walkHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetDraftHooks registers custom draft hooks.
func SetDraftHooks(h DraftHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		draftHooks = h
	}
}

// SetReimportHooks registers custom re-import hooks.
func SetReimportHooks(h ReimportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		reimportHooks = h
	}
}

// Walk returns the registered walk hooks.
func Walk() WalkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return walkHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Draft returns the registered draft hooks.
func Draft() DraftHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return draftHooks
}

// Reimport returns the registered re-import hooks.
func Reimport() ReimportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return reimportHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	walkHooks = NoopWalkHooks{}
	storeHooks = NoopStoreHooks{}
	draftHooks = NoopDraftHooks{}
	reimportHooks = NoopReimportHooks{}
}
