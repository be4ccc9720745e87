// Package observability decouples the exploration engine from metrics
// backends. Libraries emit events through hook interfaces; the process
// decides at startup what listens. Defaults are no-ops, so an unconfigured
// binary pays nothing — the HTTP server swaps in Prometheus-backed hooks,
// the CLI leaves the defaults in place.
//
//	observability.Explorer().OnExpandStart(ctx, paperID)
//	// fetch and materialize children
//	observability.Explorer().OnExpandComplete(ctx, paperID, n, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// ExplorerHooks receives events from the graph expansion engine.
type ExplorerHooks interface {
	OnSearchStart(ctx context.Context, title string)
	OnSearchComplete(ctx context.Context, title string, duration time.Duration, err error)
	OnExpandStart(ctx context.Context, paperID string)
	OnExpandComplete(ctx context.Context, paperID string, childCount int, duration time.Duration, err error)
	OnCollapse(ctx context.Context, paperID string, removed int)
}

// CacheHooks receives events from response-cache lookups and writes.
// keyType distinguishes search lookups from reference-list lookups.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from outgoing API requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopExplorerHooks ignores all explorer events. Embed it to implement
// only the events a backend cares about.
type NoopExplorerHooks struct{}

func (NoopExplorerHooks) OnSearchStart(context.Context, string) {}

func (NoopExplorerHooks) OnSearchComplete(context.Context, string, time.Duration, error) {}

func (NoopExplorerHooks) OnExpandStart(context.Context, string) {}

func (NoopExplorerHooks) OnExpandComplete(context.Context, string, int, time.Duration, error) {}

func (NoopExplorerHooks) OnCollapse(context.Context, string, int) {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string) {}

func (NoopCacheHooks) OnCacheMiss(context.Context, string) {}

func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores all HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string) {}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}

func (NoopHTTPHooks) OnError(context.Context, string, string, string, error) {}

// registry holds the process-wide hook set. Registration happens once at
// startup; reads happen on every event, hence the RWMutex.
var registry = struct {
	mu       sync.RWMutex
	explorer ExplorerHooks
	cache    CacheHooks
	http     HTTPHooks
}{
	explorer: NoopExplorerHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

// SetExplorerHooks registers explorer hooks. Nil is ignored.
func SetExplorerHooks(h ExplorerHooks) {
	if h == nil {
		return
	}
	registry.mu.Lock()
	registry.explorer = h
	registry.mu.Unlock()
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	registry.mu.Lock()
	registry.cache = h
	registry.mu.Unlock()
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	registry.mu.Lock()
	registry.http = h
	registry.mu.Unlock()
}

// Explorer returns the registered explorer hooks.
func Explorer() ExplorerHooks {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.explorer
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.cache
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.http
}

// Reset restores the no-op defaults. For tests.
func Reset() {
	registry.mu.Lock()
	registry.explorer = NoopExplorerHooks{}
	registry.cache = NoopCacheHooks{}
	registry.http = NoopHTTPHooks{}
	registry.mu.Unlock()
}
