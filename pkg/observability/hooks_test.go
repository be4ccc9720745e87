package observability

import (
	"context"
	"testing"
	"time"
)

type countingExplorerHooks struct {
	NoopExplorerHooks
	expands   int
	collapses int
}

func (h *countingExplorerHooks) OnExpandStart(ctx context.Context, paperID string) {
	h.expands++
}

func (h *countingExplorerHooks) OnCollapse(ctx context.Context, paperID string, removed int) {
	h.collapses++
}

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.hits++
}

func TestHookRegistration(t *testing.T) {
	defer Reset()

	eh := &countingExplorerHooks{}
	SetExplorerHooks(eh)

	Explorer().OnExpandStart(context.Background(), "W1")
	Explorer().OnCollapse(context.Background(), "W1", 3)

	if eh.expands != 1 {
		t.Errorf("expands = %d, want 1", eh.expands)
	}
	if eh.collapses != 1 {
		t.Errorf("collapses = %d, want 1", eh.collapses)
	}
}

func TestNilRegistrationKeepsCurrent(t *testing.T) {
	defer Reset()

	ch := &countingCacheHooks{}
	SetCacheHooks(ch)
	SetCacheHooks(nil) // should be ignored

	Cache().OnCacheHit(context.Background(), "openalex:")
	if ch.hits != 1 {
		t.Errorf("hits = %d, want 1", ch.hits)
	}
}

func TestReset(t *testing.T) {
	eh := &countingExplorerHooks{}
	SetExplorerHooks(eh)
	Reset()

	Explorer().OnExpandStart(context.Background(), "W1")
	if eh.expands != 0 {
		t.Error("Reset should restore no-op hooks")
	}
}

func TestNoopsDoNotPanic(t *testing.T) {
	defer Reset()
	ctx := context.Background()

	Explorer().OnSearchStart(ctx, "attention")
	Explorer().OnSearchComplete(ctx, "attention", time.Second, nil)
	Explorer().OnExpandComplete(ctx, "W1", 5, time.Second, nil)
	Cache().OnCacheMiss(ctx, "openalex:")
	Cache().OnCacheSet(ctx, "openalex:", 128)
	HTTP().OnRequest(ctx, "GET", "api.openalex.org", "/works")
	HTTP().OnResponse(ctx, "GET", "api.openalex.org", "/works", 200, time.Millisecond)
	HTTP().OnError(ctx, "GET", "api.openalex.org", "/works", context.DeadlineExceeded)
}
