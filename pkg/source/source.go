// Package source defines the remote paper source boundary and shared HTTP
// client functionality for bibliographic API clients.
//
// A Source resolves a free-text title to a single paper record and fetches
// the reference list (backward citations) of a paper by its canonical id.
// Implementations live in subpackages (e.g. openalex).
package source

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/citegraph/citegraph/pkg/paper"
)

// httpTimeout bounds every round-trip to the remote source.
const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a search yields no match or a paper id
	// doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when the upstream API keeps answering 429
	// after retries are exhausted.
	ErrRateLimited = errors.New("rate limited")
)

// Source is the remote paper source consumed by the expansion engine.
//
// Both calls are network round-trips with bounded timeout and fail closed:
// errors are returned, never panicked. References may return an empty slice
// for papers with zero indexed references; that is a valid, cacheable result.
type Source interface {
	// Search returns the best match for a title, or ErrNotFound.
	Search(ctx context.Context, title string) (*paper.Paper, error)

	// References returns the papers cited by the given paper.
	References(ctx context.Context, paperID string) ([]paper.Paper, error)
}

// NewHTTPClient creates an HTTP client with a standard timeout for
// bibliographic API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
