// Package openalex implements the paper source against the OpenAlex API.
//
// The bulk of the API surface is two lookups: a title search over /works
// and a reference expansion that resolves a work's referenced_works ids to
// full records via batched filter queries. No API key is required; setting
// a mailto address opts into the OpenAlex polite pool.
package openalex

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/citegraph/citegraph/pkg/cache"
	"github.com/citegraph/citegraph/pkg/paper"
	"github.com/citegraph/citegraph/pkg/source"
)

const (
	// DefaultBaseURL is the OpenAlex API root.
	DefaultBaseURL = "https://api.openalex.org"

	// idPrefix is stripped from work ids so canonical paper ids stay short.
	idPrefix = "https://openalex.org/"

	// searchLimit is how many search results to inspect when looking for a
	// work that actually has indexed references.
	searchLimit = 5

	// batchSize is the maximum number of ids per filter query.
	batchSize = 50

	// requestsPerSecond is the OpenAlex rate limit for anonymous clients.
	requestsPerSecond = 10
)

// Config holds settings for an OpenAlex client.
type Config struct {
	// BaseURL overrides the API root (useful for tests). Defaults to
	// DefaultBaseURL.
	BaseURL string

	// Mailto identifies the caller to OpenAlex for polite-pool access.
	// Optional but recommended.
	Mailto string

	// CacheTTL is how long API responses are cached. Zero means forever.
	CacheTTL time.Duration

	// MaxReferences caps how many references are resolved per paper.
	// Zero means unlimited.
	MaxReferences int
}

// Client fetches paper records from the OpenAlex API.
// It rate-limits requests and caches responses through the shared backend.
// All methods are safe for concurrent use.
type Client struct {
	*source.Client
	baseURL string
	mailto  string
	maxRefs int
	limiter *rate.Limiter
}

// NewClient creates an OpenAlex client with the given cache backend.
// Pass cache.NewNullCache() to disable response caching.
func NewClient(backend cache.Cache, cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  source.NewClient(backend, "openalex:", cfg.CacheTTL, nil),
		baseURL: baseURL,
		mailto:  cfg.Mailto,
		maxRefs: cfg.MaxReferences,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Search finds the best match for a paper title.
//
// Up to five results are inspected and the first one with indexed references
// is preferred, so that the root of an exploration is expandable whenever
// possible. Returns [source.ErrNotFound] if nothing matches.
func (c *Client) Search(ctx context.Context, title string) (*paper.Paper, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", source.ErrNotFound)
	}

	var found paper.Paper
	err := c.Cached(ctx, "search:"+strings.ToLower(title), false, &found, func() error {
		return c.search(ctx, title, &found)
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (c *Client) search(ctx context.Context, title string, found *paper.Paper) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("search", title)
	params.Set("per_page", fmt.Sprint(searchLimit))

	var resp worksResponse
	if err := c.Get(ctx, c.endpoint("/works", params), &resp); err != nil {
		return err
	}
	if len(resp.Results) == 0 {
		return fmt.Errorf("%w: no papers matching %q", source.ErrNotFound, title)
	}

	// Prefer a result that has references to expand.
	for _, w := range resp.Results {
		if w.ReferencedWorksCount > 0 {
			*found = formatWork(w)
			return nil
		}
	}
	*found = formatWork(resp.Results[0])
	return nil
}

// References returns the papers cited by the given work, in the order the
// API returns them. Papers with zero indexed references yield an empty,
// cacheable slice rather than an error.
func (c *Client) References(ctx context.Context, paperID string) ([]paper.Paper, error) {
	if strings.TrimSpace(paperID) == "" {
		return nil, fmt.Errorf("%w: empty paper id", source.ErrNotFound)
	}

	refs := []paper.Paper{}
	err := c.Cached(ctx, "refs:"+paperID, false, &refs, func() error {
		fetched, err := c.references(ctx, paperID)
		if err != nil {
			return err
		}
		refs = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (c *Client) references(ctx context.Context, paperID string) ([]paper.Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("select", "id,title,authorships,publication_year,cited_by_count,referenced_works")

	var work openalexWork
	if err := c.Get(ctx, c.endpoint("/works/"+stripID(paperID), params), &work); err != nil {
		if errors.Is(err, source.ErrNotFound) {
			return nil, fmt.Errorf("%w: paper %s", err, paperID)
		}
		return nil, err
	}

	ids := work.ReferencedWorks
	if c.maxRefs > 0 && len(ids) > c.maxRefs {
		ids = ids[:c.maxRefs]
	}
	if len(ids) == 0 {
		return []paper.Paper{}, nil
	}

	refs := make([]paper.Paper, 0, len(ids))
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		batch, err := c.fetchBatch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		refs = append(refs, batch...)
	}
	return refs, nil
}

// fetchBatch resolves up to batchSize work ids to full records with one
// filter query.
func (c *Client) fetchBatch(ctx context.Context, ids []string) ([]paper.Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	stripped := make([]string, len(ids))
	for i, id := range ids {
		stripped[i] = stripID(id)
	}

	params := url.Values{}
	params.Set("filter", "openalex_id:"+strings.Join(stripped, "|"))
	params.Set("per_page", fmt.Sprint(batchSize))

	var resp worksResponse
	if err := c.Get(ctx, c.endpoint("/works", params), &resp); err != nil {
		return nil, err
	}

	papers := make([]paper.Paper, 0, len(resp.Results))
	for _, w := range resp.Results {
		papers = append(papers, formatWork(w))
	}
	return papers, nil
}

func (c *Client) endpoint(path string, params url.Values) string {
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}
	return c.baseURL + path + "?" + params.Encode()
}

// stripID reduces a full OpenAlex work URL to its bare id.
func stripID(id string) string {
	return strings.TrimPrefix(id, idPrefix)
}

// formatWork converts an OpenAlex work to the canonical paper record.
func formatWork(w openalexWork) paper.Paper {
	authors := make([]paper.Author, 0, len(w.Authorships))
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			authors = append(authors, paper.Author{Name: a.Author.DisplayName})
		}
	}

	var venue string
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil {
		venue = w.PrimaryLocation.Source.DisplayName
	}

	return paper.Paper{
		ID:             stripID(w.ID),
		Title:          w.Title,
		Authors:        authors,
		Year:           w.PublicationYear,
		Venue:          venue,
		CitationCount:  w.CitedByCount,
		ReferenceCount: w.ReferencedWorksCount,
		URL:            w.ID,
	}
}

// API response shapes. Only the fields we select are declared.

type worksResponse struct {
	Results []openalexWork `json:"results"`
}

type openalexWork struct {
	ID                   string       `json:"id"`
	Title                string       `json:"title"`
	Authorships          []authorship `json:"authorships"`
	PublicationYear      int          `json:"publication_year"`
	CitedByCount         int          `json:"cited_by_count"`
	ReferencedWorksCount int          `json:"referenced_works_count"`
	ReferencedWorks      []string     `json:"referenced_works"`
	PrimaryLocation      *struct {
		Source *struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
}

type authorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

// Ensure Client implements Source.
var _ source.Source = (*Client)(nil)
