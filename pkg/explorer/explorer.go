// Package explorer drives incremental exploration of a backward-citation
// graph: search seeds a root, clicking a node toggles expand/collapse, and
// reference lists are fetched lazily and memoized per paper.
//
// All session state lives on the Session object; nothing is package-global.
// A Session serializes its own mutations, releasing its lock only while a
// reference fetch is in flight and re-validating state before applying the
// result, so a click racing a pending fetch can never corrupt the graph.
package explorer

import (
	"context"
	stderrors "errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/citegraph/citegraph/pkg/errors"
	"github.com/citegraph/citegraph/pkg/graph"
	"github.com/citegraph/citegraph/pkg/observability"
	"github.com/citegraph/citegraph/pkg/paper"
	"github.com/citegraph/citegraph/pkg/source"
)

// Options configures a Session.
type Options struct {
	// MaxReferences caps how many references are materialized per
	// expansion. Zero means unlimited. The citation cache always stores
	// the full fetched list; the cap applies at display time, so raising
	// it later takes effect without a refetch.
	MaxReferences int

	// Presenter receives presentation events. Defaults to NoopPresenter.
	Presenter Presenter
}

// Stats are cumulative session counters.
type Stats struct {
	Fetches   int // remote reference fetches issued
	CacheHits int // expansions served from the citation cache
	Nodes     int // current node count
	Edges     int // current edge count
}

// Session owns all state of one exploration: the graph model, the citation
// cache (paper id → reference list, where an empty list means "confirmed no
// references" and is distinct from absent), the occurrence tracker
// (monotonic per-paper counts used to flag duplicates), and the in-flight
// fetch guard.
//
// Methods are safe for concurrent use. Collapse and the synchronous parts
// of Expand hold the session lock; the lock is released during network
// fetches.
type Session struct {
	// ID correlates log lines from the same exploration.
	ID string

	src       source.Source
	presenter Presenter
	maxRefs   int

	mu         sync.Mutex
	model      *graph.Model
	refs       map[string][]paper.Paper
	seen       map[string]int
	pending    map[string]bool // paper ids with a reference fetch in flight
	generation uint64
	fetches    int
	cacheHits  int
}

// NewSession creates an empty session backed by the given paper source.
func NewSession(src source.Source, opts Options) *Session {
	p := opts.Presenter
	if p == nil {
		p = NoopPresenter{}
	}
	return &Session{
		ID:        uuid.NewString(),
		src:       src,
		presenter: p,
		maxRefs:   opts.MaxReferences,
		model:     graph.NewModel(),
		refs:      make(map[string][]paper.Paper),
		seen:      make(map[string]int),
		pending:   make(map[string]bool),
	}
}

// Search looks up the first match for title, resets all session state, and
// seeds the graph with the match as the root node at depth 0. The root is
// expanded immediately.
//
// On a miss nothing is mutated and an error with code PAPER_NOT_FOUND is
// reported and returned.
func (s *Session) Search(ctx context.Context, title string) (graph.NodeKey, error) {
	if title == "" {
		err := errors.New(errors.ErrCodeInvalidInput, "empty search title")
		s.presenter.Error(err)
		return graph.NodeKey{}, err
	}

	observability.Explorer().OnSearchStart(ctx, title)
	start := time.Now()

	p, err := s.src.Search(ctx, title)
	observability.Explorer().OnSearchComplete(ctx, title, time.Since(start), err)
	if err != nil {
		err = wrapSourceError(err, "no paper found for %q", title)
		s.presenter.Error(err)
		return graph.NodeKey{}, err
	}

	s.mu.Lock()
	s.generation++
	s.model.Reset()
	s.refs = make(map[string][]paper.Paper)
	s.seen = make(map[string]int)
	s.pending = make(map[string]bool)
	s.fetches = 0
	s.cacheHits = 0

	root := graph.RootKey(p.ID)
	dup := s.recordOccurrence(p.ID) // always false on a fresh session
	if err := s.model.AddNode(graph.Node{Key: root, Depth: 0, Paper: *p, Duplicate: dup}); err != nil {
		s.mu.Unlock()
		return graph.NodeKey{}, errors.Wrap(errors.ErrCodeInternal, err, "seed root node")
	}
	s.mu.Unlock()

	s.presenter.GraphChanged()
	if err := s.Expand(ctx, root); err != nil {
		// Root stays seeded and unexpanded; the click handler can retry.
		return root, err
	}
	return root, nil
}

// NodeClick toggles the clicked node between expanded and collapsed, and
// surfaces the node's details through the presenter.
func (s *Session) NodeClick(ctx context.Context, key graph.NodeKey) error {
	s.mu.Lock()
	node, ok := s.model.Node(key)
	if !ok {
		s.mu.Unlock()
		err := errors.New(errors.ErrCodeNodeNotFound, "no node for key %s", key)
		s.presenter.Error(err)
		return err
	}
	selected := *node
	expanded := node.Expanded
	s.mu.Unlock()

	s.presenter.NodeSelected(selected)
	if expanded {
		return s.Collapse(key)
	}
	return s.Expand(ctx, key)
}

// Expand materializes the children of a node from its paper's reference
// list. It is a no-op if the node is already expanded or a fetch for its
// paper id is already in flight — the guard is per paper id, not per node,
// so two positions for the same paper never issue concurrent fetches. The
// reference list is fetched at most once per paper id per session and
// cached raw; sorting (ascending year, unknown year last, stable) happens
// per expansion.
//
// On fetch failure the node is left unexpanded with no partial children,
// and the error is reported and returned.
func (s *Session) Expand(ctx context.Context, key graph.NodeKey) error {
	s.mu.Lock()
	node, ok := s.model.Node(key)
	if !ok {
		s.mu.Unlock()
		err := errors.New(errors.ErrCodeNodeNotFound, "no node for key %s", key)
		s.presenter.Error(err)
		return err
	}

	paperID := key.PaperID()
	if node.Expanded || s.pending[paperID] {
		s.mu.Unlock()
		return nil
	}

	if cached, ok := s.refs[paperID]; ok {
		s.cacheHits++
		s.materialize(node, cached)
		s.mu.Unlock()
		s.presenter.GraphChanged()
		return nil
	}

	// Fetch without holding the lock. The pending marker stops any other
	// node for the same paper from issuing a concurrent fetch; the
	// generation snapshot detects a session reset while we were away.
	s.pending[paperID] = true
	gen := s.generation
	s.mu.Unlock()

	observability.Explorer().OnExpandStart(ctx, paperID)
	start := time.Now()
	fetched, err := s.src.References(ctx, paperID)

	s.mu.Lock()
	delete(s.pending, paperID)
	if err != nil {
		s.mu.Unlock()
		err = wrapSourceError(err, "fetch references for %s", paperID)
		observability.Explorer().OnExpandComplete(ctx, paperID, 0, time.Since(start), err)
		s.presenter.Error(err)
		return err
	}
	s.fetches++

	if s.generation != gen {
		// The session was reset while the fetch was in flight. Drop the
		// result; the cache belongs to the old exploration.
		s.mu.Unlock()
		observability.Explorer().OnExpandComplete(ctx, paperID, 0, time.Since(start), nil)
		return nil
	}

	s.refs[paperID] = fetched

	node, ok = s.model.Node(key)
	if !ok || node.Expanded {
		// The node was torn down by a collapse of an ancestor, or another
		// path already expanded it. Keep the cache entry, change nothing.
		s.mu.Unlock()
		observability.Explorer().OnExpandComplete(ctx, paperID, 0, time.Since(start), nil)
		return nil
	}

	s.materialize(node, fetched)
	children := len(s.model.ChildrenOf(key))
	s.mu.Unlock()

	observability.Explorer().OnExpandComplete(ctx, paperID, children, time.Since(start), nil)
	s.presenter.GraphChanged()
	return nil
}

// materialize creates child nodes and edges under node from the raw
// reference list and marks the node expanded. Caller holds s.mu.
func (s *Session) materialize(node *graph.Node, raw []paper.Paper) {
	refs := raw
	if s.maxRefs > 0 && len(refs) > s.maxRefs {
		refs = refs[:s.maxRefs]
	}
	sorted := sortByYear(refs)

	for _, p := range sorted {
		if !p.Valid() {
			continue
		}
		childKey := graph.ChildKey(node.Key, p.ID)
		if _, exists := s.model.Node(childKey); exists {
			// Same paper listed twice in one reference list.
			continue
		}
		dup := s.recordOccurrence(p.ID)
		child := graph.Node{Key: childKey, Depth: node.Depth + 1, Paper: p, Duplicate: dup}
		if err := s.model.AddNode(child); err != nil {
			continue
		}
		_ = s.model.AddEdge(node.Key, childKey)
	}
	node.Expanded = true
}

// Collapse tears down the subtree under a node, children before parents,
// and marks the node unexpanded. The citation cache and occurrence counts
// are untouched, so a later re-expand replays the identical children from
// cache. Collapsing a node that is not expanded is a no-op.
func (s *Session) Collapse(key graph.NodeKey) error {
	s.mu.Lock()
	node, ok := s.model.Node(key)
	if !ok {
		s.mu.Unlock()
		err := errors.New(errors.ErrCodeNodeNotFound, "no node for key %s", key)
		s.presenter.Error(err)
		return err
	}
	if !node.Expanded {
		s.mu.Unlock()
		return nil
	}

	removed := s.teardown(key)
	node.Expanded = false
	s.mu.Unlock()

	observability.Explorer().OnCollapse(context.Background(), key.PaperID(), removed)
	s.presenter.GraphChanged()
	return nil
}

// teardown removes all descendants of key depth-first and returns how many
// nodes were removed. Caller holds s.mu.
func (s *Session) teardown(key graph.NodeKey) int {
	removed := 0
	children := slices.Clone(s.model.ChildrenOf(key))
	for _, child := range children {
		if n, ok := s.model.Node(child); ok && n.Expanded {
			removed += s.teardown(child)
		}
		s.model.RemoveNode(child)
		removed++
	}
	return removed
}

// recordOccurrence counts an appearance of a paper id and reports whether
// it is a duplicate (had appeared before in this session). Counts are
// monotonic: collapse never decrements them, so a collapsed-and-reopened
// paper is not treated as a fresh first occurrence. Caller holds s.mu.
func (s *Session) recordOccurrence(paperID string) bool {
	s.seen[paperID]++
	return s.seen[paperID] > 1
}

// Occurrences returns how many times the paper id has appeared in this
// session, across collapsed and live nodes.
func (s *Session) Occurrences(paperID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[paperID]
}

// CachedReferences returns the cached reference list for a paper id and
// whether an entry exists. An empty list with ok=true means the paper is
// confirmed to have no references.
func (s *Session) CachedReferences(paperID string) ([]paper.Paper, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs, ok := s.refs[paperID]
	return slices.Clone(refs), ok
}

// Model returns the live graph model. Callers on the presentation side
// must not mutate it and must not retain node pointers across events.
func (s *Session) Model() *graph.Model { return s.model }

// Snapshot returns a serializable copy of the current graph state.
func (s *Session) Snapshot() graph.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.FromModel(s.model)
}

// Stats returns cumulative session counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Fetches:   s.fetches,
		CacheHits: s.cacheHits,
		Nodes:     s.model.NodeCount(),
		Edges:     s.model.EdgeCount(),
	}
}

// sortByYear returns the references sorted ascending by publication year.
// Unknown years (0) sort after all known years. The sort is stable, so
// ties and unknown-year entries keep their source order.
func sortByYear(refs []paper.Paper) []paper.Paper {
	sorted := slices.Clone(refs)
	slices.SortStableFunc(sorted, func(a, b paper.Paper) int {
		return yearRank(a.Year) - yearRank(b.Year)
	})
	return sorted
}

func yearRank(year int) int {
	if year == 0 {
		return int(^uint(0) >> 1) // unknown years sort last
	}
	return year
}

func wrapSourceError(err error, format string, args ...any) error {
	switch {
	case stderrors.Is(err, source.ErrNotFound):
		return errors.Wrap(errors.ErrCodePaperNotFound, err, format, args...)
	case stderrors.Is(err, source.ErrRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, format, args...)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, format, args...)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, format, args...)
	}
}
