package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/citegraph/citegraph/pkg/explorer"
	"github.com/citegraph/citegraph/pkg/graph"
	"github.com/citegraph/citegraph/pkg/render/nodelink"
	"github.com/citegraph/citegraph/pkg/source"
)

// Runner executes the search → expand → render pipeline.
//
// The Runner is stateless except for the source and logger - each Execute
// builds a fresh exploration session. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Source source.Source
	Logger *log.Logger
}

// NewRunner creates a runner backed by the given paper source.
// If logger is nil, the package default logger is used.
func NewRunner(src source.Source, l *log.Logger) *Runner {
	return &Runner{Source: src, Logger: logger(l)}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the final graph state.
	Snapshot graph.Snapshot

	// Artifact is the rendered output in the requested format.
	Artifact []byte

	// Stats contains timing and size information.
	Stats Stats
}

// Execute runs the complete pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	session := explorer.NewSession(r.Source, explorer.Options{
		MaxReferences: opts.MaxReferences,
	})
	result := &Result{}

	// Stage 1: Search (seeds and expands the root, depth level 1).
	searchStart := time.Now()
	root, err := session.Search(ctx, opts.Title)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	result.Stats.SearchTime = time.Since(searchStart)

	rootNode, _ := session.Model().Node(root)
	r.Logger.Info("seeded root",
		"session", session.ID,
		"paper", rootNode.Paper.Title,
		"id", root.PaperID(),
		"duration", result.Stats.SearchTime)

	// Stage 2: Expand remaining levels breadth-first.
	expandStart := time.Now()
	if err := r.expandToDepth(ctx, session, opts.Depth); err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}
	result.Stats.ExpandTime = time.Since(expandStart)

	st := session.Stats()
	result.Stats.NodeCount = st.Nodes
	result.Stats.EdgeCount = st.Edges
	result.Stats.Fetches = st.Fetches
	result.Stats.CacheHits = st.CacheHits

	r.Logger.Info("expanded graph",
		"session", session.ID,
		"depth", opts.Depth,
		"nodes", st.Nodes,
		"edges", st.Edges,
		"fetches", st.Fetches,
		"duration", result.Stats.ExpandTime)

	// Stage 3: Render.
	renderStart := time.Now()
	result.Snapshot = session.Snapshot()
	artifact, err := r.render(session, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifact = artifact
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered output",
		"format", opts.Format,
		"bytes", len(artifact),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// expandToDepth expands every node at levels 1..depth-1 in breadth-first
// order. Level 0 (the root) is expanded by Search. A failed expansion of
// one node aborts the run; partially expanded siblings are fine since the
// caller renders whatever materialized.
func (r *Runner) expandToDepth(ctx context.Context, session *explorer.Session, depth int) error {
	m := session.Model()
	for level := 1; level < depth; level++ {
		keys := slices.Clone(m.NodesAtDepth(level))
		for _, key := range keys {
			if err := session.Expand(ctx, key); err != nil {
				return fmt.Errorf("expand %s at depth %d: %w", key.PaperID(), level, err)
			}
		}
	}
	return nil
}

func (r *Runner) render(session *explorer.Session, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(session.Model(), nodelink.Options{Detailed: opts.Detailed})

	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatJSON:
		return json.MarshalIndent(session.Snapshot(), "", "  ")
	case FormatSVG:
		return nodelink.RenderSVG(dot)
	default:
		return nil, fmt.Errorf("invalid format: %q", opts.Format)
	}
}
