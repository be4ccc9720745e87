// Package pipeline provides the one-shot search → expand → render pipeline.
//
// This package implements the complete exploration flow used by non-interactive
// entry points: the CLI render command and the server's render endpoint. By
// centralizing this logic, both produce identical output for the same inputs.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Search: Resolve the title to a root paper and seed the session
//  2. Expand: Breadth-first expansion of the citation graph to a depth
//  3. Render: Generate output (SVG, DOT, or JSON snapshot)
//
// # Usage
//
//	runner := pipeline.NewRunner(src, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Title: "attention is all you need",
//	    Depth: 2,
//	})
//	svg := result.Artifact
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultDepth is how many levels are expanded when none is given:
	// just the root's direct references.
	DefaultDepth = 1

	// MaxDepth bounds non-interactive expansion. Each level multiplies
	// the number of fetches, so deep one-shot runs are rejected rather
	// than left to hammer the upstream API.
	MaxDepth = 6
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Options contains all configuration for one pipeline run.
// The struct supports JSON serialization for API requests.
type Options struct {
	// Title is the paper title to search for. Required.
	Title string `json:"title"`

	// Depth is how many levels to expand (1 = root's references only).
	Depth int `json:"depth,omitempty"`

	// Format selects the output artifact: svg, dot, or json.
	Format string `json:"format,omitempty"`

	// Detailed adds venue and citation counts to node labels.
	Detailed bool `json:"detailed,omitempty"`

	// MaxReferences caps children per expansion. Zero means unlimited.
	MaxReferences int `json:"max_references,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if o.Depth == 0 {
		o.Depth = DefaultDepth
	}
	if o.Depth < 0 || o.Depth > MaxDepth {
		return fmt.Errorf("invalid depth: %d (must be 1-%d)", o.Depth, MaxDepth)
	}
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.MaxReferences < 0 {
		return fmt.Errorf("invalid max_references: %d", o.MaxReferences)
	}
	o.validated = true
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Fetches    int
	CacheHits  int
	SearchTime time.Duration
	ExpandTime time.Duration
	RenderTime time.Duration
}

// logger falls back to the package default.
func logger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
