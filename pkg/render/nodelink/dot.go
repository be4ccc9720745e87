package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/citegraph/citegraph/pkg/graph"
	"github.com/citegraph/citegraph/pkg/paper"
)

// maxTitleLen bounds node label width; longer titles are ellipsized.
const maxTitleLen = 40

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds venue and citation count to node labels.
	// When false, labels show title and year only.
	Detailed bool
}

// ToDOT converts a graph model to Graphviz DOT format. Nodes at the same
// depth are pinned to the same rank, so the layout is strictly layered
// with the root on top.
//
// Duplicate-occurrence nodes are rendered with dashed outlines and grey
// fill to distinguish them from first occurrences.
func ToDOT(m *graph.Model, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph citations {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, depth := range m.Depths() {
		keys := m.NodesAtDepth(depth)
		for _, key := range keys {
			n, ok := m.Node(key)
			if !ok {
				continue
			}
			label := fmtLabel(n.Paper, opts.Detailed)
			attrs := fmtAttrs(*n, label)
			fmt.Fprintf(&buf, "  %q [%s];\n", key.String(), strings.Join(attrs, ", "))
		}
		if len(keys) > 1 {
			ids := make([]string, len(keys))
			for i, key := range keys {
				ids[i] = strconv.Quote(key.String())
			}
			fmt.Fprintf(&buf, "  {rank=same; %s}\n", strings.Join(ids, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range m.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.String(), e.To.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p paper.Paper, detailed bool) string {
	title := p.Title
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen-1]) + "…"
	}

	lines := []string{title}
	if p.Year > 0 {
		lines = append(lines, strconv.Itoa(p.Year))
	}
	if detailed {
		if p.Venue != "" {
			lines = append(lines, p.Venue)
		}
		lines = append(lines, fmt.Sprintf("cited by %d", p.CitationCount))
	}
	return strings.Join(lines, "\n")
}

func fmtAttrs(n graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Duplicate {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey25")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the diagram scales
// cleanly when embedded in a page.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
