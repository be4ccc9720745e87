// Package nodelink renders a citation graph as a layered node-link diagram.
//
// # Overview
//
// Nodes are positioned by depth level in a strict top-to-bottom hierarchy:
// the searched paper at the top, each expansion one layer below its parent.
// Edges point from citing paper to cited paper. Positions whose paper has
// already appeared elsewhere in the graph are drawn dashed and grey.
//
// # Usage
//
// Convert a model to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(model, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// The generated DOT can also be saved and processed with external Graphviz
// tools. SVG rendering happens in-process via [github.com/goccy/go-graphviz].
package nodelink
