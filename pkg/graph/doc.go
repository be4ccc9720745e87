// Package graph holds the mutable node-link model of a citation exploration.
//
// Nodes are positions in the rendered hierarchy, not papers: the same paper
// reachable through two different parents appears as two distinct nodes with
// distinct keys. Keys are built by digest chaining (see NodeKey), so node
// identity never depends on delimiter characters in paper ids.
//
// The model is organized into depth layers (root at depth 0) for layered
// rendering. It is not safe for concurrent use without external
// synchronization; the explorer serializes all mutations.
package graph
