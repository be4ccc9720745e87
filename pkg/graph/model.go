package graph

import (
	"errors"
	"maps"
	"slices"

	"github.com/citegraph/citegraph/pkg/paper"
)

var (
	// ErrInvalidNodeKey is returned by [Model.AddNode] when the node key is
	// the zero key. All nodes must carry a key derived from RootKey or ChildKey.
	ErrInvalidNodeKey = errors.New("node key must not be zero")

	// ErrDuplicateNodeKey is returned by [Model.AddNode] when a node with the
	// same key already exists. Keys are unique per position.
	ErrDuplicateNodeKey = errors.New("duplicate node key")

	// ErrUnknownSourceNode is returned by [Model.AddEdge] when the From node
	// does not exist in the model.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Model.AddEdge] when the To node
	// does not exist in the model.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Node is one position in the hierarchy with its display snapshot.
//
// Paper holds the record as it looked when the node was created; later
// fetches do not rewrite existing nodes. Duplicate marks positions whose
// paper id had already appeared somewhere in the session when this node
// was created.
type Node struct {
	Key       NodeKey
	Depth     int // root = 0, children = parent depth + 1
	Paper     paper.Paper
	Duplicate bool
	Expanded  bool
}

// Edge is a directed parent→child connection between two node positions.
type Edge struct {
	From NodeKey
	To   NodeKey
}

// Model is the mutable node/edge set of the current exploration.
// Children keep insertion order, which is citation display order.
//
// The zero value is not usable; use NewModel.
type Model struct {
	nodes    map[NodeKey]*Node
	edges    []Edge
	children map[NodeKey][]NodeKey
	parent   map[NodeKey]NodeKey
	depths   map[int][]NodeKey // depth -> keys in insertion order
}

// NewModel creates an empty model.
func NewModel() *Model {
	m := &Model{}
	m.Reset()
	return m
}

// Reset clears all nodes, edges, and per-node state.
func (m *Model) Reset() {
	m.nodes = make(map[NodeKey]*Node)
	m.edges = nil
	m.children = make(map[NodeKey][]NodeKey)
	m.parent = make(map[NodeKey]NodeKey)
	m.depths = make(map[int][]NodeKey)
}

// AddNode inserts a node position. Returns ErrInvalidNodeKey for a zero key
// and ErrDuplicateNodeKey if the position already exists.
func (m *Model) AddNode(n Node) error {
	if n.Key.IsZero() {
		return ErrInvalidNodeKey
	}
	if _, exists := m.nodes[n.Key]; exists {
		return ErrDuplicateNodeKey
	}
	node := &n
	m.nodes[node.Key] = node
	m.depths[node.Depth] = append(m.depths[node.Depth], node.Key)
	return nil
}

// AddEdge connects two existing positions. Child order under a parent is
// the order edges were added.
func (m *Model) AddEdge(from, to NodeKey) error {
	if _, ok := m.nodes[from]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := m.nodes[to]; !ok {
		return ErrUnknownTargetNode
	}
	m.edges = append(m.edges, Edge{From: from, To: to})
	m.children[from] = append(m.children[from], to)
	m.parent[to] = from
	return nil
}

// RemoveNode deletes a position and every edge touching it. Removing a key
// that does not exist is a no-op. Descendants are not removed; the caller
// tears subtrees down child-first.
func (m *Model) RemoveNode(key NodeKey) {
	node, ok := m.nodes[key]
	if !ok {
		return
	}

	if p, ok := m.parent[key]; ok {
		m.children[p] = slices.DeleteFunc(m.children[p], func(k NodeKey) bool { return k == key })
		delete(m.parent, key)
	}
	for _, c := range m.children[key] {
		delete(m.parent, c)
	}
	delete(m.children, key)

	m.edges = slices.DeleteFunc(m.edges, func(e Edge) bool { return e.From == key || e.To == key })
	m.depths[node.Depth] = slices.DeleteFunc(m.depths[node.Depth], func(k NodeKey) bool { return k == key })
	if len(m.depths[node.Depth]) == 0 {
		delete(m.depths, node.Depth)
	}
	delete(m.nodes, key)
}

// Node returns the node at key, or nil and false if the position does not
// exist. The pointer refers to the live node, so field updates (expansion
// state) take effect in the model.
func (m *Model) Node(key NodeKey) (*Node, bool) {
	n, ok := m.nodes[key]
	return n, ok
}

// ChildrenOf returns the child keys of a position in insertion order.
// The returned slice is a read-only view.
func (m *Model) ChildrenOf(key NodeKey) []NodeKey { return m.children[key] }

// Edges returns a copy of all edges in insertion order.
func (m *Model) Edges() []Edge { return slices.Clone(m.edges) }

// NodeCount returns the number of node positions.
func (m *Model) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int { return len(m.edges) }

// Depths returns the occupied depth levels in ascending order.
func (m *Model) Depths() []int {
	return slices.Sorted(maps.Keys(m.depths))
}

// NodesAtDepth returns the keys at a depth level in insertion order.
// The returned slice is a read-only view.
func (m *Model) NodesAtDepth(depth int) []NodeKey { return m.depths[depth] }

// Root returns the single node at depth 0, or nil and false if the model
// is empty.
func (m *Model) Root() (*Node, bool) {
	keys := m.depths[0]
	if len(keys) == 0 {
		return nil, false
	}
	return m.nodes[keys[0]], true
}
