package graph

import (
	"errors"
	"testing"

	"github.com/citegraph/citegraph/pkg/paper"
)

func mustAdd(t *testing.T, m *Model, key NodeKey, depth int) {
	t.Helper()
	err := m.AddNode(Node{
		Key:   key,
		Depth: depth,
		Paper: paper.Paper{ID: key.PaperID(), Title: "Paper " + key.PaperID()},
	})
	if err != nil {
		t.Fatalf("AddNode(%s): %v", key.PaperID(), err)
	}
}

func mustEdge(t *testing.T, m *Model, from, to NodeKey) {
	t.Helper()
	if err := m.AddEdge(from, to); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
}

func TestAddNodeValidation(t *testing.T) {
	m := NewModel()

	if err := m.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeKey) {
		t.Errorf("zero key err = %v, want ErrInvalidNodeKey", err)
	}

	root := RootKey("W1")
	mustAdd(t, m, root, 0)
	if err := m.AddNode(Node{Key: root}); !errors.Is(err, ErrDuplicateNodeKey) {
		t.Errorf("duplicate key err = %v, want ErrDuplicateNodeKey", err)
	}
}

func TestAddEdgeValidation(t *testing.T) {
	m := NewModel()
	root := RootKey("W1")
	child := ChildKey(root, "W2")
	mustAdd(t, m, root, 0)

	if err := m.AddEdge(child, root); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("missing source err = %v, want ErrUnknownSourceNode", err)
	}
	if err := m.AddEdge(root, child); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("missing target err = %v, want ErrUnknownTargetNode", err)
	}
}

func TestChildrenKeepInsertionOrder(t *testing.T) {
	m := NewModel()
	root := RootKey("W1")
	mustAdd(t, m, root, 0)

	ids := []string{"W5", "W2", "W9", "W3"}
	for _, id := range ids {
		k := ChildKey(root, id)
		mustAdd(t, m, k, 1)
		mustEdge(t, m, root, k)
	}

	children := m.ChildrenOf(root)
	if len(children) != len(ids) {
		t.Fatalf("got %d children, want %d", len(children), len(ids))
	}
	for i, k := range children {
		if k.PaperID() != ids[i] {
			t.Errorf("child %d = %s, want %s", i, k.PaperID(), ids[i])
		}
	}
}

func TestRemoveNodeDetachesEdges(t *testing.T) {
	m := NewModel()
	root := RootKey("W1")
	a := ChildKey(root, "W2")
	b := ChildKey(root, "W3")
	mustAdd(t, m, root, 0)
	mustAdd(t, m, a, 1)
	mustAdd(t, m, b, 1)
	mustEdge(t, m, root, a)
	mustEdge(t, m, root, b)

	m.RemoveNode(a)

	if _, ok := m.Node(a); ok {
		t.Error("removed node still present")
	}
	if got := m.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount = %d, want 1", got)
	}
	children := m.ChildrenOf(root)
	if len(children) != 1 || children[0] != b {
		t.Errorf("ChildrenOf(root) = %v, want only the remaining sibling", children)
	}

	// Removing again is a no-op.
	m.RemoveNode(a)
	if got := m.NodeCount(); got != 2 {
		t.Errorf("NodeCount = %d, want 2", got)
	}
}

func TestDepthIndex(t *testing.T) {
	m := NewModel()
	root := RootKey("W1")
	a := ChildKey(root, "W2")
	aa := ChildKey(a, "W3")
	mustAdd(t, m, root, 0)
	mustAdd(t, m, a, 1)
	mustAdd(t, m, aa, 2)

	depths := m.Depths()
	if len(depths) != 3 || depths[0] != 0 || depths[2] != 2 {
		t.Errorf("Depths = %v, want [0 1 2]", depths)
	}

	m.RemoveNode(aa)
	depths = m.Depths()
	if len(depths) != 2 {
		t.Errorf("Depths after removal = %v, want [0 1]", depths)
	}

	if r, ok := m.Root(); !ok || r.Key != root {
		t.Error("Root should return the depth-0 node")
	}
}

func TestResetClearsEverything(t *testing.T) {
	m := NewModel()
	root := RootKey("W1")
	a := ChildKey(root, "W2")
	mustAdd(t, m, root, 0)
	mustAdd(t, m, a, 1)
	mustEdge(t, m, root, a)

	m.Reset()

	if m.NodeCount() != 0 || m.EdgeCount() != 0 || len(m.Depths()) != 0 {
		t.Error("Reset must clear nodes, edges, and depth index")
	}
	if _, ok := m.Root(); ok {
		t.Error("Root must report empty after Reset")
	}
}

func TestSnapshotOrderAndFields(t *testing.T) {
	m := NewModel()
	root := RootKey("W1")
	a := ChildKey(root, "W2")
	b := ChildKey(root, "W3")
	mustAdd(t, m, root, 0)
	mustAdd(t, m, a, 1)
	mustAdd(t, m, b, 1)
	mustEdge(t, m, root, a)
	mustEdge(t, m, root, b)

	if n, ok := m.Node(b); ok {
		n.Duplicate = true
	}
	if n, ok := m.Node(root); ok {
		n.Expanded = true
	}

	s := FromModel(m)
	if len(s.Nodes) != 3 || len(s.Edges) != 2 {
		t.Fatalf("snapshot has %d nodes / %d edges, want 3 / 2", len(s.Nodes), len(s.Edges))
	}
	if s.Nodes[0].PaperID != "W1" || s.Nodes[0].Depth != 0 || !s.Nodes[0].Expanded {
		t.Errorf("root snapshot wrong: %+v", s.Nodes[0])
	}
	if s.Nodes[1].PaperID != "W2" || s.Nodes[2].PaperID != "W3" {
		t.Error("depth-1 nodes must keep insertion order")
	}
	if !s.Nodes[2].Duplicate {
		t.Error("duplicate flag must survive serialization")
	}
	if s.Edges[0].From != root.String() || s.Edges[0].To != a.String() {
		t.Errorf("edge snapshot wrong: %+v", s.Edges[0])
	}
}
