package graph

import (
	"encoding/json"

	"github.com/citegraph/citegraph/pkg/paper"
)

// Snapshot is the canonical serialization format for a graph state.
// Used for API responses and cache storage. Node order is deterministic:
// by depth ascending, insertion order within a depth.
type Snapshot struct {
	Nodes []NodeSnapshot `json:"nodes" bson:"nodes"`
	Edges []EdgeSnapshot `json:"edges" bson:"edges"`
}

// NodeSnapshot is one node position in serialized form. Key is the short
// hex form of the node key; PaperID is the canonical paper id.
type NodeSnapshot struct {
	Key       string      `json:"key" bson:"key"`
	PaperID   string      `json:"paperId" bson:"paper_id"`
	Depth     int         `json:"depth" bson:"depth"`
	Paper     paper.Paper `json:"paper" bson:"paper"`
	Duplicate bool        `json:"duplicate,omitempty" bson:"duplicate,omitempty"`
	Expanded  bool        `json:"expanded,omitempty" bson:"expanded,omitempty"`
}

// EdgeSnapshot is a directed parent→child edge in serialized form, using
// the short hex node keys.
type EdgeSnapshot struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// FromModel converts the live model to its serialization format.
func FromModel(m *Model) Snapshot {
	out := Snapshot{Nodes: []NodeSnapshot{}, Edges: []EdgeSnapshot{}}

	for _, depth := range m.Depths() {
		for _, key := range m.NodesAtDepth(depth) {
			n, ok := m.Node(key)
			if !ok {
				continue
			}
			out.Nodes = append(out.Nodes, NodeSnapshot{
				Key:       n.Key.String(),
				PaperID:   n.Key.PaperID(),
				Depth:     n.Depth,
				Paper:     n.Paper,
				Duplicate: n.Duplicate,
				Expanded:  n.Expanded,
			})
		}
	}

	for _, e := range m.Edges() {
		out.Edges = append(out.Edges, EdgeSnapshot{From: e.From.String(), To: e.To.String()})
	}

	return out
}

// UnmarshalSnapshot deserializes JSON bytes to a Snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
