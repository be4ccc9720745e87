package explorer

import "github.com/citegraph/citegraph/pkg/graph"

// Presenter is the presentation boundary. The session calls it after every
// state change; adapters (TUI, HTTP handlers, pipeline) read the model back
// through [Session.Snapshot] or [Session.Model].
//
// Calls happen on the goroutine driving the session operation, so
// implementations that hand off to an event loop must do their own
// dispatching.
type Presenter interface {
	// GraphChanged is called after any mutation of the graph model
	// (search reset, expand, collapse).
	GraphChanged()

	// NodeSelected is called when a node is clicked, with a copy of the
	// node as it was at click time. This is a display-info side effect,
	// not a graph mutation.
	NodeSelected(node graph.Node)

	// Error is called with a recoverable error to surface as a status
	// message. The graph is always left in its last consistent state.
	Error(err error)
}

// NoopPresenter discards all presentation events. Useful for tests and
// for headless runs that only read the final snapshot.
type NoopPresenter struct{}

func (NoopPresenter) GraphChanged()           {}
func (NoopPresenter) NodeSelected(graph.Node) {}
func (NoopPresenter) Error(error)             {}
