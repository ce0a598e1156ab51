package graph

import "maps"

// Metadata is an opaque per-edge bag, read by consumers that need context
// about one specific reference (e.g. which texture channels it samples).
type Metadata map[string]any

// DisposeObserver is notified once when a Link is disposed.
type DisposeObserver interface {
	LinkDisposed(l *Link)
}

// DisposeFunc adapts an ordinary function to a DisposeObserver.
type DisposeFunc func(l *Link)

// LinkDisposed calls f(l).
func (f DisposeFunc) LinkDisposed(l *Link) { f(l) }

// Link is a named, directed edge from a parent (the owner) to a child (the
// resource). Links are created only by Graph.Link. The child never holds a
// pointer back to the link; reverse lookups go through the Graph.
type Link struct {
	name     string
	parent   Node
	child    Node
	metadata Metadata
	seq      uint64 // creation order within the graph
	owned    bool
	disposed bool

	observers []DisposeObserver
}

// Name returns the attribute key this edge represents.
func (l *Link) Name() string { return l.name }

// Parent returns the owning endpoint.
func (l *Link) Parent() Node { return l.parent }

// Child returns the referenced endpoint.
func (l *Link) Child() Node { return l.child }

// Metadata returns the edge metadata, or nil.
func (l *Link) Metadata() Metadata { return l.metadata }

// SetMetadata replaces the edge metadata with a copy of m.
func (l *Link) SetMetadata(m Metadata) { l.metadata = maps.Clone(m) }

// IsDisposed reports whether Dispose has been called.
func (l *Link) IsDisposed() bool { return l.disposed }

// IsOwned reports whether the link is an owned reference established at
// parent construction.
func (l *Link) IsOwned() bool { return l.owned }

// OnDispose registers an observer. Observers fire in registration order.
// Registering on a disposed link does nothing.
func (l *Link) OnDispose(obs DisposeObserver) {
	if l.disposed || obs == nil {
		return
	}
	l.observers = append(l.observers, obs)
}

// Dispose marks the link disposed and notifies every observer exactly once.
// Subsequent calls are no-ops.
func (l *Link) Dispose() {
	if l.disposed {
		return
	}
	l.disposed = true

	observers := l.observers
	l.observers = nil
	for _, obs := range observers {
		obs.LinkDisposed(l)
	}
}
