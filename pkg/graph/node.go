package graph

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Node is implemented by every entity stored in a Graph. Concrete types
// satisfy it by embedding NodeBase and calling NodeBase.Init from their
// constructor.
type Node interface {
	Graph() *Graph
	IsDisposed() bool
	Dispose()
	Detach()

	base() *NodeBase // restricts implementations to NodeBase embedders
}

// NodeBase holds the identity, lifecycle flag, and attribute slots of a
// graph node. It must be embedded, never copied after Init.
type NodeBase struct {
	graph     *Graph
	this      Node
	attrs     map[string]*slot
	disposed  bool
	disposing bool
}

func (n *NodeBase) base() *NodeBase { return n }

// Init binds the node to g and declares its attributes. this must be the
// value embedding n, so that links carry the concrete type. Owned defaults
// are linked here, in sorted key order, and disposed along with n.
//
// Init panics on a nil graph, a mismatched this, or an owned default that
// belongs to another graph: these are construction bugs, not runtime
// conditions.
func (n *NodeBase) Init(g *Graph, this Node, attrs Attrs) {
	if g == nil {
		panic("graph: Init with nil graph")
	}
	if isNil(this) || this.base() != n {
		panic("graph: Init: this must embed the initialised NodeBase")
	}
	n.graph = g
	n.this = this
	n.attrs = make(map[string]*slot, len(attrs))

	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		a := attrs[key]
		s := &slot{kind: a.kind}
		n.attrs[key] = s

		switch a.kind {
		case KindLiteral:
			s.value = a.value
		case KindRefMap:
			s.refMap = make(map[string]*Link)
		case KindOwned:
			n.initOwned(key, s, a.child)
		}
	}
}

func (n *NodeBase) initOwned(key string, s *slot, child Node) {
	if isNil(child) {
		panic(fmt.Sprintf("graph: owned attribute %q has no default", key))
	}
	l, err := n.graph.Link(key, n.this, child, nil)
	if err != nil {
		panic(err.Error())
	}
	l.owned = true
	s.link = l
	l.OnDispose(DisposeFunc(func(l *Link) {
		if s.link == l {
			s.link = nil
		}
		l.child.Dispose()
	}))
}

// Graph returns the graph the node was created in.
func (n *NodeBase) Graph() *Graph { return n.graph }

// IsDisposed reports whether Dispose has completed.
func (n *NodeBase) IsDisposed() bool { return n.disposed }

// CanLink reports whether n and other belong to the same graph, which is the
// only precondition for an edge between them.
func (n *NodeBase) CanLink(other Node) bool {
	return !isNil(other) && other.base().graph == n.graph
}

// Dispose severs every link touching the node, outbound first, then marks it
// disposed. Observers fired during the cascade still see IsDisposed() ==
// false. A disposed node must not be reused.
func (n *NodeBase) Dispose() {
	if n.disposed || n.disposing {
		return
	}
	n.disposing = true
	n.graph.DisconnectChildren(n.this)
	n.graph.DisconnectParents(n.this, nil)
	n.disposing = false
	n.disposed = true
}

// Detach removes every inbound link, leaving the node's own references
// intact so it can be referenced again later.
func (n *NodeBase) Detach() {
	n.graph.DisconnectParents(n.this, nil)
}

// Swap retargets n's references to old so they point at replacement.
func (n *NodeBase) Swap(old, replacement Node) error {
	return n.graph.SwapChild(n.this, old, replacement)
}

// ListParents returns the distinct nodes that currently reference n.
func (n *NodeBase) ListParents() []Node {
	return n.graph.ListParents(n.this)
}

// ListChildren returns the distinct nodes n currently references.
func (n *NodeBase) ListChildren() []Node {
	return n.graph.ListChildren(n.this)
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func sameNode(a, b Node) bool {
	if isNil(a) || isNil(b) {
		return false
	}
	return a.base() == b.base()
}
