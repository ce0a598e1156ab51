package graph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
)

// Graph is the registry of every live Link in one document. It lives
// exactly as long as its document and is never shared between documents.
//
// Links are indexed by node identity in both directions so that parent and
// child queries cost O(degree) rather than O(edges). The indices are updated
// synchronously on creation, disposal, and swap.
type Graph struct {
	seq      uint64
	links    map[*Link]struct{}
	inbound  map[*NodeBase][]*Link // keyed by child
	outbound map[*NodeBase][]*Link // keyed by parent
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		links:    make(map[*Link]struct{}),
		inbound:  make(map[*NodeBase][]*Link),
		outbound: make(map[*NodeBase][]*Link),
	}
}

// Link creates and registers an edge named name from parent to child.
// A nil child is not an error: Link returns (nil, nil) so that setters can
// clear a reference without special-casing. Both endpoints must belong to g;
// otherwise nothing is registered and the error wraps ErrCrossGraph.
func (g *Graph) Link(name string, parent, child Node, metadata Metadata) (*Link, error) {
	if isNil(child) {
		return nil, nil
	}
	if isNil(parent) {
		return nil, fmt.Errorf("graph: link %q: parent: %w", name, ErrNilNode)
	}
	pb, cb := parent.base(), child.base()
	if pb.graph != g || cb.graph != g {
		return nil, fmt.Errorf("graph: link %q: %w", name, ErrCrossGraph)
	}

	g.seq++
	l := &Link{
		name:     name,
		parent:   parent,
		child:    child,
		metadata: maps.Clone(metadata),
		seq:      g.seq,
	}
	g.links[l] = struct{}{}
	g.outbound[pb] = append(g.outbound[pb], l)
	g.inbound[cb] = append(g.inbound[cb], l)
	l.OnDispose(DisposeFunc(g.unregister))
	return l, nil
}

// unregister is the only path by which a link leaves the registry.
func (g *Graph) unregister(l *Link) {
	delete(g.links, l)
	pb, cb := l.parent.base(), l.child.base()
	g.outbound[pb] = removeLink(g.outbound[pb], l)
	if len(g.outbound[pb]) == 0 {
		delete(g.outbound, pb)
	}
	g.inbound[cb] = removeLink(g.inbound[cb], l)
	if len(g.inbound[cb]) == 0 {
		delete(g.inbound, cb)
	}
}

// Links returns every live link in creation order.
func (g *Graph) Links() []*Link {
	links := slices.Collect(maps.Keys(g.links))
	slices.SortFunc(links, func(a, b *Link) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return links
}

// LinkCount returns the number of live links.
func (g *Graph) LinkCount() int {
	return len(g.links)
}

// ListParentLinks returns the links whose child is n, oldest first.
func (g *Graph) ListParentLinks(n Node) []*Link {
	if isNil(n) {
		return nil
	}
	return slices.Clone(g.inbound[n.base()])
}

// ListChildLinks returns the links whose parent is n, oldest first.
func (g *Graph) ListChildLinks(n Node) []*Link {
	if isNil(n) {
		return nil
	}
	return slices.Clone(g.outbound[n.base()])
}

// ListParents returns the distinct nodes that reference n.
func (g *Graph) ListParents(n Node) []Node {
	return lo.Uniq(lo.Map(g.ListParentLinks(n), func(l *Link, _ int) Node {
		return l.parent
	}))
}

// ListChildren returns the distinct nodes referenced by n.
func (g *Graph) ListChildren(n Node) []Node {
	return lo.Uniq(lo.Map(g.ListChildLinks(n), func(l *Link, _ int) Node {
		return l.child
	}))
}

// DisconnectChildren disposes every link whose parent is n.
func (g *Graph) DisconnectChildren(n Node) {
	for _, l := range g.ListChildLinks(n) {
		l.Dispose()
	}
}

// DisconnectParents disposes every link whose child is n. When filter is
// non-nil only links whose parent satisfies it are disposed.
func (g *Graph) DisconnectParents(n Node, filter func(parent Node) bool) {
	for _, l := range g.ListParentLinks(n) {
		if filter == nil || filter(l.parent) {
			l.Dispose()
		}
	}
}

// SwapChild retargets, in place, every link from parent to old so that it
// points at replacement. The links keep their identity, metadata, and
// observers. Links from other parents to old are untouched, and owned links
// are never retargeted. If no link matches, SwapChild does nothing.
func (g *Graph) SwapChild(parent, old, replacement Node) error {
	if isNil(replacement) {
		return fmt.Errorf("graph: swap: replacement: %w", ErrNilNode)
	}
	if isNil(parent) || isNil(old) {
		return nil
	}
	rb := replacement.base()
	if rb.graph != g {
		return fmt.Errorf("graph: swap: %w", ErrCrossGraph)
	}
	ob := old.base()
	if ob == rb {
		return nil
	}

	for _, l := range g.ListChildLinks(parent) {
		if l.owned || l.child.base() != ob {
			continue
		}
		g.inbound[ob] = removeLink(g.inbound[ob], l)
		if len(g.inbound[ob]) == 0 {
			delete(g.inbound, ob)
		}
		l.child = replacement
		g.inbound[rb] = append(g.inbound[rb], l)
	}
	return nil
}

func removeLink(links []*Link, l *Link) []*Link {
	i := slices.Index(links, l)
	if i < 0 {
		return links
	}
	return slices.Delete(links, i, i+1)
}
