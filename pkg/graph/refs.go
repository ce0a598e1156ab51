package graph

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Get returns the literal value of key.
func (n *NodeBase) Get(key string) any {
	return n.slot(key, KindLiteral).value
}

// Set overwrites the literal value of key.
func (n *NodeBase) Set(key string, value any) {
	n.slot(key, KindLiteral).value = value
}

// ---------------------------------------------------------------------------
// Single references
// ---------------------------------------------------------------------------

// GetRef returns the node referenced by key, or nil.
func (n *NodeBase) GetRef(key string) Node {
	if l := n.GetRefLink(key); l != nil {
		return l.child
	}
	return nil
}

// GetRefLink returns the link behind key, or nil.
func (n *NodeBase) GetRefLink(key string) *Link {
	return n.slot(key, KindRef, KindOwned).link
}

// SetRef points key at child, replacing any previous reference. A nil child
// clears the slot. Owned attributes are rejected with ErrImmutable, and a
// child from another graph with ErrCrossGraph; in both cases the previous
// reference is left intact.
func (n *NodeBase) SetRef(key string, child Node, metadata Metadata) error {
	s := n.slot(key, KindRef, KindOwned)
	if s.kind == KindOwned {
		return fmt.Errorf("graph: set %q: %w", key, ErrImmutable)
	}

	next, err := n.graph.Link(key, n.this, child, metadata)
	if err != nil {
		return err
	}

	prev := s.link
	s.link = next
	if prev != nil {
		prev.Dispose()
	}
	if next != nil {
		next.OnDispose(DisposeFunc(func(l *Link) {
			if s.link == l {
				s.link = nil
			}
		}))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Reference lists
// ---------------------------------------------------------------------------

// ListRefs returns the nodes in list key, in insertion order.
func (n *NodeBase) ListRefs(key string) []Node {
	return lo.Map(n.slot(key, KindRefList).list, func(l *Link, _ int) Node {
		return l.child
	})
}

// ListRefLinks returns the links in list key, in insertion order.
func (n *NodeBase) ListRefLinks(key string) []*Link {
	return slices.Clone(n.slot(key, KindRefList).list)
}

// AddRef appends child to list key. The entry removes itself from the list,
// preserving the order of the rest, when its link is disposed.
func (n *NodeBase) AddRef(key string, child Node, metadata Metadata) error {
	s := n.slot(key, KindRefList)
	if isNil(child) {
		return fmt.Errorf("graph: add %q: %w", key, ErrNilNode)
	}

	l, err := n.graph.Link(key, n.this, child, metadata)
	if err != nil {
		return err
	}
	s.list = append(s.list, l)
	l.OnDispose(DisposeFunc(func(l *Link) {
		s.list = removeLink(s.list, l)
	}))
	return nil
}

// RemoveRef disposes every link in list key whose child is child.
func (n *NodeBase) RemoveRef(key string, child Node) {
	s := n.slot(key, KindRefList)
	for _, l := range slices.Clone(s.list) {
		if sameNode(l.child, child) {
			l.Dispose()
		}
	}
}

// ---------------------------------------------------------------------------
// Reference maps
// ---------------------------------------------------------------------------

// ListRefMapKeys returns the entry names of map key, in insertion order.
func (n *NodeBase) ListRefMapKeys(key string) []string {
	return slices.Clone(n.slot(key, KindRefMap).keys)
}

// ListRefMapValues returns the nodes of map key, ordered as its keys.
func (n *NodeBase) ListRefMapValues(key string) []Node {
	s := n.slot(key, KindRefMap)
	return lo.Map(s.keys, func(sub string, _ int) Node {
		return s.refMap[sub].child
	})
}

// GetRefMap returns the node stored under sub in map key, or nil.
func (n *NodeBase) GetRefMap(key, sub string) Node {
	if l := n.GetRefMapLink(key, sub); l != nil {
		return l.child
	}
	return nil
}

// GetRefMapLink returns the link stored under sub in map key, or nil.
func (n *NodeBase) GetRefMapLink(key, sub string) *Link {
	return n.slot(key, KindRefMap).refMap[sub]
}

// SetRefMap stores child under sub in map key, disposing any previous entry.
// A nil child deletes the entry. The entry deletes itself when its link is
// disposed.
func (n *NodeBase) SetRefMap(key, sub string, child Node, metadata Metadata) error {
	s := n.slot(key, KindRefMap)

	next, err := n.graph.Link(key, n.this, child, metadata)
	if err != nil {
		return err
	}

	if prev := s.refMap[sub]; prev != nil {
		prev.Dispose()
	}
	if next == nil {
		return nil
	}

	s.refMap[sub] = next
	s.keys = append(s.keys, sub)
	next.OnDispose(DisposeFunc(func(l *Link) {
		if s.refMap[sub] == l {
			delete(s.refMap, sub)
			s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == sub })
		}
	}))
	return nil
}
