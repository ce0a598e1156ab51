package graph

import (
	"fmt"
	"maps"
	"slices"
)

// Kind is the shape of an attribute slot, fixed when the node is created.
type Kind int

const (
	KindLiteral Kind = iota // raw value
	KindRef                 // one shared reference, or none
	KindRefList             // ordered shared references
	KindRefMap              // named shared references
	KindOwned               // owned reference, immutable after Init
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindRef:
		return "ref"
	case KindRefList:
		return "ref-list"
	case KindRefMap:
		return "ref-map"
	case KindOwned:
		return "owned"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Attr declares one attribute slot and its default.
type Attr struct {
	kind  Kind
	value any
	child Node
}

// Attrs declares every attribute of a node type, keyed by name.
type Attrs map[string]Attr

// Literal declares a literal slot with default v.
func Literal(v any) Attr { return Attr{kind: KindLiteral, value: v} }

// Ref declares an empty single-reference slot.
func Ref() Attr { return Attr{kind: KindRef} }

// RefList declares an empty ordered reference slot.
func RefList() Attr { return Attr{kind: KindRefList} }

// RefMap declares an empty named reference slot.
func RefMap() Attr { return Attr{kind: KindRefMap} }

// Owned declares an immutable reference to child. The parent owns child:
// it cannot be reassigned and is disposed with the parent.
func Owned(child Node) Attr { return Attr{kind: KindOwned, child: child} }

// slot is the per-node storage for one attribute. Observers registered on
// links close over the slot, never over the node.
type slot struct {
	kind   Kind
	value  any
	link   *Link
	list   []*Link
	refMap map[string]*Link
	keys   []string // refMap insertion order
}

// slot returns the slot for key, panicking if key is undeclared or its kind
// is not one of kinds.
func (n *NodeBase) slot(key string, kinds ...Kind) *slot {
	s, ok := n.attrs[key]
	if !ok {
		panic(fmt.Sprintf("graph: undeclared attribute %q", key))
	}
	if !slices.Contains(kinds, s.kind) {
		panic(fmt.Sprintf("graph: attribute %q is %s, not %s", key, s.kind, kinds[0]))
	}
	return s
}

// Keys returns the declared attribute names, sorted.
func (n *NodeBase) Keys() []string {
	return slices.Sorted(maps.Keys(n.attrs))
}

// KindOf reports the kind of attribute key.
func (n *NodeBase) KindOf(key string) (Kind, bool) {
	s, ok := n.attrs[key]
	if !ok {
		return 0, false
	}
	return s.kind, true
}
