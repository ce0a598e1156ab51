package property

import (
	"github.com/samber/lo"

	"github.com/chazu/trellis/pkg/graph"
)

// Property holds the attributes every document entity shares: a name and
// free-form extras.
type Property struct {
	graph.NodeBase
}

// Named is satisfied by every property type.
type Named interface {
	graph.Node
	Name() string
}

func (p *Property) init(g *graph.Graph, this graph.Node, name string, attrs graph.Attrs) {
	if attrs == nil {
		attrs = graph.Attrs{}
	}
	attrs["name"] = graph.Literal(name)
	attrs["extras"] = graph.Literal(map[string]any(nil))
	p.Init(g, this, attrs)
}

// Name returns the property name. Names are informational and need not be
// unique.
func (p *Property) Name() string { return p.Get("name").(string) }

// SetName renames the property.
func (p *Property) SetName(name string) { p.Set("name", name) }

// Extras returns application-specific data attached to the property.
func (p *Property) Extras() map[string]any { return p.Get("extras").(map[string]any) }

// SetExtras replaces the extras map.
func (p *Property) SetExtras(extras map[string]any) { p.Set("extras", extras) }

// as narrows n to T, returning the zero T for nil or another type.
func as[T graph.Node](n graph.Node) T {
	t, _ := n.(T)
	return t
}

func listAs[T graph.Node](nodes []graph.Node) []T {
	return lo.FilterMap(nodes, func(n graph.Node, _ int) (T, bool) {
		t, ok := n.(T)
		return t, ok
	})
}
