package property

import "github.com/chazu/trellis/pkg/graph"

// Node places a mesh in the scene hierarchy.
type Node struct {
	Property
}

func newNode(g *graph.Graph, name string) *Node {
	n := &Node{}
	n.init(g, n, name, graph.Attrs{
		"translation": graph.Literal([3]float64{0, 0, 0}),
		"rotation":    graph.Literal([4]float64{0, 0, 0, 1}),
		"scale":       graph.Literal([3]float64{1, 1, 1}),
		"mesh":        graph.Ref(),
		"children":    graph.RefList(),
	})
	return n
}

// Translation returns the local translation.
func (n *Node) Translation() [3]float64     { return n.Get("translation").([3]float64) }
func (n *Node) SetTranslation(t [3]float64) { n.Set("translation", t) }

// Scale returns the local scale.
func (n *Node) Scale() [3]float64     { return n.Get("scale").([3]float64) }
func (n *Node) SetScale(s [3]float64) { n.Set("scale", s) }

// Mesh returns the instanced mesh, or nil.
func (n *Node) Mesh() *Mesh           { return as[*Mesh](n.GetRef("mesh")) }
func (n *Node) SetMesh(m *Mesh) error { return n.SetRef("mesh", m, nil) }

// Children returns the child nodes in insertion order.
func (n *Node) Children() []*Node   { return listAs[*Node](n.ListRefs("children")) }
func (n *Node) RemoveChild(c *Node) { n.RemoveRef("children", c) }

// Rotation returns the rotation quaternion (x, y, z, w). It need not be
// unit length; consumers normalize it.
func (n *Node) Rotation() [4]float64 { return n.Get("rotation").([4]float64) }

func (n *Node) SetRotation(q [4]float64) { n.Set("rotation", q) }

// AddChild appends c to the node's children. A node may appear under more
// than one parent; writers that need a strict tree must check.
func (n *Node) AddChild(c *Node) error { return n.AddRef("children", c, nil) }

// Scene is a set of root nodes.
type Scene struct {
	Property
}

func newScene(g *graph.Graph, name string) *Scene {
	s := &Scene{}
	s.init(g, s, name, graph.Attrs{"children": graph.RefList()})
	return s
}

func (s *Scene) Children() []*Node      { return listAs[*Node](s.ListRefs("children")) }
func (s *Scene) AddChild(n *Node) error { return s.AddRef("children", n, nil) }
func (s *Scene) RemoveChild(n *Node)    { s.RemoveRef("children", n) }

// Traverse visits every node reachable from the scene, depth first, each at
// most once.
func (s *Scene) Traverse(fn func(*Node)) {
	seen := make(map[*Node]bool)
	var walk func(*Node)
	walk = func(n *Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		fn(n)
		for _, c := range n.Children() {
			walk(c)
		}
	}
	for _, n := range s.Children() {
		walk(n)
	}
}
