package property

import "github.com/chazu/trellis/pkg/graph"

// Mode is the topology of a primitive.
type Mode int

const (
	ModePoints        Mode = 0
	ModeLines         Mode = 1
	ModeLineLoop      Mode = 2
	ModeLineStrip     Mode = 3
	ModeTriangles     Mode = 4
	ModeTriangleStrip Mode = 5
	ModeTriangleFan   Mode = 6
)

// Common vertex attribute semantics.
const (
	SemanticPosition = "POSITION"
	SemanticNormal   = "NORMAL"
	SemanticTexCoord = "TEXCOORD_0"
)

// Primitive is one draw call: vertex attributes keyed by semantic, optional
// indices, and a material.
type Primitive struct {
	Property
}

func newPrimitive(g *graph.Graph) *Primitive {
	p := &Primitive{}
	p.init(g, p, "", graph.Attrs{
		"attributes": graph.RefMap(),
		"indices":    graph.Ref(),
		"material":   graph.Ref(),
		"mode":       graph.Literal(ModeTriangles),
	})
	return p
}

func (p *Primitive) Mode() Mode                    { return p.Get("mode").(Mode) }
func (p *Primitive) SetMode(m Mode)                { p.Set("mode", m) }
func (p *Primitive) Indices() *Accessor            { return as[*Accessor](p.GetRef("indices")) }
func (p *Primitive) SetIndices(a *Accessor) error  { return p.SetRef("indices", a, nil) }
func (p *Primitive) Material() *Material           { return as[*Material](p.GetRef("material")) }
func (p *Primitive) SetMaterial(m *Material) error { return p.SetRef("material", m, nil) }
func (p *Primitive) ListSemantics() []string       { return p.ListRefMapKeys("attributes") }
func (p *Primitive) ListAttributes() []*Accessor   { return listAs[*Accessor](p.ListRefMapValues("attributes")) }
func (p *Primitive) Attribute(semantic string) *Accessor {
	return as[*Accessor](p.GetRefMap("attributes", semantic))
}

// SetAttribute binds an accessor to a semantic; nil removes the entry.
func (p *Primitive) SetAttribute(semantic string, a *Accessor) error {
	return p.SetRefMap("attributes", semantic, a, nil)
}

// Mesh is a list of primitives drawn together.
type Mesh struct {
	Property
}

func newMesh(g *graph.Graph, name string) *Mesh {
	m := &Mesh{}
	m.init(g, m, name, graph.Attrs{
		"primitives": graph.RefList(),
		"weights":    graph.Literal([]float64(nil)),
	})
	return m
}

func (m *Mesh) ListPrimitives() []*Primitive    { return listAs[*Primitive](m.ListRefs("primitives")) }
func (m *Mesh) AddPrimitive(p *Primitive) error { return m.AddRef("primitives", p, nil) }
func (m *Mesh) RemovePrimitive(p *Primitive)    { m.RemoveRef("primitives", p) }
func (m *Mesh) Weights() []float64              { return m.Get("weights").([]float64) }
func (m *Mesh) SetWeights(w []float64)          { m.Set("weights", w) }
