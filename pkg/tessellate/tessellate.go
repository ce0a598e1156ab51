// Package tessellate moves geometry between the solid kernel and documents:
// Mesh writes a kernel mesh into a document as buffers, accessors, and a
// primitive; Flatten walks a scene and bakes its node transforms back into
// a single kernel mesh.
package tessellate

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/trellis/pkg/kernel"
	"github.com/chazu/trellis/pkg/property"
)

// ErrEmptyMesh is returned when there is no geometry to write.
var ErrEmptyMesh = errors.New("tessellate: mesh is empty")

// Mesh adds m to doc as a Mesh named name with a single triangle Primitive.
// Vertex data goes to the document's first Buffer, which is created if the
// document has none. mat may be nil.
func Mesh(doc *property.Document, name string, m *kernel.Mesh, mat *property.Material) (*property.Mesh, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("tessellate: mesh %q: %w", name, ErrEmptyMesh)
	}

	buf := firstBuffer(doc)

	pos := doc.CreateAccessor(name + "-position")
	pos.SetType(property.Vec3)
	pos.SetArray(m.Positions)

	nrm := doc.CreateAccessor(name + "-normal")
	nrm.SetType(property.Vec3)
	nrm.SetArray(m.Normals)

	idx := doc.CreateAccessor(name + "-indices")
	idx.SetIndices(m.Indices)

	prim := doc.CreatePrimitive()
	mesh := doc.CreateMesh(name)
	steps := []func() error{
		func() error { return pos.SetBuffer(buf) },
		func() error { return nrm.SetBuffer(buf) },
		func() error { return idx.SetBuffer(buf) },
		func() error { return prim.SetAttribute(property.SemanticPosition, pos) },
		func() error { return prim.SetAttribute(property.SemanticNormal, nrm) },
		func() error { return prim.SetIndices(idx) },
		func() error { return prim.SetMaterial(mat) },
		func() error { return mesh.AddPrimitive(prim) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			for _, p := range []interface{ Dispose() }{mesh, prim, pos, nrm, idx} {
				p.Dispose()
			}
			return nil, fmt.Errorf("tessellate: mesh %q: %w", name, err)
		}
	}
	return mesh, nil
}

// Solid tessellates s with k and adds the result to doc via Mesh.
func Solid(doc *property.Document, k kernel.Kernel, name string, s kernel.Solid, cells int, mat *property.Material) (*property.Mesh, error) {
	km, err := k.ToMesh(s, cells)
	if err != nil {
		return nil, fmt.Errorf("tessellate: solid %q: %w", name, err)
	}
	return Mesh(doc, name, km, mat)
}

func firstBuffer(doc *property.Document) *property.Buffer {
	if bufs := doc.Root().ListBuffers(); len(bufs) > 0 {
		return bufs[0]
	}
	return doc.CreateBuffer("buffer")
}

// Flatten walks scene depth first and returns one mesh holding the
// triangles of every node's mesh, with node transforms applied. A node
// reachable through several parents is baked once per path. Normals are
// not carried over.
func Flatten(scene *property.Scene) (*kernel.Mesh, error) {
	out := &kernel.Mesh{}
	ts := newTransformStack()
	for _, n := range scene.Children() {
		if err := walkNode(n, ts, out, map[*property.Node]bool{}); err != nil {
			return nil, fmt.Errorf("tessellate: flatten scene %q: %w", scene.Name(), err)
		}
	}
	return out, nil
}

// transformStack accumulates node transforms during traversal.
type transformStack struct {
	matrices []sdf.M44
}

func newTransformStack() *transformStack {
	return &transformStack{matrices: []sdf.M44{sdf.Identity3d()}}
}

func (ts *transformStack) push(n *property.Node) {
	ts.matrices = append(ts.matrices, ts.top().Mul(localMatrix(n)))
}

func (ts *transformStack) pop() {
	ts.matrices = ts.matrices[:len(ts.matrices)-1]
}

func (ts *transformStack) top() sdf.M44 {
	return ts.matrices[len(ts.matrices)-1]
}

// localMatrix composes translation, rotation, and scale as T * R * S.
func localMatrix(n *property.Node) sdf.M44 {
	t, q, s := n.Translation(), n.Rotation(), n.Scale()
	m := sdf.Translate3d(v3.Vec{X: t[0], Y: t[1], Z: t[2]})
	if axis, angle, ok := axisAngle(q); ok {
		m = m.Mul(sdf.Rotate3d(axis, angle))
	}
	return m.Mul(sdf.Scale3d(v3.Vec{X: s[0], Y: s[1], Z: s[2]}))
}

// axisAngle converts a quaternion (x, y, z, w) to axis-angle form after
// normalizing it. ok is false for the identity and the zero quaternion.
func axisAngle(q [4]float64) (v3.Vec, float64, bool) {
	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n < 1e-12 {
		return v3.Vec{}, 0, false
	}
	for i := range q {
		q[i] /= n
	}
	w := math.Max(-1, math.Min(1, q[3]))
	angle := 2 * math.Acos(w)
	s := math.Sqrt(1 - w*w)
	if s < 1e-9 {
		return v3.Vec{}, 0, false
	}
	return v3.Vec{X: q[0] / s, Y: q[1] / s, Z: q[2] / s}, angle, true
}

// walkNode bakes n and its descendants into out. path guards against
// cycles in the node hierarchy.
func walkNode(n *property.Node, ts *transformStack, out *kernel.Mesh, path map[*property.Node]bool) error {
	if path[n] {
		return fmt.Errorf("node %q is its own ancestor", n.Name())
	}
	path[n] = true
	defer delete(path, n)

	ts.push(n)
	defer ts.pop()

	if m := n.Mesh(); m != nil {
		for i, prim := range m.ListPrimitives() {
			if err := appendPrimitive(out, prim, ts.top()); err != nil {
				return fmt.Errorf("node %q: mesh %q primitive %d: %w", n.Name(), m.Name(), i, err)
			}
		}
	}
	for _, c := range n.Children() {
		if err := walkNode(c, ts, out, path); err != nil {
			return err
		}
	}
	return nil
}

func appendPrimitive(out *kernel.Mesh, prim *property.Primitive, world sdf.M44) error {
	if prim.Mode() != property.ModeTriangles {
		return nil
	}
	pos := prim.Attribute(property.SemanticPosition)
	if pos == nil || pos.Type() != property.Vec3 {
		return errors.New("no VEC3 POSITION attribute")
	}
	base := uint32(out.VertexCount())
	count := pos.Count()
	data := pos.Array()
	for i := range count {
		p := world.MulPosition(v3.Vec{X: float64(data[i*3]), Y: float64(data[i*3+1]), Z: float64(data[i*3+2])})
		out.Positions = append(out.Positions, float32(p.X), float32(p.Y), float32(p.Z))
	}

	if idx := prim.Indices(); idx != nil {
		for _, v := range idx.Indices() {
			if int(v) >= count {
				return fmt.Errorf("index %d out of range for %d vertices", v, count)
			}
			out.Indices = append(out.Indices, base+v)
		}
		return nil
	}
	for i := range count / 3 * 3 {
		out.Indices = append(out.Indices, base+uint32(i))
	}
	return nil
}
