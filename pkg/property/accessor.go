package property

import (
	"fmt"
	"math"

	"github.com/chazu/trellis/pkg/graph"
)

// AccessorType is the element shape of an accessor.
type AccessorType string

const (
	Scalar AccessorType = "SCALAR"
	Vec2   AccessorType = "VEC2"
	Vec3   AccessorType = "VEC3"
	Vec4   AccessorType = "VEC4"
)

// ElementSize returns the number of components per element, or 0 for an
// unknown type.
func (t AccessorType) ElementSize() int {
	switch t {
	case Scalar:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	default:
		return 0
	}
}

// Accessor is a typed view of vertex or index data. It holds either float
// data (Array) or index data (Indices), never both.
type Accessor struct {
	Property
}

func newAccessor(g *graph.Graph, name string) *Accessor {
	a := &Accessor{}
	a.init(g, a, name, graph.Attrs{
		"type":       graph.Literal(Scalar),
		"array":      graph.Literal([]float32(nil)),
		"indices":    graph.Literal([]uint32(nil)),
		"normalized": graph.Literal(false),
		"buffer":     graph.Ref(),
	})
	return a
}

func (a *Accessor) Type() AccessorType        { return a.Get("type").(AccessorType) }
func (a *Accessor) SetType(t AccessorType)    { a.Set("type", t) }
func (a *Accessor) Normalized() bool          { return a.Get("normalized").(bool) }
func (a *Accessor) SetNormalized(n bool)      { a.Set("normalized", n) }
func (a *Accessor) Array() []float32          { return a.Get("array").([]float32) }
func (a *Accessor) Indices() []uint32         { return a.Get("indices").([]uint32) }
func (a *Accessor) ElementSize() int          { return a.Type().ElementSize() }
func (a *Accessor) IsIndex() bool             { return a.Indices() != nil }
func (a *Accessor) Buffer() *Buffer           { return as[*Buffer](a.GetRef("buffer")) }
func (a *Accessor) SetBuffer(b *Buffer) error { return a.SetRef("buffer", b, nil) }

// SetArray stores float data and clears any index data.
func (a *Accessor) SetArray(data []float32) {
	a.Set("array", data)
	a.Set("indices", []uint32(nil))
}

// SetIndices stores index data, clears any float data, and sets the type to
// SCALAR.
func (a *Accessor) SetIndices(data []uint32) {
	a.Set("indices", data)
	a.Set("array", []float32(nil))
	a.SetType(Scalar)
}

// Count returns the number of elements.
func (a *Accessor) Count() int {
	if idx := a.Indices(); idx != nil {
		return len(idx)
	}
	size := a.ElementSize()
	if size == 0 {
		return 0
	}
	return len(a.Array()) / size
}

// Bounds returns the component-wise minimum and maximum of a VEC3
// accessor. ok is false for other types or empty data.
func (a *Accessor) Bounds() (low, high [3]float32, ok bool) {
	data := a.Array()
	if a.Type() != Vec3 || len(data) < 3 {
		return low, high, false
	}
	for i := range 3 {
		low[i] = float32(math.Inf(1))
		high[i] = float32(math.Inf(-1))
	}
	for i := 0; i+2 < len(data); i += 3 {
		for j := range 3 {
			low[j] = min(low[j], data[i+j])
			high[j] = max(high[j], data[i+j])
		}
	}
	return low, high, true
}

// Element returns element i as a slice of ElementSize components.
func (a *Accessor) Element(i int) ([]float32, error) {
	size := a.ElementSize()
	data := a.Array()
	if size == 0 || i < 0 || (i+1)*size > len(data) {
		return nil, fmt.Errorf("property: accessor %q: element %d out of range", a.Name(), i)
	}
	return data[i*size : (i+1)*size], nil
}
