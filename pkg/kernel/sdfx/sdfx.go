// Package sdfx implements kernel.Kernel on the github.com/deadsy/sdfx
// signed distance field library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/trellis/pkg/kernel"
)

var _ kernel.Kernel = (*Kernel)(nil)

// solid wraps an sdf.SDF3.
type solid struct {
	s sdf.SDF3
}

func (s *solid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Kernel implements kernel.Kernel using sdfx. The zero value is ready to
// use.
type Kernel struct{}

// New returns a new Kernel.
func New() *Kernel {
	return &Kernel{}
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*solid).s
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &solid{s: s}
}

func positive(op string, dims ...float64) error {
	for _, d := range dims {
		if d <= 0 || math.IsNaN(d) {
			return fmt.Errorf("sdfx: %s %v: %w", op, dims, kernel.ErrInvalidDimension)
		}
	}
	return nil
}

// Box creates a box of the given size centred on the origin.
func (k *Kernel) Box(x, y, z float64) (kernel.Solid, error) {
	if err := positive("box", x, y, z); err != nil {
		return nil, err
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	return wrap(s), nil
}

// Cylinder creates a cylinder along Z centred on the origin.
func (k *Kernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if err := positive("cylinder", height, radius); err != nil {
		return nil, err
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	return wrap(s), nil
}

// Sphere creates a sphere centred on the origin.
func (k *Kernel) Sphere(radius float64) (kernel.Solid, error) {
	if err := positive("sphere", radius); err != nil {
		return nil, err
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: sphere: %w", err)
	}
	return wrap(s), nil
}

func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles in degrees, applied X, then Y,
// then Z.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.RotateZ(radians(z)).Mul(sdf.RotateY(radians(y))).Mul(sdf.RotateX(radians(x)))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// ToMesh tessellates s with uniform marching cubes and welds the resulting
// triangle soup into an indexed mesh with flat face normals. cells <= 0
// selects kernel.DefaultCells.
func (k *Kernel) ToMesh(s kernel.Solid, cells int) (*kernel.Mesh, error) {
	if cells <= 0 {
		cells = kernel.DefaultCells
	}
	triangles := render.ToTriangles(unwrap(s), render.NewMarchingCubesUniform(cells))

	positions := make([]float32, 0, len(triangles)*9)
	normals := make([]float32, 0, len(triangles)*9)
	for _, tri := range triangles {
		n := tri.Normal()
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.Z) {
			continue // degenerate
		}
		for j := range 3 {
			v := tri[j]
			positions = append(positions, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
	}
	return kernel.Weld(positions, normals), nil
}
