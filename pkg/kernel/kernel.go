// Package kernel defines the solid modelling interface used to produce
// mesh geometry for documents. The sdfx subpackage implements it; other
// backends can be swapped in without touching the document layer.
package kernel

import "errors"

// ErrInvalidDimension is returned for non-positive sizes and radii.
var ErrInvalidDimension = errors.New("kernel: dimension must be positive")

// DefaultCells is the marching cubes resolution used when a caller passes
// zero cells to ToMesh.
const DefaultCells = 200

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds solids and converts them to meshes. Primitives are centred
// on the origin.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToMesh tessellates s on a grid of cells along its longest axis.
	ToMesh(s Solid, cells int) (*Mesh, error)
}
