package kernel

import "math"

// Mesh is an indexed triangle mesh. Arrays are flat: Positions and Normals
// hold 3 floats per vertex, Indices 3 entries per triangle.
type Mesh struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// Bounds returns the component-wise extent of Positions. ok is false for an
// empty mesh.
func (m *Mesh) Bounds() (min, max [3]float32, ok bool) {
	if len(m.Positions) < 3 {
		return min, max, false
	}
	for i := range 3 {
		min[i] = float32(math.Inf(1))
		max[i] = float32(math.Inf(-1))
	}
	for i := 0; i+2 < len(m.Positions); i += 3 {
		for j := range 3 {
			v := m.Positions[i+j]
			if v < min[j] {
				min[j] = v
			}
			if v > max[j] {
				max[j] = v
			}
		}
	}
	return min, max, true
}

type vertex struct {
	p, n [3]float32
}

// Weld builds an indexed mesh from unindexed triangle soup, merging
// vertices that share both position and normal. Each triangle contributes
// three consecutive vertices to positions and normals.
func Weld(positions, normals []float32) *Mesh {
	n := min(len(positions), len(normals)) / 9 * 9
	m := &Mesh{Indices: make([]uint32, 0, n/3)}
	index := make(map[vertex]uint32, n/6)
	for i := 0; i < n; i += 3 {
		v := vertex{
			p: [3]float32{positions[i], positions[i+1], positions[i+2]},
			n: [3]float32{normals[i], normals[i+1], normals[i+2]},
		}
		idx, ok := index[v]
		if !ok {
			idx = uint32(len(m.Positions) / 3)
			index[v] = idx
			m.Positions = append(m.Positions, v.p[:]...)
			m.Normals = append(m.Normals, v.n[:]...)
		}
		m.Indices = append(m.Indices, idx)
	}
	return m
}
