package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Triangulate fan-splits every face with more than three corners. Faces
// with fewer than three corners are left alone.
func (m *Mesh) Triangulate() {
	faces := make([][]uint32, 0, len(m.Faces))
	for _, f := range m.Faces {
		if len(f) <= 3 {
			faces = append(faces, f)
			continue
		}
		for i := 1; i+1 < len(f); i++ {
			faces = append(faces, []uint32{f[0], f[i], f[i+1]})
		}
	}
	m.Faces = faces
}

// GenerateNormals replaces Normals with smooth per-vertex normals. Each face
// contributes its unnormalized cross product, so larger faces weigh more.
// Vertices not touched by any non-degenerate face get a zero normal.
func (m *Mesh) GenerateNormals() {
	normals := make([]mgl32.Vec3, len(m.Positions))
	for _, f := range m.Faces {
		if len(f) < 3 || !m.inRange(f) {
			continue
		}
		p0 := m.Positions[f[0]]
		for i := 1; i+1 < len(f); i++ {
			p1 := m.Positions[f[i]]
			p2 := m.Positions[f[i+1]]
			n := p1.Sub(p0).Cross(p2.Sub(p0))
			normals[f[0]] = normals[f[0]].Add(n)
			normals[f[i]] = normals[f[i]].Add(n)
			normals[f[i+1]] = normals[f[i+1]].Add(n)
		}
	}

	for i, n := range normals {
		if l := n.Len(); l > 0 {
			normals[i] = n.Mul(1 / l)
		}
	}
	m.Normals = normals
}

func (m *Mesh) inRange(f []uint32) bool {
	for _, idx := range f {
		if int(idx) >= len(m.Positions) {
			return false
		}
	}
	return true
}
