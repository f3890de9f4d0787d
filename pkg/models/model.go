// Package models provides the read-only triangle meshes consumed by the
// renderer and the loaders that build them.
package models

import (
	"github.com/taigrr/softrender/pkg/math3d"
)

// Face references three vertices of a Model. Each corner carries an index
// into Positions (V), Normals (N) and UVs (T). A negative N or T index means
// the file did not provide that attribute.
type Face struct {
	V [3]int
	N [3]int
	T [3]int
}

// Model owns the vertex data of a mesh. The slices are filled at load time
// and must not be modified once the model is handed to a renderer.
type Model struct {
	Name      string
	Positions []math3d.Vec3
	Normals   []math3d.Vec3
	UVs       []math3d.Vec2
	Faces     []Face
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// VertexCount returns the number of vertex positions.
func (m *Model) VertexCount() int {
	return len(m.Positions)
}

// FaceCount returns the number of triangles.
func (m *Model) FaceCount() int {
	return len(m.Faces)
}

// Position returns vertex position i.
func (m *Model) Position(i int) math3d.Vec3 {
	return m.Positions[i]
}

// Face returns face i.
func (m *Model) Face(i int) Face {
	return m.Faces[i]
}

// Vertex returns the position of corner nth of face.
func (m *Model) Vertex(face, nth int) math3d.Vec3 {
	return m.Positions[m.Faces[face].V[nth]]
}

// Normal returns the normal of corner nth of face, or the zero vector when
// the face has none.
func (m *Model) Normal(face, nth int) math3d.Vec3 {
	idx := m.Faces[face].N[nth]
	if idx < 0 {
		return math3d.Vec3{}
	}
	return m.Normals[idx]
}

// UV returns the texture coordinate of corner nth of face, or the zero
// vector when the face has none.
func (m *Model) UV(face, nth int) math3d.Vec2 {
	idx := m.Faces[face].T[nth]
	if idx < 0 {
		return math3d.Vec2{}
	}
	return m.UVs[idx]
}

// Bounds returns the axis-aligned bounding box of all positions.
func (m *Model) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Positions) == 0 {
		return lo, hi
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// Center returns the center of the bounding box.
func (m *Model) Center() math3d.Vec3 {
	lo, hi := m.Bounds()
	return lo.Add(hi).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Model) Size() math3d.Vec3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}

// Clone creates a deep copy of the model.
func (m *Model) Clone() *Model {
	return &Model{
		Name:      m.Name,
		Positions: append([]math3d.Vec3(nil), m.Positions...),
		Normals:   append([]math3d.Vec3(nil), m.Normals...),
		UVs:       append([]math3d.Vec2(nil), m.UVs...),
		Faces:     append([]Face(nil), m.Faces...),
	}
}

// Transformed returns a copy with every position transformed by mat and
// every normal by its transpose-inverse.
func (m *Model) Transformed(mat math3d.Mat4) *Model {
	out := m.Clone()
	for i, p := range out.Positions {
		out.Positions[i] = mat.MulPoint(p)
	}
	if len(out.Normals) > 0 {
		nt := mat.TransposeInverse()
		for i, n := range out.Normals {
			out.Normals[i] = nt.MulDir(n).Normalize()
		}
	}
	return out
}

// FitUnitCube returns a copy centered on the origin and scaled so the
// largest dimension spans [-1, 1]. Models already inside the cube, like the
// lesson meshes, are returned as a plain copy.
func (m *Model) FitUnitCube() *Model {
	lo, hi := m.Bounds()
	if lo.X >= -1 && lo.Y >= -1 && lo.Z >= -1 && hi.X <= 1 && hi.Y <= 1 && hi.Z <= 1 {
		return m.Clone()
	}
	size := m.Size()
	maxDim := max(size.X, size.Y, size.Z)
	if maxDim == 0 {
		return m.Clone()
	}
	s := 2 / maxDim
	return m.Transformed(math3d.ScaleUniform(s).Mul(math3d.Translate(m.Center().Negate())))
}

// CalculateSmoothNormals replaces the normals with per-position averages of
// the adjacent face normals and points every face corner at them.
func (m *Model) CalculateSmoothNormals() {
	m.Normals = m.smoothNormals()
	for i := range m.Faces {
		m.Faces[i].N = m.Faces[i].V
	}
}

// fillMissingNormals gives every face corner without a normal the smooth
// normal of its position. Existing normals are kept.
func (m *Model) fillMissingNormals() {
	if m.HasNormals() || len(m.Faces) == 0 {
		return
	}
	base := len(m.Normals)
	m.Normals = append(m.Normals, m.smoothNormals()...)
	for i := range m.Faces {
		f := &m.Faces[i]
		for k, n := range f.N {
			if n < 0 {
				f.N[k] = base + f.V[k]
			}
		}
	}
}

func (m *Model) smoothNormals() []math3d.Vec3 {
	normals := make([]math3d.Vec3, len(m.Positions))
	for _, f := range m.Faces {
		v0 := m.Positions[f.V[0]]
		v1 := m.Positions[f.V[1]]
		v2 := m.Positions[f.V[2]]

		// Area weighted, so not normalized yet.
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		for _, vi := range f.V {
			normals[vi] = normals[vi].Add(n)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// HasNormals reports whether every face corner references a normal.
func (m *Model) HasNormals() bool {
	for _, f := range m.Faces {
		for _, n := range f.N {
			if n < 0 {
				return false
			}
		}
	}
	return len(m.Faces) > 0
}
