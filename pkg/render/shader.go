package render

import "github.com/taigrr/softrender/pkg/math3d"

// Shader is a programmable shading strategy. DrawModel calls Vertex for the
// three corners of a face, then Fragment for every pixel of that face that
// passes the depth test.
//
// Per-triangle state lives in the Varying passed to both stages, never in
// the shader itself, so one shader value can be shared by concurrent passes.
type Shader interface {
	// Vertex returns the clip-space position of corner nth of face and
	// records whatever the fragment stage needs in v.
	Vertex(face, nth int, v *Varying) math3d.Vec4

	// Fragment shades one pixel. frag holds the pixel x, y and the
	// interpolated depth; bar holds the barycentric weights. Returning
	// discard leaves both the color and the depth buffer untouched.
	Fragment(frag, bar math3d.Vec3, v *Varying) (discard bool, c Color)
}

// Varying is the scratch space for one triangle. Each shader uses the
// fields it needs; the rest stay zero.
type Varying struct {
	// Intensity holds per-corner diffuse intensity.
	Intensity math3d.Vec3
	// U and V hold per-corner texture coordinates.
	U, V math3d.Vec3
	// Nrm and Tri hold per-corner vectors as columns.
	Nrm, Tri math3d.Mat3
	// NDC holds per-corner positions after the perspective divide.
	NDC [3]math3d.Vec3
}

// UV interpolates the stored texture coordinates.
func (v *Varying) UV(bar math3d.Vec3) (u, w float64) {
	return v.U.Dot(bar), v.V.Dot(bar)
}

// SetUV stores the texture coordinate of corner nth.
func (v *Varying) SetUV(nth int, uv math3d.Vec2) {
	v.U = v.U.With(nth, uv.X)
	v.V = v.V.With(nth, uv.Y)
}

// MeshRenderer is the read-only mesh access the rasterizer needs.
// *models.Model implements it.
type MeshRenderer interface {
	FaceCount() int
	Vertex(face, nth int) math3d.Vec3
	Normal(face, nth int) math3d.Vec3
	UV(face, nth int) math3d.Vec2
}
