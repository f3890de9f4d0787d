package shaders

import (
	"math"
	"sync/atomic"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// Textured samples the diffuse map scaled by interpolated Gouraud
// intensity.
type Textured struct {
	Gouraud
	diffuse *render.Texture
}

// NewTextured creates a textured Gouraud shader.
func NewTextured(m render.MeshRenderer, s Scene, diffuse *render.Texture) *Textured {
	return &Textured{Gouraud: *NewGouraud(m, s), diffuse: diffuse}
}

// Vertex stores the corner UV and runs the Gouraud vertex stage.
func (t *Textured) Vertex(face, nth int, v *render.Varying) math3d.Vec4 {
	storeUV(t.model, face, nth, v)
	return t.Gouraud.Vertex(face, nth, v)
}

// Fragment scales the diffuse texel by the interpolated intensity.
func (t *Textured) Fragment(_, bar math3d.Vec3, v *render.Varying) (bool, render.Color) {
	u, w := interpolateUV(v, bar)
	return false, render.MultiplyColor(t.diffuse.Texel(u, w), v.Intensity.Dot(bar))
}

// String returns the kind name.
func (t *Textured) String() string { return KindTextured.String() }

// uniforms are the matrices the per-pixel lighting shaders share.
type uniforms struct {
	model     render.MeshRenderer
	m         math3d.Mat4 // Projection × ModelView
	mit       math3d.Mat4 // transpose-inverse of m
	transform math3d.Mat4 // Viewport × m
	light     math3d.Vec3 // light transformed by m, normalized
}

func newUniforms(model render.MeshRenderer, s Scene) uniforms {
	m := s.Uniform()
	return uniforms{
		model:     model,
		m:         m,
		mit:       m.TransposeInverse(),
		transform: s.Viewport.Mul(m),
		light:     transform3(m, s.Light.Normalize()).Normalize(),
	}
}

// vertexUV stores the corner UV and transforms the corner.
func (u *uniforms) vertexUV(face, nth int, v *render.Varying) math3d.Vec4 {
	storeUV(u.model, face, nth, v)
	return transformFace(u.model, face, nth, u.transform)
}

// NormalMapped lights the diffuse map with normals read from a model-space
// normal map.
type NormalMapped struct {
	uniforms
	diffuse, normal *render.Texture
}

// NewNormalMapped creates a model-space normal mapping shader.
func NewNormalMapped(m render.MeshRenderer, s Scene, diffuse, normal *render.Texture) *NormalMapped {
	return &NormalMapped{uniforms: newUniforms(m, s), diffuse: diffuse, normal: normal}
}

// Vertex stores the corner UV and transforms the corner.
func (s *NormalMapped) Vertex(face, nth int, v *render.Varying) math3d.Vec4 {
	return s.vertexUV(face, nth, v)
}

// Fragment lights the diffuse texel with the mapped normal.
func (s *NormalMapped) Fragment(_, bar math3d.Vec3, v *render.Varying) (bool, render.Color) {
	u, w := interpolateUV(v, bar)
	n := transform3(s.mit, sampleNormal(s.normal, u, w)).Normalize()
	intensity := math.Max(0, n.Dot(s.light))
	return false, render.MultiplyColor(s.diffuse.Texel(u, w), intensity)
}

// String returns the kind name.
func (s *NormalMapped) String() string { return KindNormalMap.String() }

// Specular adds a Phong highlight, with the exponent read from a specular
// map, to NormalMapped.
type Specular struct {
	uniforms
	diffuse, normal, specular *render.Texture
}

// NewSpecular creates a Phong shader.
func NewSpecular(m render.MeshRenderer, s Scene, diffuse, normal, specular *render.Texture) *Specular {
	return &Specular{uniforms: newUniforms(m, s), diffuse: diffuse, normal: normal, specular: specular}
}

// Vertex stores the corner UV and transforms the corner.
func (s *Specular) Vertex(face, nth int, v *render.Varying) math3d.Vec4 {
	return s.vertexUV(face, nth, v)
}

// Fragment combines the diffuse and specular terms.
func (s *Specular) Fragment(_, bar math3d.Vec3, v *render.Varying) (bool, render.Color) {
	u, w := interpolateUV(v, bar)
	diff, spec := s.lighting(u, w)
	return false, phong(s.diffuse.Texel(u, w), 1, diff, spec)
}

// lighting returns the diffuse and specular terms at (u, w).
func (s *Specular) lighting(u, w float64) (diff, spec float64) {
	n := transform3(s.mit, sampleNormal(s.normal, u, w)).Normalize()
	r := reflect(n, s.light)
	diff = math.Max(0, n.Dot(s.light))
	spec = math.Pow(math.Max(0, r.Z), sampleSpecular(s.specular, u, w)+15)
	return diff, spec
}

// String returns the kind name.
func (s *Specular) String() string { return KindSpecular.String() }

// Tangent reads a tangent-space normal map. The tangent basis of each
// pixel is solved from the triangle's screen-space edges and UV deltas.
type Tangent struct {
	uniforms
	diffuse, tangent *render.Texture
	fallbacks        atomic.Int64
}

// NewTangent creates a tangent-space normal mapping shader.
func NewTangent(m render.MeshRenderer, s Scene, diffuse, tangent *render.Texture) *Tangent {
	return &Tangent{uniforms: newUniforms(m, s), diffuse: diffuse, tangent: tangent}
}

// Vertex stores the corner UV, normal and screen position.
func (s *Tangent) Vertex(face, nth int, v *render.Varying) math3d.Vec4 {
	storeUV(s.model, face, nth, v)
	v.Nrm.SetColumn(nth, transform3(s.mit, s.model.Normal(face, nth)))

	gl := transformFace(s.model, face, nth, s.transform)
	v.NDC[nth] = screenPoint(gl)
	return gl
}

// Fragment lights the diffuse texel with the tangent-space normal.
func (s *Tangent) Fragment(_, bar math3d.Vec3, v *render.Varying) (bool, render.Color) {
	bn := v.Nrm.MulVec(bar).Normalize()
	u, w := interpolateUV(v, bar)

	var a math3d.Mat3
	a.SetRow(0, v.NDC[1].Sub(v.NDC[0]))
	a.SetRow(1, v.NDC[2].Sub(v.NDC[0]))
	a.SetRow(2, bn)

	n := bn
	if math.Abs(a.Det()) < 1e-9 {
		s.fallbacks.Add(1)
	} else {
		ai := a.Inverse()
		i := ai.MulVec(math3d.V3(v.U.Y-v.U.X, v.U.Z-v.U.X, 0))
		j := ai.MulVec(math3d.V3(v.V.Y-v.V.X, v.V.Z-v.V.X, 0))

		var b math3d.Mat3
		b.SetColumn(0, i.Normalize())
		b.SetColumn(1, j.Normalize())
		b.SetColumn(2, bn)
		n = b.MulVec(sampleNormal(s.tangent, u, w)).Normalize()
	}

	diff := math.Max(0, n.Dot(s.light))
	return false, render.MultiplyColor(s.diffuse.Texel(u, w), diff)
}

// Fallbacks counts pixels whose tangent basis was singular and were lit
// with the interpolated normal instead.
func (s *Tangent) Fallbacks() int64 {
	return s.fallbacks.Load()
}

// String returns the kind name.
func (s *Tangent) String() string { return KindTangent.String() }
