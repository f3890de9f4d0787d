package shaders

import (
	"fmt"
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// transformFace returns the clip-space position of a face corner.
func transformFace(m render.MeshRenderer, face, nth int, t math3d.Mat4) math3d.Vec4 {
	return t.MulVec(m.Vertex(face, nth).Embed4D())
}

// gouraudVertex stores the corner's diffuse intensity and transforms it.
func gouraudVertex(m render.MeshRenderer, t math3d.Mat4, light math3d.Vec3, face, nth int, v *render.Varying) math3d.Vec4 {
	n := m.Normal(face, nth).Normalize()
	v.Intensity = v.Intensity.With(nth, math.Max(0, n.Dot(light)))
	return transformFace(m, face, nth, t)
}

// storeUV copies the corner's texture coordinate into the varyings.
func storeUV(m render.MeshRenderer, face, nth int, v *render.Varying) {
	v.SetUV(nth, m.UV(face, nth))
}

// interpolateUV returns the texture coordinate under bar.
func interpolateUV(v *render.Varying, bar math3d.Vec3) (float64, float64) {
	return v.UV(bar)
}

// transform3 applies t to the point p and drops w without dividing.
func transform3(t math3d.Mat4, p math3d.Vec3) math3d.Vec3 {
	return t.MulVec(p.Embed4D()).Project3D()
}

// screenPoint divides a clip-space position by w.
func screenPoint(p math3d.Vec4) math3d.Vec3 {
	return p.Div(p.W).Project3D()
}

// sampleNormal decodes a normal map texel: R, G and B map to x, y and z in
// [-1, 1].
func sampleNormal(nm *render.Texture, u, v float64) math3d.Vec3 {
	c := nm.Texel(u, v)
	return math3d.V3(
		float64(c.R)/255*2-1,
		float64(c.G)/255*2-1,
		float64(c.B)/255*2-1,
	)
}

// sampleSpecular returns the specular exponent stored in the first channel.
func sampleSpecular(sm *render.Texture, u, v float64) float64 {
	return float64(render.Channel(sm.Texel(u, v), 0))
}

// phong combines a base color with diffuse and specular terms:
// min(255, 5 + c*k*(diff + 1.3*spec)) per color channel.
func phong(c render.Color, k, diff, spec float64) render.Color {
	ch := func(x uint8) uint8 {
		return uint8(math.Min(255, math.Trunc(5+float64(x)*k*(diff+1.3*spec))))
	}
	return render.Color{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: 255}
}

// reflect returns the direction light arriving along l leaves n in:
// 2n(n·l) - l, normalized.
func reflect(n, l math3d.Vec3) math3d.Vec3 {
	return l.Reflect(n).Negate().Normalize()
}

// need reports a missing map required by the named shader.
func need(shader, name string, tex *render.Texture) error {
	if tex == nil {
		return fmt.Errorf("%w: %s needs a %s map", ErrMissingMap, shader, name)
	}
	return nil
}
