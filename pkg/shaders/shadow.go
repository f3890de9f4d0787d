package shaders

import (
	"math"
	"time"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// shadowBias keeps surfaces from shadowing themselves.
const shadowBias = 3.5

// LightMatrix returns the orthographic transform that views the scene from
// the light: vp × Projection(0) × LookAt(light, center, up).
func LightMatrix(vp math3d.Mat4, light, center, up math3d.Vec3) math3d.Mat4 {
	return lightMatrix(vp, math3d.LookAt(light, center, up))
}

func lightMatrix(vp, view math3d.Mat4) math3d.Mat4 {
	return vp.Mul(math3d.Projection(0)).Mul(view)
}

// ShadowMatrix maps framebuffer screen coordinates of scene to screen
// coordinates of the shadow buffer rendered through lightM.
func ShadowMatrix(scene Scene, lightM math3d.Mat4) math3d.Mat4 {
	return lightM.Mul(scene.Transform().Inverse())
}

// Shadow is Specular attenuated to 30% where the shadow buffer shows an
// occluder between the pixel and the light.
type Shadow struct {
	Specular
	shadowM math3d.Mat4
	buffer  *render.DepthBuffer
}

// NewShadow creates a shadow-mapped Phong shader. shadowM comes from
// ShadowMatrix and buffer is the depth buffer of the light pass.
func NewShadow(m render.MeshRenderer, s Scene, maps Maps, shadowM math3d.Mat4, buffer *render.DepthBuffer) *Shadow {
	return &Shadow{
		Specular: *NewSpecular(m, s, maps.Diffuse, maps.Normal, maps.Specular),
		shadowM:  shadowM,
		buffer:   buffer,
	}
}

// Vertex runs the Specular vertex stage and keeps the screen position.
func (s *Shadow) Vertex(face, nth int, v *render.Varying) math3d.Vec4 {
	gl := s.vertexUV(face, nth, v)
	v.Tri.SetColumn(nth, screenPoint(gl))
	return gl
}

// Fragment is the Specular color attenuated where the light is blocked.
func (s *Shadow) Fragment(_, bar math3d.Vec3, v *render.Varying) (bool, render.Color) {
	u, w := interpolateUV(v, bar)
	diff, spec := s.lighting(u, w)
	return false, phong(s.diffuse.Texel(u, w), s.attenuation(v.Tri.MulVec(bar)), diff, spec)
}

// attenuation returns 1 for a lit point and 0.3 for a shadowed one.
// Points that fall outside the shadow buffer are lit.
func (s *Shadow) attenuation(p math3d.Vec3) float64 {
	sb := screenPoint(s.shadowM.MulVec(p.Embed4D()))
	if math.IsNaN(sb.X) || math.IsNaN(sb.Y) {
		return 1
	}
	if s.buffer.At(int(sb.X), int(sb.Y)) < sb.Z+shadowBias {
		return 1
	}
	return 0.3
}

// String returns "shadow".
func (s *Shadow) String() string { return "shadow" }

// RenderShadowed runs the two-pass shadow mapping program: a depth pass
// from the light, then a Phong pass that consults it. The light sits at
// scene.Light looking at center. maps needs Diffuse, Normal and Specular.
func RenderShadowed(m render.MeshRenderer, scene Scene, maps Maps, w, h int, center, up math3d.Vec3) (final, depth render.Result, err error) {
	for _, req := range []struct {
		name string
		tex  *render.Texture
	}{
		{"diffuse", maps.Diffuse},
		{"normal", maps.Normal},
		{"specular", maps.Specular},
	} {
		if err := need("shadow", req.name, req.tex); err != nil {
			return final, depth, err
		}
	}

	start := time.Now()
	lightM := lightMatrix(scene.Viewport, scene.lookAt(scene.Light, center, up))
	depth = render.RenderPass(m, NewDepth(m, lightM), w, h)

	sh := NewShadow(m, scene, maps, ShadowMatrix(scene, lightM), depth.Depth)
	final = render.RenderPass(m, sh, w, h)

	render.Logger().Info("shadow render finished",
		"width", w, "height", h, "elapsed", time.Since(start))
	return final, depth, nil
}
