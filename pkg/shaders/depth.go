package shaders

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// Depth renders the depth of each pixel, seen through an arbitrary
// transform, as a gray level. With a light-space transform its depth
// buffer is the shadow map.
type Depth struct {
	model     render.MeshRenderer
	transform math3d.Mat4
}

// NewDepth creates a depth shader drawing m through transform.
func NewDepth(m render.MeshRenderer, transform math3d.Mat4) *Depth {
	return &Depth{model: m, transform: transform}
}

// Vertex transforms the corner into the light view and keeps its screen position.
func (d *Depth) Vertex(face, nth int, v *render.Varying) math3d.Vec4 {
	gl := transformFace(d.model, face, nth, d.transform)
	v.Tri.SetColumn(nth, screenPoint(gl))
	return gl
}

// Fragment shades by the interpolated light-space depth.
func (d *Depth) Fragment(_, bar math3d.Vec3, v *render.Varying) (bool, render.Color) {
	p := v.Tri.MulVec(bar)
	return false, render.MultiplyColor(render.ColorWhite, p.Z/math3d.ViewportDepth)
}

// String returns the kind name.
func (d *Depth) String() string { return KindDepth.String() }

// ZDepth renders the interpolated fragment depth as a gray level.
type ZDepth struct {
	model     render.MeshRenderer
	transform math3d.Mat4
}

// NewZDepth creates a ZDepth shader seen from the scene camera.
func NewZDepth(m render.MeshRenderer, s Scene) *ZDepth {
	return &ZDepth{model: m, transform: s.Transform()}
}

// Vertex transforms the corner through the scene.
func (z *ZDepth) Vertex(face, nth int, _ *render.Varying) math3d.Vec4 {
	return transformFace(z.model, face, nth, z.transform)
}

// Fragment shades by the rasterizer's fragment depth.
func (z *ZDepth) Fragment(frag, _ math3d.Vec3, _ *render.Varying) (bool, render.Color) {
	return false, render.MultiplyColor(render.ColorWhite, frag.Z/math3d.ViewportDepth)
}

// String returns the kind name.
func (z *ZDepth) String() string { return KindZDepth.String() }

// Mask paints every covered pixel black. It exists to fill the depth
// buffer for screen-space passes.
type Mask struct {
	ZDepth
}

// NewMask creates a Mask shader seen from the scene camera.
func NewMask(m render.MeshRenderer, s Scene) *Mask {
	return &Mask{ZDepth: *NewZDepth(m, s)}
}

func (*Mask) Fragment(_, _ math3d.Vec3, _ *render.Varying) (bool, render.Color) {
	return false, render.ColorBlack
}

func (*Mask) String() string { return KindMask.String() }
