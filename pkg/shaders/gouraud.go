package shaders

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// Gouraud interpolates per-vertex diffuse intensity over white.
type Gouraud struct {
	model     render.MeshRenderer
	light     math3d.Vec3
	transform math3d.Mat4
}

// NewGouraud creates a Gouraud shader for m.
func NewGouraud(m render.MeshRenderer, s Scene) *Gouraud {
	return &Gouraud{model: m, light: s.Light.Normalize(), transform: s.Transform()}
}

// Vertex stores the corner intensity and transforms the corner.
func (g *Gouraud) Vertex(face, nth int, v *render.Varying) math3d.Vec4 {
	return gouraudVertex(g.model, g.transform, g.light, face, nth, v)
}

// Fragment scales white by the interpolated intensity.
func (g *Gouraud) Fragment(_, bar math3d.Vec3, v *render.Varying) (bool, render.Color) {
	return false, render.MultiplyColor(render.ColorWhite, v.Intensity.Dot(bar))
}

// String returns the kind name.
func (g *Gouraud) String() string { return KindGouraud.String() }

// Posterized is Gouraud with the intensity quantized into six bands over
// orange.
type Posterized struct {
	Gouraud
}

// NewPosterized creates a posterized Gouraud shader for m.
func NewPosterized(m render.MeshRenderer, s Scene) *Posterized {
	return &Posterized{Gouraud: *NewGouraud(m, s)}
}

// Fragment scales the base color by the banded intensity.
func (p *Posterized) Fragment(_, bar math3d.Vec3, v *render.Varying) (bool, render.Color) {
	return false, render.MultiplyColor(render.ColorOrange, posterize(v.Intensity.Dot(bar)))
}

// String returns the kind name.
func (p *Posterized) String() string { return KindPosterized.String() }

func posterize(i float64) float64 {
	switch {
	case i > 0.85:
		return 1
	case i > 0.60:
		return 0.80
	case i > 0.45:
		return 0.60
	case i > 0.30:
		return 0.45
	case i > 0.15:
		return 0.30
	default:
		return 0
	}
}
