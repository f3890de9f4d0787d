package render

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// ScreenMap maps model coordinates in [-1, 1] onto a w×h pixel grid, the
// plain screen transform of the early lessons. Depth passes through.
func ScreenMap(w, h int) math3d.Mat4 {
	sx := float64(w-1) / 2
	sy := float64(h-1) / 2
	return math3d.Mat4{
		{sx, 0, 0, sx},
		{0, sy, 0, sy},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// toScreen applies screen to p, divides by w and rounds x and y half away
// from zero.
func toScreen(screen math3d.Mat4, p math3d.Vec3) math3d.Vec3 {
	s := screen.MulVec(p.Embed4D()).PerspectiveDivide()
	return math3d.V3(math.Round(s.X), math.Round(s.Y), s.Z)
}

// faceIntensity returns the flat lighting of a face: the unit face normal
// (v2-v0)×(v1-v0) dotted with light.
func faceIntensity(world [3]math3d.Vec3, light math3d.Vec3) float64 {
	n := world[2].Sub(world[0]).Cross(world[1].Sub(world[0])).Normalize()
	return n.Dot(light)
}

// DrawModelWireframe draws every face edge of m through screen.
func (r *Rasterizer) DrawModelWireframe(m MeshRenderer, screen math3d.Mat4, c Color) {
	for face := range m.FaceCount() {
		for j := range 3 {
			a := toScreen(screen, m.Vertex(face, j))
			b := toScreen(screen, m.Vertex(face, (j+1)%3))
			r.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), c)
		}
	}
}

// DrawModelFlat fills every face lit by light with c scaled by the face
// intensity, without a depth test. Faces with intensity <= 0 are skipped,
// which culls the back faces.
func (r *Rasterizer) DrawModelFlat(m MeshRenderer, screen math3d.Mat4, light math3d.Vec3, c Color) {
	r.drawModelLit(m, screen, light, func(pts [3]math3d.Vec3, _ int, intensity float64) {
		r.DrawTriangleFlat(pts, MultiplyColor(c, intensity))
	})
}

// DrawModelZ is DrawModelFlat with a depth test.
func (r *Rasterizer) DrawModelZ(m MeshRenderer, screen math3d.Mat4, light math3d.Vec3, c Color) {
	r.drawModelLit(m, screen, light, func(pts [3]math3d.Vec3, _ int, intensity float64) {
		r.DrawTriangleZ(pts, MultiplyColor(c, intensity))
	})
}

// DrawModelTextured fills every lit face with tex sampled at the face UVs
// and scaled by the face intensity, with a depth test.
func (r *Rasterizer) DrawModelTextured(m MeshRenderer, screen math3d.Mat4, light math3d.Vec3, tex *Texture) {
	r.drawModelLit(m, screen, light, func(pts [3]math3d.Vec3, face int, intensity float64) {
		uvs := [3]math3d.Vec2{m.UV(face, 0), m.UV(face, 1), m.UV(face, 2)}
		r.DrawTriangleTextured(pts, uvs, tex, intensity)
	})
}

func (r *Rasterizer) drawModelLit(m MeshRenderer, screen math3d.Mat4, light math3d.Vec3, fill func(pts [3]math3d.Vec3, face int, intensity float64)) {
	for face := range m.FaceCount() {
		var world, pts [3]math3d.Vec3
		for i := range 3 {
			world[i] = m.Vertex(face, i)
			pts[i] = toScreen(screen, world[i])
		}
		if intensity := faceIntensity(world, light); intensity > 0 {
			fill(pts, face, intensity)
		}
	}
}
