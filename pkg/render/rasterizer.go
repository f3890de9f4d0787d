package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// ErrSizeMismatch is raised when a depth buffer and its framebuffer differ
// in size.
var ErrSizeMismatch = errors.New("render: depth buffer size mismatch")

// Stats counts rasterizer work since the last ResetStats.
type Stats struct {
	Triangles  int // Triangles submitted
	Degenerate int // Triangles rejected by the area test
	Fragments  int // Pixels that passed the depth test
	Discarded  int // Fragments dropped by the shader
}

// Rasterizer fills triangles into a framebuffer with an optional depth test.
// Screen coordinates have their origin at the bottom-left pixel.
type Rasterizer struct {
	fb    *Framebuffer
	depth *DepthBuffer
	Stats Stats
}

// NewRasterizer creates a rasterizer drawing into fb. A nil depth buffer is
// replaced by a fresh one of the same size. It panics with ErrSizeMismatch
// when depth does not match fb.
func NewRasterizer(fb *Framebuffer, depth *DepthBuffer) *Rasterizer {
	if depth == nil {
		depth = NewDepthBuffer(fb.Width, fb.Height)
	}
	if depth.Width != fb.Width || depth.Height != fb.Height {
		panic(fmt.Errorf("%w: depth %dx%d, framebuffer %dx%d",
			ErrSizeMismatch, depth.Width, depth.Height, fb.Width, fb.Height))
	}
	return &Rasterizer{fb: fb, depth: depth}
}

// Framebuffer returns the color target.
func (r *Rasterizer) Framebuffer() *Framebuffer { return r.fb }

// Depth returns the depth target.
func (r *Rasterizer) Depth() *DepthBuffer { return r.depth }

// ResetStats zeroes the counters.
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// Barycentric returns the weights of p with respect to triangle abc,
// sampled as given. A triangle whose doubled area is below one pixel is
// degenerate and yields (-1, 1, 1), which every inside test rejects.
func Barycentric(a, b, c, p math3d.Vec2) math3d.Vec3 {
	u := math3d.V3(c.X-a.X, b.X-a.X, a.X-p.X).Cross(math3d.V3(c.Y-a.Y, b.Y-a.Y, a.Y-p.Y))
	if math.Abs(u.Z) < 1 {
		return math3d.V3(-1, 1, 1)
	}
	return math3d.V3(1-(u.X+u.Y)/u.Z, u.Y/u.Z, u.X/u.Z)
}

func inside(bc math3d.Vec3) bool {
	return bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0
}

// bbox is an inclusive pixel rectangle.
type bbox struct {
	minX, minY, maxX, maxY int
}

// boundingBox clamps the triangle's bounds to the framebuffer. The result
// is empty (min > max) when the triangle lies off screen.
func (r *Rasterizer) boundingBox(pts [3]math3d.Vec2) bbox {
	lo := math3d.V2(min3(pts[0].X, pts[1].X, pts[2].X), min3(pts[0].Y, pts[1].Y, pts[2].Y))
	hi := math3d.V2(max3(pts[0].X, pts[1].X, pts[2].X), max3(pts[0].Y, pts[1].Y, pts[2].Y))
	return bbox{
		minX: clampInt(math.Floor(lo.X), 0, r.fb.Width),
		minY: clampInt(math.Floor(lo.Y), 0, r.fb.Height),
		maxX: clampInt(math.Floor(hi.X), -1, r.fb.Width-1),
		maxY: clampInt(math.Floor(hi.Y), -1, r.fb.Height-1),
	}
}

// scan calls fn for every pixel of the bounding box whose center lies in
// the triangle. Degenerate triangles are counted and skipped.
func (r *Rasterizer) scan(pts [3]math3d.Vec2, fn func(x, y int, bc math3d.Vec3)) {
	r.Stats.Triangles++
	if bc := Barycentric(pts[0], pts[1], pts[2], pts[0]); bc.X < 0 {
		r.Stats.Degenerate++
		return
	}
	if r.fb.Width == 0 || r.fb.Height == 0 {
		return
	}

	box := r.boundingBox(pts)
	for y := box.minY; y <= box.maxY; y++ {
		for x := box.minX; x <= box.maxX; x++ {
			p := math3d.V2(float64(x)+0.5, float64(y)+0.5)
			bc := Barycentric(pts[0], pts[1], pts[2], p)
			if !inside(bc) {
				continue
			}
			fn(x, y, bc)
		}
	}
}

// DrawTriangleFlat fills a screen-space triangle with one color and no
// depth test. The z components are ignored.
func (r *Rasterizer) DrawTriangleFlat(pts [3]math3d.Vec3, c Color) {
	r.scan(project2D(pts), func(x, y int, _ math3d.Vec3) {
		r.Stats.Fragments++
		r.fb.Pixels[y*r.fb.Width+x] = c
	})
}

// DrawTriangleZ fills a screen-space triangle with one color, keeping only
// pixels whose interpolated z beats the depth buffer.
func (r *Rasterizer) DrawTriangleZ(pts [3]math3d.Vec3, c Color) {
	zs := math3d.V3(pts[0].Z, pts[1].Z, pts[2].Z)
	r.scan(project2D(pts), func(x, y int, bc math3d.Vec3) {
		z := zs.Dot(bc)
		if !r.depth.Passes(x, y, z) {
			return
		}
		r.Stats.Fragments++
		r.depth.Set(x, y, z)
		r.fb.Pixels[y*r.fb.Width+x] = c
	})
}

// DrawTriangleTextured fills a depth-tested screen-space triangle with the
// nearest texel at the interpolated UV, scaled by intensity.
func (r *Rasterizer) DrawTriangleTextured(pts [3]math3d.Vec3, uvs [3]math3d.Vec2, tex *Texture, intensity float64) {
	zs := math3d.V3(pts[0].Z, pts[1].Z, pts[2].Z)
	us := math3d.V3(uvs[0].X, uvs[1].X, uvs[2].X)
	vs := math3d.V3(uvs[0].Y, uvs[1].Y, uvs[2].Y)
	r.scan(project2D(pts), func(x, y int, bc math3d.Vec3) {
		z := zs.Dot(bc)
		if !r.depth.Passes(x, y, z) {
			return
		}
		r.Stats.Fragments++
		r.depth.Set(x, y, z)
		r.fb.Pixels[y*r.fb.Width+x] = MultiplyColor(tex.Texel(us.Dot(bc), vs.Dot(bc)), intensity)
	})
}

// DrawTriangle rasterizes one triangle given in clip space. Pixel coverage
// uses the divided positions; depth is z/w with z and w interpolated
// separately. The shader runs only for pixels that pass the depth test.
func (r *Rasterizer) DrawTriangle(clip [3]math3d.Vec4, sh Shader, v *Varying) {
	var pts [3]math3d.Vec2
	for i, p := range clip {
		pts[i] = p.PerspectiveDivide().Project2D()
	}
	zs := math3d.V3(clip[0].Z, clip[1].Z, clip[2].Z)
	ws := math3d.V3(clip[0].W, clip[1].W, clip[2].W)

	r.scan(pts, func(x, y int, bc math3d.Vec3) {
		depth := zs.Dot(bc) / ws.Dot(bc)
		if !r.depth.Passes(x, y, depth) {
			return
		}
		discard, c := sh.Fragment(math3d.V3(float64(x), float64(y), depth), bc, v)
		if discard {
			r.Stats.Discarded++
			return
		}
		r.Stats.Fragments++
		r.depth.Set(x, y, depth)
		r.fb.Pixels[y*r.fb.Width+x] = c
	})
}

// DrawModel runs sh over every face of m. Each face gets fresh varyings.
func (r *Rasterizer) DrawModel(m MeshRenderer, sh Shader) {
	for face := range m.FaceCount() {
		var v Varying
		var clip [3]math3d.Vec4
		for nth := range 3 {
			clip[nth] = sh.Vertex(face, nth, &v)
		}
		r.DrawTriangle(clip, sh, &v)
	}
}

func project2D(pts [3]math3d.Vec3) [3]math3d.Vec2 {
	return [3]math3d.Vec2{pts[0].Project2D(), pts[1].Project2D(), pts[2].Project2D()}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// clampInt converts f to int within [lo, hi]. NaN maps to lo.
func clampInt(f float64, lo, hi int) int {
	if !(f > float64(lo)) {
		return lo
	}
	if f > float64(hi) {
		return hi
	}
	return int(f)
}
