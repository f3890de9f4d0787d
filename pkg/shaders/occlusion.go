package shaders

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// occlusionEpsilon is how close a fragment must be to the shadow buffer to
// count as visible from the sample camera.
const occlusionEpsilon = 1e-2

// Occlusion marks, in a texture-space framebuffer, every texel whose
// surface point is visible from the current sample camera. It never writes
// the screen: every fragment is discarded.
type Occlusion struct {
	model     render.MeshRenderer
	transform math3d.Mat4
	shadow    *render.DepthBuffer
	occl      *render.Framebuffer
}

// NewOcclusion creates an Occlusion shader. shadow is the depth buffer of
// a ZDepth pass with the same scene; occl receives the visibility marks.
func NewOcclusion(m render.MeshRenderer, s Scene, shadow *render.DepthBuffer, occl *render.Framebuffer) *Occlusion {
	return &Occlusion{model: m, transform: s.Transform(), shadow: shadow, occl: occl}
}

// Vertex stores the corner UV and transforms the corner.
func (o *Occlusion) Vertex(face, nth int, v *render.Varying) math3d.Vec4 {
	storeUV(o.model, face, nth, v)
	return transformFace(o.model, face, nth, o.transform)
}

// Fragment marks the texel of a fragment the shadow buffer sees and
// always discards.
func (o *Occlusion) Fragment(frag, bar math3d.Vec3, v *render.Varying) (bool, render.Color) {
	if math.Abs(o.shadow.At(int(frag.X), int(frag.Y))-frag.Z) <= occlusionEpsilon {
		u, w := interpolateUV(v, bar)
		o.occl.SetPixel(int(u*float64(o.occl.Width)), int(w*float64(o.occl.Height)), render.ColorWhite)
	}
	return true, render.ColorWhite
}

// String returns "occlusion".
func (o *Occlusion) String() string { return "occlusion" }

// AmbientTexture shades with a baked ambient occlusion map.
type AmbientTexture struct {
	model     render.MeshRenderer
	transform math3d.Mat4
	ao        *render.Texture
}

// NewAmbientTexture creates a shader that looks up ao.
func NewAmbientTexture(m render.MeshRenderer, s Scene, ao *render.Texture) *AmbientTexture {
	return &AmbientTexture{model: m, transform: s.Transform(), ao: ao}
}

// Vertex stores the corner UV and transforms the corner.
func (a *AmbientTexture) Vertex(face, nth int, v *render.Varying) math3d.Vec4 {
	storeUV(a.model, face, nth, v)
	return transformFace(a.model, face, nth, a.transform)
}

// Fragment shades gray by the baked occlusion texel.
func (a *AmbientTexture) Fragment(_, bar math3d.Vec3, v *render.Varying) (bool, render.Color) {
	u, w := interpolateUV(v, bar)
	return false, render.Gray(render.Channel(a.ao.Texel(u, w), 0))
}

// String returns the kind name.
func (a *AmbientTexture) String() string { return KindAmbientTexture.String() }

// AmbientOptions configure AccumulateOcclusion.
type AmbientOptions struct {
	// Width and Height size the sample camera's frame. Default 800.
	Width, Height int
	// TextureSize is the side of the square occlusion texture. Default 1024.
	TextureSize int
	// Iterations is the number of random sample cameras. Default 1.
	Iterations int
	// Center is the point every sample camera looks at.
	Center math3d.Vec3
	// FixLookAt selects math3d.LookAtFixed for the sample cameras.
	FixLookAt bool
}

func (o AmbientOptions) withDefaults() AmbientOptions {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.TextureSize <= 0 {
		o.TextureSize = 1024
	}
	if o.Iterations <= 0 {
		o.Iterations = 1
	}
	return o
}

// AccumulateOcclusion bakes an ambient occlusion texture for m. Each
// iteration views the model orthographically from a random point on the
// upper unit hemisphere, marks the texels visible from there and folds
// them into a running average. The result is in raster orientation
// (texture row v*TextureSize counted from the bottom).
func AccumulateOcclusion(m render.MeshRenderer, opts AmbientOptions, rng *rand.Rand) *render.Framebuffer {
	opts = opts.withDefaults()
	w, h := opts.Width, opts.Height
	start := time.Now()

	total := render.NewFramebuffer(opts.TextureSize, opts.TextureSize)
	total.Clear(render.ColorBlack)
	occl := render.NewFramebuffer(opts.TextureSize, opts.TextureSize)
	frame := render.NewFramebuffer(w, h)

	base := Scene{
		Viewport:   math3d.Viewport(w/8, h/8, w*3/4, h*3/4),
		Projection: math3d.Projection(0),
		FixLookAt:  opts.FixLookAt,
	}

	for iter := 1; iter <= opts.Iterations; iter++ {
		up := math3d.V3(rng.Float64(), rng.Float64(), rng.Float64())
		eye := math3d.RandPointOnUnitSphere(rng)
		eye.Y = math.Abs(eye.Y)

		scene := base
		scene.ModelView = scene.lookAt(eye, opts.Center, up)

		shadow := render.RenderPass(m, NewZDepth(m, scene), w, h).Depth

		occl.Clear(render.ColorBlack)
		r := render.NewRasterizer(frame, nil)
		r.DrawModel(m, NewOcclusion(m, scene, shadow, occl))

		blendAverage(total, occl, iter)
		render.Logger().Debug("occlusion sample",
			"iteration", iter, "eye", eye, "fragments", r.Stats.Fragments)
	}

	render.Logger().Info("ambient occlusion baked",
		"iterations", opts.Iterations, "size", opts.TextureSize,
		"elapsed", time.Since(start))
	return total
}

// blendAverage folds the iter-th sample into the running average in total.
func blendAverage(total, sample *render.Framebuffer, iter int) {
	n := float64(iter)
	for i := range total.Pixels {
		prev := float64(total.Pixels[i].R)
		curr := float64(sample.Pixels[i].R)
		total.Pixels[i] = render.Gray(uint8((prev*(n-1)+curr)/n + 0.5))
	}
}

// RenderScreenSpaceAO renders m's depth with the scene camera and shades
// every covered pixel by its horizon openness. The image keeps the raster
// orientation.
func RenderScreenSpaceAO(m render.MeshRenderer, scene Scene, w, h int) render.Result {
	res := render.RenderPass(m, NewMask(m, scene), w, h)
	render.ScreenSpaceAO(res.Image, res.Depth)
	return res
}
