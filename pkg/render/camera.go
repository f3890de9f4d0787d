package render

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// Camera is an orbit camera looking from Eye at Center. It produces the
// model-view, projection and viewport matrices of the lesson pipeline.
type Camera struct {
	Eye    math3d.Vec3
	Center math3d.Vec3
	Up     math3d.Vec3

	// Width and Height size the viewport.
	Width, Height int

	// FixLookAt selects the corrected view matrix whose z translation uses
	// Center.Z. The default reproduces the legacy matrix.
	FixLookAt bool

	// Cached matrices (computed on demand)
	modelView math3d.Mat4
	transform math3d.Mat4
	dirty     bool
}

// NewCamera creates the lesson camera: eye (1, 1, 3) looking at the origin
// with y up.
func NewCamera(width, height int) *Camera {
	return &Camera{
		Eye:    math3d.V3(1, 1, 3),
		Center: math3d.Zero3(),
		Up:     math3d.Up(),
		Width:  width,
		Height: height,
		dirty:  true,
	}
}

// SetEye moves the eye.
func (c *Camera) SetEye(eye math3d.Vec3) {
	c.Eye = eye
	c.dirty = true
}

// SetCenter moves the point looked at.
func (c *Camera) SetCenter(center math3d.Vec3) {
	c.Center = center
	c.dirty = true
}

// SetUp changes the up direction.
func (c *Camera) SetUp(up math3d.Vec3) {
	c.Up = up
	c.dirty = true
}

// SetSize changes the viewport size.
func (c *Camera) SetSize(width, height int) {
	c.Width, c.Height = width, height
	c.dirty = true
}

// SetFixLookAt switches between the legacy and corrected view matrix.
func (c *Camera) SetFixLookAt(fix bool) {
	c.FixLookAt = fix
	c.dirty = true
}

// Distance returns |Eye - Center|.
func (c *Camera) Distance() float64 {
	return c.Eye.Distance(c.Center)
}

// Yaw returns the eye's angle around the y axis, zero on +z.
func (c *Camera) Yaw() float64 {
	d := c.Eye.Sub(c.Center)
	return math.Atan2(d.X, d.Z)
}

// Pitch returns the eye's elevation above the xz plane.
func (c *Camera) Pitch() float64 {
	dist := c.Distance()
	if dist == 0 {
		return 0
	}
	return math.Asin(math.Max(-1, math.Min(1, (c.Eye.Y-c.Center.Y)/dist)))
}

// SetOrbit places the eye on a sphere around Center. Pitch is clamped just
// short of the poles so the view basis stays defined.
func (c *Camera) SetOrbit(yaw, pitch, distance float64) {
	const maxPitch = math.Pi/2 - 0.01
	pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))
	offset := math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		math.Cos(yaw)*math.Cos(pitch),
	)
	c.Eye = c.Center.Add(offset.Scale(distance))
	c.dirty = true
}

// Orbit rotates the eye around Center by the given angles (in radians).
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	c.SetOrbit(c.Yaw()+deltaYaw, c.Pitch()+deltaPitch, c.Distance())
}

// SetDistance moves the eye along its current direction.
func (c *Camera) SetDistance(distance float64) {
	c.SetOrbit(c.Yaw(), c.Pitch(), distance)
}

// ModelView returns the view matrix.
func (c *Camera) ModelView() math3d.Mat4 {
	c.update()
	return c.modelView
}

// Projection returns the lesson projection with coefficient -1/distance.
func (c *Camera) Projection() math3d.Mat4 {
	return math3d.Projection(-1 / c.Distance())
}

// Viewport returns the lesson viewport: the central three quarters of the
// image.
func (c *Camera) Viewport() math3d.Mat4 {
	return math3d.Viewport(c.Width/8, c.Height/8, c.Width*3/4, c.Height*3/4)
}

// Transform returns Viewport × Projection × ModelView.
func (c *Camera) Transform() math3d.Mat4 {
	c.update()
	return c.transform
}

func (c *Camera) update() {
	if !c.dirty {
		return
	}
	if c.FixLookAt {
		c.modelView = math3d.LookAtFixed(c.Eye, c.Center, c.Up)
	} else {
		c.modelView = math3d.LookAt(c.Eye, c.Center, c.Up)
	}
	c.transform = c.Viewport().Mul(c.Projection()).Mul(c.modelView)
	c.dirty = false
}

// WorldToScreen transforms a world point to screen coordinates.
// visible is false when the point lands behind the eye or outside the image.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3) (screen math3d.Vec3, visible bool) {
	clipPos := c.Transform().MulVec(worldPos.Embed4D())
	if clipPos.W <= 0 {
		return math3d.Vec3{}, false
	}
	screen = clipPos.PerspectiveDivide()
	visible = screen.X >= 0 && screen.X < float64(c.Width) && screen.Y >= 0 && screen.Y < float64(c.Height)
	return screen, visible
}
