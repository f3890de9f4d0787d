// Package shaders implements the programmable shading strategies and the
// multi-pass drivers built on the render package.
package shaders

import (
	"errors"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

var (
	// ErrUnknownKind is returned for shader names ParseKind does not know.
	ErrUnknownKind = errors.New("shaders: unknown shader kind")

	// ErrMissingMap is returned when a shader needs a texture map that was
	// not supplied.
	ErrMissingMap = errors.New("shaders: missing texture map")
)

// Scene holds the matrices and light shared by every shader of a pass.
type Scene struct {
	Viewport   math3d.Mat4
	Projection math3d.Mat4
	ModelView  math3d.Mat4

	// Light is the direction towards the light. Shaders normalize it.
	Light math3d.Vec3

	// Center and Up orient views looking from the light. A zero Up means
	// +y.
	Center, Up math3d.Vec3

	// FixLookAt selects the corrected view matrix for the views the
	// drivers build themselves (light and ambient sample cameras).
	FixLookAt bool
}

// NewScene captures the camera's matrices.
func NewScene(cam *render.Camera, light math3d.Vec3) Scene {
	return Scene{
		Viewport:   cam.Viewport(),
		Projection: cam.Projection(),
		ModelView:  cam.ModelView(),
		Light:      light,
		Center:     cam.Center,
		Up:         cam.Up,
		FixLookAt:  cam.FixLookAt,
	}
}

// DefaultScene is the lesson setup: an 800-pixel style camera at (1, 1, 3)
// scaled to w×h, lit from (1, 1, 1).
func DefaultScene(w, h int) Scene {
	return NewScene(render.NewCamera(w, h), math3d.V3(1, 1, 1))
}

// Transform returns Viewport × Projection × ModelView.
func (s Scene) Transform() math3d.Mat4 {
	return s.Viewport.Mul(s.Uniform())
}

// Uniform returns Projection × ModelView.
func (s Scene) Uniform() math3d.Mat4 {
	return s.Projection.Mul(s.ModelView)
}

// lightView looks from the light position at Center.
func (s Scene) lightView() math3d.Mat4 {
	up := s.Up
	if up == (math3d.Vec3{}) {
		up = math3d.Up()
	}
	return s.lookAt(s.Light, s.Center, up)
}

func (s Scene) lookAt(eye, center, up math3d.Vec3) math3d.Mat4 {
	if s.FixLookAt {
		return math3d.LookAtFixed(eye, center, up)
	}
	return math3d.LookAt(eye, center, up)
}

// Maps are the texture maps a model may carry. Any of them may be nil.
type Maps struct {
	Diffuse   *render.Texture
	Normal    *render.Texture // normal map in model space
	Tangent   *render.Texture // normal map in tangent space
	Specular  *render.Texture
	Occlusion *render.Texture // baked ambient occlusion
}
