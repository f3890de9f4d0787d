package math3d

import (
	"math"
	"math/rand/v2"
)

// ViewportDepth is the depth range the viewport maps NDC z onto.
const ViewportDepth = 255.0

// Viewport maps the [-1,1] cube onto the pixel rectangle (x, y, w, h) and
// the depth range [0, ViewportDepth].
func Viewport(x, y, w, h int) Mat4 {
	m := Identity()
	m[0][3] = float64(x) + float64(w)/2
	m[1][3] = float64(y) + float64(h)/2
	m[2][3] = ViewportDepth / 2

	m[0][0] = float64(w) / 2
	m[1][1] = float64(h) / 2
	m[2][2] = ViewportDepth / 2
	return m
}

// Projection returns the identity with coeff at row 3, column 2, so the
// homogeneous divide scales by 1/(1 + coeff*z). coeff is -1/distance for a
// camera at that distance from the subject; 0 gives an orthographic view.
func Projection(coeff float64) Mat4 {
	m := Identity()
	m[3][2] = coeff
	return m
}

// LookAt returns the view matrix for a camera at eye looking at center.
//
// The translation row for z is taken from center.Y, not center.Z. Rendered
// output of existing scenes depends on it, so it is kept; use LookAtFixed
// for the corrected matrix. Both agree whenever center.Y == center.Z.
func LookAt(eye, center, up Vec3) Mat4 {
	return lookAt(eye, center, up, center.Y)
}

// LookAtFixed is LookAt with the z translation taken from center.Z.
func LookAtFixed(eye, center, up Vec3) Mat4 {
	return lookAt(eye, center, up, center.Z)
}

func lookAt(eye, center, up Vec3, tz float64) Mat4 {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()

	minv := Identity()
	minv[0] = [4]float64{x.X, x.Y, x.Z, 0}
	minv[1] = [4]float64{y.X, y.Y, y.Z, 0}
	minv[2] = [4]float64{z.X, z.Y, z.Z, 0}

	tr := Identity()
	tr[0][3] = -center.X
	tr[1][3] = -center.Y
	tr[2][3] = -tz

	return minv.Mul(tr)
}

// RandPointOnUnitSphere returns a point uniformly distributed on the unit
// sphere.
func RandPointOnUnitSphere(rng *rand.Rand) Vec3 {
	u := rng.Float64()
	v := rng.Float64()
	theta := 2 * math.Pi * u
	phi := math.Acos(2*v - 1)

	return Vec3{
		math.Sin(phi) * math.Cos(theta),
		math.Sin(phi) * math.Sin(theta),
		math.Cos(phi),
	}
}
