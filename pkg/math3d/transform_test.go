package math3d

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

const halfPi = math.Pi / 2

func TestViewport(t *testing.T) {
	vp := Viewport(100, 50, 600, 400)

	lo := vp.MulPoint(V3(-1, -1, -1))
	assert.Equal(t, V3(100, 50, 0), lo)

	hi := vp.MulPoint(V3(1, 1, 1))
	assert.Equal(t, V3(700, 450, ViewportDepth), hi)

	mid := vp.MulPoint(Zero3())
	assert.Equal(t, V3(400, 250, ViewportDepth/2), mid)
}

func TestProjection(t *testing.T) {
	p := Projection(-1.0 / 3).MulVec(V4(1, 2, -3, 1))
	assert.Equal(t, V3(1, 2, -3), p.Project3D())
	assert.InDelta(t, 2.0, p.W, 1e-12)

	// A zero coefficient leaves points untouched.
	assert.Equal(t, Identity(), Projection(0))
}

func TestLookAt(t *testing.T) {
	t.Run("axis aligned", func(t *testing.T) {
		m := LookAt(V3(0, 0, 3), Zero3(), Up())
		assertMat4InDelta(t, Identity(), m, 1e-12)
	})

	t.Run("eye maps onto z axis", func(t *testing.T) {
		eye := V3(1, 1, 3)
		p := LookAt(eye, Zero3(), Up()).MulPoint(eye)
		assert.InDelta(t, 0.0, p.X, 1e-12)
		assert.InDelta(t, 0.0, p.Y, 1e-12)
		assert.InDelta(t, eye.Len(), p.Z, 1e-12)
	})

	t.Run("orthonormal basis", func(t *testing.T) {
		m := LookAt(V3(2, -1, 5), V3(0.5, 0.2, 0), V3(0, 1, 0))
		var basis Mat3
		for r := range 3 {
			basis.SetRow(r, V3(m[r][0], m[r][1], m[r][2]))
		}
		prod := basis.Mul(basis.Transpose())
		for r := range 3 {
			for c := range 3 {
				assert.InDelta(t, Identity3()[r][c], prod[r][c], 1e-12)
			}
		}
	})

	t.Run("legacy z translation", func(t *testing.T) {
		center := V3(0, 1, 2)
		legacy := LookAt(V3(0, 1, 5), center, Up())
		fixed := LookAtFixed(V3(0, 1, 5), center, Up())

		assert.InDelta(t, -1.0, legacy[2][3], 1e-12)
		assert.InDelta(t, -2.0, fixed[2][3], 1e-12)

		// The corrected matrix maps center to the origin.
		p := fixed.MulPoint(center)
		assert.InDelta(t, 0.0, p.Len(), 1e-12)
	})

	t.Run("modes agree when center y equals z", func(t *testing.T) {
		center := V3(3, 0.5, 0.5)
		assert.Equal(t, LookAtFixed(V3(1, 1, 3), center, Up()), LookAt(V3(1, 1, 3), center, Up()))
	})
}

func TestRandPointOnUnitSphere(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	var sum Vec3
	const n = 2000
	for range n {
		p := RandPointOnUnitSphere(rng)
		assert.InDelta(t, 1.0, p.Len(), 1e-9)
		sum = sum.Add(p)
	}
	// Uniform samples average out near the center.
	assert.Less(t, sum.Scale(1.0/n).Len(), 0.1)
}
