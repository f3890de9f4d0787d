package math3d

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMat4InDelta(t *testing.T, want, got Mat4, delta float64) {
	t.Helper()
	for r := range 4 {
		for c := range 4 {
			assert.InDelta(t, want[r][c], got[r][c], delta, "cell (%d,%d)", r, c)
		}
	}
}

func randomMat4(rng *rand.Rand) Mat4 {
	var m Mat4
	for r := range 4 {
		for c := range 4 {
			m[r][c] = rng.Float64()*4 - 2
		}
	}
	return m
}

func TestInverseIdentity(t *testing.T) {
	assertMat4InDelta(t, Identity(), Identity().Inverse(), 1e-9)
	assertMat4InDelta(t, Identity(), Identity().TransposeInverse(), 1e-9)
	assert.Equal(t, Identity3(), Identity3().Inverse())
	assert.Equal(t, Identity2(), Identity2().Inverse())
}

func TestMat4MulAssociative(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for range 50 {
		a, b, c := randomMat4(rng), randomMat4(rng), randomMat4(rng)
		assertMat4InDelta(t, a.Mul(b).Mul(c), a.Mul(b.Mul(c)), 1e-9)
	}
}

func TestMat4InverseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"translate", Translate(V3(1, 2, 3))},
		{"rotate", RotateY(0.5).Mul(RotateX(1.2))},
		{"composite", Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 3, 4)))},
		{"viewport projection lookat", Viewport(100, 100, 600, 600).Mul(Projection(-1.0 / 3)).Mul(LookAt(V3(1, 1, 3), Zero3(), Up()))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertMat4InDelta(t, Identity(), tc.m.Mul(tc.m.Inverse()), 1e-9)
			assertMat4InDelta(t, tc.m.Inverse().Transpose(), tc.m.TransposeInverse(), 1e-12)
		})
	}
}

func TestDeterminant(t *testing.T) {
	assert.Equal(t, -2.0, Mat2{{1, 2}, {3, 4}}.Det())
	assert.InDelta(t, 25.0, Mat3{{2, 0, 1}, {1, 3, 0}, {0, 1, 4}}.Det(), 1e-12)
	assert.InDelta(t, 24.0, Scale(V3(2, 3, 4)).Det(), 1e-12)

	// A shear does not change volume.
	shear := Identity()
	shear[0][1] = 5
	assert.InDelta(t, 1.0, shear.Det(), 1e-12)
}

func TestMat3Inverse(t *testing.T) {
	m := Mat3{{2, 0, 1}, {1, 3, 0}, {0, 1, 4}}
	got := m.Mul(m.Inverse())
	for r := range 3 {
		for c := range 3 {
			assert.InDelta(t, Identity3()[r][c], got[r][c], 1e-12)
		}
	}

	v := V3(1, -2, 0.5)
	back := m.Inverse().MulVec(m.MulVec(v))
	assert.InDelta(t, v.X, back.X, 1e-12)
	assert.InDelta(t, v.Y, back.Y, 1e-12)
	assert.InDelta(t, v.Z, back.Z, 1e-12)
}

func TestMat3RowsAndColumns(t *testing.T) {
	var m Mat3
	m.SetRow(0, V3(1, 2, 3))
	m.SetColumn(2, V3(7, 8, 9))

	assert.Equal(t, V3(1, 2, 7), m.Row(0))
	assert.Equal(t, V3(7, 8, 9), m.Column(2))
	assert.Equal(t, 8.0, m.At(1, 2))
}

func TestSingularInversePanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.ErrorIs(t, r.(error), ErrSingular)
	}()
	_ = Mat3{{1, 2, 3}, {2, 4, 6}, {0, 0, 1}}.Inverse()
}

func TestMatrixIndexOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"mat4 row", func() { Identity().At(4, 0) }},
		{"mat4 column", func() { Identity().At(0, -1) }},
		{"mat3 set row", func() { var m Mat3; m.SetRow(3, Zero3()) }},
		{"mat2", func() { Identity2().At(2, 2) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				assert.ErrorIs(t, r.(error), ErrIndexOutOfRange)
			}()
			tc.fn()
		})
	}
}

func TestRotationMatchesAxes(t *testing.T) {
	p := RotateZ(halfPi).MulPoint(V3(1, 0, 0))
	assert.InDelta(t, 0.0, p.X, 1e-12)
	assert.InDelta(t, 1.0, p.Y, 1e-12)

	p = RotateY(halfPi).MulPoint(V3(0, 0, 1))
	assert.InDelta(t, 1.0, p.X, 1e-12)

	p = RotateX(halfPi).MulPoint(V3(0, 1, 0))
	assert.InDelta(t, 1.0, p.Z, 1e-12)
}
