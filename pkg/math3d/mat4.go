package math3d

import "math"

// Mat4 is a 4x4 matrix stored row-major and applied to column vectors.
//
// For an affine transform:
// | Xx Yx Zx Tx |   X,Y,Z = basis vectors (rotation/scale)
// | Xy Yy Zy Ty |   T = translation
// | Xz Yz Zz Tz |
// | 0  0  0  1  |
//
// The projection matrices built by this package also use the bottom row.
type Mat4 [4][4]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		{1, 0, 0, v.X},
		{0, 1, 0, v.Y},
		{0, 0, 1, v.Z},
		{0, 0, 0, 1},
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		{v.X, 0, 0, 0},
		{0, v.Y, 0, 0},
		{0, 0, v.Z, 0},
		{0, 0, 0, 1},
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// At returns the cell at (row, col). It panics if either index is out of range.
func (m Mat4) At(row, col int) float64 {
	checkCell("Mat4", row, col, 4)
	return m[row][col]
}

// Set sets the cell at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	checkCell("Mat4", row, col, 4)
	m[row][col] = val
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row][k] * b[k][col]
			}
			m[row][col] = sum
		}
	}
	return m
}

// MulVec transforms a homogeneous vector.
func (m Mat4) MulVec(v Vec4) Vec4 {
	return Vec4{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// MulPoint embeds v with w = 1, transforms it and drops w without dividing.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return m.MulVec(v.Embed4D()).Project3D()
}

// MulDir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulDir(v Vec3) Vec3 {
	return m.MulVec(v.Embed4DFill(0)).Project3D()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for row := range 4 {
		for col := range 4 {
			t[row][col] = m[col][row]
		}
	}
	return t
}

// Minor returns the 3x3 matrix left after removing row r and column c.
func (m Mat4) Minor(r, c int) Mat3 {
	checkCell("Mat4", r, c, 4)
	var out Mat3
	oi := 0
	for i := range 4 {
		if i == r {
			continue
		}
		oj := 0
		for j := range 4 {
			if j == c {
				continue
			}
			out[oi][oj] = m[i][j]
			oj++
		}
		oi++
	}
	return out
}

// Det returns the determinant, expanded along the first row through minors.
func (m Mat4) Det() float64 {
	var det float64
	for c := range 4 {
		det += m[0][c] * cofactorSign(0, c) * m.Minor(0, c).Det()
	}
	return det
}

// Cofactor returns the matrix of cofactors.
func (m Mat4) Cofactor() Mat4 {
	var out Mat4
	for i := range 4 {
		for j := range 4 {
			out[i][j] = cofactorSign(i, j) * m.Minor(i, j).Det()
		}
	}
	return out
}

// Inverse returns Transpose(Cofactor) / det. It panics with ErrSingular
// when the determinant is zero.
func (m Mat4) Inverse() Mat4 {
	return m.TransposeInverse().Transpose()
}

// TransposeInverse returns Cofactor / det, the transpose of the inverse.
// Normals are carried through a transform by this matrix.
func (m Mat4) TransposeInverse() Mat4 {
	det := m.Det()
	if det == 0 {
		panic(ErrSingular)
	}
	out := m.Cofactor()
	for i := range 4 {
		for j := range 4 {
			out[i][j] /= det
		}
	}
	return out
}
