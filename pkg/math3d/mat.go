package math3d

// Mat2 is a 2x2 row-major matrix. It is the base case of the recursive
// determinant.
type Mat2 [2][2]float64

// Mat3 is a 3x3 row-major matrix.
type Mat3 [3][3]float64

func checkCell(kind string, r, c, n int) {
	if r < 0 || r >= n {
		indexPanic(kind+" row", r, n)
	}
	if c < 0 || c >= n {
		indexPanic(kind+" column", c, n)
	}
}

func cofactorSign(r, c int) float64 {
	if (r+c)%2 == 0 {
		return 1
	}
	return -1
}

// Identity2 returns the 2x2 identity matrix.
func Identity2() Mat2 {
	return Mat2{{1, 0}, {0, 1}}
}

// At returns the cell at (r, c). It panics if either index is out of range.
func (m Mat2) At(r, c int) float64 {
	checkCell("Mat2", r, c, 2)
	return m[r][c]
}

// Mul returns a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat2) Mul(b Mat2) Mat2 {
	var m Mat2
	for i := range 2 {
		for j := range 2 {
			for k := range 2 {
				m[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return m
}

// MulVec returns m * v.
func (m Mat2) MulVec(v Vec2) Vec2 {
	return Vec2{
		m[0][0]*v.X + m[0][1]*v.Y,
		m[1][0]*v.X + m[1][1]*v.Y,
	}
}

// Transpose returns the transposed matrix.
func (m Mat2) Transpose() Mat2 {
	return Mat2{{m[0][0], m[1][0]}, {m[0][1], m[1][1]}}
}

// Det returns the determinant.
func (m Mat2) Det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Cofactor returns the matrix of cofactors.
func (m Mat2) Cofactor() Mat2 {
	return Mat2{{m[1][1], -m[1][0]}, {-m[0][1], m[0][0]}}
}

// Inverse returns Transpose(Cofactor) / det. It panics with ErrSingular
// when the determinant is zero.
func (m Mat2) Inverse() Mat2 {
	det := m.Det()
	if det == 0 {
		panic(ErrSingular)
	}
	adj := m.Cofactor().Transpose()
	for i := range 2 {
		for j := range 2 {
			adj[i][j] /= det
		}
	}
	return adj
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// At returns the cell at (r, c). It panics if either index is out of range.
func (m Mat3) At(r, c int) float64 {
	checkCell("Mat3", r, c, 3)
	return m[r][c]
}

// Row returns row r as a vector.
func (m Mat3) Row(r int) Vec3 {
	checkCell("Mat3", r, 0, 3)
	return Vec3{m[r][0], m[r][1], m[r][2]}
}

// Column returns column c as a vector.
func (m Mat3) Column(c int) Vec3 {
	checkCell("Mat3", 0, c, 3)
	return Vec3{m[0][c], m[1][c], m[2][c]}
}

// SetRow replaces row r with v.
func (m *Mat3) SetRow(r int, v Vec3) {
	checkCell("Mat3", r, 0, 3)
	m[r] = [3]float64{v.X, v.Y, v.Z}
}

// SetColumn replaces column c with v.
func (m *Mat3) SetColumn(c int, v Vec3) {
	checkCell("Mat3", 0, c, 3)
	m[0][c], m[1][c], m[2][c] = v.X, v.Y, v.Z
}

// Mul returns a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				m[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return m
}

// MulVec returns m * v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	var t Mat3
	for i := range 3 {
		for j := range 3 {
			t[i][j] = m[j][i]
		}
	}
	return t
}

// Minor returns the 2x2 matrix left after removing row r and column c.
func (m Mat3) Minor(r, c int) Mat2 {
	checkCell("Mat3", r, c, 3)
	var out Mat2
	oi := 0
	for i := range 3 {
		if i == r {
			continue
		}
		oj := 0
		for j := range 3 {
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

// Det returns the determinant, expanded along the first row.
func (m Mat3) Det() float64 {
	var det float64
	for c := range 3 {
		det += m[0][c] * cofactorSign(0, c) * m.Minor(0, c).Det()
	}
	return det
}

// Cofactor returns the matrix of cofactors.
func (m Mat3) Cofactor() Mat3 {
	var out Mat3
	for i := range 3 {
		for j := range 3 {
			out[i][j] = cofactorSign(i, j) * m.Minor(i, j).Det()
		}
	}
	return out
}

// Inverse returns Transpose(Cofactor) / det. It panics with ErrSingular
// when the determinant is zero.
func (m Mat3) Inverse() Mat3 {
	return m.TransposeInverse().Transpose()
}

// TransposeInverse returns Cofactor / det, the transpose of the inverse.
func (m Mat3) TransposeInverse() Mat3 {
	det := m.Det()
	if det == 0 {
		panic(ErrSingular)
	}
	out := m.Cofactor()
	for i := range 3 {
		for j := range 3 {
			out[i][j] /= det
		}
	}
	return out
}
