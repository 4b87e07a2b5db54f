package chart

import "github.com/gogpu/chart/internal/gpu"

// Mat4 is a 4x4 float32 matrix in column-major order, the layout WGSL uses
// for mat4x4<f32>. Element (row r, column c) is stored at index c*4+r.
//
// Charts only need axis-aligned scale and translation, so the constructors
// cover those cases:
//
//	| sx  0  0  tx |
//	|  0 sy  0  ty |
//	|  0  0  1   0 |
//	|  0  0  0   1 |
type Mat4 [16]float32

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Scale4 returns a matrix scaling x and y.
func Scale4(sx, sy float32) Mat4 {
	m := Identity4()
	m[0] = sx
	m[5] = sy
	return m
}

// Translate4 returns a matrix translating x and y.
func Translate4(tx, ty float32) Mat4 {
	m := Identity4()
	m[12] = tx
	m[13] = ty
	return m
}

// Multiply returns m * other: other is applied first, then m.
func (m Mat4) Multiply(other Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// TransformPoint applies the matrix to the point (x, y, 0, 1) and returns the
// resulting x and y.
func (m Mat4) TransformPoint(x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

// putBytes writes the matrix as 64 little-endian bytes into buf.
func (m Mat4) putBytes(buf []byte) {
	gpu.PutFloat32s(buf, m[:])
}
