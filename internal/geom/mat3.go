package geom

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrSingular is returned by Inverse when the determinant is zero or not finite.
var ErrSingular = errors.New("geom: singular matrix")

// Mat3 is a row-major 3x3 matrix: m[row][col].
//
// MulVec treats vectors as columns, so FromColumns(a, b, c).MulVec(v) is
// a*v.X + b*v.Y + c*v.Z.
type Mat3 [3][3]float32

func Identity3() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// FromColumns builds a matrix whose columns are c1, c2 and c3.
func FromColumns(c1, c2, c3 Vec3) Mat3 {
	return Mat3{
		{c1.X, c2.X, c3.X},
		{c1.Y, c2.Y, c3.Y},
		{c1.Z, c2.Z, c3.Z},
	}
}

// FromRows builds a matrix whose rows are r1, r2 and r3.
func FromRows(r1, r2, r3 Vec3) Mat3 {
	return Mat3{
		{r1.X, r1.Y, r1.Z},
		{r2.X, r2.Y, r2.Z},
		{r3.X, r3.Y, r3.Z},
	}
}

// RotationX returns the rotation by deg degrees about the X axis.
func RotationX(deg float32) Mat3 {
	s, c := sincos(deg)
	return Mat3{
		{1, 0, 0},
		{0, c, -s},
		{0, s, c},
	}
}

// RotationY returns the rotation by deg degrees about the Y axis.
func RotationY(deg float32) Mat3 {
	s, c := sincos(deg)
	return Mat3{
		{c, 0, s},
		{0, 1, 0},
		{-s, 0, c},
	}
}

// RotationZ returns the rotation by deg degrees about the Z axis.
func RotationZ(deg float32) Mat3 {
	s, c := sincos(deg)
	return Mat3{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}
}

func sincos(deg float32) (float32, float32) {
	s, c := math.Sincos(float64(mgl32.DegToRad(deg)))
	return float32(s), float32(c)
}

func (m Mat3) Row(i int) Vec3 { return Vec3{m[i][0], m[i][1], m[i][2]} }
func (m Mat3) Col(j int) Vec3 { return Vec3{m[0][j], m[1][j], m[2][j]} }

// Mul returns the matrix product m·o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += float64(m[i][k]) * float64(o[k][j])
			}
			out[i][j] = float32(sum)
		}
	}
	return out
}

// MulVec applies m as a linear map to the column vector v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: float32(m.Row(0).Dot(v)),
		Y: float32(m.Row(1).Dot(v)),
		Z: float32(m.Row(2).Dot(v)),
	}
}

// Scale multiplies every entry by s.
func (m Mat3) Scale(s float32) Mat3 {
	for i := range m {
		for j := range m[i] {
			m[i][j] *= s
		}
	}
	return m
}

// Transpose swaps rows and columns. For a rotation it is the inverse.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Det returns the determinant by cofactor expansion along the first row.
func (m Mat3) Det() float32 { return float32(m.det64()) }

func (m Mat3) det64() float64 {
	a, b, c := float64(m[0][0]), float64(m[0][1]), float64(m[0][2])
	d, e, f := float64(m[1][0]), float64(m[1][1]), float64(m[1][2])
	g, h, i := float64(m[2][0]), float64(m[2][1]), float64(m[2][2])
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}

// Inverse returns adj(m)/det(m). It fails with ErrSingular instead of
// dividing by a zero determinant.
func (m Mat3) Inverse() (Mat3, error) {
	det := m.det64()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Mat3{}, ErrSingular
	}

	a, b, c := float64(m[0][0]), float64(m[0][1]), float64(m[0][2])
	d, e, f := float64(m[1][0]), float64(m[1][1]), float64(m[1][2])
	g, h, i := float64(m[2][0]), float64(m[2][1]), float64(m[2][2])

	// Adjugate is the transposed cofactor matrix.
	adj := [3][3]float64{
		{e*i - f*h, -(b*i - c*h), b*f - c*e},
		{-(d*i - f*g), a*i - c*g, -(a*f - c*d)},
		{d*h - e*g, -(a*h - b*g), a*e - b*d},
	}

	var out Mat3
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			v := adj[r][col] / det
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Mat3{}, ErrSingular
			}
			out[r][col] = float32(v)
		}
	}
	return out, nil
}

// Mgl converts m to mathgl's column-major layout.
func (m Mat3) Mgl() mgl32.Mat3 {
	return mgl32.Mat3{
		m[0][0], m[1][0], m[2][0],
		m[0][1], m[1][1], m[2][1],
		m[0][2], m[1][2], m[2][2],
	}
}

// Mat3FromMgl converts a mathgl matrix into a Mat3.
func Mat3FromMgl(o mgl32.Mat3) Mat3 {
	return Mat3{
		{o.At(0, 0), o.At(0, 1), o.At(0, 2)},
		{o.At(1, 0), o.At(1, 1), o.At(1, 2)},
		{o.At(2, 0), o.At(2, 1), o.At(2, 2)},
	}
}
