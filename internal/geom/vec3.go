package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float32
}

func V3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(o Vec3) Vec3      { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Neg() Vec3            { return Vec3{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product accumulated in float64.
func (v Vec3) Dot(o Vec3) float64 {
	return float64(v.X)*float64(o.X) + float64(v.Y)*float64(o.Y) + float64(v.Z)*float64(o.Z)
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float32 { return float32(v.Len64()) }

func (v Vec3) Len64() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length.
//
// v must not be the zero vector; the result is NaN in that case.
func (v Vec3) Normalize() Vec3 {
	l := v.Len64()
	return Vec3{
		X: float32(float64(v.X) / l),
		Y: float32(float64(v.Y) / l),
		Z: float32(float64(v.Z) / l),
	}
}

// SetLength returns v normalized and scaled to l. Same precondition as Normalize.
func (v Vec3) SetLength(l float32) Vec3 {
	return v.Normalize().Scale(l)
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool { return v == Vec3{} }

// Finite reports whether no component is NaN or infinite.
func (v Vec3) Finite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// RotateX rotates the vector by deg degrees around the line parallel to the
// X axis through (y, z) = (oy, oz).
func (v Vec3) RotateX(deg, oy, oz float32) Vec3 {
	a, b := rotate2(v.Y-oy, v.Z-oz, deg)
	return Vec3{X: v.X, Y: a + oy, Z: b + oz}
}

// RotateY rotates the vector by deg degrees around the line parallel to the
// Y axis through (x, z) = (ox, oz).
func (v Vec3) RotateY(deg, ox, oz float32) Vec3 {
	a, b := rotate2(v.X-ox, v.Z-oz, deg)
	return Vec3{X: a + ox, Y: v.Y, Z: b + oz}
}

// RotateZ rotates the vector by deg degrees around the line parallel to the
// Z axis through (x, y) = (ox, oy).
func (v Vec3) RotateZ(deg, ox, oy float32) Vec3 {
	a, b := rotate2(v.X-ox, v.Y-oy, deg)
	return Vec3{X: a + ox, Y: b + oy, Z: v.Z}
}

func rotate2(a, b, deg float32) (float32, float32) {
	sin, cos := math.Sincos(float64(mgl32.DegToRad(deg)))
	fa, fb := float64(a), float64(b)
	return float32(fa*cos - fb*sin), float32(fa*sin + fb*cos)
}
