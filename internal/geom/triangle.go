package geom

import (
	"image/color"
	"math"
)

// Triangle is a flat-coloured triangle.
//
// Normal and Center are derived from V and must be recomputed whenever the
// vertices change; the methods below do so. Depth is only set on screen-space
// copies produced by the projector.
type Triangle struct {
	Normal Vec3
	V      [3]Vec3
	Color  color.RGBA
	Center Vec3
	Depth  float32
}

// NewTriangle builds a triangle and derives its normal from the winding of
// a, b, c.
func NewTriangle(a, b, c Vec3, col color.RGBA) Triangle {
	t := Triangle{V: [3]Vec3{a, b, c}, Color: col}
	t.Normal = Normal(a, b, c)
	t.Center = Centroid(a, b, c)
	return t
}

// NewTriangleWithNormal builds a triangle with a precomputed normal. A zero
// normal is replaced by the derived one.
func NewTriangleWithNormal(n, a, b, c Vec3, col color.RGBA) Triangle {
	if n.IsZero() {
		return NewTriangle(a, b, c, col)
	}
	return Triangle{
		Normal: n,
		V:      [3]Vec3{a, b, c},
		Color:  col,
		Center: Centroid(a, b, c),
	}
}

// Normal returns the unit normal of the triangle a, b, c using
// (b-a)×(c-a). Degenerate triangles give the zero vector.
func Normal(a, b, c Vec3) Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.IsZero() {
		return Vec3{}
	}
	return n.Normalize()
}

func Centroid(a, b, c Vec3) Vec3 {
	return Vec3{
		X: (a.X + b.X + c.X) / 3,
		Y: (a.Y + b.Y + c.Y) / 3,
		Z: (a.Z + b.Z + c.Z) / 3,
	}
}

func (t *Triangle) refresh() {
	t.Normal = Normal(t.V[0], t.V[1], t.V[2])
	t.Center = Centroid(t.V[0], t.V[1], t.V[2])
}

// Translate returns the triangle moved by d. The normal is unchanged.
func (t Triangle) Translate(d Vec3) Triangle {
	for i := range t.V {
		t.V[i] = t.V[i].Add(d)
	}
	t.Center = Centroid(t.V[0], t.V[1], t.V[2])
	return t
}

func (t Triangle) RotateX(deg, oy, oz float32) Triangle {
	for i := range t.V {
		t.V[i] = t.V[i].RotateX(deg, oy, oz)
	}
	t.refresh()
	return t
}

func (t Triangle) RotateY(deg, ox, oz float32) Triangle {
	for i := range t.V {
		t.V[i] = t.V[i].RotateY(deg, ox, oz)
	}
	t.refresh()
	return t
}

func (t Triangle) RotateZ(deg, ox, oy float32) Triangle {
	for i := range t.V {
		t.V[i] = t.V[i].RotateZ(deg, ox, oy)
	}
	t.refresh()
	return t
}

// Area2D returns the unsigned area of the triangle projected onto the XY plane.
func (t Triangle) Area2D() float64 {
	return math.Abs(t.SignedArea2D())
}

// SignedArea2D is positive for counter-clockwise XY winding.
func (t Triangle) SignedArea2D() float64 {
	a, b, c := t.V[0], t.V[1], t.V[2]
	return 0.5 * (float64(b.X-a.X)*float64(c.Y-a.Y) - float64(c.X-a.X)*float64(b.Y-a.Y))
}

// Finite reports whether every vertex is free of NaN and Inf.
func (t Triangle) Finite() bool {
	return t.V[0].Finite() && t.V[1].Finite() && t.V[2].Finite()
}
