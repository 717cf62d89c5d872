// Package clip cuts screen-space triangles against the viewport rectangle.
//
// Each of the four viewport edges is a half-plane. A triangle is tested
// against them in turn; when one or two of its vertices fall outside the
// current edge, the inside part is re-triangulated and every piece is clipped
// again. The recursion consumes an explicit budget so that floating-point
// corner cases cannot loop.
package clip

import "painter3d/internal/geom"

// DefaultBudget is enough for any triangle: four edges can split a triangle
// into at most a handful of pieces.
const DefaultBudget = 32

type axis uint8

const (
	axisX axis = iota
	axisY
)

// edge is one viewport boundary. A vertex is outside when its coordinate on
// axis is below bound (min) or above it (!min).
type edge struct {
	axis  axis
	bound float32
	min   bool
}

func (e edge) coord(v geom.Vec3) float32 {
	if e.axis == axisX {
		return v.X
	}
	return v.Y
}

func (e edge) outside(v geom.Vec3) bool {
	c := e.coord(v)
	if e.min {
		return c < e.bound
	}
	return c > e.bound
}

// cut returns the point on segment in→out lying on the edge. The clipped
// coordinate is snapped to the bound so the result never tests outside.
func (e edge) cut(in, out geom.Vec3) geom.Vec3 {
	ci, co := e.coord(in), e.coord(out)
	f := (e.bound - ci) / (co - ci)
	p := in.Add(out.Sub(in).Scale(f))
	if e.axis == axisX {
		p.X = e.bound
	} else {
		p.Y = e.bound
	}
	return p
}

func edges(width, height float32) [4]edge {
	return [4]edge{
		{axis: axisX, bound: 0, min: true},
		{axis: axisX, bound: width},
		{axis: axisY, bound: 0, min: true},
		{axis: axisY, bound: height},
	}
}

// Clip returns the pieces of t inside [0,width]×[0,height]. The result is
// empty when t lies entirely outside, has non-finite vertices, or when the
// budget runs out. Pieces keep t's colour, normal and depth and preserve its
// winding.
func Clip(t geom.Triangle, width, height float32, budget int) []geom.Triangle {
	if !t.Finite() {
		return nil
	}
	es := edges(width, height)
	out := clip(t, es[:], budget, nil)
	// Interpolation against a later edge can leave a vertex an ulp past an
	// earlier one.
	for i := range out {
		for k := range out[i].V {
			v := &out[i].V[k]
			v.X = clamp(v.X, 0, width)
			v.Y = clamp(v.Y, 0, height)
		}
	}
	return out
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clip(t geom.Triangle, es []edge, budget int, out []geom.Triangle) []geom.Triangle {
	for i, e := range es {
		var in, o [3]bool
		n := 0
		for k, v := range t.V {
			o[k] = e.outside(v)
			in[k] = !o[k]
			if o[k] {
				n++
			}
		}

		switch n {
		case 0:
			continue
		case 3:
			return out
		}

		if budget <= 0 {
			return out
		}
		rest := es[i+1:]

		if n == 1 {
			// One vertex outside: the inside part is a quad, split in two.
			k := index(o)
			a, b, c := t.V[k], t.V[(k+1)%3], t.V[(k+2)%3]
			ab := e.cut(b, a)
			ca := e.cut(c, a)
			out = clip(piece(t, ab, b, c), rest, budget-1, out)
			out = clip(piece(t, ab, c, ca), rest, budget-1, out)
			return out
		}

		// Two vertices outside: one smaller triangle remains.
		k := index(in)
		a, b, c := t.V[k], t.V[(k+1)%3], t.V[(k+2)%3]
		return clip(piece(t, a, e.cut(a, b), e.cut(a, c)), rest, budget-1, out)
	}
	return append(out, t)
}

func index(flags [3]bool) int {
	for k, f := range flags {
		if f {
			return k
		}
	}
	return 0
}

// piece copies t with new vertices. Only the centroid is recomputed; the
// normal stays the one of the source triangle.
func piece(t geom.Triangle, a, b, c geom.Vec3) geom.Triangle {
	t.V = [3]geom.Vec3{a, b, c}
	t.Center = geom.Centroid(a, b, c)
	return t
}
