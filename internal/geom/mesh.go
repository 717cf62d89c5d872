package geom

import (
	"image/color"
	"math/rand"
)

// Mesh is a triangle soup placed in the world at Position.
//
// Triangles are already in world space; Position records the offset that was
// applied when the mesh was built so later moves can keep it in sync.
type Mesh struct {
	Triangles []Triangle
	Position  Vec3
}

// Palette returns a colour source producing random opaque colours. The same
// seed always yields the same sequence.
func Palette(seed int64) func() color.RGBA {
	rng := rand.New(rand.NewSource(seed))
	return func() color.RGBA {
		return color.RGBA{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
			A: 0xFF,
		}
	}
}

// unit cube corners, wound so that (b-a)×(c-a) points outward.
var cubeFaces = [12][3]Vec3{
	// front (-z)
	{{-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}},
	{{-0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, -0.5, -0.5}},
	// right (+x)
	{{0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}},
	{{0.5, -0.5, -0.5}, {0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}},
	// back (+z)
	{{0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},
	{{0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, -0.5, 0.5}},
	// left (-x)
	{{-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}},
	{{-0.5, -0.5, 0.5}, {-0.5, 0.5, -0.5}, {-0.5, -0.5, -0.5}},
	// top (+y)
	{{-0.5, 0.5, -0.5}, {-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}},
	{{-0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}},
	// bottom (-y)
	{{0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}, {-0.5, -0.5, -0.5}},
	{{0.5, -0.5, 0.5}, {-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}},
}

// Cube returns an axis-aligned unit cube centred on pos. colors may be nil,
// in which case every face is light grey.
func Cube(pos Vec3, colors func() color.RGBA) *Mesh {
	m := &Mesh{Position: pos, Triangles: make([]Triangle, 0, len(cubeFaces))}
	for _, f := range cubeFaces {
		col := color.RGBA{0xCC, 0xCC, 0xCC, 0xFF}
		if colors != nil {
			col = colors()
		}
		m.Triangles = append(m.Triangles, NewTriangle(f[0].Add(pos), f[1].Add(pos), f[2].Add(pos), col))
	}
	return m
}

// Translate moves every triangle and the mesh position by d.
func (m *Mesh) Translate(d Vec3) {
	m.Position = m.Position.Add(d)
	for i := range m.Triangles {
		m.Triangles[i] = m.Triangles[i].Translate(d)
	}
}

// RotateX rotates the mesh about the X-parallel axis through (oy, oz).
func (m *Mesh) RotateX(deg, oy, oz float32) {
	for i := range m.Triangles {
		m.Triangles[i] = m.Triangles[i].RotateX(deg, oy, oz)
	}
}

// RotateY rotates the mesh about the Y-parallel axis through (ox, oz).
func (m *Mesh) RotateY(deg, ox, oz float32) {
	for i := range m.Triangles {
		m.Triangles[i] = m.Triangles[i].RotateY(deg, ox, oz)
	}
}

// RotateZ rotates the mesh about the Z-parallel axis through (ox, oy).
func (m *Mesh) RotateZ(deg, ox, oy float32) {
	for i := range m.Triangles {
		m.Triangles[i] = m.Triangles[i].RotateZ(deg, ox, oy)
	}
}

// Len returns the number of triangles, treating a nil mesh as empty.
func (m *Mesh) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Triangles)
}
