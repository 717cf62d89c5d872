// Package raster paints screen-space triangles into an image in draw order.
//
// There is no depth buffer: callers pass triangles sorted far to near and
// later triangles overwrite earlier ones.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"painter3d/internal/geom"
)

// Canvas wraps an RGBA image.
type Canvas struct {
	Img *image.RGBA
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (c *Canvas) Clear(col color.RGBA) {
	draw.Draw(c.Img, c.Img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) set(x, y int, col color.RGBA) {
	if !(image.Point{x, y}).In(c.Img.Bounds()) {
		return
	}
	offset := c.Img.PixOffset(x, y)
	c.Img.Pix[offset] = col.R
	c.Img.Pix[offset+1] = col.G
	c.Img.Pix[offset+2] = col.B
	c.Img.Pix[offset+3] = col.A
}

// DrawLine draws a line from (x1, y1) to (x2, y2) with a DDA walk.
func (c *Canvas) DrawLine(x1, y1, x2, y2 int, col color.RGBA) {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps == 0 {
		c.set(x1, y1, col)
		return
	}

	xInc := dx / steps
	yInc := dy / steps

	x := float64(x1)
	y := float64(y1)

	for i := 0; i <= int(steps); i++ {
		c.set(int(math.Round(x)), int(math.Round(y)), col)
		x += xInc
		y += yInc
	}
}

// FillTriangle fills t with its flat colour. A pixel is covered when its
// centre lies inside the triangle or on a top/left edge, so triangles that
// share an edge do not double-paint it.
func (c *Canvas) FillTriangle(t geom.Triangle) {
	a, b, d := t.V[0], t.V[1], t.V[2]
	area := edge(a, b, d.X, d.Y)
	if area == 0 {
		return
	}
	if area < 0 {
		b, d = d, b
	}

	bounds := c.Img.Bounds()
	minX := max(int(math.Floor(float64(min(a.X, b.X, d.X)))), bounds.Min.X)
	maxX := min(int(math.Ceil(float64(max(a.X, b.X, d.X)))), bounds.Max.X-1)
	minY := max(int(math.Floor(float64(min(a.Y, b.Y, d.Y)))), bounds.Min.Y)
	maxY := min(int(math.Ceil(float64(max(a.Y, b.Y, d.Y)))), bounds.Max.Y-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			if covers(b, d, px, py) && covers(d, a, px, py) && covers(a, b, px, py) {
				c.set(x, y, t.Color)
			}
		}
	}
}

// edge is twice the signed area of (p, q, (x, y)).
func edge(p, q geom.Vec3, x, y float32) float32 {
	return (q.X-p.X)*(y-p.Y) - (q.Y-p.Y)*(x-p.X)
}

func covers(p, q geom.Vec3, x, y float32) bool {
	w := edge(p, q, x, y)
	if w != 0 {
		return w > 0
	}
	// Top-left rule for positive winding in y-down screen space.
	return (q.Y == p.Y && q.X < p.X) || q.Y > p.Y
}

// DrawWire outlines t.
func (c *Canvas) DrawWire(t geom.Triangle, col color.RGBA) {
	for i := range t.V {
		p, q := t.V[i], t.V[(i+1)%3]
		c.DrawLine(int(p.X), int(p.Y), int(q.X), int(q.Y), col)
	}
}

// Paint fills tris in order.
func (c *Canvas) Paint(tris []geom.Triangle) {
	for _, t := range tris {
		c.FillTriangle(t)
	}
}

// Label writes text with its baseline at (x, y).
func (c *Canvas) Label(x, y int, text string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  c.Img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
