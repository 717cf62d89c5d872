// Package projection turns world-space meshes into sorted, clipped
// screen-space triangles.
//
// Pipeline per frame:
//
//	Camera → Basis → (per triangle, in parallel) visibility → unproject →
//	viewport map → clip → depth tag → (single goroutine) depth sort.
//
// Points are not projected with a perspective matrix. For each vertex the
// intersection of the eye ray with the view plane is solved as a 3x3 linear
// system, see unproject.
package projection

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"painter3d/internal/clip"
	"painter3d/internal/geom"
)

// DefaultViewThreshold is the minimum cosine between the camera forward axis
// and the direction to a triangle's centre for the triangle to be drawn.
const DefaultViewThreshold = 0.4

// DefaultBatch is the number of triangles handled by one worker task.
const DefaultBatch = 64

// Viewport is the output size in pixels.
type Viewport struct {
	Width, Height float32
}

// Aspect returns width/height.
func (v Viewport) Aspect() float32 { return v.Width / v.Height }

// Projector runs projection passes. Create it with New; the zero value has a
// view threshold of 0, which accepts everything in front of the camera.
type Projector struct {
	// Workers bounds the number of concurrent tasks. <= 0 means runtime.NumCPU().
	Workers int
	// Batch is the number of triangles per task. <= 0 means DefaultBatch.
	Batch int
	// ViewThreshold gates triangles by view angle, see DefaultViewThreshold.
	ViewThreshold float32
	// ClipBudget bounds clipper recursion. <= 0 means clip.DefaultBudget.
	ClipBudget int
}

func New() *Projector {
	return &Projector{
		Workers:       runtime.NumCPU(),
		Batch:         DefaultBatch,
		ViewThreshold: DefaultViewThreshold,
		ClipBudget:    clip.DefaultBudget,
	}
}

// Stats counts what happened to the input triangles of one pass.
type Stats struct {
	Input      int // world-space triangles considered
	BackFacing int // normal not facing the camera
	OutOfView  int // centre outside the view cone
	Degenerate int // zero normal, eye on the triangle, singular solve, vertex behind the eye
	Offscreen  int // clipped away entirely
	Output     int // screen-space triangles produced
}

func (s *Stats) merge(o Stats) {
	s.Input += o.Input
	s.BackFacing += o.BackFacing
	s.OutOfView += o.OutOfView
	s.Degenerate += o.Degenerate
	s.Offscreen += o.Offscreen
	s.Output += o.Output
}

// Result is the output of a projection pass, ordered far to near.
type Result struct {
	Triangles []geom.Triangle
	Stats     Stats
}

type batchResult struct {
	tris  []geom.Triangle
	stats Stats
}

// Project computes the screen-space triangles of meshes seen from cam.
//
// The meshes are only read. Each batch of triangles is handled by its own
// task; tasks share nothing but the read-only frame and report through a
// channel that this goroutine drains once per task before sorting. A
// non-positive viewport yields an empty result.
func (p *Projector) Project(cam Camera, vp Viewport, meshes ...*geom.Mesh) Result {
	var res Result
	if vp.Width <= 0 || vp.Height <= 0 {
		return res
	}

	f := p.frame(cam, vp)
	batch := p.Batch
	if batch <= 0 {
		batch = DefaultBatch
	}

	tasks := 0
	for _, m := range meshes {
		n := m.Len()
		tasks += (n + batch - 1) / batch
	}
	if tasks == 0 {
		return res
	}

	results := make(chan batchResult, tasks)

	var g errgroup.Group
	g.SetLimit(p.workers())
	go func() {
		for _, m := range meshes {
			for lo := 0; lo < m.Len(); lo += batch {
				tris := m.Triangles[lo:min(lo+batch, len(m.Triangles))]
				g.Go(func() error {
					results <- f.projectBatch(tris)
					return nil
				})
			}
		}
		_ = g.Wait()
	}()

	for i := 0; i < tasks; i++ {
		r := <-results
		res.Stats.merge(r.stats)
		res.Triangles = append(res.Triangles, r.tris...)
	}
	sortByDepth(res.Triangles)
	return res
}

func (p *Projector) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.NumCPU()
}

// frame is the read-only state shared by every task of one pass.
type frame struct {
	pos       geom.Vec3
	forward   geom.Vec3
	negFwd    geom.Vec3
	e1, e2    geom.Vec3
	vp        Viewport
	threshold float64
	budget    int
}

func (p *Projector) frame(cam Camera, vp Viewport) *frame {
	b := cam.Basis()
	budget := p.ClipBudget
	if budget <= 0 {
		budget = clip.DefaultBudget
	}
	return &frame{
		pos:     cam.Position,
		forward: b.Forward,
		negFwd:  b.Forward.Neg(),
		// Half extents of the view plane at distance 1. Screen y grows
		// downward, so e2 points along -Up.
		e1:        b.Right.Scale(0.5 * vp.Aspect()),
		e2:        b.Up.Scale(-0.5),
		vp:        vp,
		threshold: float64(p.ViewThreshold),
		budget:    budget,
	}
}

func (f *frame) projectBatch(tris []geom.Triangle) batchResult {
	var r batchResult
	for i := range tris {
		r.stats.Input++
		out, st := f.project(&tris[i])
		r.stats.merge(st)
		r.tris = append(r.tris, out...)
	}
	return r
}

// project handles one world-space triangle and returns its clipped
// screen-space pieces. st records why a triangle produced nothing.
func (f *frame) project(t *geom.Triangle) (out []geom.Triangle, st Stats) {
	look := t.Center.Sub(f.pos)
	dist := look.Len64()
	if dist == 0 || t.Normal.IsZero() || !t.Finite() {
		st.Degenerate++
		return nil, st
	}
	lx, ly, lz := float64(look.X)/dist, float64(look.Y)/dist, float64(look.Z)/dist

	facing := float64(t.Normal.X)*lx + float64(t.Normal.Y)*ly + float64(t.Normal.Z)*lz
	if !(facing < 0) {
		st.BackFacing++
		return nil, st
	}
	inView := float64(f.forward.X)*lx + float64(f.forward.Y)*ly + float64(f.forward.Z)*lz
	if !(inView > f.threshold) {
		st.OutOfView++
		return nil, st
	}

	s := *t
	for k, v := range t.V {
		p, ok := f.unproject(v)
		if !ok {
			st.Degenerate++
			return nil, st
		}
		s.V[k] = p
	}
	s.Center = geom.Centroid(s.V[0], s.V[1], s.V[2])
	s.Depth = float32(dist)

	out = clip.Clip(s, f.vp.Width, f.vp.Height, f.budget)
	if len(out) == 0 {
		st.Offscreen++
	}
	st.Output += len(out)
	return out, st
}

// unproject maps a world point to screen pixels.
//
// With eye e, view plane centre s = e + forward and plane axes e1, e2, the
// eye ray through x meets the plane where
//
//	e + λ(x-e) = s + ς1·e1 + ς2·e2
//
// i.e. M·(ς1, ς2, λ) = e - s = -forward with M = [e1 | e2 | -(x-e)].
// ς1 and ς2 are in [-1, 1] across the viewport; λ > 0 means x is in front of
// the eye.
func (f *frame) unproject(x geom.Vec3) (geom.Vec3, bool) {
	m := geom.FromColumns(f.e1, f.e2, x.Sub(f.pos).Neg())
	inv, err := m.Inverse()
	if err != nil {
		return geom.Vec3{}, false
	}
	u := inv.MulVec(f.negFwd)
	if !u.Finite() || u.Z <= 0 {
		return geom.Vec3{}, false
	}
	return geom.Vec3{
		X: (u.X + 1) * 0.5 * f.vp.Width,
		Y: (u.Y + 1) * 0.5 * f.vp.Height,
		Z: u.Z,
	}, true
}
