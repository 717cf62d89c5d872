// Package scene holds the viewer configuration and the world a viewer draws:
// the camera, the loaded meshes and the projector that turns them into
// screen-space triangles each frame.
package scene

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"painter3d/internal/clip"
	"painter3d/internal/geom"
	"painter3d/internal/meshio"
	"painter3d/internal/projection"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600

	cacheTTL = 10 * time.Minute
)

var ErrEmpty = errors.New("scene: nothing to draw, pass -mesh or -cube")

// Config is shared by the viewers.
type Config struct {
	Width, Height int
	Meshes        []string
	Spacing       float64
	Cube          bool
	Workers       int
	ViewThreshold float64
	ClipBudget    int
	Seed          int64
	Snapshot      string
	Wire          bool
}

// Flags registers the viewer flags on fs and returns the config they fill.
func Flags(fs *flag.FlagSet) *Config {
	c := &Config{}
	fs.IntVar(&c.Width, "width", DefaultWidth, "viewport width in pixels")
	fs.IntVar(&c.Height, "height", DefaultHeight, "viewport height in pixels")
	fs.Func("mesh", "OBJ or STL file to load (repeatable, comma separated)", func(s string) error {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Meshes = append(c.Meshes, p)
			}
		}
		return nil
	})
	fs.Float64Var(&c.Spacing, "spacing", 2, "distance along X between consecutive meshes")
	fs.BoolVar(&c.Cube, "cube", false, "add a unit cube at the origin")
	fs.IntVar(&c.Workers, "workers", 0, "projection workers (0 = NumCPU)")
	fs.Float64Var(&c.ViewThreshold, "view-threshold", projection.DefaultViewThreshold,
		"minimum cosine between view direction and triangle centre")
	fs.IntVar(&c.ClipBudget, "clip-budget", clip.DefaultBudget, "clipper recursion budget")
	fs.Int64Var(&c.Seed, "seed", meshio.DefaultSeed, "triangle colour seed")
	fs.StringVar(&c.Snapshot, "snapshot", "", "render one frame to this PNG file and exit")
	fs.BoolVar(&c.Wire, "wire", false, "outline triangles in the snapshot")
	return c
}

// Validate checks the values flags cannot constrain.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("scene: viewport %dx%d must be positive", c.Width, c.Height)
	}
	if c.ViewThreshold < -1 || c.ViewThreshold > 1 {
		return fmt.Errorf("scene: view threshold %g outside [-1, 1]", c.ViewThreshold)
	}
	if !c.Cube && len(c.Meshes) == 0 {
		return ErrEmpty
	}
	return nil
}

// Scene is not safe for concurrent use; viewers drive it from their frame
// loop.
type Scene struct {
	Camera projection.Camera
	Meshes []*geom.Mesh

	cfg   Config
	proj  *projection.Projector
	cache *meshio.Cache
}

// New validates cfg and loads the meshes it names.
func New(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := projection.New()
	if cfg.Workers > 0 {
		p.Workers = cfg.Workers
	}
	p.ViewThreshold = float32(cfg.ViewThreshold)
	p.ClipBudget = cfg.ClipBudget

	s := &Scene{
		Camera: DefaultCamera(),
		cfg:    cfg,
		proj:   p,
		cache:  meshio.NewCache(cacheTTL, meshio.Options{Seed: cfg.Seed}),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultCamera sits four units in front of the origin looking down +Z.
func DefaultCamera() projection.Camera {
	return projection.Camera{Position: geom.V3(0, 0, -4)}
}

// Reload rebuilds the mesh list. Files that did not change since the last
// load come from the cache. On error the previous meshes are kept.
func (s *Scene) Reload() error {
	var meshes []*geom.Mesh
	if s.cfg.Cube {
		meshes = append(meshes, geom.Cube(geom.Vec3{}, geom.Palette(s.cfg.Seed)))
	}
	for i, path := range s.cfg.Meshes {
		m, err := s.cache.Get(path)
		if err != nil {
			return err
		}
		m.Translate(geom.V3(float32(float64(i)*s.cfg.Spacing), 0, 0))
		meshes = append(meshes, m)
	}
	s.Meshes = meshes
	return nil
}

func (s *Scene) Viewport() projection.Viewport {
	return projection.Viewport{Width: float32(s.cfg.Width), Height: float32(s.cfg.Height)}
}

func (s *Scene) Config() Config { return s.cfg }

// Frame projects every mesh from the current camera.
func (s *Scene) Frame() projection.Result {
	return s.proj.Project(s.Camera, s.Viewport(), s.Meshes...)
}

// Triangles returns the total world-space triangle count.
func (s *Scene) Triangles() int {
	n := 0
	for _, m := range s.Meshes {
		n += m.Len()
	}
	return n
}
