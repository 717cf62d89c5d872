// Package meshio reads triangle meshes from Wavefront OBJ and STL (ASCII and
// binary) data.
//
// Readers either return a complete mesh or an error; they never hand back a
// partially built mesh.
package meshio

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"painter3d/internal/geom"
)

var (
	ErrUnknownFormat = errors.New("meshio: unknown mesh format")
	ErrBadIndex      = errors.New("meshio: face index out of range")
	ErrShortData     = errors.New("meshio: unexpected end of data")
	ErrMalformed     = errors.New("meshio: malformed record")
)

// DefaultSeed seeds the colour palette when Options.Colors is nil.
const DefaultSeed = 1

// Options control how file geometry is placed in the world.
type Options struct {
	// Offset is added to every vertex and recorded as the mesh position.
	Offset geom.Vec3
	// Colors supplies one colour per triangle. nil means a fresh
	// geom.Palette(Seed) per load.
	Colors func() color.RGBA
	// Seed for the default palette; 0 means DefaultSeed.
	Seed int64
}

func (o Options) palette() func() color.RGBA {
	if o.Colors != nil {
		return o.Colors
	}
	if o.Seed == 0 {
		return geom.Palette(DefaultSeed)
	}
	return geom.Palette(o.Seed)
}

// Load reads the mesh at path, picking the reader from the file extension.
func Load(path string, opts Options) (*geom.Mesh, error) {
	var (
		m   *geom.Mesh
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		m, err = ReadOBJ(f, opts)
	case ".stl":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		m, err = ReadSTL(data, opts)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
