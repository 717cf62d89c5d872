package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"painter3d/internal/geom"
)

// ReadOBJ reads the vertex ("v") and face ("f") records of a Wavefront OBJ
// stream. Face indices are 1-based, negative indices count back from the
// last vertex read, and "i/t/n" references use only the vertex index.
// Polygons with more than three corners are split into a triangle fan.
// Other records are ignored.
func ReadOBJ(r io.Reader, opts Options) (*geom.Mesh, error) {
	colors := opts.palette()
	m := &geom.Mesh{Position: opts.Offset}

	var verts []geom.Vec3
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			verts = append(verts, v.Add(opts.Offset))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs 3 vertices, got %d: %w", line, len(fields)-1, ErrMalformed)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, f := range fields[1:] {
				i, err := faceIndex(f, len(verts))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				m.Triangles = append(m.Triangles,
					geom.NewTriangle(verts[idx[0]], verts[idx[k]], verts[idx[k+1]], colors()))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	return m, nil
}

// faceIndex resolves one face reference against n vertices read so far.
func faceIndex(ref string, n int) (int, error) {
	s, _, _ := strings.Cut(ref, "/")
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("face index %q: %w: %w", ref, ErrMalformed, err)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, fmt.Errorf("face index 0: %w", ErrBadIndex)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("face index %s with %d vertices: %w", s, n, ErrBadIndex)
	}
	return i, nil
}

func parseVec3(fields []string) (geom.Vec3, error) {
	if len(fields) < 3 {
		return geom.Vec3{}, fmt.Errorf("want 3 coordinates, got %d: %w", len(fields), ErrMalformed)
	}
	var xyz [3]float32
	for i := range xyz {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return geom.Vec3{}, fmt.Errorf("coordinate %q: %w: %w", fields[i], ErrMalformed, err)
		}
		xyz[i] = float32(f)
	}
	return geom.V3(xyz[0], xyz[1], xyz[2]), nil
}
