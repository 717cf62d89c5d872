package meshio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"painter3d/internal/geom"
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50 // normal + 3 vertices as 12 float32, 2-byte attribute
)

var le = binary.LittleEndian

// ReadSTL reads an STL file. Data starting with "solid" is parsed as ASCII
// first; some binary exporters also write "solid" into the header, so an
// ASCII parse that fails or finds no facets falls back to the binary layout.
func ReadSTL(data []byte, opts Options) (*geom.Mesh, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return readBinarySTL(data, opts)
	}
	m, err := readASCIISTL(data, opts)
	if err == nil && m.Len() > 0 {
		return m, nil
	}
	if mb, berr := readBinarySTL(data, opts); berr == nil {
		return mb, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func readBinarySTL(data []byte, opts Options) (*geom.Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("binary stl: %d bytes, need at least %d: %w", len(data), stlHeaderSize+4, ErrShortData)
	}
	n := le.Uint32(data[stlHeaderSize:])
	body := data[stlHeaderSize+4:]
	if uint64(len(body)) < uint64(n)*stlRecordSize {
		return nil, fmt.Errorf("binary stl: %d triangles need %d bytes, have %d: %w",
			n, uint64(n)*stlRecordSize, len(body), ErrShortData)
	}

	colors := opts.palette()
	m := &geom.Mesh{Position: opts.Offset, Triangles: make([]geom.Triangle, 0, n)}
	for i := 0; i < int(n); i++ {
		rec := body[i*stlRecordSize:]
		var v [4]geom.Vec3
		for j := range v {
			v[j] = geom.V3(f32(rec[j*12:]), f32(rec[j*12+4:]), f32(rec[j*12+8:]))
		}
		// rec[48:50] is the attribute byte count; ignored.
		m.Triangles = append(m.Triangles, geom.NewTriangleWithNormal(v[0],
			v[1].Add(opts.Offset), v[2].Add(opts.Offset), v[3].Add(opts.Offset), colors()))
	}
	return m, nil
}

func f32(b []byte) float32 { return math.Float32frombits(le.Uint32(b)) }

func readASCIISTL(data []byte, opts Options) (*geom.Mesh, error) {
	colors := opts.palette()
	m := &geom.Mesh{Position: opts.Offset}

	var (
		inFacet bool
		normal  geom.Vec3
		verts   []geom.Vec3
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid", "endsolid", "outer", "endloop":
		case "facet":
			if inFacet {
				return nil, fmt.Errorf("line %d: facet inside facet: %w", line, ErrMalformed)
			}
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("line %d: want \"facet normal x y z\": %w", line, ErrMalformed)
			}
			n, err := parseVec3(fields[2:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			inFacet, normal, verts = true, n, verts[:0]
		case "vertex":
			if !inFacet {
				return nil, fmt.Errorf("line %d: vertex outside facet: %w", line, ErrMalformed)
			}
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			verts = append(verts, v.Add(opts.Offset))
		case "endfacet":
			if !inFacet || len(verts) != 3 {
				return nil, fmt.Errorf("line %d: facet with %d vertices: %w", line, len(verts), ErrMalformed)
			}
			m.Triangles = append(m.Triangles, geom.NewTriangleWithNormal(normal, verts[0], verts[1], verts[2], colors()))
			inFacet = false
		default:
			return nil, fmt.Errorf("line %d: unknown keyword %q: %w", line, fields[0], ErrMalformed)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	if inFacet {
		return nil, fmt.Errorf("unterminated facet: %w", ErrShortData)
	}
	return m, nil
}
