package meshio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"painter3d/internal/geom"
)

const squareOBJ = `# unit square in the XY plane
o square
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1 2 3 4
`

func TestReadOBJ(t *testing.T) {
	m, err := ReadOBJ(strings.NewReader(squareOBJ), Options{})
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("quad split into %d triangles, want 2", m.Len())
	}
	want := [][3]geom.Vec3{
		{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(1, 1, 0)},
		{geom.V3(0, 0, 0), geom.V3(1, 1, 0), geom.V3(0, 1, 0)},
	}
	for i, tri := range m.Triangles {
		if tri.V != want[i] {
			t.Fatalf("triangle %d = %v, want %v", i, tri.V, want[i])
		}
		if tri.Normal != geom.V3(0, 0, 1) {
			t.Fatalf("triangle %d normal %v", i, tri.Normal)
		}
		if tri.Color.A != 0xFF {
			t.Fatalf("triangle %d colour not opaque: %v", i, tri.Color)
		}
	}
}

func TestReadOBJIndices(t *testing.T) {
	tests := []struct {
		name string
		face string
		want [3]geom.Vec3
	}{
		{"plain", "f 1 2 3", [3]geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(0, 1, 0)}},
		{"negative", "f -3 -2 -1", [3]geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(0, 1, 0)}},
		{"with texture and normal", "f 3/1/1 1/2/1 2//1", [3]geom.Vec3{geom.V3(0, 1, 0), geom.V3(0, 0, 0), geom.V3(1, 0, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "v 0 0 0\nv 1 0 0\nv 0 1 0\n" + tt.face + "\n"
			m, err := ReadOBJ(strings.NewReader(src), Options{})
			if err != nil {
				t.Fatalf("ReadOBJ: %v", err)
			}
			if m.Len() != 1 || m.Triangles[0].V != tt.want {
				t.Fatalf("got %v, want %v", m.Triangles, tt.want)
			}
		})
	}
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrBadIndex},
		{"index zero", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrBadIndex},
		{"negative past start", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -4 1 2\n", ErrBadIndex},
		{"face before vertices", "f 1 2 3\nv 0 0 0\nv 1 0 0\nv 0 1 0\n", ErrBadIndex},
		{"two corners", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrMalformed},
		{"bad coordinate", "v 0 zero 0\n", ErrMalformed},
		{"short vertex", "v 0 0\n", ErrMalformed},
		{"bad index", "v 0 0 0\nf a b c\n", ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadOBJ(strings.NewReader(tt.src), Options{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Fatal("partial mesh returned with error")
			}
		})
	}
}

func TestOptions(t *testing.T) {
	blue := color.RGBA{0, 0, 0xFF, 0xFF}
	opts := Options{
		Offset: geom.V3(0, 0, 5),
		Colors: func() color.RGBA { return blue },
	}
	m, err := ReadOBJ(strings.NewReader(squareOBJ), opts)
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if m.Position != opts.Offset {
		t.Fatalf("Position = %v", m.Position)
	}
	for _, tri := range m.Triangles {
		if tri.Color != blue {
			t.Fatalf("Color = %v", tri.Color)
		}
		for _, v := range tri.V {
			if v.Z != 5 {
				t.Fatalf("offset not applied: %v", v)
			}
		}
	}

	// The default palette is deterministic per seed.
	a, _ := ReadOBJ(strings.NewReader(squareOBJ), Options{Seed: 3})
	b, _ := ReadOBJ(strings.NewReader(squareOBJ), Options{Seed: 3})
	if a.Triangles[0].Color != b.Triangles[0].Color || a.Triangles[1].Color != b.Triangles[1].Color {
		t.Fatal("same seed gave different colours")
	}
}

type stlFacet struct {
	n geom.Vec3
	v [3]geom.Vec3
}

func binarySTL(header string, facets []stlFacet) []byte {
	var buf bytes.Buffer
	h := make([]byte, stlHeaderSize)
	copy(h, header)
	buf.Write(h)
	binary.Write(&buf, binary.LittleEndian, uint32(len(facets)))
	for _, f := range facets {
		for _, v := range append([]geom.Vec3{f.n}, f.v[:]...) {
			binary.Write(&buf, binary.LittleEndian, [3]float32{v.X, v.Y, v.Z})
		}
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

var stlTetra = []stlFacet{
	{geom.V3(0, 0, -1), [3]geom.Vec3{geom.V3(0, 0, 0), geom.V3(0, 1, 0), geom.V3(1, 0, 0)}},
	{geom.Vec3{}, [3]geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(0, 0, 1)}},
}

func TestReadBinarySTL(t *testing.T) {
	m, err := ReadSTL(binarySTL("exported by test", stlTetra), Options{Offset: geom.V3(1, 0, 0)})
	if err != nil {
		t.Fatalf("ReadSTL: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("got %d triangles", m.Len())
	}
	if got := m.Triangles[0].Normal; got != geom.V3(0, 0, -1) {
		t.Fatalf("stored normal = %v", got)
	}
	// A zero stored normal is derived from the winding.
	if got := m.Triangles[1].Normal; got != geom.V3(0, -1, 0) {
		t.Fatalf("derived normal = %v", got)
	}
	if got := m.Triangles[0].V[2]; got != geom.V3(2, 0, 0) {
		t.Fatalf("offset vertex = %v", got)
	}
}

func TestReadBinarySTLWithSolidHeader(t *testing.T) {
	m, err := ReadSTL(binarySTL("solid exported", stlTetra), Options{})
	if err != nil {
		t.Fatalf("ReadSTL: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("got %d triangles", m.Len())
	}
}

func TestReadBinarySTLShort(t *testing.T) {
	full := binarySTL("x", stlTetra)
	for _, n := range []int{0, 40, stlHeaderSize + 2, len(full) - 1} {
		if _, err := ReadSTL(full[:n], Options{}); !errors.Is(err, ErrShortData) {
			t.Fatalf("%d bytes: err = %v, want ErrShortData", n, err)
		}
	}
}

const asciiSTL = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 0 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
endsolid tetra
`

func TestReadASCIISTL(t *testing.T) {
	m, err := ReadSTL([]byte(asciiSTL), Options{})
	if err != nil {
		t.Fatalf("ReadSTL: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("got %d triangles", m.Len())
	}
	if m.Triangles[0].Normal != geom.V3(0, 0, -1) || m.Triangles[1].Normal != geom.V3(0, -1, 0) {
		t.Fatalf("normals %v, %v", m.Triangles[0].Normal, m.Triangles[1].Normal)
	}
	if m.Triangles[0].V[1] != geom.V3(0, 1, 0) {
		t.Fatalf("vertex = %v", m.Triangles[0].V[1])
	}
}

func TestReadASCIISTLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"two vertices", "solid x\nfacet normal 0 0 1\nvertex 0 0 0\nvertex 1 0 0\nendfacet\nendsolid\n", ErrMalformed},
		{"unterminated", "solid x\nfacet normal 0 0 1\nvertex 0 0 0\n", ErrShortData},
		{"vertex outside facet", "solid x\nvertex 0 0 0\n", ErrMalformed},
		{"bad number", "solid x\nfacet normal 0 0 1\nvertex 0 nope 0\n", ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadSTL([]byte(tt.src), Options{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Fatal("partial mesh returned with error")
			}
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	obj := writeFile(t, dir, "square.OBJ", squareOBJ)
	stl := writeFile(t, dir, "tetra.stl", string(binarySTL("bin", stlTetra)))
	ply := writeFile(t, dir, "mesh.ply", "ply\n")
	bad := writeFile(t, dir, "bad.obj", "v 0 0 0\nf 1 2 3\n")

	if m, err := Load(obj, Options{}); err != nil || m.Len() != 2 {
		t.Fatalf("Load(obj) = %v, %v", m, err)
	}
	if m, err := Load(stl, Options{}); err != nil || m.Len() != 2 {
		t.Fatalf("Load(stl) = %v, %v", m, err)
	}
	if _, err := Load(ply, Options{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Load(ply) err = %v", err)
	}
	_, err := Load(bad, Options{})
	if !errors.Is(err, ErrBadIndex) || !strings.Contains(err.Error(), bad) {
		t.Fatalf("Load(bad) err = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.obj"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load(missing) err = %v", err)
	}
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "square.obj", squareOBJ)
	c := NewCache(time.Minute, Options{})

	a, err := c.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d", c.Len())
	}

	// Callers own the returned mesh.
	a.Translate(geom.V3(10, 0, 0))
	b, err := c.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Triangles[0].V[0] != geom.V3(0, 0, 0) {
		t.Fatalf("cached mesh was modified through a previous result: %v", b.Triangles[0].V[0])
	}

	// A changed file is parsed again.
	writeFile(t, dir, "square.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(p, later, later); err != nil {
		t.Fatal(err)
	}
	b, err = c.Get(p)
	if err != nil {
		t.Fatalf("Get after change: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("stale mesh with %d triangles", b.Len())
	}

	// A broken file drops the entry.
	writeFile(t, dir, "square.obj", "f 1 2 3\n")
	if _, err := c.Get(p); !errors.Is(err, ErrBadIndex) {
		t.Fatalf("Get(broken) err = %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("broken file left %d entries", c.Len())
	}

	// A deleted file drops the entry too.
	writeFile(t, dir, "square.obj", squareOBJ)
	if _, err := c.Get(p); err != nil {
		t.Fatalf("Get(restored): %v", err)
	}
	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(p); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Get(removed) err = %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("removed file left %d entries", c.Len())
	}

	if _, err := c.Get(filepath.Join(dir, "missing.obj")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Get(missing) err = %v", err)
	}
}

func TestF32(t *testing.T) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(-2.5))
	if got := f32(b); got != -2.5 {
		t.Fatalf("f32 = %v", got)
	}
}
