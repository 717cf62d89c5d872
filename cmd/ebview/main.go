// Command ebview draws a painter3d scene on the ebiten game loop.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"painter3d/internal/control"
	"painter3d/internal/geom"
	"painter3d/internal/projection"
	"painter3d/internal/scene"
)

// maxBatch keeps vertex indices within uint16.
const maxBatch = 0xFFFF / 3

var ebitenKeys = map[control.Key]ebiten.Key{
	control.KeyLookUp:    ebiten.KeyArrowUp,
	control.KeyLookDown:  ebiten.KeyArrowDown,
	control.KeyLookLeft:  ebiten.KeyArrowLeft,
	control.KeyLookRight: ebiten.KeyArrowRight,
	control.KeyForward:   ebiten.KeyW,
	control.KeyBack:      ebiten.KeyS,
	control.KeyLeft:      ebiten.KeyA,
	control.KeyRight:     ebiten.KeyD,
	control.KeyRise:      ebiten.KeySpace,
	control.KeyFall:      ebiten.KeyShiftLeft,
}

var fillImage *ebiten.Image

// solidFill returns the centre pixel of a white 3x3 image. Sampling the
// interior avoids bleeding from the image border.
func solidFill() *ebiten.Image {
	if fillImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		fillImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return fillImage
}

type game struct {
	s    *scene.Scene
	ctl  *control.Controller
	keys control.KeySet
	res  projection.Result

	vertices []ebiten.Vertex
	indices  []uint16
}

func (g *game) Update() error {
	for k, ek := range ebitenKeys {
		g.keys.Set(k, ebiten.IsKeyPressed(ek))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.s.Reload(); err != nil {
			log.Printf("reload: %v", err)
		}
	}
	g.ctl.Update(&g.s.Camera, &g.keys, float32(1/float64(ebiten.TPS())))
	g.res = g.s.Frame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x1A, 0x1A, 0x1A, 0xFF})
	tris := g.res.Triangles
	for len(tris) > 0 {
		n := min(len(tris), maxBatch)
		g.drawBatch(screen, tris[:n])
		tris = tris[n:]
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS %.0f  %d/%d triangles",
		ebiten.ActualFPS(), g.res.Stats.Output, g.res.Stats.Input))
}

func (g *game) drawBatch(screen *ebiten.Image, tris []geom.Triangle) {
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
	for i, t := range tris {
		r := float32(t.Color.R) / 255
		gr := float32(t.Color.G) / 255
		b := float32(t.Color.B) / 255
		for _, v := range t.V {
			g.vertices = append(g.vertices, ebiten.Vertex{
				DstX: v.X, DstY: v.Y,
				SrcX: 1.5, SrcY: 1.5,
				ColorR: r, ColorG: gr, ColorB: b, ColorA: 1,
			})
		}
		base := uint16(i * 3)
		g.indices = append(g.indices, base, base+1, base+2)
	}
	screen.DrawTriangles(g.vertices, g.indices, solidFill(), &ebiten.DrawTrianglesOptions{})
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.s.Config()
	return cfg.Width, cfg.Height
}

func main() {
	cfg := scene.Flags(flag.CommandLine)
	flag.Parse()

	s, err := scene.New(*cfg)
	if err != nil {
		log.Fatalln("failed to build scene:", err)
	}
	log.Printf("loaded %d meshes, %d triangles", len(s.Meshes), s.Triangles())

	ebiten.SetWindowTitle("Painter3D (ebiten)")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(&game{s: s, ctl: control.NewController()}); err != nil {
		log.Fatalln(err)
	}
}
