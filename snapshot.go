package main

import (
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"

	"painter3d/internal/raster"
	"painter3d/internal/scene"
)

var (
	background = color.RGBA{0x1A, 0x1A, 0x1A, 0xFF}
	hudColor   = color.RGBA{0xFF, 0xFF, 0x00, 0xFF}
	wireColor  = color.RGBA{0x00, 0x00, 0x00, 0xFF}
)

// writeSnapshot renders one frame without a window and writes it as PNG.
func writeSnapshot(s *scene.Scene, path string) error {
	res := s.Frame()
	cfg := s.Config()

	c := raster.NewCanvas(cfg.Width, cfg.Height)
	c.Clear(background)
	c.Paint(res.Triangles)
	if cfg.Wire {
		for _, t := range res.Triangles {
			c.DrawWire(t, wireColor)
		}
	}
	c.Label(4, 14, fmt.Sprintf("%d/%d triangles  back %d  view %d  off %d",
		res.Stats.Output, res.Stats.Input, res.Stats.BackFacing, res.Stats.OutOfView, res.Stats.Offscreen), hudColor)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, c.Img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %s (%d of %d triangles drawn)", path, res.Stats.Output, s.Triangles())
	return nil
}
