package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"painter3d/internal/control"
	"painter3d/internal/scene"
)

const title = "Painter3D (OpenGL)"

var glfwKeys = map[control.Key]glfw.Key{
	control.KeyLookUp:    glfw.KeyUp,
	control.KeyLookDown:  glfw.KeyDown,
	control.KeyLookLeft:  glfw.KeyLeft,
	control.KeyLookRight: glfw.KeyRight,
	control.KeyForward:   glfw.KeyW,
	control.KeyBack:      glfw.KeyS,
	control.KeyLeft:      glfw.KeyA,
	control.KeyRight:     glfw.KeyD,
	control.KeyRise:      glfw.KeySpace,
	control.KeyFall:      glfw.KeyLeftShift,
	control.KeyReload:    glfw.KeyR,
}

func main() {
	cfg := scene.Flags(flag.CommandLine)
	flag.Parse()

	s, err := scene.New(*cfg)
	if err != nil {
		log.Fatalln("failed to build scene:", err)
	}
	log.Printf("loaded %d meshes, %d triangles", len(s.Meshes), s.Triangles())

	if cfg.Snapshot != "" {
		if err := writeSnapshot(s, cfg.Snapshot); err != nil {
			log.Fatalln("snapshot:", err)
		}
		return
	}

	if err := run(s); err != nil {
		log.Fatalln(err)
	}
}

func run(s *scene.Scene) error {
	runtime.LockOSThread()
	cfg := s.Config()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, title, nil, nil)
	if err != nil {
		return err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return err
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Println("OpenGL version", version)

	r, err := newTriangleRenderer(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer r.delete()

	// Triangles arrive sorted far to near; the GPU must not reorder them.
	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0.1, 0.1, 0.1, 1.0)

	ctl := control.NewController()
	var keys control.KeySet
	reloadHeld := false

	lastFrameTime := glfw.GetTime()
	lastFpsTime := glfw.GetTime()
	frameCount := 0

	for !window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastFrameTime
		lastFrameTime = currentTime

		for k, gk := range glfwKeys {
			keys.Set(k, window.GetKey(gk) == glfw.Press)
		}
		if keys.Pressed(control.KeyReload) && !reloadHeld {
			if err := s.Reload(); err != nil {
				log.Printf("reload: %v", err)
			} else {
				log.Printf("reloaded %d triangles", s.Triangles())
			}
		}
		reloadHeld = keys.Pressed(control.KeyReload)
		ctl.Update(&s.Camera, &keys, float32(deltaTime))

		res := s.Frame()

		frameCount++
		if currentTime-lastFpsTime >= 1.0 {
			window.SetTitle(fmt.Sprintf("%s | FPS: %d | %d/%d triangles",
				title, frameCount, res.Stats.Output, res.Stats.Input))
			frameCount = 0
			lastFpsTime = currentTime
		}

		gl.Clear(gl.COLOR_BUFFER_BIT)
		r.draw(res.Triangles)

		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}
