package main

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"painter3d/internal/geom"
)

var (
	vertexShaderSource = `
		#version 410
		in vec2 pos;
		in vec3 color;
		uniform mat4 proj;
		out vec3 frag_color;
		void main() {
			frag_color = color;
			gl_Position = proj * vec4(pos, 0.0, 1.0);
		}
	` + "\x00"

	fragmentShaderSource = `
		#version 410
		in vec3 frag_color;
		out vec4 frag_colour;
		void main() {
			frag_colour = vec4(frag_color, 1.0);
		}
	` + "\x00"
)

// floatsPerVertex is x, y, r, g, b.
const floatsPerVertex = 5

// triangleRenderer streams screen-space triangles into a dynamic VBO.
type triangleRenderer struct {
	program uint32
	vao     uint32
	vbo     uint32
	proj    int32
	buf     []float32
}

func newTriangleRenderer(width, height int) (*triangleRenderer, error) {
	program, err := newProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	r := &triangleRenderer{program: program}
	gl.UseProgram(program)

	r.proj = gl.GetUniformLocation(program, gl.Str("proj\x00"))
	// Pixel coordinates with y growing downward, as produced by the projector.
	ortho := mgl32.Ortho2D(0, float32(width), float32(height), 0)
	gl.UniformMatrix4fv(r.proj, 1, false, &ortho[0])

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(floatsPerVertex * 4)
	posAttrib := uint32(gl.GetAttribLocation(program, gl.Str("pos\x00")))
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))

	colorAttrib := uint32(gl.GetAttribLocation(program, gl.Str("color\x00")))
	gl.EnableVertexAttribArray(colorAttrib)
	gl.VertexAttribPointer(colorAttrib, 3, gl.FLOAT, false, stride, gl.PtrOffset(2*4))

	return r, nil
}

// draw uploads tris and draws them in slice order. Depth testing stays off:
// the slice is already sorted far to near.
func (r *triangleRenderer) draw(tris []geom.Triangle) {
	if len(tris) == 0 {
		return
	}
	r.buf = r.buf[:0]
	for _, t := range tris {
		cr := float32(t.Color.R) / 255
		cg := float32(t.Color.G) / 255
		cb := float32(t.Color.B) / 255
		for _, v := range t.V {
			r.buf = append(r.buf, v.X, v.Y, cr, cg, cb)
		}
	}

	gl.UseProgram(r.program)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.buf)*4, gl.Ptr(r.buf), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.buf)/floatsPerVertex))
}

func (r *triangleRenderer) delete() {
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}

	return shader, nil
}
