package glrenderer

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/celer/dualrender/assets"
)

const (
	vertexShaderFile   = "gl_mesh.vert.glsl"
	fragmentShaderFile = "gl_mesh.frag.glsl"
)

// program is the linked mesh shader and its uniform locations.
type program struct {
	handle          uint32
	projection      int32
	orthoProjection int32
	view            int32
	is2D            int32
	textures        int32
}

// infoLog trims the NUL padding GL leaves in log buffers.
func infoLog(buf string) string {
	return strings.TrimRight(buf, "\x00\n")
}

func compileShader(src string, typ uint32) (uint32, error) {
	shader := gl.CreateShader(typ)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(msg))
		gl.DeleteShader(shader)
		return 0, errors.Newf("compile shader: %s", infoLog(msg))
	}
	return shader, nil
}

// loadProgram compiles and links the mesh shaders found in dir.
func loadProgram(dir string) (*program, error) {
	vertSrc, err := assets.LoadShaderSource(dir, vertexShaderFile)
	if err != nil {
		return nil, err
	}
	fragSrc, err := assets.LoadShaderSource(dir, fragmentShaderFile)
	if err != nil {
		return nil, err
	}

	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, errors.Wrap(err, vertexShaderFile)
	}
	defer gl.DeleteShader(vert)
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, errors.Wrap(err, fragmentShaderFile)
	}
	defer gl.DeleteShader(frag)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vert)
	gl.AttachShader(handle, frag)
	gl.LinkProgram(handle)
	gl.DetachShader(handle, vert)
	gl.DetachShader(handle, frag)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteProgram(handle)
		return nil, errors.Newf("link program: %s", infoLog(msg))
	}

	p := &program{handle: handle}
	uniforms := []struct {
		name string
		loc  *int32
	}{
		{"projection", &p.projection},
		{"orthoProjection", &p.orthoProjection},
		{"view", &p.view},
		{"is2D", &p.is2D},
		{"textures", &p.textures},
	}
	for _, u := range uniforms {
		*u.loc = gl.GetUniformLocation(handle, gl.Str(u.name+"\x00"))
		if *u.loc < 0 {
			gl.DeleteProgram(handle)
			return nil, errors.Newf("uniform %s not found", u.name)
		}
	}

	gl.UseProgram(handle)
	gl.Uniform1i(p.textures, 0)
	return p, nil
}

func (p *program) setCamera(projection, ortho, view mgl32.Mat4) {
	gl.UseProgram(p.handle)
	gl.UniformMatrix4fv(p.projection, 1, false, &projection[0])
	gl.UniformMatrix4fv(p.orthoProjection, 1, false, &ortho[0])
	gl.UniformMatrix4fv(p.view, 1, false, &view[0])
}

func (p *program) set2D(is2D bool) {
	var v int32
	if is2D {
		v = 1
	}
	gl.Uniform1i(p.is2D, v)
}

func (p *program) destroy() {
	gl.DeleteProgram(p.handle)
}
