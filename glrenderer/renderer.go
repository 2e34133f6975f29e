// Package glrenderer implements dualrender.Renderer on OpenGL 3.3 core.
// Models are drawn with one instanced call per DrawModel; per-instance
// offset, rotation, scale and texture layer are streamed as vertex
// attributes.
package glrenderer

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/celer/dualrender"
	"github.com/celer/dualrender/internal/registry"
	"github.com/celer/dualrender/internal/rlog"
)

// Renderer is the OpenGL implementation of dualrender.Renderer.
type Renderer struct {
	cfg     dualrender.Config
	window  *glfw.Window
	camera  *dualrender.Camera
	program *program

	drawing bool
	closed  bool

	models   *registry.Registry[dualrender.Model, *model]
	textures *registry.Registry[dualrender.TextureArray, *textureArray]
}

var _ dualrender.Renderer = (*Renderer)(nil)

// New opens a window with a 3.3 core context and compiles the mesh
// program. Errors are marked dualrender.ErrInit. The calling goroutine
// must be locked to the main OS thread.
func New(cfg *dualrender.Config) (_ *Renderer, err error) {
	if cfg == nil {
		cfg = dualrender.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Mark(err, dualrender.ErrInit)
	}
	r := &Renderer{
		cfg:      *cfg,
		camera:   cfg.NewCamera(),
		models:   registry.New[dualrender.Model, *model](),
		textures: registry.New[dualrender.TextureArray, *textureArray](),
	}

	if err := glfw.Init(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "glfw init"), dualrender.ErrInit)
	}
	defer func() {
		if err != nil {
			if r.window != nil {
				r.window.Destroy()
			}
			glfw.Terminate()
			err = errors.Mark(err, dualrender.ErrInit)
		}
	}()

	r.window, err = createWindow(cfg.Window)
	if err != nil {
		return nil, err
	}
	r.window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "gl init")
	}
	if cfg.OpenGL.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	r.program, err = loadProgram(cfg.OpenGL.ShaderDir)
	if err != nil {
		return nil, errors.Wrap(err, "mesh program")
	}

	w, h := r.window.GetFramebufferSize()
	r.setViewport(w, h)
	r.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		r.setViewport(width, height)
	})

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	r.SetClearColor(0, 0, 0.5, 1)
	r.UpdateCamera()

	rlog.Logger().Info("opengl renderer ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return r, nil
}

func createWindow(cfg dualrender.WindowConfig) (*glfw.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	resizable := glfw.False
	if cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}
	return window, nil
}

func (r *Renderer) setViewport(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
}

func (r *Renderer) CloseWindow() {
	r.window.SetShouldClose(true)
}

func (r *Renderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

// ResizeWindow resizes the window; the viewport follows through the
// framebuffer size callback.
func (r *Renderer) ResizeWindow(width, height int) {
	r.window.SetSize(width, height)
}

func (r *Renderer) GetWindowHandle() *glfw.Window {
	return r.window
}

func (r *Renderer) SetClearColor(red, green, blue, alpha float32) {
	gl.ClearColor(red, green, blue, alpha)
}

func (r *Renderer) BeginDrawing() error {
	if r.closed {
		return dualrender.ErrClosed
	}
	if r.drawing {
		return errors.New("begin drawing while drawing")
	}
	r.drawing = true
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

// EndDrawing swaps buffers and polls window events.
func (r *Renderer) EndDrawing() error {
	if r.closed {
		return dualrender.ErrClosed
	}
	if !r.drawing {
		return errors.New("end drawing without begin")
	}
	r.drawing = false
	r.window.SwapBuffers()
	glfw.PollEvents()
	return nil
}

func (r *Renderer) DrawModel(m dualrender.Model, t dualrender.TextureArray, inst *dualrender.Instances) error {
	return r.draw(m, t, inst, false)
}

// DrawSprite draws with the orthographic projection.
func (r *Renderer) DrawSprite(m dualrender.Model, t dualrender.TextureArray, inst *dualrender.Instances) error {
	return r.draw(m, t, inst, true)
}

func (r *Renderer) draw(m dualrender.Model, t dualrender.TextureArray, inst *dualrender.Instances, is2D bool) error {
	if r.closed {
		return dualrender.ErrClosed
	}
	if err := inst.Validate(); err != nil {
		return err
	}
	mdl, ok := r.models.Get(m)
	if !ok {
		return errors.Wrapf(dualrender.ErrUnknownModel, "model %d", m)
	}
	tex, ok := r.textures.Get(t)
	if !ok {
		return errors.Wrapf(dualrender.ErrUnknownTextureArray, "texture array %d", t)
	}
	if err := inst.CheckLayers(tex.layers); err != nil {
		return err
	}
	if !r.drawing {
		return errors.New("draw outside BeginDrawing/EndDrawing")
	}

	gl.UseProgram(r.program.handle)
	r.program.set2D(is2D)
	tex.bind()
	mdl.draw(inst)
	return nil
}

// CreateModel uploads the geometry. Empty indices mean a non-indexed draw.
func (r *Renderer) CreateModel(vertices []dualrender.Vertex, indices []uint32) (dualrender.Model, error) {
	if r.closed {
		return 0, dualrender.ErrClosed
	}
	m, err := newModel(vertices, indices)
	if err != nil {
		return 0, errors.Wrap(err, "create model")
	}
	return r.models.Add(m), nil
}

func (r *Renderer) UpdateModel(m dualrender.Model, vertices []dualrender.Vertex, indices []uint32) error {
	if r.closed {
		return dualrender.ErrClosed
	}
	mdl, ok := r.models.Get(m)
	if !ok {
		return errors.Wrapf(dualrender.ErrUnknownModel, "model %d", m)
	}
	return errors.Wrapf(mdl.update(vertices, indices), "update model %d", m)
}

func (r *Renderer) DestroyModel(m dualrender.Model) error {
	if r.closed {
		return dualrender.ErrClosed
	}
	mdl, _, ok := r.models.Release(m)
	if !ok {
		return errors.Wrapf(dualrender.ErrUnknownModel, "model %d", m)
	}
	mdl.destroy()
	return nil
}

// CreateTextureArray loads paths as the layers of one texture array. The
// images must be RGB and equally sized. Loading the same list again
// returns the existing handle, which then needs one more
// DestroyTextureArray.
func (r *Renderer) CreateTextureArray(paths []string) (dualrender.TextureArray, error) {
	if r.closed {
		return 0, dualrender.ErrClosed
	}
	key := registry.PathKey(paths)
	if h, ok := r.textures.Acquire(key); ok {
		return h, nil
	}
	t, err := newTextureArray(paths)
	if err != nil {
		return 0, errors.Wrap(err, "create texture array")
	}
	return r.textures.AddKeyed(key, t), nil
}

func (r *Renderer) DestroyTextureArray(t dualrender.TextureArray) error {
	if r.closed {
		return dualrender.ErrClosed
	}
	tex, last, ok := r.textures.Release(t)
	if !ok {
		return errors.Wrapf(dualrender.ErrUnknownTextureArray, "texture array %d", t)
	}
	if last {
		tex.destroy()
	}
	return nil
}

// UpdateCamera uploads the camera matrices to the program uniforms.
func (r *Renderer) UpdateCamera() {
	r.program.setCamera(r.camera.Projection(), r.camera.Ortho(), r.camera.View())
}

func (r *Renderer) SetCameraPosition(pos mgl32.Vec3) {
	r.camera.Position = pos
}

func (r *Renderer) SetCameraRotation(yaw, pitch float32) {
	r.camera.SetRotation(yaw, pitch)
}

func (r *Renderer) ConfigureCamera(fov float32) {
	r.camera.FOV = fov
}

func (r *Renderer) Camera() *dualrender.Camera {
	return r.camera
}

// Destroy deletes every GL object, the window and the GLFW context.
func (r *Renderer) Destroy() error {
	if r.closed {
		return nil
	}
	r.closed = true
	for _, m := range r.models.Drain() {
		m.destroy()
	}
	for _, t := range r.textures.Drain() {
		t.destroy()
	}
	r.program.destroy()
	r.window.Destroy()
	glfw.Terminate()
	return nil
}
