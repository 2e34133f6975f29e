package dualrender

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Model is a handle to geometry uploaded with CreateModel. The zero value
// never names a live model.
type Model uint32

// TextureArray is a handle to a layered texture created with
// CreateTextureArray. The zero value never names a live texture array.
type TextureArray uint32

// Renderer is the capability set shared by both backends. Calls must be
// made from the goroutine that created the renderer, which must be locked
// to its OS thread.
type Renderer interface {
	CloseWindow()
	ShouldClose() bool
	ResizeWindow(width, height int)
	GetWindowHandle() *glfw.Window

	SetClearColor(r, g, b, a float32)
	BeginDrawing() error
	EndDrawing() error

	DrawModel(m Model, t TextureArray, inst *Instances) error
	DrawSprite(m Model, t TextureArray, inst *Instances) error

	CreateModel(vertices []Vertex, indices []uint32) (Model, error)
	UpdateModel(m Model, vertices []Vertex, indices []uint32) error
	DestroyModel(m Model) error

	CreateTextureArray(paths []string) (TextureArray, error)
	DestroyTextureArray(t TextureArray) error

	UpdateCamera()
	SetCameraPosition(pos mgl32.Vec3)
	SetCameraRotation(yaw, pitch float32)
	ConfigureCamera(fov float32)
	Camera() *Camera

	// Destroy releases every GPU object and the window.
	Destroy() error
}

// Backend selects a Renderer implementation.
type Backend int

const (
	BackendVulkan Backend = iota
	BackendOpenGL
)

func (b Backend) String() string {
	switch b {
	case BackendVulkan:
		return "vulkan"
	case BackendOpenGL:
		return "opengl"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Backend) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "vulkan", "vk":
		*b = BackendVulkan
	case "opengl", "gl":
		*b = BackendOpenGL
	default:
		return errors.Newf("unknown backend %q", text)
	}
	return nil
}
