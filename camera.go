package dualrender

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds the viewer state consumed once per frame by the renderer.
// Angles are in degrees.
type Camera struct {
	FOV      float32
	Near     float32
	Far      float32
	Position mgl32.Vec3
	Dir      mgl32.Vec3
	Up       mgl32.Vec3

	Width  int
	Height int

	yaw   float32
	pitch float32
}

// NewCamera returns a camera at pos looking down -Z.
func NewCamera(fov, near, far float32, pos mgl32.Vec3) *Camera {
	c := &Camera{
		FOV:      fov,
		Near:     near,
		Far:      far,
		Position: pos,
		Up:       mgl32.Vec3{0, 1, 0},
		Width:    1,
		Height:   1,
	}
	c.SetRotation(-90, 0)
	return c
}

// SetRotation points the camera. Pitch is clamped short of straight up or
// down so the view matrix stays defined.
func (c *Camera) SetRotation(yaw, pitch float32) {
	if pitch > 89 {
		pitch = 89
	}
	if pitch < -89 {
		pitch = -89
	}
	c.yaw, c.pitch = yaw, pitch
	y := float64(mgl32.DegToRad(yaw))
	p := float64(mgl32.DegToRad(pitch))
	c.Dir = mgl32.Vec3{
		float32(math.Cos(y) * math.Cos(p)),
		float32(math.Sin(p)),
		float32(math.Sin(y) * math.Cos(p)),
	}.Normalize()
}

// Rotation returns the yaw and pitch last set.
func (c *Camera) Rotation() (yaw, pitch float32) {
	return c.yaw, c.pitch
}

// SetViewport records the drawable size used for the aspect ratio.
func (c *Camera) SetViewport(width, height int) {
	c.Width, c.Height = width, height
}

// Aspect returns width over height, or 1 for a degenerate viewport.
func (c *Camera) Aspect() float32 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	return float32(c.Width) / float32(c.Height)
}

// View returns the world to eye transform.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Dir), c.Up)
}

// Projection returns a perspective projection in OpenGL clip space.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
}

// Ortho returns the projection used for sprites: one unit spans half the
// viewport height.
func (c *Camera) Ortho() mgl32.Mat4 {
	a := c.Aspect()
	return mgl32.Ortho(-a, a, -1, 1, -1, 1)
}

// VulkanClip converts OpenGL clip space to Vulkan's: Y points down and
// depth runs from 0 to 1.
var VulkanClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}
