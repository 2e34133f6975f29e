package vkrenderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/celer/dualrender"
)

func TestUniformLayouts(t *testing.T) {
	assert.EqualValues(t, 256, cameraDataSize)
	// mat4 + two uints, padded to 16 bytes
	assert.EqualValues(t, 80, meshPushConstantSize)
}

func TestVertexLayout(t *testing.T) {
	assert.EqualValues(t, 44, vertexLayout.BindingDescription().Stride)
	attrs := vertexLayout.AttributeDescriptions()
	assert.Len(t, attrs, 4)
	offsets := make([]uint32, len(attrs))
	for i, a := range attrs {
		assert.EqualValues(t, i, a.Location)
		offsets[i] = a.Offset
	}
	assert.Equal(t, []uint32{0, 12, 24, 36}, offsets)
}

func TestNewCameraData(t *testing.T) {
	cam := dualrender.NewCamera(45, 0.1, 100, mgl32.Vec3{0, 0, 3})
	cam.SetViewport(800, 600)
	data := newCameraData(cam)

	assert.True(t, data.ViewProj.ApproxEqual(data.Proj.Mul4(data.View)))

	// the camera looks down -Z, so the origin lands in the middle of the
	// screen with Vulkan depth between 0 and 1
	clip := data.ViewProj.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))

	// Y is flipped relative to OpenGL
	up := data.Ortho.Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	assert.InDelta(t, -1, up.Y(), 1e-5)
}

func TestBoolUint32(t *testing.T) {
	assert.EqualValues(t, 1, boolUint32(true))
	assert.EqualValues(t, 0, boolUint32(false))
}
