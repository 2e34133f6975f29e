package vkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestParsePresentMode(t *testing.T) {
	assert.Equal(t, vk.PresentModeFifo, ParsePresentMode("fifo"))
	assert.Equal(t, vk.PresentModeMailbox, ParsePresentMode("Mailbox"))
	assert.Equal(t, vk.PresentModeImmediate, ParsePresentMode("immediate"))
	assert.Equal(t, vk.PresentModeFifo, ParsePresentMode(""))
	assert.Equal(t, vk.PresentModeFifo, ParsePresentMode("relaxed"))
}

func TestChoosePresentMode(t *testing.T) {
	all := VKPresentModes{vk.PresentModeImmediate, vk.PresentModeMailbox, vk.PresentModeFifo}
	fifoOnly := VKPresentModes{vk.PresentModeFifo}

	assert.Equal(t, vk.PresentModeMailbox, ChoosePresentMode(all, vk.PresentModeMailbox))
	assert.Equal(t, vk.PresentModeImmediate, ChoosePresentMode(all, vk.PresentModeImmediate))
	assert.Equal(t, vk.PresentModeFifo, ChoosePresentMode(fifoOnly, vk.PresentModeMailbox))
	assert.Equal(t, vk.PresentModeFifo, ChoosePresentMode(nil, vk.PresentModeImmediate))
}

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	other := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	got, err := ChooseSurfaceFormat(VKSurfaceFormats{other, preferred})
	require.NoError(t, err)
	assert.Equal(t, preferred, got)

	got, err = ChooseSurfaceFormat(VKSurfaceFormats{other})
	require.NoError(t, err)
	assert.Equal(t, other, got)

	got, err = ChooseSurfaceFormat(VKSurfaceFormats{{Format: vk.FormatUndefined}})
	require.NoError(t, err)
	assert.Equal(t, preferred, got)

	_, err = ChooseSurfaceFormat(nil)
	assert.Error(t, err)
}

func TestChooseExtent(t *testing.T) {
	fixed := vk.SurfaceCapabilities{CurrentExtent: vk.Extent2D{Width: 800, Height: 600}}
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, ChooseExtent(fixed, vk.Extent2D{Width: 1024, Height: 768}))

	free := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 2048},
	}
	assert.Equal(t, vk.Extent2D{Width: 1024, Height: 768}, ChooseExtent(free, vk.Extent2D{Width: 1024, Height: 768}))
	assert.Equal(t, vk.Extent2D{Width: 4096, Height: 2048}, ChooseExtent(free, vk.Extent2D{Width: 8000, Height: 8000}))
	assert.Equal(t, vk.Extent2D{Width: 1, Height: 1}, ChooseExtent(free, vk.Extent2D{}))
}

func TestChooseImageCount(t *testing.T) {
	caps := vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 3}
	assert.Equal(t, uint32(3), ChooseImageCount(caps, 0))
	assert.Equal(t, uint32(2), ChooseImageCount(caps, 1))
	assert.Equal(t, uint32(3), ChooseImageCount(caps, 8))

	unbounded := vk.SurfaceCapabilities{MinImageCount: 2}
	assert.Equal(t, uint32(8), ChooseImageCount(unbounded, 8))
}
