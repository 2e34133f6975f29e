package vkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestRenderPassCreateInfo(t *testing.T) {
	ci := RenderPassCreateInfo(vk.FormatB8g8r8a8Unorm)

	require.Len(t, ci.PAttachments, 2)
	assert.Equal(t, uint32(2), ci.AttachmentCount)

	color, depth := ci.PAttachments[0], ci.PAttachments[1]
	assert.Equal(t, vk.FormatB8g8r8a8Unorm, color.Format)
	assert.Equal(t, vk.AttachmentLoadOpClear, color.LoadOp)
	assert.Equal(t, vk.ImageLayoutPresentSrc, color.FinalLayout)
	assert.Equal(t, vk.FormatD32Sfloat, depth.Format)
	assert.Equal(t, vk.AttachmentLoadOpClear, depth.LoadOp)
	assert.Equal(t, vk.ImageLayoutDepthStencilAttachmentOptimal, depth.FinalLayout)

	require.Len(t, ci.PSubpasses, 1)
	require.NotNil(t, ci.PSubpasses[0].PDepthStencilAttachment)
	assert.Equal(t, uint32(1), ci.PSubpasses[0].PDepthStencilAttachment.Attachment)
	assert.Equal(t, uint32(len(ci.PDependencies)), ci.DependencyCount)
}
