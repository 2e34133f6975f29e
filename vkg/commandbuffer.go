package vkg

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffers describe a sequence of commands that will be executed
// upon being sent to a device queue. Not all available vulkan commands
// are wrapped by this package; callers may use VK() with the native API.
type CommandBuffer struct {
	VKCommandBuffer vk.CommandBuffer
}

// Reset this command buffer
func (c *CommandBuffer) Reset() error {
	return check(vk.ResetCommandBuffer(c.VKCommandBuffer, 0), "vkResetCommandBuffer")
}

// VK is a utility function for accessing the native vulkan command buffer
func (c *CommandBuffer) VK() vk.CommandBuffer {
	return c.VKCommandBuffer
}

// BeginOneTime begins recording a buffer that will be submitted once and
// then reset.
func (c *CommandBuffer) BeginOneTime() error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	return check(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo), "vkBeginCommandBuffer")
}

// End describing work for this command buffer
func (c *CommandBuffer) End() error {
	return check(vk.EndCommandBuffer(c.VKCommandBuffer), "vkEndCommandBuffer")
}

// CmdBeginRenderPass starts renderPass on framebuffer covering extent,
// clearing the color attachment to color and the depth attachment to depth.
func (c *CommandBuffer) CmdBeginRenderPass(renderPass vk.RenderPass, framebuffer vk.Framebuffer, extent vk.Extent2D, color [4]float32, depth float32) {
	clearValues := []vk.ClearValue{
		vk.NewClearValue(color[:]),
		vk.NewClearDepthStencil(depth, 0),
	}
	vk.CmdBeginRenderPass(c.VKCommandBuffer, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderPass,
		Framebuffer: framebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)
}

func (c *CommandBuffer) CmdEndRenderPass() {
	vk.CmdEndRenderPass(c.VKCommandBuffer)
}

// CmdSetViewportAndScissor covers extent with both the dynamic viewport
// and scissor.
func (c *CommandBuffer) CmdSetViewportAndScissor(extent vk.Extent2D) {
	vk.CmdSetViewport(c.VKCommandBuffer, 0, 1, []vk.Viewport{{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}})
	vk.CmdSetScissor(c.VKCommandBuffer, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}})
}

func (c *CommandBuffer) CmdBindPipeline(p *Pipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointGraphics, p.VKPipeline)
}

func (c *CommandBuffer) CmdBindDescriptorSets(layout *PipelineLayout, firstSet int, descriptorSets ...*DescriptorSet) {
	sets := make([]vk.DescriptorSet, len(descriptorSets))
	for i := range descriptorSets {
		sets[i] = descriptorSets[i].VKDescriptorSet
	}

	vk.CmdBindDescriptorSets(c.VKCommandBuffer, vk.PipelineBindPointGraphics,
		layout.VKPipelineLayout, uint32(firstSet), uint32(len(descriptorSets)), sets, 0, nil)
}

func (c *CommandBuffer) CmdBindVertexBuffer(b *Buffer) {
	vk.CmdBindVertexBuffers(c.VKCommandBuffer, 0, 1, []vk.Buffer{b.VKBuffer}, []vk.DeviceSize{0})
}

func (c *CommandBuffer) CmdBindIndexBuffer(b *Buffer, indexType vk.IndexType) {
	vk.CmdBindIndexBuffer(c.VKCommandBuffer, b.VKBuffer, 0, indexType)
}

// CmdPushConstants fills push constant range i of layout from data, which
// must point at least the range's size in bytes.
func (c *CommandBuffer) CmdPushConstants(layout *PipelineLayout, i int, data unsafe.Pointer) {
	r := layout.PushConstants[i]
	vk.CmdPushConstants(c.VKCommandBuffer, layout.VKPipelineLayout, r.StageFlags, r.Offset, r.Size, data)
}

func (c *CommandBuffer) CmdDraw(vertexCount, instanceCount uint32) {
	vk.CmdDraw(c.VKCommandBuffer, vertexCount, instanceCount, 0, 0)
}

func (c *CommandBuffer) CmdDrawIndexed(indexCount, instanceCount uint32) {
	vk.CmdDrawIndexed(c.VKCommandBuffer, indexCount, instanceCount, 0, 0, 0)
}

// CmdCopyBuffer copies size bytes from the start of src to the start of dst.
func (c *CommandBuffer) CmdCopyBuffer(src, dst *Buffer, size uint64) {
	c.CmdCopyBufferRegion(src, dst, 0, 0, size)
}

func (c *CommandBuffer) CmdCopyBufferRegion(src, dst *Buffer, srcOffset, dstOffset, size uint64) {
	vk.CmdCopyBuffer(c.VKCommandBuffer, src.VKBuffer, dst.VKBuffer, 1, []vk.BufferCopy{{
		SrcOffset: vk.DeviceSize(srcOffset),
		DstOffset: vk.DeviceSize(dstOffset),
		Size:      vk.DeviceSize(size),
	}})
}

// TransitionImageLayout records the barrier from TransitionBarrier.
func (c *CommandBuffer) TransitionImageLayout(img *Image, oldLayout, newLayout vk.ImageLayout) {
	barrier, src, dst := TransitionBarrier(img.VKImage, img.Layers, oldLayout, newLayout)
	vk.CmdPipelineBarrier(c.VKCommandBuffer, src, dst, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
}

// CmdCopyBufferToImage copies tightly packed layers, one after another in
// src, into every layer of img, which must be in transfer destination
// layout.
func (c *CommandBuffer) CmdCopyBufferToImage(src *Buffer, img *Image) {
	vk.CmdCopyBufferToImage(c.VKCommandBuffer, src.VKBuffer, img.VKImage, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{{
		BufferOffset:      0,
		BufferRowLength:   0,
		BufferImageHeight: 0,
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			MipLevel:       0,
			BaseArrayLayer: 0,
			LayerCount:     img.Layers,
		},
		ImageOffset: vk.Offset3D{},
		ImageExtent: img.Extent,
	}})
}
