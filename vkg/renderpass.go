package vkg

import (
	vk "github.com/vulkan-go/vulkan"
)

// DepthFormat is the format of every depth attachment created by this package.
const DepthFormat = vk.FormatD32Sfloat

type RenderPass struct {
	Device       *Device
	ColorFormat  vk.Format
	VKRenderPass vk.RenderPass
}

func (r *RenderPass) Destroy() {
	vk.DestroyRenderPass(r.Device.VKDevice, r.VKRenderPass, nil)
}

// RenderPassCreateInfo describes a single subpass that clears and stores a
// color attachment of colorFormat for presentation and clears a DepthFormat
// depth attachment.
func RenderPassCreateInfo(colorFormat vk.Format) vk.RenderPassCreateInfo {
	attachmentDescriptions := []vk.AttachmentDescription{{
		Format:         colorFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}, {
		Format:         DepthFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpDontCare,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
	}}

	depthAttachmentRef := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}

	colorAttachments := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpassDescriptions := []vk.SubpassDescription{{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    1,
		PColorAttachments:       colorAttachments,
		PDepthStencilAttachment: &depthAttachmentRef,
	}}

	dependencies := []vk.SubpassDependency{{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
	}, {
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit),
		DstAccessMask: vk.AccessFlags(vk.AccessDepthStencilAttachmentWriteBit),
	}}

	return vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachmentDescriptions)),
		PAttachments:    attachmentDescriptions,
		SubpassCount:    1,
		PSubpasses:      subpassDescriptions,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}
}

func (d *Device) CreateRenderPass(colorFormat vk.Format) (*RenderPass, error) {
	createInfo := RenderPassCreateInfo(colorFormat)

	var renderPass vk.RenderPass
	err := check(vk.CreateRenderPass(d.VKDevice, &createInfo, nil, &renderPass), "vkCreateRenderPass")
	if err != nil {
		return nil, err
	}

	return &RenderPass{Device: d, ColorFormat: colorFormat, VKRenderPass: renderPass}, nil
}

type Framebuffer struct {
	Device        *Device
	Extent        vk.Extent2D
	VKFramebuffer vk.Framebuffer
}

func (f *Framebuffer) Destroy() {
	vk.DestroyFramebuffer(f.Device.VKDevice, f.VKFramebuffer, nil)
}

// CreateFramebuffer combines a color view with a shared depth view.
func (r *RenderPass) CreateFramebuffer(extent vk.Extent2D, color, depth *ImageView) (*Framebuffer, error) {
	attachments := []vk.ImageView{
		color.VKImageView,
		depth.VKImageView,
	}
	fbCreateInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      r.VKRenderPass,
		Layers:          1,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           extent.Width,
		Height:          extent.Height,
	}
	var fb vk.Framebuffer
	err := check(vk.CreateFramebuffer(r.Device.VKDevice, &fbCreateInfo, nil, &fb), "vkCreateFramebuffer")
	if err != nil {
		return nil, err
	}
	return &Framebuffer{Device: r.Device, Extent: extent, VKFramebuffer: fb}, nil
}
