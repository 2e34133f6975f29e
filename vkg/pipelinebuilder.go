package vkg

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// PipelineBuilder collects fixed-function and shader state for a graphics
// pipeline. Viewport and scissor are always dynamic so pipelines survive
// swapchain recreation.
type PipelineBuilder struct {
	ShaderStages []vk.PipelineShaderStageCreateInfo

	VertexInputBindingDescriptions   []vk.VertexInputBindingDescription
	VertexInputAttributeDescriptions []vk.VertexInputAttributeDescription

	// PrimitiveTopology see https://www.khronos.org/registry/vulkan/specs/1.1-extensions/man/html/VkPrimitiveTopology.html
	// defaults to VK_PRIMITIVE_TOPOLOGY_TRIANGLE_LIST
	PrimitiveTopology vk.PrimitiveTopology

	// PolygonMode see https://www.khronos.org/registry/vulkan/specs/1.1-extensions/man/html/VkPolygonMode.html
	// defaults to VK_POLYGON_MODE_FILL
	PolygonMode vk.PolygonMode

	// LineWidth of rasterized lines, defaults to 1.0
	LineWidth float32

	// CullMode defaults to vk.CullModeBackBit
	CullMode vk.CullModeFlagBits

	// FrontFace defaults to vk.FrontFaceCounterClockwise
	FrontFace vk.FrontFace

	DepthTestEnable  bool
	DepthWriteEnable bool
	// DepthCompareOp defaults to vk.CompareOpLess
	DepthCompareOp vk.CompareOp

	// BlendAttachment is used for the single color attachment; by default
	// all channels are written and blending is off.
	BlendAttachment vk.PipelineColorBlendAttachmentState

	Layout *PipelineLayout
}

// NewPipelineBuilder returns a builder for filled, back-face culled,
// depth-tested triangle lists.
func NewPipelineBuilder() *PipelineBuilder {
	return &PipelineBuilder{
		PrimitiveTopology: vk.PrimitiveTopologyTriangleList,
		PolygonMode:       vk.PolygonModeFill,
		LineWidth:         1.0,
		CullMode:          vk.CullModeBackBit,
		FrontFace:         vk.FrontFaceCounterClockwise,
		DepthTestEnable:   true,
		DepthWriteEnable:  true,
		DepthCompareOp:    vk.CompareOpLess,
		BlendAttachment: vk.PipelineColorBlendAttachmentState{
			ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
			BlendEnable:    vk.False,
		},
	}
}

// AddShaderStage adds a stage using the module's entry point.
func (b *PipelineBuilder) AddShaderStage(module *ShaderModule, stage vk.ShaderStageFlagBits, entryPoint string) *PipelineBuilder {
	b.ShaderStages = append(b.ShaderStages, module.VKPipelineShaderStageCreateInfo(stage, entryPoint))
	return b
}

// SetVertexInput replaces the vertex input with a single binding.
func (b *PipelineBuilder) SetVertexInput(v VertexDescriptor) *PipelineBuilder {
	b.VertexInputBindingDescriptions = []vk.VertexInputBindingDescription{v.BindingDescription()}
	b.VertexInputAttributeDescriptions = v.AttributeDescriptions()
	return b
}

func (b *PipelineBuilder) SetTopology(t vk.PrimitiveTopology) *PipelineBuilder {
	b.PrimitiveTopology = t
	return b
}

func (b *PipelineBuilder) SetPolygonMode(m vk.PolygonMode) *PipelineBuilder {
	b.PolygonMode = m
	return b
}

func (b *PipelineBuilder) SetCullMode(mode vk.CullModeFlagBits) *PipelineBuilder {
	b.CullMode = mode
	return b
}

func (b *PipelineBuilder) SetFrontFace(f vk.FrontFace) *PipelineBuilder {
	b.FrontFace = f
	return b
}

func (b *PipelineBuilder) SetDepth(test, write bool, op vk.CompareOp) *PipelineBuilder {
	b.DepthTestEnable = test
	b.DepthWriteEnable = write
	b.DepthCompareOp = op
	return b
}

func (b *PipelineBuilder) SetLayout(layout *PipelineLayout) *PipelineBuilder {
	b.Layout = layout
	return b
}

// CreateInfo assembles the create info for subpass 0 of renderPass. It
// does not touch the device.
func (b *PipelineBuilder) CreateInfo(renderPass vk.RenderPass) vk.GraphicsPipelineCreateInfo {
	vertexInputState := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(b.VertexInputBindingDescriptions)),
		PVertexBindingDescriptions:      b.VertexInputBindingDescriptions,
		VertexAttributeDescriptionCount: uint32(len(b.VertexInputAttributeDescriptions)),
		PVertexAttributeDescriptions:    b.VertexInputAttributeDescriptions,
	}

	inputAssemblyState := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               b.PrimitiveTopology,
		PrimitiveRestartEnable: vk.False,
	}

	// counts only, the values come from CmdSetViewportAndScissor
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}

	rasterState := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             b.PolygonMode,
		LineWidth:               b.LineWidth,
		CullMode:                vk.CullModeFlags(b.CullMode),
		FrontFace:               b.FrontFace,
		DepthBiasEnable:         vk.False,
	}

	multisampleState := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		SampleShadingEnable:  vk.False,
		RasterizationSamples: vk.SampleCount1Bit,
		MinSampleShading:     1.0,
	}

	colorBlendState := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{b.BlendAttachment},
	}

	dynamicStates := []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       boolToVK(b.DepthTestEnable),
		DepthWriteEnable:      boolToVK(b.DepthWriteEnable),
		DepthCompareOp:        b.DepthCompareOp,
		DepthBoundsTestEnable: vk.False,
		MinDepthBounds:        0.0,
		MaxDepthBounds:        1.0,
		StencilTestEnable:     vk.False,
	}

	var pipelineLayout vk.PipelineLayout
	if b.Layout != nil {
		pipelineLayout = b.Layout.VKPipelineLayout
	}

	return vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(b.ShaderStages)),
		PStages:             b.ShaderStages,
		PVertexInputState:   &vertexInputState,
		PInputAssemblyState: &inputAssemblyState,
		PDepthStencilState:  &depthStencil,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterState,
		PMultisampleState:   &multisampleState,
		PColorBlendState:    &colorBlendState,
		PDynamicState:       &dynamicState,
		Layout:              pipelineLayout,
		RenderPass:          renderPass,
		Subpass:             0,
	}
}

// Build creates the pipeline. Failures are marked ErrPipelineBuild.
func (b *PipelineBuilder) Build(device *Device, cache *PipelineCache, renderPass vk.RenderPass) (*Pipeline, error) {
	if len(b.ShaderStages) == 0 {
		return nil, errors.Mark(errors.New("pipeline has no shader stages"), ErrPipelineBuild)
	}
	if b.Layout == nil {
		return nil, errors.Mark(errors.New("pipeline has no layout"), ErrPipelineBuild)
	}

	pipelines := make([]vk.Pipeline, 1)
	err := check(vk.CreateGraphicsPipelines(device.VKDevice, cache.handle(), 1,
		[]vk.GraphicsPipelineCreateInfo{b.CreateInfo(renderPass)}, nil, pipelines), "vkCreateGraphicsPipelines")
	if err != nil {
		return nil, errors.Mark(err, ErrPipelineBuild)
	}

	return &Pipeline{Device: device, VKPipeline: pipelines[0], Layout: b.Layout}, nil
}

func boolToVK(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}
