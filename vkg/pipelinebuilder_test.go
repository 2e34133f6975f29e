package vkg

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestPipelineBuilderDefaults(t *testing.T) {
	ci := NewPipelineBuilder().CreateInfo(vk.NullRenderPass)

	require.NotNil(t, ci.PInputAssemblyState)
	assert.Equal(t, vk.PrimitiveTopologyTriangleList, ci.PInputAssemblyState.Topology)

	require.NotNil(t, ci.PRasterizationState)
	assert.Equal(t, vk.PolygonModeFill, ci.PRasterizationState.PolygonMode)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeBackBit), ci.PRasterizationState.CullMode)
	assert.Equal(t, vk.FrontFaceCounterClockwise, ci.PRasterizationState.FrontFace)
	assert.Equal(t, float32(1), ci.PRasterizationState.LineWidth)

	require.NotNil(t, ci.PDepthStencilState)
	assert.Equal(t, vk.Bool32(vk.True), ci.PDepthStencilState.DepthTestEnable)
	assert.Equal(t, vk.Bool32(vk.True), ci.PDepthStencilState.DepthWriteEnable)
	assert.Equal(t, vk.CompareOpLess, ci.PDepthStencilState.DepthCompareOp)

	require.NotNil(t, ci.PMultisampleState)
	assert.Equal(t, vk.SampleCount1Bit, ci.PMultisampleState.RasterizationSamples)

	require.NotNil(t, ci.PColorBlendState)
	require.Len(t, ci.PColorBlendState.PAttachments, 1)
	assert.Equal(t, vk.Bool32(vk.False), ci.PColorBlendState.PAttachments[0].BlendEnable)
	assert.Equal(t, vk.ColorComponentFlags(0xf), ci.PColorBlendState.PAttachments[0].ColorWriteMask)

	assert.Equal(t, uint32(0), ci.StageCount)
	assert.Equal(t, uint32(0), ci.PVertexInputState.VertexBindingDescriptionCount)
}

func TestPipelineBuilderDynamicViewport(t *testing.T) {
	ci := NewPipelineBuilder().CreateInfo(vk.NullRenderPass)

	require.NotNil(t, ci.PDynamicState)
	assert.ElementsMatch(t, []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}, ci.PDynamicState.PDynamicStates)
	assert.Equal(t, uint32(2), ci.PDynamicState.DynamicStateCount)

	require.NotNil(t, ci.PViewportState)
	assert.Equal(t, uint32(1), ci.PViewportState.ViewportCount)
	assert.Empty(t, ci.PViewportState.PViewports)
}

func TestPipelineBuilderSetters(t *testing.T) {
	layout := VertexLayout{
		Binding: vk.VertexInputBindingDescription{Binding: 0, Stride: 44, InputRate: vk.VertexInputRateVertex},
		Attributes: []vk.VertexInputAttributeDescription{
			{Location: 0, Format: vk.FormatR32g32b32Sfloat, Offset: 0},
			{Location: 1, Format: vk.FormatR32g32b32Sfloat, Offset: 12},
		},
	}

	ci := NewPipelineBuilder().
		SetVertexInput(layout).
		SetTopology(vk.PrimitiveTopologyLineList).
		SetPolygonMode(vk.PolygonModeLine).
		SetCullMode(vk.CullModeNone).
		SetFrontFace(vk.FrontFaceClockwise).
		SetDepth(false, false, vk.CompareOpAlways).
		CreateInfo(vk.NullRenderPass)

	assert.Equal(t, uint32(1), ci.PVertexInputState.VertexBindingDescriptionCount)
	assert.Equal(t, uint32(44), ci.PVertexInputState.PVertexBindingDescriptions[0].Stride)
	assert.Equal(t, uint32(2), ci.PVertexInputState.VertexAttributeDescriptionCount)
	assert.Equal(t, vk.PrimitiveTopologyLineList, ci.PInputAssemblyState.Topology)
	assert.Equal(t, vk.PolygonModeLine, ci.PRasterizationState.PolygonMode)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeNone), ci.PRasterizationState.CullMode)
	assert.Equal(t, vk.FrontFaceClockwise, ci.PRasterizationState.FrontFace)
	assert.Equal(t, vk.Bool32(vk.False), ci.PDepthStencilState.DepthTestEnable)
	assert.Equal(t, vk.CompareOpAlways, ci.PDepthStencilState.DepthCompareOp)
}

func TestPipelineBuilderBuildRequiresStages(t *testing.T) {
	_, err := NewPipelineBuilder().Build(nil, nil, vk.NullRenderPass)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPipelineBuild))
}
