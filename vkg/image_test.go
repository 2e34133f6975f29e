package vkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestTransitionBarrier(t *testing.T) {
	tests := []struct {
		name      string
		from, to  vk.ImageLayout
		srcAccess vk.AccessFlags
		dstAccess vk.AccessFlags
		srcStage  vk.PipelineStageFlags
		dstStage  vk.PipelineStageFlags
	}{
		{
			name:      "upload start",
			from:      vk.ImageLayoutUndefined,
			to:        vk.ImageLayoutTransferDstOptimal,
			srcAccess: 0,
			dstAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
			srcStage:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
			dstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		},
		{
			name:      "upload end",
			from:      vk.ImageLayoutTransferDstOptimal,
			to:        vk.ImageLayoutShaderReadOnlyOptimal,
			srcAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
			dstAccess: vk.AccessFlags(vk.AccessShaderReadBit),
			srcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
			dstStage:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
		},
		{
			name:      "other",
			from:      vk.ImageLayoutGeneral,
			to:        vk.ImageLayoutTransferSrcOptimal,
			srcAccess: vk.AccessFlags(vk.AccessMemoryWriteBit),
			dstAccess: vk.AccessFlags(vk.AccessMemoryReadBit | vk.AccessMemoryWriteBit),
			srcStage:  vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
			dstStage:  vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, src, dst := TransitionBarrier(vk.NullImage, 4, tt.from, tt.to)
			assert.Equal(t, tt.from, b.OldLayout)
			assert.Equal(t, tt.to, b.NewLayout)
			assert.Equal(t, tt.srcAccess, b.SrcAccessMask)
			assert.Equal(t, tt.dstAccess, b.DstAccessMask)
			assert.Equal(t, tt.srcStage, src)
			assert.Equal(t, tt.dstStage, dst)
			assert.Equal(t, uint32(4), b.SubresourceRange.LayerCount)
			assert.Equal(t, uint32(vk.QueueFamilyIgnored), b.SrcQueueFamilyIndex)
		})
	}
}
