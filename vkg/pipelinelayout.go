package vkg

import (
	vk "github.com/vulkan-go/vulkan"
)

// PipelineLayout is the descriptor set layouts and push constant ranges a
// pipeline is built against.
type PipelineLayout struct {
	Device           *Device
	VKPipelineLayout vk.PipelineLayout
	PushConstants    []vk.PushConstantRange
}

// PushConstantRange describes a push constant block of size bytes visible to stages.
func PushConstantRange(stages vk.ShaderStageFlagBits, offset, size uint32) vk.PushConstantRange {
	return vk.PushConstantRange{
		StageFlags: vk.ShaderStageFlags(stages),
		Offset:     offset,
		Size:       size,
	}
}

// CreatePipelineLayout creates a layout whose set n is sets[n].
func (d *Device) CreatePipelineLayout(sets []*DescriptorSetLayout, pushConstants ...vk.PushConstantRange) (*PipelineLayout, error) {
	vkSets := make([]vk.DescriptorSetLayout, len(sets))
	for i, s := range sets {
		vkSets[i] = s.VKDescriptorSetLayout
	}
	info := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(vkSets)),
		PSetLayouts:            vkSets,
		PushConstantRangeCount: uint32(len(pushConstants)),
		PPushConstantRanges:    pushConstants,
	}

	var layout vk.PipelineLayout
	if err := check(vk.CreatePipelineLayout(d.VKDevice, &info, nil, &layout), "vkCreatePipelineLayout"); err != nil {
		return nil, err
	}
	return &PipelineLayout{Device: d, VKPipelineLayout: layout, PushConstants: pushConstants}, nil
}

func (p *PipelineLayout) Destroy() {
	vk.DestroyPipelineLayout(p.Device.VKDevice, p.VKPipelineLayout, nil)
}
