package vkg

import (
	vk "github.com/vulkan-go/vulkan"
)

// LayoutBinding describes a single descriptor at binding, visible to stages.
func LayoutBinding(binding uint32, dtype vk.DescriptorType, stages vk.ShaderStageFlagBits) vk.DescriptorSetLayoutBinding {
	return vk.DescriptorSetLayoutBinding{
		Binding:         binding,
		DescriptorType:  dtype,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(stages),
	}
}

// DescriptorSetLayout is the shape of a descriptor set. Bindings is kept
// so pools can be sized from the layouts they serve.
type DescriptorSetLayout struct {
	Device                *Device
	VKDescriptorSetLayout vk.DescriptorSetLayout
	Bindings              []vk.DescriptorSetLayoutBinding
}

func (d *Device) CreateDescriptorSetLayout(bindings ...vk.DescriptorSetLayoutBinding) (*DescriptorSetLayout, error) {
	info := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}

	var layout vk.DescriptorSetLayout
	if err := check(vk.CreateDescriptorSetLayout(d.VKDevice, &info, nil, &layout), "vkCreateDescriptorSetLayout"); err != nil {
		return nil, err
	}
	return &DescriptorSetLayout{Device: d, VKDescriptorSetLayout: layout, Bindings: bindings}, nil
}

func (l *DescriptorSetLayout) Destroy() {
	vk.DestroyDescriptorSetLayout(l.Device.VKDevice, l.VKDescriptorSetLayout, nil)
}
