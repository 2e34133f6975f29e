package vkg

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSet binds resources to the slots of a DescriptorSetLayout.
// Bind* calls queue writes; Update applies them.
type DescriptorSet struct {
	Device          *Device
	Pool            *DescriptorPool
	VKDescriptorSet vk.DescriptorSet

	pending []vk.WriteDescriptorSet
}

func (s *DescriptorSet) queue(binding uint32, dtype vk.DescriptorType, w vk.WriteDescriptorSet) {
	w.SType = vk.StructureTypeWriteDescriptorSet
	w.DstBinding = binding
	w.DescriptorCount = 1
	w.DescriptorType = dtype
	s.pending = append(s.pending, w)
}

// BindBuffer binds the whole of b at binding.
func (s *DescriptorSet) BindBuffer(binding uint32, dtype vk.DescriptorType, b *Buffer) {
	s.queue(binding, dtype, vk.WriteDescriptorSet{
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: b.VKBuffer,
			Range:  vk.DeviceSize(b.Size),
		}},
	})
}

// BindSampledImage binds view and sampler as a combined image sampler;
// the image must be in layout when the set is used.
func (s *DescriptorSet) BindSampledImage(binding uint32, view *ImageView, sampler *Sampler, layout vk.ImageLayout) {
	s.queue(binding, vk.DescriptorTypeCombinedImageSampler, vk.WriteDescriptorSet{
		PImageInfo: []vk.DescriptorImageInfo{{
			Sampler:     sampler.VKSampler,
			ImageView:   view.VKImageView,
			ImageLayout: layout,
		}},
	})
}

// Update applies the queued writes.
func (s *DescriptorSet) Update() {
	if len(s.pending) == 0 {
		return
	}
	for i := range s.pending {
		s.pending[i].DstSet = s.VKDescriptorSet
	}
	vk.UpdateDescriptorSets(s.Device.VKDevice, uint32(len(s.pending)), s.pending, 0, nil)
	s.pending = nil
}
