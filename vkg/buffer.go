package vkg

import (
	vk "github.com/vulkan-go/vulkan"
)

// Buffer is an unbound buffer object. Allocator.CreateBuffer pairs one
// with memory.
type Buffer struct {
	Device   *Device
	VKBuffer vk.Buffer
	Size     uint64
}

// CreateBuffer creates an exclusively owned buffer of size bytes.
func (d *Device) CreateBuffer(size uint64, usage vk.BufferUsageFlags) (*Buffer, error) {
	info := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if err := check(vk.CreateBuffer(d.VKDevice, &info, nil, &buffer), "vkCreateBuffer"); err != nil {
		return nil, err
	}
	return &Buffer{Device: d, VKBuffer: buffer, Size: size}, nil
}

func (b *Buffer) VKMemoryRequirements() vk.MemoryRequirements {
	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.Device.VKDevice, b.VKBuffer, &req)
	req.Deref()
	return req
}

func (b *Buffer) Bind(memory *DeviceMemory, offset uint64) error {
	return check(vk.BindBufferMemory(b.Device.VKDevice, b.VKBuffer, memory.VKDeviceMemory, vk.DeviceSize(offset)), "vkBindBufferMemory")
}

func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.Device.VKDevice, b.VKBuffer, nil)
}
