package vkg

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// DeviceMemory is one vkAllocateMemory block. The allocator places many
// buffers and images in the same block, so mappings are counted: the block
// stays mapped while any of them holds a mapping.
type DeviceMemory struct {
	Device         *Device
	VKDeviceMemory vk.DeviceMemory
	Size           uint64

	maps int
	ptr  unsafe.Pointer
}

// AllocateMemory allocates size bytes from memory type typeIndex.
func (d *Device) AllocateMemory(size uint64, typeIndex uint32) (*DeviceMemory, error) {
	info := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(size),
		MemoryTypeIndex: typeIndex,
	}

	var mem vk.DeviceMemory
	if err := check(vk.AllocateMemory(d.VKDevice, &info, nil, &mem), "vkAllocateMemory"); err != nil {
		return nil, err
	}
	return &DeviceMemory{Device: d, VKDeviceMemory: mem, Size: size}, nil
}

// Map maps the whole block, or returns the existing mapping.
func (m *DeviceMemory) Map() (unsafe.Pointer, error) {
	if m.maps > 0 {
		m.maps++
		return m.ptr, nil
	}
	var ptr unsafe.Pointer
	if err := check(vk.MapMemory(m.Device.VKDevice, m.VKDeviceMemory, 0, vk.DeviceSize(m.Size), 0, &ptr), "vkMapMemory"); err != nil {
		return nil, err
	}
	m.ptr = ptr
	m.maps = 1
	return ptr, nil
}

// Unmap releases one Map.
func (m *DeviceMemory) Unmap() {
	if m.maps == 0 {
		return
	}
	m.maps--
	if m.maps == 0 {
		m.ptr = nil
		vk.UnmapMemory(m.Device.VKDevice, m.VKDeviceMemory)
	}
}

func (m *DeviceMemory) Destroy() {
	vk.FreeMemory(m.Device.VKDevice, m.VKDeviceMemory, nil)
}
