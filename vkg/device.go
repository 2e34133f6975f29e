package vkg

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Device is a logical device.
type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

// WaitIdle blocks until every queue of the device is idle.
func (d *Device) WaitIdle() error {
	return check(vk.DeviceWaitIdle(d.VKDevice), "vkDeviceWaitIdle")
}

func (d *Device) GetQueue(qf *QueueFamily) *Queue {
	var vkq vk.Queue

	vk.GetDeviceQueue(d.VKDevice, uint32(qf.Index), 0, &vkq)

	return &Queue{
		Device:      d,
		QueueFamily: qf,
		VKQueue:     vkq,
	}
}

