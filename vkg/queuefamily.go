package vkg

import (
	"fmt"
	"strings"

	vk "github.com/vulkan-go/vulkan"
)

// QueueFamily is one entry of a physical device's queue family list.
type QueueFamily struct {
	Index                   int
	PhysicalDevice          *PhysicalDevice
	VKQueueFamilyProperties vk.QueueFamilyProperties
}

func (q *QueueFamily) has(bit vk.QueueFlagBits) bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(bit) != 0
}

func (q *QueueFamily) IsGraphics() bool { return q.has(vk.QueueGraphicsBit) }
func (q *QueueFamily) IsCompute() bool  { return q.has(vk.QueueComputeBit) }
func (q *QueueFamily) IsTransfer() bool { return q.has(vk.QueueTransferBit) }

// SupportsPresent reports whether queues of this family can present to surface.
func (q *QueueFamily) SupportsPresent(surface vk.Surface) bool {
	var ok vk.Bool32
	vk.GetPhysicalDeviceSurfaceSupport(q.PhysicalDevice.VKPhysicalDevice, uint32(q.Index), surface, &ok)
	return ok == vk.True
}

func (q *QueueFamily) String() string {
	var caps []string
	if q.IsGraphics() {
		caps = append(caps, "graphics")
	}
	if q.IsCompute() {
		caps = append(caps, "compute")
	}
	if q.IsTransfer() {
		caps = append(caps, "transfer")
	}
	return fmt.Sprintf("family %d [%s] x%d", q.Index, strings.Join(caps, " "), q.VKQueueFamilyProperties.QueueCount)
}

type QueueFamilySlice []*QueueFamily

// Find returns the first family satisfying f, or nil.
func (s QueueFamilySlice) Find(f func(q *QueueFamily) bool) *QueueFamily {
	for _, q := range s {
		if f(q) {
			return q
		}
	}
	return nil
}

// GraphicsAndPresent returns the first family that can both render and
// present to surface. Only such a family is used, so a single queue serves
// every submission.
func (s QueueFamilySlice) GraphicsAndPresent(surface vk.Surface) *QueueFamily {
	return s.Find(func(q *QueueFamily) bool {
		return q.IsGraphics() && q.SupportsPresent(surface)
	})
}
