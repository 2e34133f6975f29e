package vkg

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// FramesInFlight is how many frames the CPU may record ahead of the GPU.
const FramesInFlight = 2

// FrameSlot holds everything one in-flight frame records and synchronizes with.
type FrameSlot struct {
	CommandPool      *CommandPool
	CommandBuffer    *CommandBuffer
	PresentSemaphore *Semaphore
	RenderSemaphore  *Semaphore
	RenderFence      *Fence
	CameraBuffer     *AllocatedBuffer
	CameraSet        *DescriptorSet
}

type FrameRing struct {
	Slots [FramesInFlight]*FrameSlot
}

// SlotIndex maps a monotonically increasing frame number to its slot.
func SlotIndex(frame uint64) int {
	return int(frame % FramesInFlight)
}

func (r *FrameRing) Current(frame uint64) *FrameSlot {
	return r.Slots[SlotIndex(frame)]
}

// NewFrameRing creates FramesInFlight slots. Each slot gets a resettable
// command pool and buffer, two semaphores, a fence created signaled so the
// first wait passes, and a CPU-visible uniform buffer of uboSize bytes bound
// at binding 0 of a set allocated from pool with layout. Every object is
// pushed onto dq.
func NewFrameRing(device *Device, family *QueueFamily, allocator *Allocator, uboSize uint64, layout *DescriptorSetLayout, pool *DescriptorPool, dq *DeletionQueue) (*FrameRing, error) {
	ring := &FrameRing{}
	for i := range ring.Slots {
		slot, err := newFrameSlot(device, family, allocator, uboSize, layout, pool, dq)
		if err != nil {
			return nil, errors.Wrapf(err, "frame slot %d", i)
		}
		ring.Slots[i] = slot
	}
	return ring, nil
}

func newFrameSlot(device *Device, family *QueueFamily, allocator *Allocator, uboSize uint64, layout *DescriptorSetLayout, pool *DescriptorPool, dq *DeletionQueue) (*FrameSlot, error) {
	var err error
	s := &FrameSlot{}

	s.CommandPool, err = device.CreateCommandPool(family, vk.CommandPoolCreateResetCommandBufferBit)
	if err != nil {
		return nil, err
	}
	dq.PushFunc("frame command pool", s.CommandPool.Destroy)

	s.CommandBuffer, err = s.CommandPool.AllocateBuffer()
	if err != nil {
		return nil, err
	}

	s.RenderFence, err = device.CreateFence(true)
	if err != nil {
		return nil, err
	}
	dq.PushFunc("frame fence", s.RenderFence.Destroy)

	s.PresentSemaphore, err = device.CreateSemaphore()
	if err != nil {
		return nil, err
	}
	dq.PushFunc("present semaphore", s.PresentSemaphore.Destroy)

	s.RenderSemaphore, err = device.CreateSemaphore()
	if err != nil {
		return nil, err
	}
	dq.PushFunc("render semaphore", s.RenderSemaphore.Destroy)

	if uboSize == 0 || layout == nil || pool == nil {
		return s, nil
	}

	s.CameraBuffer, err = allocator.CreateBuffer(uboSize, vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit), MemoryUsageCPUToGPU)
	if err != nil {
		return nil, err
	}
	dq.PushFunc("camera buffer", s.CameraBuffer.Destroy)

	s.CameraSet, err = pool.Allocate(layout)
	if err != nil {
		return nil, err
	}
	s.CameraSet.BindBuffer(0, vk.DescriptorTypeUniformBuffer, s.CameraBuffer.Buffer)
	s.CameraSet.Update()

	return s, nil
}
