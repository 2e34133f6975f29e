package vkg

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	VKQueue     vk.Queue
}

func (q *Queue) WaitIdle() error {
	return check(vk.QueueWaitIdle(q.VKQueue), "vkQueueWaitIdle")
}

// SubmitInfo describes one queue submission.
type SubmitInfo struct {
	Buffers    []*CommandBuffer
	WaitFor    []*Semaphore
	WaitStages []vk.PipelineStageFlags
	Signal     []*Semaphore
}

func (s *SubmitInfo) toVK() vk.SubmitInfo {
	buffers := make([]vk.CommandBuffer, len(s.Buffers))
	for i, b := range s.Buffers {
		buffers[i] = b.VKCommandBuffer
	}
	info := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(buffers)),
		PCommandBuffers:    buffers,
	}
	if len(s.WaitFor) > 0 {
		wait := make([]vk.Semaphore, len(s.WaitFor))
		for i, w := range s.WaitFor {
			wait[i] = w.VKSemaphore
		}
		info.WaitSemaphoreCount = uint32(len(wait))
		info.PWaitSemaphores = wait
		info.PWaitDstStageMask = s.WaitStages
	}
	if len(s.Signal) > 0 {
		signal := make([]vk.Semaphore, len(s.Signal))
		for i, sg := range s.Signal {
			signal[i] = sg.VKSemaphore
		}
		info.SignalSemaphoreCount = uint32(len(signal))
		info.PSignalSemaphores = signal
	}
	return info
}

// Submit queues the work and signals fence, which may be nil, when the
// GPU has finished it.
func (q *Queue) Submit(submit SubmitInfo, fence *Fence) error {
	vkFence := vk.NullFence
	if fence != nil {
		vkFence = fence.VKFence
	}
	return check(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submit.toVK()}, vkFence), "vkQueueSubmit")
}

// SubmitWithFence submits buffers with no semaphores.
func (q *Queue) SubmitWithFence(fence *Fence, buffers ...*CommandBuffer) error {
	return q.Submit(SubmitInfo{Buffers: buffers}, fence)
}

// Present queues imageIndex of swapchain for presentation once wait is
// signaled. The raw result is returned so callers can react to
// out-of-date and suboptimal swapchains.
func (q *Queue) Present(swapchain *Swapchain, imageIndex uint32, wait *Semaphore) vk.Result {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.VKSwapchain},
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{wait.VKSemaphore},
		PImageIndices:      []uint32{imageIndex},
	}
	return vk.QueuePresent(q.VKQueue, &presentInfo)
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}
