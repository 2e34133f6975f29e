package vkg

import (
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Fence struct {
	Device  *Device
	VKFence vk.Fence
}

// CreateFence creates a fence, optionally already signaled so the first
// wait on it returns immediately.
func (d *Device) CreateFence(signaled bool) (*Fence, error) {
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var fence vk.Fence
	err := check(vk.CreateFence(d.VKDevice, &fenceCreateInfo, nil, &fence), "vkCreateFence")
	if err != nil {
		return nil, err
	}

	return &Fence{Device: d, VKFence: fence}, nil
}

// Wait blocks until the fence is signaled or timeout elapses, in which
// case the error is ErrFenceTimeout.
func (f *Fence) Wait(timeout time.Duration) error {
	res := vk.WaitForFences(f.Device.VKDevice, 1, []vk.Fence{f.VKFence}, vk.True, uint64(timeout.Nanoseconds()))
	if res == vk.Timeout {
		return errors.Wrapf(ErrFenceTimeout, "after %s", timeout)
	}
	return check(res, "vkWaitForFences")
}

// Reset returns the fence to the unsignaled state.
func (f *Fence) Reset() error {
	return check(vk.ResetFences(f.Device.VKDevice, 1, []vk.Fence{f.VKFence}), "vkResetFences")
}

func (f *Fence) Destroy() {
	vk.DestroyFence(f.Device.VKDevice, f.VKFence, nil)
}
