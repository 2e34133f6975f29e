package vkrenderer

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/dualrender"
)

// acquireOutcome maps the result of vkAcquireNextImageKHR. An out of date
// swapchain skips the frame; suboptimal still renders into the image.
func acquireOutcome(res vk.Result) (outOfDate bool, err error) {
	switch res {
	case vk.Success, vk.Suboptimal:
		return false, nil
	case vk.ErrorOutOfDate:
		return true, nil
	case vk.Timeout, vk.NotReady:
		return false, errors.Mark(errors.Newf("no swapchain image (result %d)", res), dualrender.ErrGPUHang)
	}
	return false, fatalResult(res)
}

// presentOutcome maps the result of vkQueuePresentKHR. Both out of date
// and suboptimal ask for a swapchain rebuild.
func presentOutcome(res vk.Result) (recreate bool, err error) {
	switch res {
	case vk.Success:
		return false, nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return true, nil
	case vk.Timeout, vk.NotReady:
		return false, errors.Mark(errors.Newf("present not ready (result %d)", res), dualrender.ErrGPUHang)
	}
	return false, fatalResult(res)
}

func fatalResult(res vk.Result) error {
	if err := vk.Error(res); err != nil {
		return err
	}
	return errors.Newf("unexpected result %d", res)
}
