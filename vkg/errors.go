package vkg

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

var (
	// ErrFenceTimeout is returned when a fence wait exceeds its timeout.
	ErrFenceTimeout = errors.New("fence wait timed out")

	// ErrLiveAllocations is returned by Allocator.Destroy while buffers or
	// images it produced are still alive.
	ErrLiveAllocations = errors.New("allocator destroyed with live allocations")

	ErrPipelineBuild = errors.New("graphics pipeline build failed")
	ErrNoMemoryType  = errors.New("no matching memory type")
)

// check converts a Vulkan result into an error annotated with the call
// that produced it. Success yields nil.
func check(res vk.Result, call string) error {
	return errors.Wrap(vk.Error(res), call)
}
