package vkrenderer

import (
	"github.com/cockroachdb/errors"

	"github.com/celer/dualrender"
	"github.com/celer/dualrender/vkg"
)

type frameState int

const (
	stateIdle frameState = iota
	stateAcquiring
	stateRecording
	stateSubmitted
	statePresenting
)

func (s frameState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAcquiring:
		return "acquiring"
	case stateRecording:
		return "recording"
	case stateSubmitted:
		return "submitted"
	case statePresenting:
		return "presenting"
	}
	return "unknown"
}

// frameOps are the GPU side effects of one frame. The renderer implements
// them against Vulkan; tests substitute a fake.
type frameOps interface {
	// waitFence blocks on the slot's fence. A timeout is ErrFenceTimeout.
	waitFence(slot int) error
	acquire(slot int) (image uint32, outOfDate bool, err error)
	// record resets the slot's command buffer and begins the render pass
	// on image. The fence stays signaled so a failed frame cannot leave the
	// next wait on this slot blocked.
	record(slot int, image uint32) error
	// resetFence unsignals the slot's fence right before submit.
	resetFence(slot int) error
	// submit ends recording and queues the command buffer.
	submit(slot int) error
	present(slot int, image uint32) (recreate bool, err error)
	recreateSwapchain() error
}

// frameLoop drives Idle -> Acquiring -> Recording -> Submitted ->
// Presenting -> Idle once per frame.
type frameLoop struct {
	ops   frameOps
	frame uint64
	state frameState
	image uint32
	// skipped is set when acquisition found the swapchain out of date; the
	// rest of the frame is dropped
	skipped bool
	// resized is set by the window callback and honored after present
	resized bool
	// retired holds destruction deferred until the slot's fence is next
	// waited on
	retired [vkg.FramesInFlight]vkg.DeletionQueue
}

func (l *frameLoop) slot() int {
	return vkg.SlotIndex(l.frame)
}

// recording reports whether draw commands may be recorded now.
func (l *frameLoop) recording() bool {
	return l.state == stateRecording
}

func (l *frameLoop) begin() error {
	if l.state != stateIdle || l.skipped {
		return errors.Newf("begin drawing while %s", l.state)
	}
	slot := l.slot()

	l.state = stateAcquiring
	if err := l.ops.waitFence(slot); err != nil {
		l.state = stateIdle
		if errors.Is(err, vkg.ErrFenceTimeout) {
			return errors.Mark(errors.Wrapf(err, "frame %d", l.frame), dualrender.ErrGPUHang)
		}
		return err
	}
	l.retired[slot].Flush()

	image, outOfDate, err := l.ops.acquire(slot)
	if err != nil {
		l.state = stateIdle
		return errors.Wrap(err, "acquire swapchain image")
	}
	if outOfDate {
		l.state = stateIdle
		l.skipped = true
		l.resized = false
		return l.ops.recreateSwapchain()
	}

	l.image = image
	if err := l.ops.record(slot, image); err != nil {
		l.state = stateIdle
		return err
	}
	l.state = stateRecording
	return nil
}

func (l *frameLoop) end() error {
	if l.skipped {
		l.skipped = false
		l.frame++
		return nil
	}
	if l.state != stateRecording {
		return errors.Newf("end drawing while %s", l.state)
	}
	slot := l.slot()

	l.state = stateSubmitted
	if err := l.ops.resetFence(slot); err != nil {
		l.state = stateIdle
		return err
	}
	if err := l.ops.submit(slot); err != nil {
		l.state = stateIdle
		return err
	}

	l.state = statePresenting
	recreate, err := l.ops.present(slot, l.image)
	l.state = stateIdle
	l.frame++
	if err != nil {
		return errors.Wrap(err, "present")
	}
	if recreate || l.resized {
		l.resized = false
		return l.ops.recreateSwapchain()
	}
	return nil
}

// retire runs destroy now, or after the GPU is done with the current frame
// when commands are being recorded that may reference the resource. Frames
// submitted earlier must already be drained.
func (l *frameLoop) retire(name string, destroy func()) {
	if l.recording() {
		l.retired[l.slot()].PushFunc(name, destroy)
		return
	}
	destroy()
}

// flushRetired runs all deferred destruction. The device must be idle.
func (l *frameLoop) flushRetired() {
	for i := range l.retired {
		l.retired[i].Flush()
	}
}
