package vkg

import (
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultUploadTimeout bounds how long ImmediateSubmit waits for the GPU.
const DefaultUploadTimeout = 10 * time.Second

// UploadContext records and runs one-off transfer work synchronously. It
// owns its own command pool, buffer and fence so uploads never touch frame
// resources.
type UploadContext struct {
	Device  *Device
	Queue   *Queue
	Timeout time.Duration

	pool  *CommandPool
	cmd   *CommandBuffer
	fence *Fence
}

// NewUploadContext creates the context's objects and pushes their teardown
// onto dq.
func NewUploadContext(device *Device, queue *Queue, dq *DeletionQueue, timeout time.Duration) (*UploadContext, error) {
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}
	u := &UploadContext{Device: device, Queue: queue, Timeout: timeout}

	fence, err := device.CreateFence(false)
	if err != nil {
		return nil, errors.Wrap(err, "upload fence")
	}
	dq.PushFunc("upload fence", fence.Destroy)
	u.fence = fence

	pool, err := device.CreateCommandPool(queue.QueueFamily, 0)
	if err != nil {
		return nil, errors.Wrap(err, "upload command pool")
	}
	dq.PushFunc("upload command pool", pool.Destroy)
	u.pool = pool

	cmd, err := pool.AllocateBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "upload command buffer")
	}
	u.cmd = cmd

	return u, nil
}

// ImmediateSubmit records work via record, submits it and blocks until the
// GPU has finished. The pool is reset afterwards so the next call starts
// from a clean buffer.
func (u *UploadContext) ImmediateSubmit(record func(cmd *CommandBuffer)) error {
	if err := u.cmd.BeginOneTime(); err != nil {
		return err
	}
	record(u.cmd)
	if err := u.cmd.End(); err != nil {
		return err
	}

	if err := u.Queue.SubmitWithFence(u.fence, u.cmd); err != nil {
		return errors.Wrap(err, "upload submit")
	}
	if err := u.fence.Wait(u.Timeout); err != nil {
		return errors.Wrap(err, "upload wait")
	}
	if err := u.fence.Reset(); err != nil {
		return err
	}
	return u.pool.Reset()
}
