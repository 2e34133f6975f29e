package vkrenderer

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celer/dualrender"
	"github.com/celer/dualrender/vkg"
)

type fakeOps struct {
	calls []string

	fenceErr   error
	recordErr  error
	outOfDate  bool
	presentErr error
	recreate   bool
	nextImage  uint32
}

func (f *fakeOps) waitFence(slot int) error {
	f.calls = append(f.calls, fmt.Sprintf("wait %d", slot))
	return f.fenceErr
}

func (f *fakeOps) acquire(slot int) (uint32, bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("acquire %d", slot))
	if f.outOfDate {
		f.outOfDate = false
		return 0, true, nil
	}
	img := f.nextImage
	f.nextImage = (f.nextImage + 1) % 3
	return img, false, nil
}

func (f *fakeOps) record(slot int, image uint32) error {
	f.calls = append(f.calls, fmt.Sprintf("record %d %d", slot, image))
	return f.recordErr
}

func (f *fakeOps) resetFence(slot int) error {
	f.calls = append(f.calls, fmt.Sprintf("reset %d", slot))
	return nil
}

func (f *fakeOps) submit(slot int) error {
	f.calls = append(f.calls, fmt.Sprintf("submit %d", slot))
	return nil
}

func (f *fakeOps) present(slot int, image uint32) (bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("present %d %d", slot, image))
	r := f.recreate
	f.recreate = false
	return r, f.presentErr
}

func (f *fakeOps) recreateSwapchain() error {
	f.calls = append(f.calls, "recreate")
	return nil
}

func TestFrameLoopNormalFrames(t *testing.T) {
	ops := &fakeOps{}
	l := &frameLoop{ops: ops}

	for i := 0; i < 3; i++ {
		require.NoError(t, l.begin())
		assert.True(t, l.recording())
		require.NoError(t, l.end())
		assert.Equal(t, stateIdle, l.state)
	}

	assert.Equal(t, uint64(3), l.frame)
	assert.Equal(t, []string{
		"wait 0", "acquire 0", "record 0 0", "reset 0", "submit 0", "present 0 0",
		"wait 1", "acquire 1", "record 1 1", "reset 1", "submit 1", "present 1 1",
		"wait 0", "acquire 0", "record 0 2", "reset 0", "submit 0", "present 0 2",
	}, ops.calls)
}

func TestFrameLoopAcquireOutOfDate(t *testing.T) {
	ops := &fakeOps{outOfDate: true}
	l := &frameLoop{ops: ops}

	require.NoError(t, l.begin())
	assert.False(t, l.recording())
	assert.Equal(t, stateIdle, l.state)
	assert.True(t, l.skipped)

	require.NoError(t, l.end())
	assert.Equal(t, uint64(1), l.frame)
	assert.False(t, l.skipped)

	// nothing was recorded or submitted for the skipped frame
	assert.Equal(t, []string{"wait 0", "acquire 0", "recreate"}, ops.calls)

	ops.calls = nil
	require.NoError(t, l.begin())
	require.NoError(t, l.end())
	assert.Equal(t, []string{"wait 1", "acquire 1", "record 1 0", "reset 1", "submit 1", "present 1 0"}, ops.calls)
}

func TestFrameLoopPresentRecreate(t *testing.T) {
	ops := &fakeOps{recreate: true}
	l := &frameLoop{ops: ops}

	require.NoError(t, l.begin())
	require.NoError(t, l.end())
	assert.Equal(t, "recreate", ops.calls[len(ops.calls)-1])
	assert.Equal(t, uint64(1), l.frame)
}

func TestFrameLoopResizePending(t *testing.T) {
	ops := &fakeOps{}
	l := &frameLoop{ops: ops}

	require.NoError(t, l.begin())
	l.resized = true
	require.NoError(t, l.end())
	assert.Equal(t, "recreate", ops.calls[len(ops.calls)-1])
	assert.False(t, l.resized)
}

func TestFrameLoopFenceTimeout(t *testing.T) {
	ops := &fakeOps{fenceErr: errors.Wrap(vkg.ErrFenceTimeout, "after 1s")}
	l := &frameLoop{ops: ops}

	err := l.begin()
	require.Error(t, err)
	assert.True(t, errors.Is(err, dualrender.ErrGPUHang))
	assert.True(t, errors.Is(err, vkg.ErrFenceTimeout))
	assert.Equal(t, stateIdle, l.state)
	assert.Equal(t, []string{"wait 0"}, ops.calls)
}

func TestFrameLoopPresentError(t *testing.T) {
	ops := &fakeOps{presentErr: errors.New("device lost")}
	l := &frameLoop{ops: ops}

	require.NoError(t, l.begin())
	err := l.end()
	require.Error(t, err)
	assert.Equal(t, stateIdle, l.state)
	assert.NotContains(t, ops.calls, "recreate")
}

func TestFrameLoopMisuse(t *testing.T) {
	l := &frameLoop{ops: &fakeOps{}}
	assert.Error(t, l.end())
	assert.Equal(t, uint64(0), l.frame)

	require.NoError(t, l.begin())
	assert.Error(t, l.begin())
}

func TestFrameLoopRecordErrorKeepsFence(t *testing.T) {
	ops := &fakeOps{recordErr: errors.New("command buffer reset failed")}
	l := &frameLoop{ops: ops}

	require.Error(t, l.begin())
	assert.Equal(t, stateIdle, l.state)
	assert.Equal(t, []string{"wait 0", "acquire 0", "record 0 0"}, ops.calls)

	// the fence was never unsignaled, so the retry does not block on it
	ops.recordErr = nil
	ops.calls = nil
	require.NoError(t, l.begin())
	require.NoError(t, l.end())
	assert.Equal(t, []string{"wait 0", "acquire 0", "record 0 1", "reset 0", "submit 0", "present 0 1"}, ops.calls)
}

func TestFrameLoopRetireWhileRecording(t *testing.T) {
	ops := &fakeOps{}
	l := &frameLoop{ops: ops}
	destroyed := 0
	destroy := func() { destroyed++ }

	l.retire("idle", destroy)
	assert.Equal(t, 1, destroyed)

	require.NoError(t, l.begin())
	l.retire("in use", destroy)
	assert.Equal(t, 1, destroyed)
	require.NoError(t, l.end())

	// slot 1 fence says nothing about the slot 0 frame
	require.NoError(t, l.begin())
	require.NoError(t, l.end())
	assert.Equal(t, 1, destroyed)

	require.NoError(t, l.begin())
	assert.Equal(t, 2, destroyed)
	assert.Equal(t, "wait 0", ops.calls[len(ops.calls)-3])
	require.NoError(t, l.end())
}

func TestFrameLoopRetireKeptOnFenceTimeout(t *testing.T) {
	ops := &fakeOps{}
	l := &frameLoop{ops: ops}
	destroyed := 0

	require.NoError(t, l.begin())
	l.retire("in use", func() { destroyed++ })
	require.NoError(t, l.end())
	require.NoError(t, l.begin())
	require.NoError(t, l.end())

	ops.fenceErr = errors.Wrap(vkg.ErrFenceTimeout, "after 1s")
	require.Error(t, l.begin())
	assert.Equal(t, 0, destroyed)

	l.flushRetired()
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, 0, l.retired[0].Len())
}
