package vkrenderer

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/dualrender"
)

func TestAcquireOutcome(t *testing.T) {
	tests := []struct {
		res       vk.Result
		outOfDate bool
		hang      bool
		fatal     bool
	}{
		{res: vk.Success},
		{res: vk.Suboptimal},
		{res: vk.ErrorOutOfDate, outOfDate: true},
		{res: vk.Timeout, hang: true},
		{res: vk.NotReady, hang: true},
		{res: vk.ErrorDeviceLost, fatal: true},
		{res: vk.ErrorSurfaceLost, fatal: true},
	}
	for _, tt := range tests {
		outOfDate, err := acquireOutcome(tt.res)
		assert.Equal(t, tt.outOfDate, outOfDate, "result %d", tt.res)
		if !tt.hang && !tt.fatal {
			assert.NoError(t, err, "result %d", tt.res)
			continue
		}
		assert.Error(t, err, "result %d", tt.res)
		assert.Equal(t, tt.hang, errors.Is(err, dualrender.ErrGPUHang), "result %d", tt.res)
	}
}

func TestPresentOutcome(t *testing.T) {
	tests := []struct {
		res      vk.Result
		recreate bool
		hang     bool
		fatal    bool
	}{
		{res: vk.Success},
		{res: vk.Suboptimal, recreate: true},
		{res: vk.ErrorOutOfDate, recreate: true},
		{res: vk.Timeout, hang: true},
		{res: vk.NotReady, hang: true},
		{res: vk.ErrorDeviceLost, fatal: true},
	}
	for _, tt := range tests {
		recreate, err := presentOutcome(tt.res)
		assert.Equal(t, tt.recreate, recreate, "result %d", tt.res)
		if !tt.hang && !tt.fatal {
			assert.NoError(t, err, "result %d", tt.res)
			continue
		}
		assert.Error(t, err, "result %d", tt.res)
		assert.Equal(t, tt.hang, errors.Is(err, dualrender.ErrGPUHang), "result %d", tt.res)
	}
}
