package vkrenderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/dualrender/vkg"
)

func candidate(name string, t vk.PhysicalDeviceType) deviceCandidate {
	return deviceCandidate{
		name:       name,
		apiVersion: vkg.Version{Major: 1, Minor: 2},
		deviceType: t,
		family:     0,
		swapchain:  true,
	}
}

func TestSelectDevice(t *testing.T) {
	old := candidate("old", vk.PhysicalDeviceTypeDiscreteGpu)
	old.apiVersion = vkg.Version{Major: 1, Minor: 0}
	noPresent := candidate("headless", vk.PhysicalDeviceTypeDiscreteGpu)
	noPresent.family = -1
	noSwapchain := candidate("compute", vk.PhysicalDeviceTypeDiscreteGpu)
	noSwapchain.swapchain = false

	tests := []struct {
		name       string
		candidates []deviceCandidate
		want       int
	}{
		{"discrete over integrated", []deviceCandidate{
			candidate("igpu", vk.PhysicalDeviceTypeIntegratedGpu),
			candidate("dgpu", vk.PhysicalDeviceTypeDiscreteGpu),
		}, 1},
		{"integrated over cpu", []deviceCandidate{
			candidate("llvmpipe", vk.PhysicalDeviceTypeCpu),
			candidate("igpu", vk.PhysicalDeviceTypeIntegratedGpu),
		}, 1},
		{"first of equals", []deviceCandidate{
			candidate("a", vk.PhysicalDeviceTypeDiscreteGpu),
			candidate("b", vk.PhysicalDeviceTypeDiscreteGpu),
		}, 0},
		{"unusable skipped", []deviceCandidate{
			old, noPresent, noSwapchain,
			candidate("igpu", vk.PhysicalDeviceTypeIntegratedGpu),
		}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectDevice(tt.candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectDeviceNone(t *testing.T) {
	c := candidate("old", vk.PhysicalDeviceTypeDiscreteGpu)
	c.apiVersion = vkg.Version{Major: 1, Minor: 0}
	_, err := selectDevice([]deviceCandidate{c})
	assert.Error(t, err)

	_, err = selectDevice(nil)
	assert.Error(t, err)
}
