package vkg

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestChooseMemoryType(t *testing.T) {
	deviceLocal := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	host := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	hostCached := host | vk.MemoryPropertyFlags(vk.MemoryPropertyHostCachedBit)

	// a typical discrete GPU: device local, host, and a small BAR heap
	props := []vk.MemoryPropertyFlags{deviceLocal, host, hostCached, deviceLocal | host}

	tests := []struct {
		name     string
		typeBits uint32
		usage    MemoryUsage
		want     uint32
	}{
		{"gpu only", 0xf, MemoryUsageGPUOnly, 0},
		{"cpu only", 0xf, MemoryUsageCPUOnly, 1},
		{"cpu to gpu prefers device local", 0xf, MemoryUsageCPUToGPU, 3},
		{"cpu to gpu falls back to host", 0x7, MemoryUsageCPUToGPU, 1},
		{"type bits restrict choice", 0x4, MemoryUsageCPUOnly, 2},
		{"gpu only accepts host visible device local", 0x8, MemoryUsageGPUOnly, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chooseMemoryType(props, tt.typeBits, tt.usage)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChooseMemoryTypeNone(t *testing.T) {
	props := []vk.MemoryPropertyFlags{vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)}
	_, err := chooseMemoryType(props, 0x1, MemoryUsageCPUOnly)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMemoryType))

	_, err = chooseMemoryType(props, 0x0, MemoryUsageGPUOnly)
	assert.True(t, errors.Is(err, ErrNoMemoryType))
}

func TestMemoryUsage(t *testing.T) {
	assert.False(t, MemoryUsageGPUOnly.Mappable())
	assert.True(t, MemoryUsageCPUToGPU.Mappable())
	assert.True(t, MemoryUsageCPUOnly.Mappable())
	assert.Equal(t, "gpu-only", MemoryUsageGPUOnly.String())
	assert.Equal(t, "cpu-to-gpu", MemoryUsageCPUToGPU.String())
	assert.Equal(t, "cpu-only", MemoryUsageCPUOnly.String())
}

func TestAllocatorDestroyRefusesLive(t *testing.T) {
	a := &Allocator{live: 2}
	err := a.Destroy()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLiveAllocations))
}
