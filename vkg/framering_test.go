package vkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotIndex(t *testing.T) {
	tests := []struct {
		frame uint64
		slot  int
	}{
		{0, 0},
		{1, 1},
		{2, 0},
		{3, 1},
		{1<<64 - 1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.slot, SlotIndex(tt.frame), "frame %d", tt.frame)
	}
}

func TestFrameRingCurrent(t *testing.T) {
	ring := &FrameRing{}
	for i := range ring.Slots {
		ring.Slots[i] = &FrameSlot{}
	}
	assert.Same(t, ring.Slots[0], ring.Current(0))
	assert.Same(t, ring.Slots[1], ring.Current(1))
	assert.Same(t, ring.Slots[0], ring.Current(10))
	assert.NotSame(t, ring.Current(4), ring.Current(5))
}
