package vkg

import (
	"fmt"
	"sort"
)

// Allocation is a byte range handed out by a RangeAllocator. Linear marks
// buffers and linearly tiled images; optimally tiled images are not linear.
type Allocation struct {
	Offset uint64
	Size   uint64
	Linear bool
}

func (a *Allocation) String() string {
	return fmt.Sprintf("[%d %d]", a.Offset, a.Size)
}

func (a *Allocation) end() uint64 {
	return a.Offset + a.Size
}

// RangeAllocator hands out aligned, non-overlapping ranges of a fixed size
// region, first fit. The memory allocator uses one per device memory block.
//
// Granularity is the device's bufferImageGranularity: a linear and a
// non-linear allocation never share a Granularity sized page. It must be a
// power of two; 0 or 1 disables the rule.
type RangeAllocator struct {
	Size        uint64
	Granularity uint64
	allocs      []*Allocation
}

func alignUp(a uint64, align uint64) uint64 {
	if align <= 1 {
		return a
	}
	m := a % align
	if m == 0 {
		return a
	}
	return a - m + align
}

// Allocate returns a range of size bytes whose offset is a multiple of
// align, or nil if no gap is large enough. align must be a power of two.
func (p *RangeAllocator) Allocate(size, align uint64, linear bool) *Allocation {
	if size == 0 || size > p.Size {
		return nil
	}
	var start uint64
	for i, next := range p.allocs {
		if start <= next.Offset && p.endBefore(start+size, linear, next) <= next.Offset {
			return p.insert(i, start, size, linear)
		}
		start = max(start, p.startAfter(next, align, linear))
	}
	if start <= p.Size && p.Size-start >= size {
		return p.insert(len(p.allocs), start, size, linear)
	}
	return nil
}

// startAfter is the first offset for a new allocation following prev.
func (p *RangeAllocator) startAfter(prev *Allocation, align uint64, linear bool) uint64 {
	start := alignUp(prev.end(), align)
	if prev.Linear != linear {
		start = alignUp(start, p.Granularity)
	}
	return start
}

// endBefore is the end a new allocation ending at end occupies as far as
// next is concerned: a different kind claims the rest of its last page.
func (p *RangeAllocator) endBefore(end uint64, linear bool, next *Allocation) uint64 {
	if next.Linear != linear {
		return alignUp(end, p.Granularity)
	}
	return end
}

func (p *RangeAllocator) insert(i int, offset, size uint64, linear bool) *Allocation {
	na := &Allocation{Offset: offset, Size: size, Linear: linear}
	p.allocs = append(p.allocs, nil)
	copy(p.allocs[i+1:], p.allocs[i:])
	p.allocs[i] = na
	return na
}

// Free returns fa to the allocator. It reports false if fa was not
// allocated here or was already freed.
func (p *RangeAllocator) Free(fa *Allocation) bool {
	i := sort.Search(len(p.allocs), func(i int) bool {
		return p.allocs[i].Offset >= fa.Offset
	})
	if i < len(p.allocs) && p.allocs[i] == fa {
		p.allocs = append(p.allocs[:i], p.allocs[i+1:]...)
		return true
	}
	return false
}

// Len returns the number of live allocations.
func (p *RangeAllocator) Len() int {
	return len(p.allocs)
}

// Used returns the number of bytes covered by live allocations.
func (p *RangeAllocator) Used() uint64 {
	var n uint64
	for _, a := range p.allocs {
		n += a.Size
	}
	return n
}

func (p *RangeAllocator) String() string {
	return fmt.Sprintf("%v", p.allocs)
}
