package vkg

import (
	"unsafe"

	"github.com/celer/dualrender/internal/rlog"
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// MemoryUsage describes how a buffer or image will be accessed, which
// decides the memory type it is placed in.
type MemoryUsage int

const (
	// MemoryUsageGPUOnly is device local and never mapped.
	MemoryUsageGPUOnly MemoryUsage = iota
	// MemoryUsageCPUToGPU is host visible and coherent, preferably device
	// local. Used for data rewritten every frame such as uniforms.
	MemoryUsageCPUToGPU
	// MemoryUsageCPUOnly is host visible and coherent. Used for staging.
	MemoryUsageCPUOnly
)

func (u MemoryUsage) String() string {
	switch u {
	case MemoryUsageGPUOnly:
		return "gpu-only"
	case MemoryUsageCPUToGPU:
		return "cpu-to-gpu"
	case MemoryUsageCPUOnly:
		return "cpu-only"
	}
	return "unknown"
}

func (u MemoryUsage) properties() (required, preferred vk.MemoryPropertyFlags) {
	hostVisible := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	deviceLocal := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	switch u {
	case MemoryUsageGPUOnly:
		return deviceLocal, 0
	case MemoryUsageCPUToGPU:
		return hostVisible, deviceLocal
	default:
		return hostVisible, 0
	}
}

// Mappable reports whether memory of this usage can be mapped by the host.
func (u MemoryUsage) Mappable() bool {
	return u != MemoryUsageGPUOnly
}

// chooseMemoryType picks the first memory type allowed by typeBits that has
// every required property, preferring one that also has the preferred ones.
func chooseMemoryType(props []vk.MemoryPropertyFlags, typeBits uint32, usage MemoryUsage) (uint32, error) {
	required, preferred := usage.properties()
	found := -1
	for i, p := range props {
		if typeBits&(1<<uint(i)) == 0 || p&required != required {
			continue
		}
		if p&preferred == preferred {
			return uint32(i), nil
		}
		if found < 0 {
			found = i
		}
	}
	if found < 0 {
		return 0, errors.Wrapf(ErrNoMemoryType, "usage %s, type bits %b", usage, typeBits)
	}
	return uint32(found), nil
}

// DefaultBlockSize is the size of each device memory block the allocator
// carves buffers and images out of.
const DefaultBlockSize = 64 << 20

type memoryBlock struct {
	memory    *DeviceMemory
	ranges    RangeAllocator
	typeIndex uint32
	dedicated bool
}

// Allocator sub-allocates buffers and images from large device memory
// blocks grouped by memory type. Every allocation must be destroyed before
// the allocator.
type Allocator struct {
	Device      *Device
	BlockSize   uint64
	Granularity uint64 // bufferImageGranularity, passed to every block

	memoryProps []vk.MemoryPropertyFlags
	blocks      map[uint32][]*memoryBlock
	live        int
}

// NewAllocator creates an allocator for device. A blockSize of 0 selects
// DefaultBlockSize.
func NewAllocator(device *Device, blockSize uint64) *Allocator {
	if blockSize == 0 {
		blockSize = DefaultBlockSize
	}
	types := device.PhysicalDevice.MemoryTypes()
	props := make([]vk.MemoryPropertyFlags, len(types))
	for i, t := range types {
		props[i] = t.PropertyFlags
	}
	return &Allocator{
		Device:      device,
		BlockSize:   blockSize,
		Granularity: device.PhysicalDevice.BufferImageGranularity(),
		memoryProps: props,
		blocks:      make(map[uint32][]*memoryBlock),
	}
}

// Live returns the number of buffers and images not yet destroyed.
func (a *Allocator) Live() int {
	return a.live
}

// allocate places req in a block of a suitable memory type. Buffers are
// linear and images optimally tiled, which decides the granularity padding
// between neighbours.
func (a *Allocator) allocate(req vk.MemoryRequirements, usage MemoryUsage, linear bool) (*memoryBlock, *Allocation, error) {
	typeIndex, err := chooseMemoryType(a.memoryProps, req.MemoryTypeBits, usage)
	if err != nil {
		return nil, nil, err
	}
	size, align := uint64(req.Size), uint64(req.Alignment)

	if size > a.BlockSize {
		mem, err := a.Device.AllocateMemory(size, typeIndex)
		if err != nil {
			return nil, nil, err
		}
		b := &memoryBlock{memory: mem, ranges: RangeAllocator{Size: size}, typeIndex: typeIndex, dedicated: true}
		rlog.Logger().Debug("dedicated memory block", "size", size, "type", typeIndex)
		return b, b.ranges.Allocate(size, align, linear), nil
	}

	for _, b := range a.blocks[typeIndex] {
		if r := b.ranges.Allocate(size, align, linear); r != nil {
			return b, r, nil
		}
	}

	mem, err := a.Device.AllocateMemory(a.BlockSize, typeIndex)
	if err != nil {
		return nil, nil, err
	}
	b := &memoryBlock{memory: mem, ranges: RangeAllocator{Size: a.BlockSize, Granularity: a.Granularity}, typeIndex: typeIndex}
	a.blocks[typeIndex] = append(a.blocks[typeIndex], b)
	rlog.Logger().Debug("memory block", "size", a.BlockSize, "type", typeIndex, "usage", usage.String())
	return b, b.ranges.Allocate(size, align, linear), nil
}

func (a *Allocator) release(b *memoryBlock, r *Allocation) {
	b.ranges.Free(r)
	a.live--
	if b.dedicated {
		b.memory.Destroy()
	}
}

// AllocatedBuffer is a buffer bound to memory from an Allocator.
type AllocatedBuffer struct {
	*Buffer
	Usage MemoryUsage

	allocator  *Allocator
	block      *memoryBlock
	allocation *Allocation
}

// CreateBuffer creates a buffer of size bytes and binds memory suited to
// memUsage.
func (a *Allocator) CreateBuffer(size uint64, usage vk.BufferUsageFlags, memUsage MemoryUsage) (*AllocatedBuffer, error) {
	buffer, err := a.Device.CreateBuffer(size, usage)
	if err != nil {
		return nil, err
	}
	block, r, err := a.allocate(buffer.VKMemoryRequirements(), memUsage, true)
	if err != nil {
		buffer.Destroy()
		return nil, errors.Wrapf(err, "allocate %d byte buffer", size)
	}
	a.live++
	if err := buffer.Bind(block.memory, r.Offset); err != nil {
		buffer.Destroy()
		a.release(block, r)
		return nil, err
	}
	return &AllocatedBuffer{
		Buffer:     buffer,
		Usage:      memUsage,
		allocator:  a,
		block:      block,
		allocation: r,
	}, nil
}

// Map returns the buffer contents as a byte slice. Every Map must be
// paired with Unmap.
func (b *AllocatedBuffer) Map() ([]byte, error) {
	if !b.Usage.Mappable() {
		return nil, errors.Newf("buffer with %s memory cannot be mapped", b.Usage)
	}
	ptr, err := b.block.memory.Map()
	if err != nil {
		return nil, err
	}
	return ToBytes(unsafe.Add(ptr, b.allocation.Offset), int(b.Size)), nil
}

func (b *AllocatedBuffer) Unmap() {
	b.block.memory.Unmap()
}

// Upload maps the buffer, copies data to its start and unmaps it.
func (b *AllocatedBuffer) Upload(data []byte) error {
	if uint64(len(data)) > b.Size {
		return errors.Newf("upload of %d bytes into %d byte buffer", len(data), b.Size)
	}
	dst, err := b.Map()
	if err != nil {
		return err
	}
	copy(dst, data)
	b.Unmap()
	return nil
}

// Destroy destroys the buffer and returns its memory. Calling it more
// than once has no effect.
func (b *AllocatedBuffer) Destroy() {
	if b.allocation == nil {
		return
	}
	b.Buffer.Destroy()
	b.allocator.release(b.block, b.allocation)
	b.allocation = nil
}

// AllocatedImage is an image bound to memory from an Allocator.
type AllocatedImage struct {
	*Image
	Usage MemoryUsage

	allocator  *Allocator
	block      *memoryBlock
	allocation *Allocation
}

// CreateImage creates an optimally tiled 2D image with layers array layers
// and binds memory suited to memUsage.
func (a *Allocator) CreateImage(extent vk.Extent3D, layers uint32, format vk.Format, usage vk.ImageUsageFlags, memUsage MemoryUsage) (*AllocatedImage, error) {
	image, err := a.Device.CreateImage(extent, layers, format, usage)
	if err != nil {
		return nil, err
	}
	block, r, err := a.allocate(image.VKMemoryRequirements(), memUsage, false)
	if err != nil {
		image.Destroy()
		return nil, errors.Wrapf(err, "allocate %dx%d image", extent.Width, extent.Height)
	}
	a.live++
	if err := image.Bind(block.memory, r.Offset); err != nil {
		image.Destroy()
		a.release(block, r)
		return nil, err
	}
	return &AllocatedImage{
		Image:      image,
		Usage:      memUsage,
		allocator:  a,
		block:      block,
		allocation: r,
	}, nil
}

// Destroy destroys the image and returns its memory. Calling it more than
// once has no effect.
func (i *AllocatedImage) Destroy() {
	if i.allocation == nil {
		return
	}
	i.Image.Destroy()
	i.allocator.release(i.block, i.allocation)
	i.allocation = nil
}

// Destroy frees every memory block. It refuses, leaving the blocks alone,
// while allocations are still live.
func (a *Allocator) Destroy() error {
	if a.live > 0 {
		return errors.Wrapf(ErrLiveAllocations, "%d live", a.live)
	}
	for t, blocks := range a.blocks {
		for _, b := range blocks {
			b.memory.Destroy()
		}
		delete(a.blocks, t)
	}
	return nil
}
