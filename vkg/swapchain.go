package vkg

import (
	"strings"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Swapchain struct {
	Extent      vk.Extent2D
	Format      vk.Format
	ColorSpace  vk.ColorSpace
	PresentMode vk.PresentMode
	Device      *Device
	VKSwapchain vk.Swapchain
}

func (s *Swapchain) Destroy() {
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}

// AcquireNextImage returns the index of the next presentable image, signalling
// sem when it is ready. The raw result is returned so callers can react to
// out-of-date and suboptimal surfaces.
func (s *Swapchain) AcquireNextImage(timeout uint64, sem *Semaphore) (uint32, vk.Result) {
	var index uint32
	res := vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, timeout, sem.VKSemaphore, vk.NullFence, &index)
	return index, res
}

func (s *Swapchain) GetImages() ([]*Image, error) {
	var imageCount uint32
	err := check(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, nil), "vkGetSwapchainImagesKHR")
	if err != nil {
		return nil, err
	}

	swapchainImages := make([]vk.Image, imageCount)
	err = check(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, swapchainImages), "vkGetSwapchainImagesKHR")
	if err != nil {
		return nil, err
	}

	ret := make([]*Image, imageCount)
	for i := range swapchainImages {
		ret[i] = &Image{
			Device:   s.Device,
			VKImage:  swapchainImages[i],
			VKFormat: s.Format,
			Extent:   vk.Extent3D{Width: s.Extent.Width, Height: s.Extent.Height, Depth: 1},
			Layers:   1,
		}
	}

	return ret, nil
}

// ParsePresentMode maps a config name to a present mode. Unknown names map to FIFO.
func ParsePresentMode(name string) vk.PresentMode {
	switch strings.ToLower(name) {
	case "mailbox":
		return vk.PresentModeMailbox
	case "immediate":
		return vk.PresentModeImmediate
	default:
		return vk.PresentModeFifo
	}
}

// ChoosePresentMode returns want if the surface supports it, FIFO otherwise.
// FIFO is always available.
func ChoosePresentMode(supported VKPresentModes, want vk.PresentMode) vk.PresentMode {
	if supported.Contains(want) {
		return want
	}
	return vk.PresentModeFifo
}

// ChooseSurfaceFormat prefers B8G8R8A8_UNORM with an sRGB non-linear color
// space and otherwise takes the first format reported.
func ChooseSurfaceFormat(formats VKSurfaceFormats) (vk.SurfaceFormat, error) {
	if len(formats) == 0 {
		return vk.SurfaceFormat{}, errors.New("surface reports no formats")
	}
	for _, f := range formats {
		if f.Format == vk.FormatB8g8r8a8Unorm && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f, nil
		}
	}
	// a single undefined entry means the surface has no preference
	if len(formats) == 1 && formats[0].Format == vk.FormatUndefined {
		return vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}, nil
	}
	return formats[0], nil
}

// ChooseExtent uses the surface's current extent when it is fixed and clamps
// want to the allowed range otherwise.
func ChooseExtent(caps vk.SurfaceCapabilities, want vk.Extent2D) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(want.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(want.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the minimum, bounded by the
// maximum when the surface sets one.
func ChooseImageCount(caps vk.SurfaceCapabilities, desired int) uint32 {
	n := caps.MinImageCount + 1
	if desired > 0 {
		n = uint32(desired)
	}
	if n < caps.MinImageCount {
		n = caps.MinImageCount
	}
	if caps.MaxImageCount > 0 && n > caps.MaxImageCount {
		n = caps.MaxImageCount
	}
	return n
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}

type CreateSwapchainOptions struct {
	OldSwapchain              *Swapchain
	ActualSize                vk.Extent2D
	DesiredNumSwapchainImages int
	PresentMode               vk.PresentMode
}

func (p *Device) CreateSwapchain(surface vk.Surface, graphicsQueue, presentQueue *Queue, options *CreateSwapchainOptions) (*Swapchain, error) {
	if options == nil {
		options = &CreateSwapchainOptions{PresentMode: vk.PresentModeFifo}
	}

	modes, err := p.PhysicalDevice.GetSurfacePresentModes(surface)
	if err != nil {
		return nil, err
	}
	presentMode := ChoosePresentMode(modes, options.PresentMode)

	formats, err := p.PhysicalDevice.GetSurfaceFormats(surface)
	if err != nil {
		return nil, err
	}
	format, err := ChooseSurfaceFormat(formats)
	if err != nil {
		return nil, err
	}

	caps, err := p.PhysicalDevice.GetSurfaceCapabilities(surface)
	if err != nil {
		return nil, err
	}

	swapchainSize := ChooseExtent(*caps, options.ActualSize)

	createInfo := &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    ChooseImageCount(*caps, options.DesiredNumSwapchainImages),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      swapchainSize,
		PresentMode:      presentMode,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageArrayLayers: 1,
		Clipped:          vk.True,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		OldSwapchain:     vk.NullSwapchain,
	}

	if options.OldSwapchain != nil {
		createInfo.OldSwapchain = options.OldSwapchain.VKSwapchain
	}

	if graphicsQueue.QueueFamily.Index != presentQueue.QueueFamily.Index {
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{uint32(graphicsQueue.QueueFamily.Index), uint32(presentQueue.QueueFamily.Index)}
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var swapchain vk.Swapchain
	err = check(vk.CreateSwapchain(p.VKDevice, createInfo, nil, &swapchain), "vkCreateSwapchainKHR")
	if err != nil {
		return nil, err
	}

	return &Swapchain{
		VKSwapchain: swapchain,
		Device:      p,
		Extent:      swapchainSize,
		Format:      format.Format,
		ColorSpace:  format.ColorSpace,
		PresentMode: presentMode,
	}, nil
}
