package vkg

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type VKPresentModes []vk.PresentMode

// Contains reports whether mode is in the list.
func (v VKPresentModes) Contains(mode vk.PresentMode) bool {
	for _, s := range v {
		if s == mode {
			return true
		}
	}
	return false
}

type VKSurfaceFormats []vk.SurfaceFormat

func (v VKSurfaceFormats) Filter(f func(f vk.SurfaceFormat) bool) VKSurfaceFormats {
	ret := make(VKSurfaceFormats, 0)
	for _, s := range v {
		s.Deref()
		if f(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

// APIVersion returns the major and minor Vulkan version the device supports.
func (p *PhysicalDevice) APIVersion() Version {
	v := p.VKPhysicalDeviceProperties.ApiVersion
	return Version{
		Major: int(v >> 22),
		Minor: int((v >> 12) & 0x3ff),
		Patch: int(v & 0xfff),
	}
}

// BufferImageGranularity is the page size at which linear and optimally
// tiled resources in the same memory must not meet.
func (p *PhysicalDevice) BufferImageGranularity() uint64 {
	return uint64(p.VKPhysicalDeviceProperties.Limits.BufferImageGranularity)
}

// DeviceType returns whether the device is discrete, integrated, virtual
// or a CPU implementation.
func (p *PhysicalDevice) DeviceType() vk.PhysicalDeviceType {
	return p.VKPhysicalDeviceProperties.DeviceType
}

func (p *PhysicalDevice) GetSurfacePresentModes(surface vk.Surface) (VKPresentModes, error) {
	var count uint32
	err := check(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, nil), "vkGetPhysicalDeviceSurfacePresentModesKHR")
	if err != nil {
		return nil, err
	}

	f := make([]vk.PresentMode, count)
	err = check(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, f), "vkGetPhysicalDeviceSurfacePresentModesKHR")
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (p *PhysicalDevice) GetSurfaceFormats(surface vk.Surface) (VKSurfaceFormats, error) {
	var count uint32
	err := check(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, nil), "vkGetPhysicalDeviceSurfaceFormatsKHR")
	if err != nil {
		return nil, err
	}

	f := make([]vk.SurfaceFormat, count)
	err = check(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, f), "vkGetPhysicalDeviceSurfaceFormatsKHR")
	if err != nil {
		return nil, err
	}
	for i := range f {
		f[i].Deref()
	}

	return f, nil
}

func (p *PhysicalDevice) GetSurfaceCapabilities(surface vk.Surface) (*vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	err := check(vk.GetPhysicalDeviceSurfaceCapabilities(p.VKPhysicalDevice, surface, &caps), "vkGetPhysicalDeviceSurfaceCapabilitiesKHR")
	if err != nil {
		return nil, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return &caps, nil
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var queueFamilyCount uint32

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, nil)

	if queueFamilyCount == 0 {
		return nil, nil
	}

	queues := make([]vk.QueueFamilyProperties, queueFamilyCount)

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, queues)

	ret := make([]*QueueFamily, queueFamilyCount)
	for i, queue := range queues {
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: queue}
		ret[i].VKQueueFamilyProperties.Deref()
	}

	return ret, nil
}

type CreateDeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
}

// CreateLogicalDeviceWithOptions creates a device with one queue from each
// of the given families.
func (p *PhysicalDevice) CreateLogicalDeviceWithOptions(qfs QueueFamilySlice, options *CreateDeviceOptions) (*Device, error) {
	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(qfs))
	for j, q := range qfs {
		queueCreateInfos[j] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(q.Index),
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(qfs)),
		PQueueCreateInfos:    queueCreateInfos,
		PEnabledFeatures:     []vk.PhysicalDeviceFeatures{{}},
	}

	if options != nil {
		if options.EnabledExtensions != nil {
			deviceCreateInfo.EnabledExtensionCount = uint32(len(options.EnabledExtensions))
			deviceCreateInfo.PpEnabledExtensionNames = safeStrings(options.EnabledExtensions)
		}
		if options.EnabledLayers != nil {
			deviceCreateInfo.EnabledLayerCount = uint32(len(options.EnabledLayers))
			deviceCreateInfo.PpEnabledLayerNames = safeStrings(options.EnabledLayers)
		}
	}

	var ldevice vk.Device
	err := check(vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &ldevice), "vkCreateDevice")
	if err != nil {
		return nil, err
	}

	return &Device{
		PhysicalDevice: p,
		VKDevice:       ldevice,
	}, nil
}

func (p *PhysicalDevice) MemoryTypes() []vk.MemoryType {
	var mp vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &mp)
	mp.Deref()

	ret := make([]vk.MemoryType, 0, mp.MemoryTypeCount)
	for i := uint32(0); i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		ret = append(ret, mt)
	}
	return ret
}

// DeviceLocalMemory is the total size in bytes of the device-local heaps.
func (p *PhysicalDevice) DeviceLocalMemory() uint64 {
	var mp vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &mp)
	mp.Deref()

	var total uint64
	for i := uint32(0); i < mp.MemoryHeapCount; i++ {
		h := mp.MemoryHeaps[i]
		h.Deref()
		if h.Flags&vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit) != 0 {
			total += uint64(h.Size)
		}
	}
	return total
}

// SupportedExtensions lists the device extension names.
func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	var count uint32
	err := check(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil), "vkEnumerateDeviceExtensionProperties")
	if err != nil {
		return nil, err
	}

	ext := make([]vk.ExtensionProperties, count)
	err = check(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, ext), "vkEnumerateDeviceExtensionProperties")
	if err != nil {
		return nil, err
	}

	names := make([]string, len(ext))
	for i := range ext {
		ext[i].Deref()
		names[i] = vk.ToString(ext[i].ExtensionName[:])
	}
	return names, nil
}

// SupportsExtension reports whether the device exposes the named extension.
func (p *PhysicalDevice) SupportsExtension(name string) bool {
	names, err := p.SupportedExtensions()
	if err != nil {
		return false
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func (p *PhysicalDevice) GoString() string {
	v := p.APIVersion()
	return fmt.Sprintf("%s (Vulkan %d.%d.%d)", p.DeviceName, v.Major, v.Minor, v.Patch)
}
