package vkrenderer

import (
	"sort"

	"github.com/cockroachdb/errors"
	units "github.com/docker/go-units"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/dualrender"
	"github.com/celer/dualrender/internal/rlog"
	"github.com/celer/dualrender/vkg"
)

var minAPIVersion = vkg.Version{Major: 1, Minor: 1}

const swapchainExtension = "VK_KHR_swapchain"

// gpuContext is everything bootstrap produces: one instance, surface,
// device, queue and allocator shared by the frame loop and uploads.
type gpuContext struct {
	instance  *vkg.Instance
	surface   vk.Surface
	physical  *vkg.PhysicalDevice
	device    *vkg.Device
	family    *vkg.QueueFamily
	queue     *vkg.Queue
	allocator *vkg.Allocator

	// teardownErr is set if the allocator still had live allocations
	// when the deletion queue reached it
	teardownErr error
}

// deviceCandidate is what device selection needs to know about a
// physical device.
type deviceCandidate struct {
	name       string
	apiVersion vkg.Version
	deviceType vk.PhysicalDeviceType
	// family is the first graphics and present capable family, or -1
	family    int
	swapchain bool
}

func (c deviceCandidate) usable() bool {
	return c.apiVersion.AtLeast(minAPIVersion) && c.family >= 0 && c.swapchain
}

func deviceTypeRank(t vk.PhysicalDeviceType) int {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return 3
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return 2
	case vk.PhysicalDeviceTypeVirtualGpu:
		return 1
	}
	return 0
}

// selectDevice returns the index of the best usable candidate: discrete
// before integrated before anything else, ties broken by enumeration order.
func selectDevice(candidates []deviceCandidate) (int, error) {
	order := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if c.usable() {
			order = append(order, i)
		}
	}
	if len(order) == 0 {
		return -1, errors.Newf("none of %d devices supports Vulkan %d.%d, graphics+present and %s",
			len(candidates), minAPIVersion.Major, minAPIVersion.Minor, swapchainExtension)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return deviceTypeRank(candidates[order[a]].deviceType) > deviceTypeRank(candidates[order[b]].deviceType)
	})
	return order[0], nil
}

func describeDevice(p *vkg.PhysicalDevice, surface vk.Surface) (deviceCandidate, vkg.QueueFamilySlice, error) {
	c := deviceCandidate{
		name:       p.DeviceName,
		apiVersion: p.APIVersion(),
		deviceType: p.DeviceType(),
		family:     -1,
		swapchain:  p.SupportsExtension(swapchainExtension),
	}
	families, err := p.QueueFamilies()
	if err != nil {
		return c, nil, err
	}
	if f := families.GraphicsAndPresent(surface); f != nil {
		c.family = f.Index
	}
	return c, families, nil
}

// bootstrap brings up Vulkan for window. Every object created is pushed on
// dq; on error the caller flushes dq and nothing survives.
func bootstrap(window *glfw.Window, appName string, cfg dualrender.VulkanConfig, dq *vkg.DeletionQueue) (*gpuContext, error) {
	if err := vkg.Initialize(glfw.GetVulkanGetInstanceProcAddress()); err != nil {
		return nil, err
	}

	app := &vkg.App{
		Name:       appName,
		EngineName: "dualrender",
		APIVersion: minAPIVersion,
	}
	for _, ext := range window.GetRequiredInstanceExtensions() {
		app.EnableExtension(ext)
	}
	if cfg.Validation {
		if err := app.EnableDebugging(); err != nil {
			rlog.Logger().Warn("vulkan validation unavailable", "err", err)
		}
	}

	instance, err := app.CreateInstance()
	if err != nil {
		return nil, err
	}
	dq.PushFunc("instance", instance.Destroy)
	if cfg.Validation {
		if err := instance.UseDefaultDebugCallback(); err != nil {
			rlog.Logger().Warn("vulkan debug callback unavailable", "err", err)
		}
	}

	surfacePtr, err := window.CreateWindowSurface(instance.VKInstance, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window surface")
	}
	surface := vk.SurfaceFromPointer(surfacePtr)
	dq.PushFunc("surface", func() { vk.DestroySurface(instance.VKInstance, surface, nil) })

	physicals, err := instance.PhysicalDevices()
	if err != nil {
		return nil, err
	}
	candidates := make([]deviceCandidate, len(physicals))
	families := make([]vkg.QueueFamilySlice, len(physicals))
	for i, p := range physicals {
		candidates[i], families[i], err = describeDevice(p, surface)
		if err != nil {
			return nil, errors.Wrapf(err, "query %s", p.DeviceName)
		}
		rlog.Logger().Debug("vulkan device", "device", p.GoString(), "usable", candidates[i].usable())
	}
	idx, err := selectDevice(candidates)
	if err != nil {
		return nil, err
	}
	physical := physicals[idx]
	family := families[idx][candidates[idx].family]

	device, err := physical.CreateLogicalDeviceWithOptions(vkg.QueueFamilySlice{family}, &vkg.CreateDeviceOptions{
		EnabledExtensions: []string{swapchainExtension},
	})
	if err != nil {
		return nil, err
	}
	dq.PushFunc("device", device.Destroy)

	rlog.Logger().Info("vulkan device selected",
		"name", physical.DeviceName,
		"api", physical.APIVersion(),
		"memory", units.BytesSize(float64(physical.DeviceLocalMemory())),
		"queue_family", family)

	gpu := &gpuContext{
		instance:  instance,
		surface:   surface,
		physical:  physical,
		device:    device,
		family:    family,
		queue:     device.GetQueue(family),
		allocator: vkg.NewAllocator(device, 0),
	}
	dq.PushFunc("allocator", func() {
		if err := gpu.allocator.Destroy(); err != nil {
			gpu.teardownErr = err
			rlog.Logger().Error("vulkan allocator not empty at teardown", "err", err)
		}
	})
	return gpu, nil
}
