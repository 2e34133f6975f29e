/*
Package vkg wraps the parts of the Vulkan API a small forward renderer needs. Every
wrapper keeps the native handle in a field prefixed with VK so callers can drop down to
github.com/vulkan-go/vulkan whenever the wrapper does not expose an option.

Native Vulkan terms
	Instance	the vulkan runtime instance
	PhysicalDevice	the physical hardware device
	Device		the logical device, target of most calls
	Queue		where command buffers are submitted
	CommandPool	allocator of command buffers for one queue family
	Fence		GPU to CPU signal, waited on by the host
	Semaphore	GPU to GPU signal between submissions and presentation
	DeviceMemory	an allocation of host or device memory backing buffers and images
	Buffer		linear data (vertex, index, uniform, staging)
	Image		texel data, possibly with several array layers
	ImageView	how a shader or attachment sees an image
	Sampler		filtering and addressing applied when a shader reads an image
	DescriptorSet	resources bound for shaders, shaped by a DescriptorSetLayout
	RenderPass	attachments and subpasses a framebuffer is drawn with
	Pipeline	compiled shader and fixed function state
	Swapchain	images the surface cycles through for presentation

A frame with this package looks like:

	1. wait on the frame slot's fence, acquire a swapchain image
	2. reset and record the slot's command buffer inside the render pass
	3. submit, waiting on the acquire semaphore and signalling the render semaphore
	4. present, waiting on the render semaphore

Higher level pieces

Allocator:
	sub-allocates buffers and images out of large device memory blocks per memory type
DeletionQueue:
	records teardown actions as objects are created and runs them last-in first-out
UploadContext:
	records one-off transfer work and blocks until the GPU has executed it
FrameRing:
	per frame-in-flight command buffers, semaphores, fences and uniform buffers
PipelineBuilder:
	collects graphics pipeline state with dynamic viewport and scissor
*/
package vkg
