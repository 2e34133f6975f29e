package vkg

import (
	vk "github.com/vulkan-go/vulkan"
)

// Pipeline is a built graphics pipeline together with the layout it was built against.
type Pipeline struct {
	Device     *Device
	VKPipeline vk.Pipeline
	Layout     *PipelineLayout
}

func (p *Pipeline) Destroy() {
	if p == nil || p.VKPipeline == vk.NullPipeline {
		return
	}
	vk.DestroyPipeline(p.Device.VKDevice, p.VKPipeline, nil)
	p.VKPipeline = vk.NullPipeline
}

type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	var pipelineCacheCreate = vk.PipelineCacheCreateInfo{}
	pipelineCacheCreate.SType = vk.StructureTypePipelineCacheCreateInfo

	var pipelineCache vk.PipelineCache

	err := check(vk.CreatePipelineCache(d.VKDevice, &pipelineCacheCreate, nil, &pipelineCache), "vkCreatePipelineCache")
	if err != nil {
		return nil, err
	}

	return &PipelineCache{Device: d, VKPipelineCache: pipelineCache}, nil
}

func (c *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(c.Device.VKDevice, c.VKPipelineCache, nil)
}

func (c *PipelineCache) handle() vk.PipelineCache {
	if c == nil {
		var none vk.PipelineCache
		return none
	}
	return c.VKPipelineCache
}
