package vkg

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ShaderModule is SPIR-V code loaded into the device. Description names
// it in logs and errors.
type ShaderModule struct {
	Device         *Device
	Description    string
	VKShaderModule vk.ShaderModule
}

// CreateShaderModule wraps SPIR-V code in a shader module. The code length
// must be a non-zero multiple of four.
func (d *Device) CreateShaderModule(code []byte) (*ShaderModule, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, errors.Newf("invalid SPIR-V length %d", len(code))
	}
	var module vk.ShaderModule
	err := check(vk.CreateShaderModule(d.VKDevice, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module), "vkCreateShaderModule")
	if err != nil {
		return nil, err
	}

	return &ShaderModule{VKShaderModule: module, Device: d}, nil
}

// VKPipelineShaderStageCreateInfo describes the module as stage of a
// pipeline, starting at entryPoint.
func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits, entryPoint string) vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: s.VKShaderModule,
		PName:  safeString(entryPoint),
	}
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}

// sliceUint32 reinterprets SPIR-V bytes as words. A copy is made so the
// result is correctly aligned regardless of how data was allocated.
func sliceUint32(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	if len(words) > 0 {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*4), data)
	}
	return words
}
