package vkrenderer

import (
	"path/filepath"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/dualrender"
	"github.com/celer/dualrender/assets"
	"github.com/celer/dualrender/vkg"
)

// SPIR-V files looked up in VulkanConfig.ShaderDir.
const (
	meshVertShader     = "mesh.vert.spv"
	meshFragShader     = "mesh.frag.spv"
	triangleVertShader = "triangle.vert.spv"
	triangleFragShader = "triangle.frag.spv"
)

// cameraData is the per-frame uniform block at set 0, binding 0.
type cameraData struct {
	View     mgl32.Mat4
	Proj     mgl32.Mat4
	ViewProj mgl32.Mat4
	Ortho    mgl32.Mat4
}

const cameraDataSize = uint64(unsafe.Sizeof(cameraData{}))

func (c *cameraData) bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(c)), cameraDataSize)
}

// newCameraData converts cam's matrices to Vulkan clip space.
func newCameraData(cam *dualrender.Camera) cameraData {
	view := cam.View()
	proj := dualrender.VulkanClip.Mul4(cam.Projection())
	return cameraData{
		View:     view,
		Proj:     proj,
		ViewProj: proj.Mul4(view),
		Ortho:    dualrender.VulkanClip.Mul4(cam.Ortho()),
	}
}

// meshPushConstants is pushed once per instance. The layout matches the
// push_constant block in mesh.vert.
type meshPushConstants struct {
	Model        mgl32.Mat4
	TextureIndex uint32
	Is2D         uint32
	_            [2]uint32
}

const meshPushConstantSize = uint32(unsafe.Sizeof(meshPushConstants{}))

func (p *meshPushConstants) pointer() unsafe.Pointer {
	return unsafe.Pointer(p)
}

func boolUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// vertexLayout feeds dualrender.Vertex to locations 0-3 of mesh.vert.
var vertexLayout = vkg.VertexLayout{
	Binding: vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    uint32(dualrender.VertexSize),
		InputRate: vk.VertexInputRateVertex,
	},
	Attributes: []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(dualrender.OffsetPosition)},
		{Location: 1, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(dualrender.OffsetNormal)},
		{Location: 2, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(dualrender.OffsetColor)},
		{Location: 3, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(dualrender.OffsetUV)},
	},
}

// pipelines holds everything built against the render pass.
type pipelines struct {
	cache      *vkg.PipelineCache
	meshLayout *vkg.PipelineLayout
	mesh       *vkg.Pipeline
	// triangle is nil unless the demo triangle is enabled
	triangleLayout *vkg.PipelineLayout
	triangle       *vkg.Pipeline
}

// loadShaderModule loads name from dir. The module is only needed until
// the pipeline is built, so the caller destroys it.
func loadShaderModule(device *vkg.Device, dir, name string) (*vkg.ShaderModule, error) {
	code, err := assets.LoadShader(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	module, err := device.CreateShaderModule(code)
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s", name)
	}
	module.Description = name
	return module, nil
}

func buildPipeline(device *vkg.Device, dir, vert, frag string, configure func(b *vkg.PipelineBuilder), cache *vkg.PipelineCache, rp *vkg.RenderPass) (*vkg.Pipeline, error) {
	vs, err := loadShaderModule(device, dir, vert)
	if err != nil {
		return nil, err
	}
	defer vs.Destroy()
	fs, err := loadShaderModule(device, dir, frag)
	if err != nil {
		return nil, err
	}
	defer fs.Destroy()

	b := vkg.NewPipelineBuilder().
		AddShaderStage(vs, vk.ShaderStageVertexBit, "main").
		AddShaderStage(fs, vk.ShaderStageFragmentBit, "main")
	configure(b)
	return b.Build(device, cache, rp.VKRenderPass)
}

// createPipelines builds the mesh pipeline and, if enabled, the demo
// triangle pipeline. Everything is pushed on dq.
func (r *Renderer) createPipelines(dq *vkg.DeletionQueue) (*pipelines, error) {
	device := r.gpu.device
	dir := r.cfg.Vulkan.ShaderDir
	p := &pipelines{}

	var err error
	p.cache, err = device.CreatePipelineCache()
	if err != nil {
		return nil, err
	}
	dq.PushFunc("pipeline cache", p.cache.Destroy)

	p.meshLayout, err = device.CreatePipelineLayout(
		[]*vkg.DescriptorSetLayout{r.cameraLayout, r.textureLayout},
		vkg.PushConstantRange(vk.ShaderStageVertexBit, 0, meshPushConstantSize))
	if err != nil {
		return nil, errors.Wrap(err, "mesh pipeline layout")
	}
	dq.PushFunc("mesh pipeline layout", p.meshLayout.Destroy)

	p.mesh, err = buildPipeline(device, dir, meshVertShader, meshFragShader, func(b *vkg.PipelineBuilder) {
		b.SetVertexInput(vertexLayout).
			// VulkanClip flips Y, which mirrors winding
			SetCullMode(vk.CullModeNone).
			SetLayout(p.meshLayout)
	}, p.cache, r.renderPass)
	if err != nil {
		return nil, errors.Wrap(err, "mesh pipeline")
	}
	dq.PushFunc("mesh pipeline", p.mesh.Destroy)

	if !r.cfg.Vulkan.DemoTriangle {
		return p, nil
	}

	p.triangleLayout, err = device.CreatePipelineLayout(nil)
	if err != nil {
		return nil, errors.Wrap(err, "triangle pipeline layout")
	}
	dq.PushFunc("triangle pipeline layout", p.triangleLayout.Destroy)

	p.triangle, err = buildPipeline(device, dir, triangleVertShader, triangleFragShader, func(b *vkg.PipelineBuilder) {
		b.SetCullMode(vk.CullModeNone).
			SetDepth(false, false, vk.CompareOpAlways).
			SetLayout(p.triangleLayout)
	}, p.cache, r.renderPass)
	if err != nil {
		return nil, errors.Wrap(err, "triangle pipeline")
	}
	dq.PushFunc("triangle pipeline", p.triangle.Destroy)
	return p, nil
}

// createDescriptors creates the camera and texture set layouts and a pool
// sized for the frame ring plus maxTextureArrays texture sets.
func (r *Renderer) createDescriptors(dq *vkg.DeletionQueue) error {
	device := r.gpu.device
	var err error

	r.cameraLayout, err = device.CreateDescriptorSetLayout(
		vkg.LayoutBinding(0, vk.DescriptorTypeUniformBuffer, vk.ShaderStageVertexBit))
	if err != nil {
		return errors.Wrap(err, "camera descriptor layout")
	}
	dq.PushFunc("camera descriptor layout", r.cameraLayout.Destroy)

	r.textureLayout, err = device.CreateDescriptorSetLayout(
		vkg.LayoutBinding(0, vk.DescriptorTypeCombinedImageSampler, vk.ShaderStageFragmentBit))
	if err != nil {
		return errors.Wrap(err, "texture descriptor layout")
	}
	dq.PushFunc("texture descriptor layout", r.textureLayout.Destroy)

	r.descriptorPool, err = device.CreateDescriptorPool(
		vkg.PoolReservation{Layout: r.cameraLayout, Sets: vkg.FramesInFlight},
		vkg.PoolReservation{Layout: r.textureLayout, Sets: maxTextureArrays})
	if err != nil {
		return errors.Wrap(err, "descriptor pool")
	}
	dq.PushFunc("descriptor pool", r.descriptorPool.Destroy)
	return nil
}
