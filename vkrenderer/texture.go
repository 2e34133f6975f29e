package vkrenderer

import (
	"context"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/dualrender/assets"
	"github.com/celer/dualrender/internal/rlog"
	"github.com/celer/dualrender/vkg"
)

// maxTextureArrays bounds the descriptor pool's sampler sets.
const maxTextureArrays = 64

// textureFormat is the GPU format of every texture array layer. Decoded
// images are expanded to RGBA before upload.
const textureFormat = vk.FormatR8g8b8a8Unorm

// texture is one array image with a view, sampler and descriptor set.
type texture struct {
	layers   int
	image    *vkg.AllocatedImage
	view     *vkg.ImageView
	sampler  *vkg.Sampler
	set      *vkg.DescriptorSet
	deletion *vkg.DeletionQueue
}

func (t *texture) destroy() {
	t.deletion.Flush()
}

// uploadTexture decodes paths into a staging buffer and copies every layer
// into a new GPU-only array image in a single immediate submission.
func (r *Renderer) uploadTexture(paths []string) (*texture, error) {
	batch, err := assets.LoadBatch(context.Background(), paths, assets.BatchOptions{RGBA: true})
	if err != nil {
		return nil, err
	}
	alloc := r.gpu.allocator
	data := batch.Bytes()

	staging, err := alloc.CreateBuffer(uint64(len(data)), vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit), vkg.MemoryUsageCPUOnly)
	if err != nil {
		return nil, errors.Wrap(err, "texture staging buffer")
	}
	defer staging.Destroy()
	if err := staging.Upload(data); err != nil {
		return nil, err
	}

	t := &texture{
		layers:   len(batch.Layers),
		deletion: vkg.NewDeletionQueue("texture"),
	}

	t.image, err = alloc.CreateImage(
		vk.Extent3D{Width: uint32(batch.Width), Height: uint32(batch.Height), Depth: 1},
		uint32(len(batch.Layers)),
		textureFormat,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vkg.MemoryUsageGPUOnly)
	if err != nil {
		return nil, errors.Wrap(err, "texture image")
	}
	t.deletion.PushFunc("texture image", t.image.Destroy)

	err = r.upload.ImmediateSubmit(func(cmd *vkg.CommandBuffer) {
		cmd.TransitionImageLayout(t.image.Image, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
		cmd.CmdCopyBufferToImage(staging.Buffer, t.image.Image)
		cmd.TransitionImageLayout(t.image.Image, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	})
	if err != nil {
		t.destroy()
		return nil, errors.Wrap(err, "texture upload")
	}

	if err := r.bindTexture(t); err != nil {
		t.destroy()
		return nil, err
	}

	rlog.Logger().Debug("texture array uploaded", "layers", t.layers, "width", batch.Width, "height", batch.Height)
	return t, nil
}

func (r *Renderer) bindTexture(t *texture) error {
	var err error
	t.view, err = t.image.CreateArrayView()
	if err != nil {
		return errors.Wrap(err, "texture view")
	}
	t.deletion.PushFunc("texture view", t.view.Destroy)

	t.sampler, err = r.gpu.device.CreateSampler(vk.FilterNearest, vk.SamplerAddressModeRepeat)
	if err != nil {
		return errors.Wrap(err, "texture sampler")
	}
	t.deletion.PushFunc("texture sampler", t.sampler.Destroy)

	t.set, err = r.descriptorPool.Allocate(r.textureLayout)
	if err != nil {
		return errors.Wrap(err, "texture descriptor set")
	}
	t.deletion.PushFunc("texture descriptor set", func() {
		if err := r.descriptorPool.Free(t.set); err != nil {
			rlog.Logger().Warn("free texture descriptor set", "err", err)
		}
	})
	t.set.BindSampledImage(0, t.view, t.sampler, vk.ImageLayoutShaderReadOnlyOptimal)
	t.set.Update()
	return nil
}
