package vkrenderer

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/dualrender"
	"github.com/celer/dualrender/internal/rlog"
	"github.com/celer/dualrender/vkg"
)

// mesh is geometry resident in GPU-only memory.
type mesh struct {
	vertices    *vkg.AllocatedBuffer
	indices     *vkg.AllocatedBuffer
	vertexCount uint32
	indexCount  uint32
	deletion    *vkg.DeletionQueue
}

func (m *mesh) destroy() {
	m.deletion.Flush()
}

func validateMesh(vertices []dualrender.Vertex, indices []uint32) error {
	if len(vertices) == 0 {
		return errors.New("model has no vertices")
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return errors.Newf("index %d at %d out of range for %d vertices", idx, i, len(vertices))
		}
	}
	return nil
}

// uploadMesh copies vertices and indices into new GPU-only buffers through
// one staging buffer and a single immediate submission. The buffers are
// registered once, on the mesh's own deletion queue.
func (r *Renderer) uploadMesh(vertices []dualrender.Vertex, indices []uint32) (*mesh, error) {
	if err := validateMesh(vertices, indices); err != nil {
		return nil, err
	}
	alloc := r.gpu.allocator
	vdata := dualrender.VertexBytes(vertices)
	idata := dualrender.IndexBytes(indices)
	vsize, isize := uint64(len(vdata)), uint64(len(idata))

	staging, err := alloc.CreateBuffer(vsize+isize, vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit), vkg.MemoryUsageCPUOnly)
	if err != nil {
		return nil, errors.Wrap(err, "mesh staging buffer")
	}
	defer staging.Destroy()

	mapped, err := staging.Map()
	if err != nil {
		return nil, err
	}
	copy(mapped, vdata)
	copy(mapped[vsize:], idata)
	staging.Unmap()

	m := &mesh{
		vertexCount: uint32(len(vertices)),
		indexCount:  uint32(len(indices)),
		deletion:    vkg.NewDeletionQueue("mesh"),
	}

	m.vertices, err = alloc.CreateBuffer(vsize,
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit|vk.BufferUsageTransferDstBit), vkg.MemoryUsageGPUOnly)
	if err != nil {
		return nil, errors.Wrap(err, "vertex buffer")
	}
	m.deletion.PushFunc("vertex buffer", m.vertices.Destroy)

	if isize > 0 {
		m.indices, err = alloc.CreateBuffer(isize,
			vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit|vk.BufferUsageTransferDstBit), vkg.MemoryUsageGPUOnly)
		if err != nil {
			m.destroy()
			return nil, errors.Wrap(err, "index buffer")
		}
		m.deletion.PushFunc("index buffer", m.indices.Destroy)
	}

	err = r.upload.ImmediateSubmit(func(cmd *vkg.CommandBuffer) {
		cmd.CmdCopyBuffer(staging.Buffer, m.vertices.Buffer, vsize)
		if m.indices != nil {
			cmd.CmdCopyBufferRegion(staging.Buffer, m.indices.Buffer, vsize, 0, isize)
		}
	})
	if err != nil {
		m.destroy()
		return nil, errors.Wrap(err, "mesh upload")
	}

	rlog.Logger().Debug("mesh uploaded", "vertices", len(vertices), "indices", len(indices))
	return m, nil
}

// draw records one draw per instance; the model matrix and texture layer
// travel as push constants.
func (m *mesh) draw(cmd *vkg.CommandBuffer, layout *vkg.PipelineLayout, inst *dualrender.Instances, is2D bool) {
	cmd.CmdBindVertexBuffer(m.vertices.Buffer)
	if m.indices != nil {
		cmd.CmdBindIndexBuffer(m.indices.Buffer, vk.IndexTypeUint32)
	}
	for i := 0; i < inst.Len(); i++ {
		pc := meshPushConstants{
			Model:        inst.Transform(i),
			TextureIndex: inst.TextureIndex(i),
			Is2D:         boolUint32(is2D),
		}
		cmd.CmdPushConstants(layout, 0, pc.pointer())
		if m.indices != nil {
			cmd.CmdDrawIndexed(m.indexCount, 1)
		} else {
			cmd.CmdDraw(m.vertexCount, 1)
		}
	}
}
