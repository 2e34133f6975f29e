package glrenderer

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/celer/dualrender"
)

// Attribute locations in gl_mesh.vert.glsl.
const (
	locPosition = iota
	locNormal
	locColor
	locUV
	locOffset
	locRotation
	locScale
	locTextureIndex
)

type vertexAttrib struct {
	location uint32
	size     int32
	offset   int
}

// vertexAttribs maps dualrender.Vertex onto the per-vertex locations.
var vertexAttribs = []vertexAttrib{
	{locPosition, 3, dualrender.OffsetPosition},
	{locNormal, 3, dualrender.OffsetNormal},
	{locColor, 3, dualrender.OffsetColor},
	{locUV, 2, dualrender.OffsetUV},
}

// model owns a vertex array object, its vertex and index buffers and one
// buffer per instance attribute.
type model struct {
	vao, vbo, ebo uint32
	offsets       uint32
	rotations     uint32
	scales        uint32
	textureIndex  uint32
	vertexCount   int32
	indexCount    int32
}

func validateGeometry(vertices []dualrender.Vertex, indices []uint32) error {
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

func newModel(vertices []dualrender.Vertex, indices []uint32) (*model, error) {
	if err := validateGeometry(vertices, indices); err != nil {
		return nil, err
	}
	m := &model{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)
	defer gl.BindVertexArray(0)

	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)
	m.upload(vertices, indices)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	for _, a := range vertexAttribs {
		gl.EnableVertexAttribArray(a.location)
		gl.VertexAttribPointer(a.location, a.size, gl.FLOAT, false, int32(dualrender.VertexSize), gl.PtrOffset(a.offset))
	}

	m.offsets = instanceBuffer(locOffset, 3)
	m.rotations = instanceBuffer(locRotation, 1)
	m.scales = instanceBuffer(locScale, 1)

	gl.GenBuffers(1, &m.textureIndex)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.textureIndex)
	gl.EnableVertexAttribArray(locTextureIndex)
	gl.VertexAttribIPointer(locTextureIndex, 1, gl.UNSIGNED_INT, 4, gl.PtrOffset(0))
	gl.VertexAttribDivisor(locTextureIndex, 1)

	return m, nil
}

// instanceBuffer creates a float buffer advanced once per instance and
// binds it to location. The vertex array must be bound.
func instanceBuffer(location uint32, size int32) uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointer(location, size, gl.FLOAT, false, size*4, gl.PtrOffset(0))
	gl.VertexAttribDivisor(location, 1)
	return buf
}

// upload replaces the geometry. The vertex array must be bound.
func (m *model) upload(vertices []dualrender.Vertex, indices []uint32) {
	vdata := dualrender.VertexBytes(vertices)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vdata), gl.Ptr(vdata), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if idata := dualrender.IndexBytes(indices); len(idata) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(idata), gl.Ptr(idata), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}
	m.vertexCount = int32(len(vertices))
	m.indexCount = int32(len(indices))
}

func (m *model) update(vertices []dualrender.Vertex, indices []uint32) error {
	if err := validateGeometry(vertices, indices); err != nil {
		return err
	}
	gl.BindVertexArray(m.vao)
	m.upload(vertices, indices)
	gl.BindVertexArray(0)
	return nil
}

// draw streams the instance attributes and issues one instanced draw.
func (m *model) draw(inst *dualrender.Instances) {
	rotations, scales, textureIndices := inst.Filled()
	n := int32(inst.Len())

	gl.BindVertexArray(m.vao)
	streamBuffer(m.offsets, len(inst.Offsets)*3*4, gl.Ptr(&inst.Offsets[0]))
	streamBuffer(m.rotations, len(rotations)*4, gl.Ptr(rotations))
	streamBuffer(m.scales, len(scales)*4, gl.Ptr(scales))
	streamBuffer(m.textureIndex, len(textureIndices)*4, gl.Ptr(textureIndices))

	if m.indexCount > 0 {
		gl.DrawElementsInstanced(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0), n)
	} else {
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, m.vertexCount, n)
	}
	gl.BindVertexArray(0)
}

func streamBuffer(buf uint32, size int, data unsafe.Pointer) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, size, data, gl.DYNAMIC_DRAW)
}

func (m *model) destroy() {
	buffers := []uint32{m.vbo, m.ebo, m.offsets, m.rotations, m.scales, m.textureIndex}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
	gl.DeleteVertexArrays(1, &m.vao)
}
