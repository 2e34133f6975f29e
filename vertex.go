package dualrender

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the interleaved vertex record shared by both backends.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    mgl32.Vec3
	UV       mgl32.Vec2
}

// Byte layout of Vertex.
const (
	VertexSize     = int(unsafe.Sizeof(Vertex{}))
	OffsetPosition = int(unsafe.Offsetof(Vertex{}.Position))
	OffsetNormal   = int(unsafe.Offsetof(Vertex{}.Normal))
	OffsetColor    = int(unsafe.Offsetof(Vertex{}.Color))
	OffsetUV       = int(unsafe.Offsetof(Vertex{}.UV))
)

// VertexBytes views vertices as raw bytes without copying.
func VertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*VertexSize)
}

// IndexBytes views indices as raw bytes without copying.
func IndexBytes(indices []uint32) []byte {
	if len(indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*4)
}

// QuadVertices returns a unit square in the XY plane centred on the origin.
func QuadVertices() ([]Vertex, []uint32) {
	n := mgl32.Vec3{0, 0, 1}
	white := mgl32.Vec3{1, 1, 1}
	vertices := []Vertex{
		{Position: mgl32.Vec3{-0.5, -0.5, 0}, Normal: n, Color: white, UV: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{0.5, -0.5, 0}, Normal: n, Color: white, UV: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{0.5, 0.5, 0}, Normal: n, Color: white, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{-0.5, 0.5, 0}, Normal: n, Color: white, UV: mgl32.Vec2{0, 1}},
	}
	return vertices, []uint32{0, 1, 2, 2, 3, 0}
}
