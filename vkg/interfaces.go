package vkg

import (
	vk "github.com/vulkan-go/vulkan"
)

// Destroyer is anything owning a Vulkan handle that can release it.
type Destroyer interface {
	Destroy()
}

// DestroyFunc adapts a plain function to Destroyer.
type DestroyFunc func()

func (f DestroyFunc) Destroy() { f() }

// VertexDescriptor describes how a vertex type is laid out in a vertex buffer.
type VertexDescriptor interface {
	BindingDescription() vk.VertexInputBindingDescription
	AttributeDescriptions() []vk.VertexInputAttributeDescription
}

// VertexLayout is a static VertexDescriptor.
type VertexLayout struct {
	Binding    vk.VertexInputBindingDescription
	Attributes []vk.VertexInputAttributeDescription
}

func (v VertexLayout) BindingDescription() vk.VertexInputBindingDescription {
	return v.Binding
}

func (v VertexLayout) AttributeDescriptions() []vk.VertexInputAttributeDescription {
	return v.Attributes
}
