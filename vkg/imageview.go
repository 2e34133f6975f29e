package vkg

import (
	vk "github.com/vulkan-go/vulkan"
)

type ImageView struct {
	Device      *Device
	VKImageView vk.ImageView
}

// CreateImageView creates a 2D color view of the first layer.
func (i *Image) CreateImageView() (*ImageView, error) {
	return i.CreateView(vk.ImageAspectColorBit, vk.ImageViewType2d)
}

// CreateArrayView creates a 2D array color view of every layer. Shaders
// sampling a sampler2DArray need one even for a single layer.
func (i *Image) CreateArrayView() (*ImageView, error) {
	return i.CreateView(vk.ImageAspectColorBit, vk.ImageViewType2dArray)
}

// CreateView creates a view of aspect over the first mip level. Array
// views cover every layer, others only the first.
func (i *Image) CreateView(aspect vk.ImageAspectFlagBits, viewType vk.ImageViewType) (*ImageView, error) {
	layers := uint32(1)
	if viewType == vk.ImageViewType2dArray {
		layers = max(i.Layers, 1)
	}
	info := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    i.VKImage,
		ViewType: viewType,
		Format:   i.VKFormat,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(aspect),
			LevelCount: 1,
			LayerCount: layers,
		},
	}

	var view vk.ImageView
	if err := check(vk.CreateImageView(i.Device.VKDevice, &info, nil, &view), "vkCreateImageView"); err != nil {
		return nil, err
	}
	return &ImageView{Device: i.Device, VKImageView: view}, nil
}

func (v *ImageView) Destroy() {
	vk.DestroyImageView(v.Device.VKDevice, v.VKImageView, nil)
}
