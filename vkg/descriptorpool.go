package vkg

import (
	vk "github.com/vulkan-go/vulkan"
)

// PoolReservation asks a pool to hold Sets descriptor sets of Layout.
type PoolReservation struct {
	Layout *DescriptorSetLayout
	Sets   int
}

// poolSizes totals the descriptors of every reservation per type, in the
// order types are first seen.
func poolSizes(reservations []PoolReservation) ([]vk.DescriptorPoolSize, uint32) {
	var sizes []vk.DescriptorPoolSize
	index := map[vk.DescriptorType]int{}
	var maxSets uint32
	for _, r := range reservations {
		maxSets += uint32(r.Sets)
		for _, b := range r.Layout.Bindings {
			i, ok := index[b.DescriptorType]
			if !ok {
				i = len(sizes)
				index[b.DescriptorType] = i
				sizes = append(sizes, vk.DescriptorPoolSize{Type: b.DescriptorType})
			}
			sizes[i].DescriptorCount += b.DescriptorCount * uint32(r.Sets)
		}
	}
	return sizes, maxSets
}

// DescriptorPool hands out descriptor sets. Sets may be freed individually.
type DescriptorPool struct {
	Device           *Device
	VKDescriptorPool vk.DescriptorPool
	MaxSets          uint32
}

// CreateDescriptorPool creates a pool large enough for every reservation.
func (d *Device) CreateDescriptorPool(reservations ...PoolReservation) (*DescriptorPool, error) {
	sizes, maxSets := poolSizes(reservations)
	info := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       maxSets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}

	var pool vk.DescriptorPool
	if err := check(vk.CreateDescriptorPool(d.VKDevice, &info, nil, &pool), "vkCreateDescriptorPool"); err != nil {
		return nil, err
	}
	return &DescriptorPool{Device: d, VKDescriptorPool: pool, MaxSets: maxSets}, nil
}

// Allocate allocates one descriptor set with the given layout.
func (p *DescriptorPool) Allocate(layout *DescriptorSetLayout) (*DescriptorSet, error) {
	info := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     p.VKDescriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout.VKDescriptorSetLayout},
	}

	var set vk.DescriptorSet
	if err := check(vk.AllocateDescriptorSets(p.Device.VKDevice, &info, &set), "vkAllocateDescriptorSets"); err != nil {
		return nil, err
	}
	return &DescriptorSet{Device: p.Device, Pool: p, VKDescriptorSet: set}, nil
}

func (p *DescriptorPool) Free(set *DescriptorSet) error {
	vkSet := set.VKDescriptorSet
	return check(vk.FreeDescriptorSets(p.Device.VKDevice, p.VKDescriptorPool, 1, &vkSet), "vkFreeDescriptorSets")
}

func (p *DescriptorPool) Destroy() {
	vk.DestroyDescriptorPool(p.Device.VKDevice, p.VKDescriptorPool, nil)
}
