package dualrender

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

// Instances describes N copies of a model. Offsets sets N; the other
// slices are optional, but when present must have exactly N entries.
// Rotations are degrees about the Y axis.
type Instances struct {
	Offsets        []mgl32.Vec3
	Rotations      []float32
	Scales         []float32
	TextureIndices []uint32
}

// Len returns the number of instances.
func (in *Instances) Len() int {
	if in == nil {
		return 0
	}
	return len(in.Offsets)
}

// Validate checks that every optional slice matches the offset count.
func (in *Instances) Validate() error {
	if in == nil || len(in.Offsets) == 0 {
		return errors.Wrap(ErrInvalidInstances, "no offsets")
	}
	n := len(in.Offsets)
	check := func(name string, l int) error {
		if l != 0 && l != n {
			return errors.Wrapf(ErrInvalidInstances, "%s has %d entries, want %d", name, l, n)
		}
		return nil
	}
	if err := check("rotations", len(in.Rotations)); err != nil {
		return err
	}
	if err := check("scales", len(in.Scales)); err != nil {
		return err
	}
	return check("texture indices", len(in.TextureIndices))
}

// CheckLayers reports an instance whose texture index is outside an array
// of the given number of layers.
func (in *Instances) CheckLayers(layers int) error {
	for i, idx := range in.TextureIndices {
		if int(idx) >= layers {
			return errors.Wrapf(ErrInvalidInstances, "instance %d uses layer %d of %d", i, idx, layers)
		}
	}
	return nil
}

// Rotation returns the rotation of instance i, defaulting to 0.
func (in *Instances) Rotation(i int) float32 {
	if len(in.Rotations) == 0 {
		return 0
	}
	return in.Rotations[i]
}

// Scale returns the uniform scale of instance i, defaulting to 1.
func (in *Instances) Scale(i int) float32 {
	if len(in.Scales) == 0 {
		return 1
	}
	return in.Scales[i]
}

// TextureIndex returns the texture layer of instance i, defaulting to 0.
func (in *Instances) TextureIndex(i int) uint32 {
	if len(in.TextureIndices) == 0 {
		return 0
	}
	return in.TextureIndices[i]
}

// Transform returns the model matrix of instance i:
// translate(offset) * rotateY(rotation) * scale.
func (in *Instances) Transform(i int) mgl32.Mat4 {
	o := in.Offsets[i]
	s := in.Scale(i)
	return mgl32.Translate3D(o.X(), o.Y(), o.Z()).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(in.Rotation(i)))).
		Mul4(mgl32.Scale3D(s, s, s))
}

// Filled returns per-instance rotation, scale and texture index slices
// with defaults applied, ready for upload as instance attributes.
func (in *Instances) Filled() (rotations, scales []float32, textureIndices []uint32) {
	n := in.Len()
	rotations = make([]float32, n)
	scales = make([]float32, n)
	textureIndices = make([]uint32, n)
	for i := 0; i < n; i++ {
		rotations[i] = in.Rotation(i)
		scales[i] = in.Scale(i)
		textureIndices[i] = in.TextureIndex(i)
	}
	return rotations, scales, textureIndices
}
