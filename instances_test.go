package dualrender

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstancesValidate(t *testing.T) {
	tests := []struct {
		name string
		in   *Instances
		ok   bool
	}{
		{"nil", nil, false},
		{"empty", &Instances{}, false},
		{"offsets only", &Instances{Offsets: []mgl32.Vec3{{}, {}}}, true},
		{"all matching", &Instances{
			Offsets:        []mgl32.Vec3{{}, {}},
			Rotations:      []float32{0, 90},
			Scales:         []float32{1, 2},
			TextureIndices: []uint32{0, 1},
		}, true},
		{"short rotations", &Instances{Offsets: []mgl32.Vec3{{}, {}}, Rotations: []float32{0}}, false},
		{"long scales", &Instances{Offsets: []mgl32.Vec3{{}}, Scales: []float32{1, 1}}, false},
		{"short texture indices", &Instances{Offsets: []mgl32.Vec3{{}, {}}, TextureIndices: []uint32{3}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidInstances), "got %v", err)
			}
		})
	}
}

func TestInstancesCheckLayers(t *testing.T) {
	in := &Instances{Offsets: []mgl32.Vec3{{}, {}}}
	assert.NoError(t, in.CheckLayers(1), "default layer 0")

	in.TextureIndices = []uint32{0, 2}
	assert.NoError(t, in.CheckLayers(3))

	err := in.CheckLayers(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInstances))
	assert.Contains(t, err.Error(), "instance 1 uses layer 2 of 2")
}

func TestInstancesDefaults(t *testing.T) {
	in := &Instances{Offsets: []mgl32.Vec3{{1, 2, 3}}}
	assert.Equal(t, float32(0), in.Rotation(0))
	assert.Equal(t, float32(1), in.Scale(0))
	assert.Equal(t, uint32(0), in.TextureIndex(0))

	r, s, ti := in.Filled()
	assert.Equal(t, []float32{0}, r)
	assert.Equal(t, []float32{1}, s)
	assert.Equal(t, []uint32{0}, ti)
}

func TestInstancesTransform(t *testing.T) {
	in := &Instances{
		Offsets:   []mgl32.Vec3{{0, 0, 0}, {5, 0, 0}},
		Rotations: []float32{0, 90},
		Scales:    []float32{1, 2},
	}

	// Identity instance leaves points alone.
	p := in.Transform(0).Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{1, 1, 1, 1}, 1e-5))

	// Scale, then rotate 90 degrees about Y (+X goes to -Z), then translate.
	p = in.Transform(1).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{5, 0, -2, 1}, 1e-5), "got %v", p)
}

func TestVertexLayout(t *testing.T) {
	assert.Equal(t, 44, VertexSize)
	assert.Equal(t, 0, OffsetPosition)
	assert.Equal(t, 12, OffsetNormal)
	assert.Equal(t, 24, OffsetColor)
	assert.Equal(t, 36, OffsetUV)
}

func TestVertexBytes(t *testing.T) {
	vertices, indices := QuadVertices()
	require.Len(t, vertices, 4)
	require.Len(t, indices, 6)

	b := VertexBytes(vertices)
	assert.Len(t, b, 4*VertexSize)
	assert.Len(t, IndexBytes(indices), 24)
	assert.Nil(t, VertexBytes(nil))
	assert.Nil(t, IndexBytes(nil))
}

func TestBackendText(t *testing.T) {
	var b Backend
	require.NoError(t, b.UnmarshalText([]byte("GL")))
	assert.Equal(t, BackendOpenGL, b)
	txt, err := BackendVulkan.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "vulkan", string(txt))
	assert.Error(t, b.UnmarshalText([]byte("metal")))
}
