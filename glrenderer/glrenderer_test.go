package glrenderer

import (
	"testing"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/stretchr/testify/assert"

	"github.com/celer/dualrender"
)

func TestVertexAttribs(t *testing.T) {
	want := []vertexAttrib{
		{0, 3, 0},
		{1, 3, 12},
		{2, 3, 24},
		{3, 2, 36},
	}
	assert.Equal(t, want, vertexAttribs)
	assert.EqualValues(t, 7, locTextureIndex)
}

func TestValidateGeometry(t *testing.T) {
	quad, idx := dualrender.QuadVertices()
	assert.NoError(t, validateGeometry(quad, idx))
	assert.NoError(t, validateGeometry(quad, nil))
	assert.Error(t, validateGeometry(nil, []uint32{0}))
	assert.Error(t, validateGeometry(quad, []uint32{4}))
}

func TestTextureParams(t *testing.T) {
	params := map[uint32]int32{}
	for _, p := range textureParams {
		params[p.name] = p.value
	}
	assert.EqualValues(t, gl.NEAREST_MIPMAP_NEAREST, params[gl.TEXTURE_MIN_FILTER])
	assert.EqualValues(t, gl.NEAREST, params[gl.TEXTURE_MAG_FILTER])
	assert.EqualValues(t, gl.REPEAT, params[gl.TEXTURE_WRAP_S])
	assert.EqualValues(t, gl.REPEAT, params[gl.TEXTURE_WRAP_T])

	assert.Equal(t, 3, textureBatchOptions.Channels)
	assert.True(t, textureBatchOptions.FlipVertical)
	assert.False(t, textureBatchOptions.RGBA)
}

func TestInfoLog(t *testing.T) {
	assert.Equal(t, "0:1: error", infoLog("0:1: error\n\x00\x00"))
	assert.Equal(t, "", infoLog("\x00"))
}
