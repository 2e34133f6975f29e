package glrenderer

import (
	"context"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/celer/dualrender/assets"
	"github.com/celer/dualrender/internal/rlog"
)

// textureBatchOptions: RGB only, stored bottom row first as GL expects.
var textureBatchOptions = assets.BatchOptions{Channels: 3, FlipVertical: true}

// textureParams are applied to the GL_TEXTURE_2D_ARRAY target.
var textureParams = []struct {
	name  uint32
	value int32
}{
	{gl.TEXTURE_WRAP_S, gl.REPEAT},
	{gl.TEXTURE_WRAP_T, gl.REPEAT},
	{gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_NEAREST},
	{gl.TEXTURE_MAG_FILTER, gl.NEAREST},
}

type textureArray struct {
	id     uint32
	layers int
}

// newTextureArray loads paths into one GL_TEXTURE_2D_ARRAY with a mip
// chain. Every image must be RGB and of the same size.
func newTextureArray(paths []string) (*textureArray, error) {
	batch, err := assets.LoadBatch(context.Background(), paths, textureBatchOptions)
	if err != nil {
		return nil, err
	}

	t := &textureArray{layers: len(batch.Layers)}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, t.id)
	for _, p := range textureParams {
		gl.TexParameteri(gl.TEXTURE_2D_ARRAY, p.name, p.value)
	}

	// RGB rows are not 4-byte aligned in general
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	w, h := int32(batch.Width), int32(batch.Height)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.RGB8, w, h, int32(t.layers), 0, gl.RGB, gl.UNSIGNED_BYTE, nil)
	for i, layer := range batch.Layers {
		gl.TexSubImage3D(gl.TEXTURE_2D_ARRAY, 0, 0, 0, int32(i), w, h, 1, gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(layer))
	}
	gl.GenerateMipmap(gl.TEXTURE_2D_ARRAY)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	rlog.Logger().Debug("texture array uploaded", "layers", t.layers, "width", batch.Width, "height", batch.Height)
	return t, nil
}

func (t *textureArray) bind() {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, t.id)
}

func (t *textureArray) destroy() {
	gl.DeleteTextures(1, &t.id)
}
