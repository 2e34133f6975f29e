package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var magenta = color.RGBA{R: 0x66, G: 0x00, B: 0x66, A: 0xff}

func writePNG(t *testing.T, dir, name string, im image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, im))
	return path
}

// rgb returns an opaque image whose top row is magenta and the rest white.
func rgb(w, h int) *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			if y == 0 {
				c = magenta
			}
			im.SetRGBA(x, y, c)
		}
	}
	return im
}

func translucent(w, h int) *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range im.Pix {
		im.Pix[i] = 0x80
	}
	return im
}

func TestDecodeImageChannels(t *testing.T) {
	tests := []struct {
		name     string
		im       image.Image
		channels int
	}{
		{"rgb", rgb(4, 2), 3},
		{"rgba", translucent(4, 2), 4},
		{"gray", image.NewGray(image.Rect(0, 0, 4, 2)), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, png.Encode(&buf, tt.im))

			im, err := DecodeImage(&buf)
			require.NoError(t, err)
			assert.Equal(t, "png", im.Format)
			assert.Equal(t, 4, im.Width)
			assert.Equal(t, 2, im.Height)
			assert.Equal(t, tt.channels, im.Channels)
			assert.Len(t, im.Pixels, 4*2*tt.channels)
		})
	}
}

func TestDecodeImageGarbage(t *testing.T) {
	_, err := DecodeImage(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestFlipVertical(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, rgb(2, 3)))
	im, err := DecodeImage(&buf)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x66, 0x00, 0x66}, im.Pixels[:3])
	im.FlipVertical()
	last := im.Pixels[2*im.Stride():]
	assert.Equal(t, []byte{0x66, 0x00, 0x66}, last[:3])
	assert.Equal(t, []byte{0xff, 0xff, 0xff}, im.Pixels[:3])
}

func TestToRGBA(t *testing.T) {
	im := &Image{Width: 1, Height: 2, Channels: 3, Pixels: []byte{1, 2, 3, 4, 5, 6}}
	out := im.ToRGBA()
	assert.Equal(t, 4, out.Channels)
	assert.Equal(t, []byte{1, 2, 3, 0xff, 4, 5, 6, 0xff}, out.Pixels)

	gray := &Image{Width: 1, Height: 1, Channels: 1, Pixels: []byte{9}}
	assert.Equal(t, []byte{9, 9, 9, 0xff}, gray.ToRGBA().Pixels)
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", rgb(8, 4))
	b := writePNG(t, dir, "b.png", rgb(8, 4))
	c := writePNG(t, dir, "c.png", rgb(8, 4))

	batch, err := LoadBatch(context.Background(), []string{a, b, c}, BatchOptions{Channels: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, batch.Width)
	assert.Equal(t, 4, batch.Height)
	assert.Equal(t, 3, batch.Channels)
	require.Len(t, batch.Layers, 3)
	assert.Equal(t, 8*4*3, batch.LayerSize())
	assert.Len(t, batch.Bytes(), 3*8*4*3)
}

func TestLoadBatchFlip(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", rgb(2, 2))

	batch, err := LoadBatch(context.Background(), []string{a}, BatchOptions{Channels: 3, FlipVertical: true})
	require.NoError(t, err)
	// magenta row moved to the end
	assert.Equal(t, []byte{0xff, 0xff, 0xff}, batch.Layers[0][:3])
	assert.Equal(t, []byte{0x66, 0x00, 0x66}, batch.Layers[0][6:9])
}

func TestLoadBatchRGBA(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", rgb(2, 2))
	b := writePNG(t, dir, "b.png", translucent(2, 2))

	batch, err := LoadBatch(context.Background(), []string{a, b}, BatchOptions{RGBA: true})
	require.NoError(t, err)
	assert.Equal(t, 4, batch.Channels)
	assert.Len(t, batch.Layers[0], 2*2*4)
	assert.Equal(t, byte(0xff), batch.Layers[0][3])
}

func TestLoadBatchErrors(t *testing.T) {
	dir := t.TempDir()
	small := writePNG(t, dir, "small.png", rgb(4, 4))
	big := writePNG(t, dir, "big.png", rgb(8, 8))
	alpha := writePNG(t, dir, "alpha.png", translucent(4, 4))
	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("junk"), 0o644))

	tests := []struct {
		name  string
		paths []string
		opts  BatchOptions
		want  error
	}{
		{"empty", nil, BatchOptions{}, ErrEmptyBatch},
		{"dimensions", []string{small, big}, BatchOptions{Channels: 3}, ErrDimensionMismatch},
		{"channels", []string{small, alpha}, BatchOptions{}, ErrChannelMismatch},
		{"not rgb", []string{alpha}, BatchOptions{Channels: 3}, ErrUnsupportedChannels},
		{"missing", []string{small, filepath.Join(dir, "nope.png")}, BatchOptions{}, fs.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBatch(context.Background(), tt.paths, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := LoadBatch(context.Background(), []string{small, junk}, BatchOptions{})
	assert.Error(t, err)
}

func TestLoadShader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.vert.spv")
	require.NoError(t, os.WriteFile(path, []byte{3, 2, 0x23, 7}, 0o644))

	data, err := LoadShader(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 2, 0x23, 7}, data)

	_, err = LoadShader(filepath.Join(dir, "missing.spv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.glsl"), []byte("#version 330 core\n"), 0o644))
	src, err := LoadShaderSource(dir, "a.glsl")
	require.NoError(t, err)
	assert.Equal(t, "#version 330 core\n", src)
}
