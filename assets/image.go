// Package assets loads the files a renderer reads at startup: images for
// texture arrays and precompiled shader blobs.
package assets

import (
	"bufio"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a decoded image with tightly packed 8 bit channels, rows top to
// bottom.
type Image struct {
	Width    int
	Height   int
	Channels int
	Format   string
	Pixels   []byte
}

// Stride is the length of one row in bytes.
func (im *Image) Stride() int {
	return im.Width * im.Channels
}

// FlipVertical reverses the row order in place, so the first row is the
// bottom of the picture as OpenGL expects.
func (im *Image) FlipVertical() {
	stride := im.Stride()
	tmp := make([]byte, stride)
	for top, bottom := 0, im.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := im.Pixels[top*stride : (top+1)*stride]
		b := im.Pixels[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// ToRGBA returns a copy expanded to four channels. Missing alpha is opaque
// and gray is replicated across the color channels.
func (im *Image) ToRGBA() *Image {
	if im.Channels == 4 {
		out := *im
		out.Pixels = append([]byte(nil), im.Pixels...)
		return &out
	}
	n := im.Width * im.Height
	px := make([]byte, n*4)
	for i := 0; i < n; i++ {
		switch im.Channels {
		case 1:
			g := im.Pixels[i]
			px[i*4], px[i*4+1], px[i*4+2] = g, g, g
		case 3:
			copy(px[i*4:i*4+3], im.Pixels[i*3:i*3+3])
		}
		px[i*4+3] = 0xff
	}
	return &Image{Width: im.Width, Height: im.Height, Channels: 4, Format: im.Format, Pixels: px}
}

// DecodeFile decodes the image at path. png, jpeg, gif, bmp, tiff and webp
// are supported.
func DecodeFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer f.Close()
	im, err := DecodeImage(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return im, nil
}

// DecodeImage decodes r into packed pixels. The channel count follows the
// stored data: 1 for gray, 3 for color without alpha, 4 when the image
// carries alpha.
func DecodeImage(r io.Reader) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	channels, err := channelsOf(src)
	if err != nil {
		return nil, errors.Wrapf(err, "%s image", format)
	}
	b := src.Bounds()
	im := &Image{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channels,
		Format:   format,
		Pixels:   make([]byte, 0, b.Dx()*b.Dy()*channels),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			im.Pixels = appendPixel(im.Pixels, src.At(x, y), channels)
		}
	}
	return im, nil
}

func appendPixel(dst []byte, c color.Color, channels int) []byte {
	switch channels {
	case 1:
		g := color.GrayModel.Convert(c).(color.Gray)
		return append(dst, g.Y)
	case 3:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		return append(dst, n.R, n.G, n.B)
	default:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		return append(dst, n.R, n.G, n.B, n.A)
	}
}

// opaquer is implemented by every image type in the standard library.
type opaquer interface {
	Opaque() bool
}

func channelsOf(src image.Image) (int, error) {
	switch im := src.(type) {
	case *image.Gray, *image.Gray16:
		return 1, nil
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA:
		// png and webp only produce these when the file stores alpha
		return 4, nil
	case *image.YCbCr:
		return 3, nil
	case *image.CMYK:
		return 0, errors.Wrap(ErrUnsupportedChannels, "cmyk")
	case opaquer:
		if im.Opaque() {
			return 3, nil
		}
		return 4, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedChannels, "%T", src)
}
