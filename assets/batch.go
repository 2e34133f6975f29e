package assets

import (
	"context"
	"runtime"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/celer/dualrender/internal/rlog"
)

// BatchOptions controls how LoadBatch prepares images for a texture array.
type BatchOptions struct {
	// Channels, when non-zero, is the exact channel count every image must
	// have. It is checked before any conversion.
	Channels int
	// RGBA expands every image to four channels after decoding, so batches
	// of mixed channel counts are accepted.
	RGBA bool
	// FlipVertical stores rows bottom to top.
	FlipVertical bool
}

// Batch is a set of equally sized images, one per texture array layer.
type Batch struct {
	Width    int
	Height   int
	Channels int
	Layers   [][]byte
}

// LayerSize is the size in bytes of one layer.
func (b *Batch) LayerSize() int {
	return b.Width * b.Height * b.Channels
}

// Bytes returns the layers concatenated in order, as one staging upload.
func (b *Batch) Bytes() []byte {
	out := make([]byte, 0, b.LayerSize()*len(b.Layers))
	for _, l := range b.Layers {
		out = append(out, l...)
	}
	return out
}

// LoadBatch decodes paths concurrently and checks that they can form one
// texture array: the batch is non-empty, every file decodes, channel
// counts agree (and match opts.Channels when set) and all images share the
// dimensions of the first.
func LoadBatch(ctx context.Context, paths []string, opts BatchOptions) (*Batch, error) {
	if len(paths) == 0 {
		return nil, ErrEmptyBatch
	}

	images := make([]*Image, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			im, err := DecodeFile(p)
			if err != nil {
				return err
			}
			images[i] = im
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(paths, images, opts)
}

func assemble(paths []string, images []*Image, opts BatchOptions) (*Batch, error) {
	first := images[0]
	for i, im := range images {
		if opts.Channels != 0 && im.Channels != opts.Channels {
			return nil, errors.Wrapf(ErrUnsupportedChannels, "%s has %d channels, want %d", paths[i], im.Channels, opts.Channels)
		}
		if !opts.RGBA && im.Channels != first.Channels {
			return nil, errors.Wrapf(ErrChannelMismatch, "%s has %d channels, %s has %d", paths[i], im.Channels, paths[0], first.Channels)
		}
		if im.Width != first.Width || im.Height != first.Height {
			return nil, errors.Wrapf(ErrDimensionMismatch, "%s is %dx%d, %s is %dx%d",
				paths[i], im.Width, im.Height, paths[0], first.Width, first.Height)
		}
	}

	b := &Batch{Width: first.Width, Height: first.Height, Channels: first.Channels, Layers: make([][]byte, len(images))}
	for i, im := range images {
		if opts.RGBA {
			im = im.ToRGBA()
		}
		if opts.FlipVertical {
			im.FlipVertical()
		}
		b.Layers[i] = im.Pixels
		b.Channels = im.Channels
	}
	rlog.Logger().Debug("assets: loaded image batch", "layers", len(b.Layers), "width", b.Width, "height", b.Height, "channels", b.Channels)
	return b, nil
}
