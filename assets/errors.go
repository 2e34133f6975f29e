package assets

import "github.com/cockroachdb/errors"

var (
	ErrEmptyBatch          = errors.New("assets: empty image batch")
	ErrChannelMismatch     = errors.New("assets: images have different channel counts")
	ErrDimensionMismatch   = errors.New("assets: images have different dimensions")
	ErrUnsupportedChannels = errors.New("assets: unsupported channel count")
)
