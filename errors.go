package dualrender

import "github.com/cockroachdb/errors"

var (
	// ErrInit marks errors that abort renderer construction. No renderer
	// state survives an error carrying this mark.
	ErrInit = errors.New("renderer initialization failed")

	// ErrGPUHang is returned when a frame fence does not signal within the
	// configured timeout.
	ErrGPUHang = errors.New("gpu did not complete frame in time")

	ErrUnknownModel        = errors.New("unknown model")
	ErrUnknownTextureArray = errors.New("unknown texture array")
	ErrInvalidInstances    = errors.New("invalid instance data")

	// ErrClosed is returned by drawing calls after Destroy.
	ErrClosed = errors.New("renderer is closed")
)
