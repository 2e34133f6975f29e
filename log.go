package dualrender

import (
	"log/slog"

	"github.com/celer/dualrender/internal/rlog"
)

// SetLogger configures the logger for dualrender and all of its backends.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Levels used:
//   - [slog.LevelDebug]: object creation and destruction, uploads
//   - [slog.LevelInfo]: device selection, swapchain recreation
//   - [slog.LevelWarn]: validation warnings, present mode fallbacks
//   - [slog.LevelError]: validation errors
func SetLogger(l *slog.Logger) {
	rlog.Set(l)
}

// Logger returns the logger currently in use.
func Logger() *slog.Logger {
	return rlog.Logger()
}
