package render

import (
	"log/slog"

	"github.com/taigrr/softengine/internal/logging"
)

// SetLogger configures the logger for the renderer, the scene loaders and
// the display adapters. By default nothing is logged. Pass nil to restore
// the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: per-frame statistics
//   - [slog.LevelInfo]: scene loading and presentation lifecycle
//   - [slog.LevelWarn]: assets that could not be used
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
