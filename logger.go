package underlay

import (
	"log/slog"

	"github.com/textforge/underlay/internal/logging"
)

// SetLogger configures the logger for underlay and its sub-packages.
// By default, underlay produces no log output. Call SetLogger to enable it.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by underlay:
//   - [slog.LevelDebug]: per-draw diagnostics (resolved origins, effect parameters)
//   - [slog.LevelWarn]: absorbed fallbacks (missing font, malformed color,
//     unknown effect tag, unrecognized anchor shape)
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by underlay.
// Sub-packages (fonts/, source/, storage/) share the same logger
// configuration through an internal package.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Get()
}
