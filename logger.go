package textfx

import (
	"log/slog"

	"github.com/gogpu/textfx/internal/logging"
)

// SetLogger configures the logger for textfx and all its sub-packages.
// By default, textfx produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by textfx:
//   - [slog.LevelDebug]: layout passes, stack rebuilds, program synthesis,
//     GPU pipeline creation
//   - [slog.LevelWarn]: text dropped beyond the maximum height
//
// Example:
//
//	textfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by textfx.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
