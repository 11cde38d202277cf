package atlas

import "errors"

// Sentinel errors for atlas package.
var (
	// ErrAtlasFull is returned when a glyph does not fit into any page and
	// MaxPages has been reached.
	ErrAtlasFull = errors.New("atlas: all pages are full")

	// ErrGlyphTooLarge is returned when a glyph bitmap exceeds the page size.
	ErrGlyphTooLarge = errors.New("atlas: glyph larger than page")

	// ErrNilFace is returned by New when face is nil.
	ErrNilFace = errors.New("atlas: nil face")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("atlas: closed")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
