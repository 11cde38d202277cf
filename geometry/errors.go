package geometry

import (
	"errors"
	"fmt"
)

// Sentinel errors for geometry package.
var (
	// ErrGlyphOutOfRange is returned for a glyph index with no quad.
	ErrGlyphOutOfRange = errors.New("geometry: glyph index out of range")

	// ErrEmptySelection is returned by Bounds for an empty index list.
	ErrEmptySelection = errors.New("geometry: no glyphs selected")
)

func outOfRange(i, n int) error {
	return fmt.Errorf("%w: %d (glyph count %d)", ErrGlyphOutOfRange, i, n)
}
