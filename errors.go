package textfx

import (
	"errors"
	"fmt"
)

var (
	// ErrNilAtlas is returned when a text is created without a glyph atlas.
	ErrNilAtlas = errors.New("textfx: nil atlas")

	// ErrInvalidRange is returned by Delete when start > end.
	ErrInvalidRange = errors.New("textfx: invalid range")
)

// PositionError reports a rune position outside the text.
type PositionError struct {
	Pos int
	Len int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("textfx: position %d out of range [0, %d]", e.Pos, e.Len)
}
