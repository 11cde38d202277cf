package shader

import (
	"errors"
	"fmt"
)

// Sentinel errors for the shader package.
var (
	// ErrUnknownTarget is returned by Translate for an unsupported target.
	ErrUnknownTarget = errors.New("shader: unknown target")

	// ErrInvalidProgram is wrapped by Compile and Validate when naga rejects
	// a synthesized program.
	ErrInvalidProgram = errors.New("shader: invalid program")
)

// PackError reports a uniform value slice of the wrong length.
type PackError struct {
	Block string
	Field string
	Want  int
	Got   int
}

func (e *PackError) Error() string {
	return fmt.Sprintf("shader: %s.%s needs %d floats, got %d", e.Block, e.Field, e.Want, e.Got)
}
