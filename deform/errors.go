package deform

import (
	"errors"
	"fmt"
)

// Sentinel errors for deform package.
var (
	// ErrNotAttached is returned when a deformer is used outside a stack.
	ErrNotAttached = errors.New("deform: not attached to a stack")

	// ErrAlreadyAttached is returned by Stack.Add for a deformer that
	// already belongs to a stack.
	ErrAlreadyAttached = errors.New("deform: already attached to a stack")

	// ErrGeometryNotBuilt is returned when per-group values are set before
	// the owner built its geometry.
	ErrGeometryNotBuilt = errors.New("deform: geometry not built yet")

	// ErrNilDeformer is returned when a nil deformer is passed to a stack.
	ErrNilDeformer = errors.New("deform: nil deformer")
)

// GroupLengthError is returned when a per-group array does not hold
// exactly groupCount × components values.
type GroupLengthError struct {
	Name string
	Want int
	Got  int
}

func (e *GroupLengthError) Error() string {
	return fmt.Sprintf("deform: %s needs %d values, got %d", e.Name, e.Want, e.Got)
}
