package shader

import (
	"fmt"
	"strings"
)

// Capability is a bit set describing which stage a deformer touches.
type Capability uint8

const (
	// CapVertex displaces positions one vertex at a time.
	CapVertex Capability = 1 << iota
	// CapMatrix contributes a 3x3 affine matrix applied to positions.
	CapMatrix
	// CapUV rewrites texture coordinates in the fragment stage.
	CapUV
	// CapColor rewrites the output color in the fragment stage.
	CapColor
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapVertex, "VERTEX"},
	{CapMatrix, "MATRIX"},
	{CapUV, "UV"},
	{CapColor, "COLOR"},
}

// Has reports whether all bits of o are set in c.
func (c Capability) Has(o Capability) bool {
	return o != 0 && c&o == o
}

// String returns the capability names joined by "|".
func (c Capability) String() string {
	if c == 0 {
		return "NONE"
	}
	var parts []string
	for _, n := range capabilityNames {
		if c&n.c != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Stage selects the program a fragment belongs to.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return unknownStr
	}
}

// Kind is the section of a program a fragment is placed in.
type Kind uint8

const (
	// KindHeader is a module-scope declaration placed after the uniform
	// blocks.
	KindHeader Kind = iota
	// KindBody is a helper function.
	KindBody
	// KindMain is a statement placed inside the entry point after the
	// position or color chain.
	KindMain
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindBody:
		return "body"
	case KindMain:
		return "main"
	default:
		return unknownStr
	}
}

const unknownStr = "unknown"

// Fragment is one piece of WGSL source owned by a slot.
type Fragment struct {
	Slot   int
	Stage  Stage
	Kind   Kind
	Source string
}

// Varying is a value written by the vertex stage and read by the fragment
// stage. Names must be unique within a program; deformers suffix them with
// their slot.
type Varying struct {
	Name string
	Type string
	Flat bool
}

// Unit is everything one deformer contributes to a program.
type Unit struct {
	// Slot is the 1-based stack position. Helper names embed it.
	Slot int
	Caps Capability

	// Weighted units receive the weights attribute as the second
	// argument of their helpers.
	Weighted bool

	Uniform   *UniformBlock
	Varyings  []Varying
	Fragments []Fragment
}

// MatrixFunc returns the name of the MATRIX helper for slot.
func MatrixFunc(slot int) string { return fmt.Sprintf("computeMatrix%d", slot) }

// VertexPositionFunc returns the name of the VERTEX helper for slot.
func VertexPositionFunc(slot int) string { return fmt.Sprintf("computeVertexPosition%d", slot) }

// UVFunc returns the name of the UV helper for slot.
func UVFunc(slot int) string { return fmt.Sprintf("computeUV%d", slot) }

// ColorFunc returns the name of the COLOR helper for slot.
func ColorFunc(slot int) string { return fmt.Sprintf("computeColor%d", slot) }

// VaryingName returns a per-slot varying name such as "local_position2".
func VaryingName(base string, slot int) string { return fmt.Sprintf("%s%d", base, slot) }

func (u *Unit) fragments(stage Stage, kind Kind) []string {
	var out []string
	for _, f := range u.Fragments {
		if f.Stage == stage && f.Kind == kind {
			out = append(out, f.Source)
		}
	}
	return out
}

// declares reports whether u needs module-scope declarations in stage.
// Main snippets alone do not count.
func (u *Unit) declares(stage Stage) bool {
	switch stage {
	case StageVertex:
		if u.Caps&(CapVertex|CapMatrix) != 0 {
			return true
		}
	case StageFragment:
		if u.Caps&(CapUV|CapColor) != 0 {
			return true
		}
	}
	for _, f := range u.Fragments {
		if f.Stage == stage && f.Kind != KindMain {
			return true
		}
	}
	return false
}
