package deform

import (
	"math"
	"strings"

	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// Capability aliases shader.Capability so deformers and the synthesizer
// share one bit set.
type Capability = shader.Capability

// Capabilities a deformer can declare.
const (
	CapVertex = shader.CapVertex
	CapMatrix = shader.CapMatrix
	CapUV     = shader.CapUV
	CapColor  = shader.CapColor
)

// Granularity selects the groups a deformer's per-group values address.
type Granularity int

const (
	// Bounds has one group covering the whole owner.
	Bounds Granularity = iota
	// Line has one group per visual line.
	Line
	// Word has one group per word.
	Word
	// Glyph has one group per glyph.
	Glyph
)

// granularityCount is the number of granularities, and the width of the
// weights attribute.
const granularityCount = 4

// Granularities lists every granularity in weights component order.
var Granularities = [granularityCount]Granularity{Bounds, Line, Word, Glyph}

func (g Granularity) String() string {
	switch g {
	case Bounds:
		return "BOUNDS"
	case Line:
		return "LINE"
	case Word:
		return "WORD"
	case Glyph:
		return "GLYPH"
	default:
		return "UNKNOWN"
	}
}

// Component returns the weights component holding this granularity's
// group index.
func (g Granularity) Component() string {
	if g < Bounds || g > Glyph {
		return "x"
	}
	return [...]string{"x", "y", "z", "w"}[g]
}

func (g Granularity) valid() bool {
	return g >= Bounds && g <= Glyph
}

// ParseGranularity maps BOUNDS, LINE, WORD or GLYPH (any case) to a
// Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BOUNDS":
		return Bounds, nil
	case "LINE":
		return Line, nil
	case "WORD":
		return Word, nil
	case "GLYPH":
		return Glyph, nil
	}
	return Bounds, &text.UnknownIdentifierError{Kind: "granularity", Value: s}
}

// Affine is a 2D affine transform:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Affine struct {
	A, B, C, D, E, F float64
}

// IdentityAffine is the identity transform.
var IdentityAffine = Affine{A: 1, D: 1}

// Apply transforms p.
func (m Affine) Apply(p text.Point) text.Point {
	return text.Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Color is a non-premultiplied RGBA color with components in [0, 1].
type Color [4]float64

// White is the default color of an owner.
var White = Color{1, 1, 1, 1}

func center(r text.Rect) text.Point {
	if r.MinX > r.MaxX || r.MinY > r.MaxY || math.IsInf(r.MinX, 0) {
		return text.Point{}
	}
	return r.Center()
}
