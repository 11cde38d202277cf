package text

import (
	"fmt"
	"math"
	"strings"
)

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Direction specifies a reading or reveal direction.
type Direction int

const (
	// DirectionLTR is left-to-right.
	DirectionLTR Direction = iota
	// DirectionRTL is right-to-left.
	DirectionRTL
	// DirectionTTB is top-to-bottom.
	DirectionTTB
	// DirectionBTT is bottom-to-top.
	DirectionBTT
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "LTR"
	case DirectionRTL:
		return "RTL"
	case DirectionTTB:
		return "TTB"
	case DirectionBTT:
		return "BTT"
	default:
		return unknownStr
	}
}

// IsHorizontal returns true if the direction is horizontal (LTR or RTL).
func (d Direction) IsHorizontal() bool {
	return d == DirectionLTR || d == DirectionRTL
}

// IsVertical returns true if the direction is vertical (TTB or BTT).
func (d Direction) IsVertical() bool {
	return d == DirectionTTB || d == DirectionBTT
}

// ParseDirection accepts the short names returned by String as well as the
// long forms LEFT_TO_RIGHT, RIGHT_TO_LEFT, TOP_TO_BOTTOM and BOTTOM_TO_TOP.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LTR", "LEFT_TO_RIGHT":
		return DirectionLTR, nil
	case "RTL", "RIGHT_TO_LEFT":
		return DirectionRTL, nil
	case "TTB", "TOP_TO_BOTTOM":
		return DirectionTTB, nil
	case "BTT", "BOTTOM_TO_TOP":
		return DirectionBTT, nil
	}
	return DirectionLTR, &UnknownIdentifierError{Kind: "direction", Value: s}
}

// Point is a 2D position in layout units.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// EmptyRect returns an inverted rectangle that any Union call replaces.
func EmptyRect() Rect {
	return Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Empty reports whether the rectangle is empty.
func (r Rect) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Union returns the smallest rectangle enclosing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Extend grows r to include p.
func (r Rect) Extend(p Point) Rect {
	return r.Union(Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y})
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Range is a half-open interval [Start, End) of glyph indices.
type Range struct {
	Start, End int
}

// Len returns the number of glyph indices in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether glyph index i is in the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Indices expands the range into a slice of glyph indices.
func (r Range) Indices() []int {
	out := make([]int, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		out = append(out, i)
	}
	return out
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
