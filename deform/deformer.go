package deform

import (
	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// Owner is the geometry a stack deforms: a text or a rectangle.
type Owner interface {
	// GeometryBuilt reports whether the owner has built its geometry at
	// least once.
	GeometryBuilt() bool

	// GeometryVersion changes whenever the vertex arrays change.
	GeometryVersion() uint64

	// GroupCount returns the number of groups at g.
	GroupCount(g Granularity) int

	// GroupBounds returns the undeformed bounds of group i at g.
	GroupBounds(g Granularity, i int) text.Rect

	// Weights returns one float per vertex holding the vertex's group
	// index at g.
	Weights(g Granularity) []float32

	// TextureSize is the side length of the sampled texture in texels.
	TextureSize() int
}

// Deformer is one unit of a stack. Implementations embed Base.
type Deformer interface {
	// Name identifies the variant in logs.
	Name() string

	// Unit describes the deformer's shader contribution at the given
	// 1-based stack slot.
	Unit(slot int) shader.Unit

	// Uniforms returns the values of every field of the unit's uniform
	// block, keyed by field name.
	Uniforms() map[string][]float32

	base() *Base
}

// MatrixDeformer is implemented by deformers with CapMatrix.
type MatrixDeformer interface {
	Matrix(group int) Affine
}

// VertexDeformer is implemented by deformers with CapVertex.
type VertexDeformer interface {
	Position(p text.Point, group int) text.Point
}

// UVDeformer is implemented by deformers with CapUV.
type UVDeformer interface {
	UV(uv text.Point, group int) text.Point
}

// ColorDeformer is implemented by deformers with CapColor. local is the
// undeformed position of the shaded point.
type ColorDeformer interface {
	Color(c Color, group int, local text.Point) Color
}
