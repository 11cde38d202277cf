package deform

import (
	"fmt"

	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// Offset moves every vertex of a group by a fixed amount.
type Offset struct {
	Base
	offsets GroupValues
}

// NewOffset returns a VERTEX deformer at granularity g with zero offsets.
func NewOffset(g Granularity) *Offset {
	o := &Offset{
		Base:    newBase(CapVertex, g),
		offsets: NewGroupValues("offsets", 0, 0),
	}
	o.register(&o.offsets)
	return o
}

// Name returns "offset".
func (o *Offset) Name() string { return "offset" }

// SetOffsets sets the (x, y) offset of every group.
func (o *Offset) SetOffsets(v []float32) error {
	return o.setGroupValues(&o.offsets, v)
}

// Offsets returns a copy of the offset array.
func (o *Offset) Offsets() []float32 { return o.offsets.Values() }

// Unit implements Deformer.
func (o *Offset) Unit(slot int) shader.Unit {
	return shader.Unit{
		Slot:     slot,
		Caps:     CapVertex,
		Weighted: true,
		Uniform: &shader.UniformBlock{Slot: slot, Fields: []shader.UniformField{
			o.offsets.field(o.arrayLen()),
		}},
		Fragments: []shader.Fragment{body(slot, shader.StageVertex, fmt.Sprintf(`fn %s(position: vec3<f32>, weights: vec4<f32>) -> vec3<f32> {
    %s
    return vec3<f32>(position.xy + deformer%d.offsets[idx].xy, position.z);
}`, shader.VertexPositionFunc(slot), o.indexLine(), slot))},
	}
}

// Uniforms implements Deformer.
func (o *Offset) Uniforms() map[string][]float32 {
	return map[string][]float32{"offsets": o.offsets.padded()}
}

// Position implements VertexDeformer.
func (o *Offset) Position(p text.Point, group int) text.Point {
	v := o.offsets.At(group)
	return text.Point{X: p.X + float64(v[0]), Y: p.Y + float64(v[1])}
}
