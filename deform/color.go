package deform

import (
	"fmt"

	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// Opacity multiplies the alpha of each group.
type Opacity struct {
	Base
	opacities GroupValues
}

// NewOpacity returns a COLOR deformer at granularity g, fully opaque.
func NewOpacity(g Granularity) *Opacity {
	o := &Opacity{
		Base:      newBase(CapColor, g),
		opacities: NewGroupValues("opacities", 1),
	}
	o.register(&o.opacities)
	return o
}

// Name returns "opacity".
func (o *Opacity) Name() string { return "opacity" }

// SetOpacities sets the alpha multiplier of every group.
func (o *Opacity) SetOpacities(v []float32) error {
	return o.setGroupValues(&o.opacities, v)
}

// Opacities returns a copy of the opacity array.
func (o *Opacity) Opacities() []float32 { return o.opacities.Values() }

// Unit implements Deformer.
func (o *Opacity) Unit(slot int) shader.Unit {
	return shader.Unit{
		Slot:     slot,
		Caps:     CapColor,
		Weighted: true,
		Uniform: &shader.UniformBlock{Slot: slot, Fields: []shader.UniformField{
			o.opacities.field(o.arrayLen()),
		}},
		Fragments: []shader.Fragment{body(slot, shader.StageFragment, fmt.Sprintf(`fn %s(color: vec4<f32>, weights: vec4<f32>) -> vec4<f32> {
    %s
    return vec4<f32>(color.rgb, color.a * deformer%d.opacities[idx].x);
}`, shader.ColorFunc(slot), o.indexLine(), slot))},
	}
}

// Uniforms implements Deformer.
func (o *Opacity) Uniforms() map[string][]float32 {
	return map[string][]float32{"opacities": o.opacities.padded()}
}

// Color implements ColorDeformer.
func (o *Opacity) Color(c Color, group int, _ text.Point) Color {
	c[3] *= float64(o.opacities.At(group)[0])
	return c
}

// Tint multiplies the color of each group by an RGBA value.
type Tint struct {
	Base
	colors GroupValues
}

// NewTint returns a COLOR deformer at granularity g tinted white.
func NewTint(g Granularity) *Tint {
	t := &Tint{
		Base:   newBase(CapColor, g),
		colors: NewGroupValues("colors", 1, 1, 1, 1),
	}
	t.register(&t.colors)
	return t
}

// Name returns "tint".
func (t *Tint) Name() string { return "tint" }

// SetColors sets the RGBA tint of every group.
func (t *Tint) SetColors(v []float32) error {
	return t.setGroupValues(&t.colors, v)
}

// Colors returns a copy of the color array.
func (t *Tint) Colors() []float32 { return t.colors.Values() }

// Unit implements Deformer.
func (t *Tint) Unit(slot int) shader.Unit {
	return shader.Unit{
		Slot:     slot,
		Caps:     CapColor,
		Weighted: true,
		Uniform: &shader.UniformBlock{Slot: slot, Fields: []shader.UniformField{
			t.colors.field(t.arrayLen()),
		}},
		Fragments: []shader.Fragment{body(slot, shader.StageFragment, fmt.Sprintf(`fn %s(color: vec4<f32>, weights: vec4<f32>) -> vec4<f32> {
    %s
    return color * deformer%d.colors[idx];
}`, shader.ColorFunc(slot), t.indexLine(), slot))},
	}
}

// Uniforms implements Deformer.
func (t *Tint) Uniforms() map[string][]float32 {
	return map[string][]float32{"colors": t.colors.padded()}
}

// Color implements ColorDeformer.
func (t *Tint) Color(c Color, group int, _ text.Point) Color {
	v := t.colors.At(group)
	for i := range c {
		c[i] *= float64(v[i])
	}
	return c
}
