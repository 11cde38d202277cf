package deform

import (
	"fmt"
	"math"

	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// Pixelate snaps texture coordinates to the centers of square cells of
// size texels, per group.
type Pixelate struct {
	Base
	sizes GroupValues
}

// NewPixelate returns a UV deformer at granularity g with one-texel cells.
func NewPixelate(g Granularity) *Pixelate {
	p := &Pixelate{
		Base:  newBase(CapUV, g),
		sizes: NewGroupValues("sizes", 1),
	}
	p.register(&p.sizes)
	return p
}

// Name returns "pixelate".
func (p *Pixelate) Name() string { return "pixelate" }

// SetSizes sets the cell size in texels of every group. Sizes below 1 are
// treated as 1.
func (p *Pixelate) SetSizes(v []float32) error {
	return p.setGroupValues(&p.sizes, v)
}

// Sizes returns a copy of the size array.
func (p *Pixelate) Sizes() []float32 { return p.sizes.Values() }

// Unit implements Deformer.
func (p *Pixelate) Unit(slot int) shader.Unit {
	return shader.Unit{
		Slot:     slot,
		Caps:     CapUV,
		Weighted: true,
		Uniform: &shader.UniformBlock{Slot: slot, Fields: []shader.UniformField{
			p.sizes.field(p.arrayLen()),
			{Name: "params", Components: 1, Count: 1},
		}},
		Fragments: []shader.Fragment{body(slot, shader.StageFragment, fmt.Sprintf(`fn %[1]s(uv: vec2<f32>, weights: vec4<f32>) -> vec2<f32> {
    %[2]s
    let size = max(deformer%[3]d.sizes[idx].x, 1.0);
    let cells = deformer%[3]d.params[0].x / size;
    return (floor(uv * cells) + 0.5) / cells;
}`, shader.UVFunc(slot), p.indexLine(), slot))},
	}
}

// Uniforms implements Deformer.
func (p *Pixelate) Uniforms() map[string][]float32 {
	return map[string][]float32{
		"sizes":  p.sizes.padded(),
		"params": {float32(p.textureSize())},
	}
}

func (p *Pixelate) textureSize() int {
	if o := p.owner(); o != nil && o.TextureSize() > 0 {
		return o.TextureSize()
	}
	return 1
}

// UV implements UVDeformer.
func (p *Pixelate) UV(uv text.Point, group int) text.Point {
	size := math.Max(float64(p.sizes.At(group)[0]), 1)
	cells := float64(p.textureSize()) / size
	return text.Point{
		X: (math.Floor(uv.X*cells) + 0.5) / cells,
		Y: (math.Floor(uv.Y*cells) + 0.5) / cells,
	}
}
