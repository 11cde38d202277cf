package deform

import (
	"fmt"
	"math"

	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// minExtent keeps the progress of degenerate groups finite.
const minExtent = 1e-4

// TextProgress reveals each group along a direction: points whose
// normalized position inside the group's bounds exceeds the group's
// progress get zero alpha. Progress 0 hides the group, 1 shows it.
type TextProgress struct {
	Base
	progresses GroupValues
	direction  text.Direction
}

// NewTextProgress returns a COLOR deformer at granularity g revealing in
// direction dir, fully revealed.
func NewTextProgress(g Granularity, dir text.Direction) *TextProgress {
	p := &TextProgress{
		Base:       newBase(CapColor, g),
		progresses: NewGroupValues("progresses", 1),
		direction:  dir,
	}
	p.register(&p.progresses)
	return p
}

// Name returns "progress".
func (p *TextProgress) Name() string { return "progress" }

// SetProgresses sets the progress of every group, 0 to 1.
func (p *TextProgress) SetProgresses(v []float32) error {
	return p.setGroupValues(&p.progresses, v)
}

// Progresses returns a copy of the progress array.
func (p *TextProgress) Progresses() []float32 { return p.progresses.Values() }

// Direction returns the reveal direction.
func (p *TextProgress) Direction() text.Direction { return p.direction }

// SetDirection changes the reveal direction. The program is rebuilt on the
// next update.
func (p *TextProgress) SetDirection(d text.Direction) {
	if d == p.direction {
		return
	}
	p.direction = d
	p.structural()
}

// coordinate is the WGSL expression of the normalized position for the
// current direction, given bounds b and position local_position.
func (p *TextProgress) coordinate() string {
	switch p.direction {
	case text.DirectionRTL:
		return "(b.z - local_position.x) / max(b.z - b.x, 0.0001)"
	case text.DirectionTTB:
		return "(b.w - local_position.y) / max(b.w - b.y, 0.0001)"
	case text.DirectionBTT:
		return "(local_position.y - b.y) / max(b.w - b.y, 0.0001)"
	default:
		return "(local_position.x - b.x) / max(b.z - b.x, 0.0001)"
	}
}

// Unit implements Deformer.
func (p *TextProgress) Unit(slot int) shader.Unit {
	local := shader.VaryingName("local_position", slot)
	return shader.Unit{
		Slot:     slot,
		Caps:     CapColor,
		Weighted: true,
		Uniform: &shader.UniformBlock{Slot: slot, Fields: []shader.UniformField{
			p.progresses.field(p.arrayLen()),
			{Name: "bounds", Components: 4, Count: p.arrayLen()},
		}},
		Varyings: []shader.Varying{{Name: local, Type: "vec2<f32>"}},
		Fragments: []shader.Fragment{
			{Slot: slot, Stage: shader.StageVertex, Kind: shader.KindMain, Source: "out." + local + " = in.position;"},
			body(slot, shader.StageFragment, fmt.Sprintf(`fn %[1]s(color: vec4<f32>, weights: vec4<f32>, local_position: vec2<f32>) -> vec4<f32> {
    %[2]s
    let b = deformer%[3]d.bounds[idx];
    let t = %[4]s;
    let visible = select(0.0, 1.0, t <= deformer%[3]d.progresses[idx].x);
    return vec4<f32>(color.rgb, color.a * visible);
}`, shader.ColorFunc(slot), p.indexLine(), slot, p.coordinate())),
		},
	}
}

// Uniforms implements Deformer.
func (p *TextProgress) Uniforms() map[string][]float32 {
	n := p.arrayLen()
	bounds := make([]float32, 0, n*4)
	for i := 0; i < n; i++ {
		b := p.bounds(i)
		bounds = append(bounds, float32(b.MinX), float32(b.MinY), float32(b.MaxX), float32(b.MaxY))
	}
	return map[string][]float32{
		"progresses": p.progresses.padded(),
		"bounds":     bounds,
	}
}

func (p *TextProgress) bounds(group int) text.Rect {
	o := p.owner()
	if o == nil || group >= p.GroupCount() {
		return text.Rect{}
	}
	b := o.GroupBounds(p.granularity, group)
	if math.IsInf(b.MinX, 0) || b.MinX > b.MaxX {
		return text.Rect{}
	}
	return b
}

// Color implements ColorDeformer.
func (p *TextProgress) Color(c Color, group int, local text.Point) Color {
	b := p.bounds(group)
	w := math.Max(b.Width(), minExtent)
	h := math.Max(b.Height(), minExtent)
	var t float64
	switch p.direction {
	case text.DirectionRTL:
		t = (b.MaxX - local.X) / w
	case text.DirectionTTB:
		t = (b.MaxY - local.Y) / h
	case text.DirectionBTT:
		t = (local.Y - b.MinY) / h
	default:
		t = (local.X - b.MinX) / w
	}
	if t > float64(p.progresses.At(group)[0]) {
		c[3] = 0
	}
	return c
}
