package deform

import (
	"fmt"
	"math"

	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// Wave displaces vertices vertically along a sine of their x position:
//
//	y += amplitude * sin(frequency*x + phase)
//
// Amplitude is per group; frequency and phase are shared.
type Wave struct {
	Base
	amplitudes GroupValues
	frequency  float32
	phase      float32
}

// NewWave returns a VERTEX deformer at granularity g with zero amplitude.
func NewWave(g Granularity) *Wave {
	w := &Wave{
		Base:       newBase(CapVertex, g),
		amplitudes: NewGroupValues("amplitudes", 0),
		frequency:  0.1,
	}
	w.register(&w.amplitudes)
	return w
}

// Name returns "wave".
func (w *Wave) Name() string { return "wave" }

// SetAmplitudes sets the amplitude of every group.
func (w *Wave) SetAmplitudes(v []float32) error {
	return w.setGroupValues(&w.amplitudes, v)
}

// Amplitudes returns a copy of the amplitude array.
func (w *Wave) Amplitudes() []float32 { return w.amplitudes.Values() }

// SetFrequency sets the angular frequency in radians per layout unit.
func (w *Wave) SetFrequency(f float32) {
	w.frequency = f
	w.markDirty()
}

// SetPhase sets the phase in radians. Animating the phase scrolls the
// wave.
func (w *Wave) SetPhase(p float32) {
	w.phase = p
	w.markDirty()
}

// Frequency returns the angular frequency.
func (w *Wave) Frequency() float32 { return w.frequency }

// Phase returns the phase.
func (w *Wave) Phase() float32 { return w.phase }

// Unit implements Deformer.
func (w *Wave) Unit(slot int) shader.Unit {
	return shader.Unit{
		Slot:     slot,
		Caps:     CapVertex,
		Weighted: true,
		Uniform: &shader.UniformBlock{Slot: slot, Fields: []shader.UniformField{
			w.amplitudes.field(w.arrayLen()),
			{Name: "params", Components: 2, Count: 1},
		}},
		Fragments: []shader.Fragment{body(slot, shader.StageVertex, fmt.Sprintf(`fn %[1]s(position: vec3<f32>, weights: vec4<f32>) -> vec3<f32> {
    %[2]s
    let amplitude = deformer%[3]d.amplitudes[idx].x;
    let params = deformer%[3]d.params[0];
    let dy = amplitude * sin(params.x * position.x + params.y);
    return vec3<f32>(position.x, position.y + dy, position.z);
}`, shader.VertexPositionFunc(slot), w.indexLine(), slot))},
	}
}

// Uniforms implements Deformer.
func (w *Wave) Uniforms() map[string][]float32 {
	return map[string][]float32{
		"amplitudes": w.amplitudes.padded(),
		"params":     {w.frequency, w.phase},
	}
}

// Position implements VertexDeformer.
func (w *Wave) Position(p text.Point, group int) text.Point {
	a := float64(w.amplitudes.At(group)[0])
	p.Y += a * math.Sin(float64(w.frequency)*p.X+float64(w.phase))
	return p
}
