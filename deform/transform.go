package deform

import (
	"fmt"
	"math"

	"github.com/gogpu/textfx/shader"
)

// Transform scales, rotates and translates each group around the center
// of its undeformed bounds:
//
//	T(pivot + translation) · R(rotation) · S(scale) · T(-pivot)
type Transform struct {
	Base
	translations GroupValues
	scales       GroupValues
	rotations    GroupValues
}

// NewTransform returns a MATRIX deformer at granularity g with identity
// values.
func NewTransform(g Granularity) *Transform {
	t := &Transform{
		Base:         newBase(CapMatrix, g),
		translations: NewGroupValues("translations", 0, 0),
		scales:       NewGroupValues("scales", 1, 1),
		rotations:    NewGroupValues("rotations", 0),
	}
	t.register(&t.translations, &t.scales, &t.rotations)
	return t
}

// Name returns "transform".
func (t *Transform) Name() string { return "transform" }

// SetTranslations sets the (x, y) translation of every group.
func (t *Transform) SetTranslations(v []float32) error {
	return t.setGroupValues(&t.translations, v)
}

// SetScales sets the (x, y) scale of every group.
func (t *Transform) SetScales(v []float32) error {
	return t.setGroupValues(&t.scales, v)
}

// SetRotations sets the rotation of every group in radians,
// counter-clockwise in the y-up layout space.
func (t *Transform) SetRotations(v []float32) error {
	return t.setGroupValues(&t.rotations, v)
}

// Translations returns a copy of the translation array.
func (t *Transform) Translations() []float32 { return t.translations.Values() }

// Scales returns a copy of the scale array.
func (t *Transform) Scales() []float32 { return t.scales.Values() }

// Rotations returns a copy of the rotation array.
func (t *Transform) Rotations() []float32 { return t.rotations.Values() }

// Unit implements Deformer.
func (t *Transform) Unit(slot int) shader.Unit {
	n := t.arrayLen()
	return shader.Unit{
		Slot:     slot,
		Caps:     CapMatrix,
		Weighted: true,
		Uniform: &shader.UniformBlock{Slot: slot, Fields: []shader.UniformField{
			t.translations.field(n),
			t.scales.field(n),
			t.rotations.field(n),
			{Name: "pivots", Components: 2, Count: n},
		}},
		Fragments: []shader.Fragment{body(slot, shader.StageVertex, fmt.Sprintf(`fn %[1]s(weights: vec4<f32>) -> mat3x3<f32> {
    %[2]s
    let t = deformer%[3]d.translations[idx].xy;
    let s = deformer%[3]d.scales[idx].xy;
    let r = deformer%[3]d.rotations[idx].x;
    let pivot = deformer%[3]d.pivots[idx].xy;
    let c = cos(r);
    let sn = sin(r);
    let rs = mat2x2<f32>(c * s.x, sn * s.x, -sn * s.y, c * s.y);
    let o = pivot + t - rs * pivot;
    return mat3x3<f32>(vec3<f32>(rs[0], 0.0), vec3<f32>(rs[1], 0.0), vec3<f32>(o, 1.0));
}`, shader.MatrixFunc(slot), t.indexLine(), slot))},
	}
}

// Uniforms implements Deformer.
func (t *Transform) Uniforms() map[string][]float32 {
	return map[string][]float32{
		"translations": t.translations.padded(),
		"scales":       t.scales.padded(),
		"rotations":    t.rotations.padded(),
		"pivots":       t.pivots(),
	}
}

func (t *Transform) pivots() []float32 {
	n := t.arrayLen()
	out := make([]float32, 0, n*2)
	o := t.owner()
	for i := 0; i < n; i++ {
		var x, y float64
		if o != nil && i < t.GroupCount() {
			c := center(o.GroupBounds(t.granularity, i))
			x, y = c.X, c.Y
		}
		out = append(out, float32(x), float32(y))
	}
	return out
}

// Matrix implements MatrixDeformer.
func (t *Transform) Matrix(group int) Affine {
	tr := t.translations.At(group)
	sc := t.scales.At(group)
	r := float64(t.rotations.At(group)[0])
	var px, py float64
	if o := t.owner(); o != nil && group < t.GroupCount() {
		c := center(o.GroupBounds(t.granularity, group))
		px, py = c.X, c.Y
	}
	sx, sy := float64(sc[0]), float64(sc[1])
	cos, sin := math.Cos(r), math.Sin(r)
	m := Affine{
		A: cos * sx, B: sin * sx,
		C: -sin * sy, D: cos * sy,
	}
	m.E = px + float64(tr[0]) - (m.A*px + m.C*py)
	m.F = py + float64(tr[1]) - (m.B*px + m.D*py)
	return m
}
