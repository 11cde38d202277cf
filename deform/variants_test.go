package deform

import (
	"math"
	"testing"

	"github.com/gogpu/textfx/text"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform(Glyph)
	builtStack(t, tr)

	// glyph 1 spans x 10..20, y 0..10: pivot (15, 5)
	rot := make([]float32, 5)
	rot[1] = math.Pi / 2
	if err := tr.SetRotations(rot); err != nil {
		t.Fatal(err)
	}
	tra := make([]float32, 10)
	tra[2], tra[3] = 100, 0
	if err := tr.SetTranslations(tra); err != nil {
		t.Fatal(err)
	}

	got := tr.Matrix(1).Apply(text.Point{X: 20, Y: 5})
	if math.Abs(got.X-115) > 1e-6 || math.Abs(got.Y-10) > 1e-6 {
		t.Errorf("rotated = %+v, want (115, 10)", got)
	}
	got = tr.Matrix(1).Apply(text.Point{X: 15, Y: 5})
	if math.Abs(got.X-115) > 1e-6 || math.Abs(got.Y-5) > 1e-6 {
		t.Errorf("pivot = %+v, want (115, 5)", got)
	}
	if m := tr.Matrix(0); m != IdentityAffine {
		t.Errorf("untouched group matrix = %+v", m)
	}
}

func TestOffsetAndWave(t *testing.T) {
	off := NewOffset(Line)
	w := NewWave(Bounds)
	builtStack(t, off, w)

	if err := off.SetOffsets([]float32{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if got := off.Position(text.Point{X: 10, Y: 10}, 1); !near(got.X, 13) || !near(got.Y, 14) {
		t.Errorf("offset = %+v", got)
	}

	if err := w.SetAmplitudes([]float32{2}); err != nil {
		t.Fatal(err)
	}
	w.SetFrequency(math.Pi / 2)
	w.SetPhase(0)
	got := w.Position(text.Point{X: 1, Y: 3}, 0)
	if !near(got.X, 1) || math.Abs(got.Y-5) > 1e-6 {
		t.Errorf("wave = %+v, want (1, 5)", got)
	}
	if u := w.Uniforms()["params"]; len(u) != 2 || u[0] != float32(math.Pi/2) {
		t.Errorf("params = %v", u)
	}
}

func TestOpacityAndTint(t *testing.T) {
	op := NewOpacity(Word)
	tint := NewTint(Bounds)
	s, _ := builtStack(t, op, tint)

	if err := op.SetOpacities([]float32{1, 0.5, 0}); err != nil {
		t.Fatal(err)
	}
	if err := tint.SetColors([]float32{1, 0, 0.5, 1}); err != nil {
		t.Fatal(err)
	}

	got := s.Color(White, [4]float32{0, 0, 1, 2}, text.Point{})
	want := Color{1, 0, 0.5, 0.5}
	if got != want {
		t.Errorf("Color = %v, want %v", got, want)
	}
}

func TestTextProgressDirections(t *testing.T) {
	// glyph 0 spans x 0..10, y 0..10
	tests := []struct {
		dir     text.Direction
		visible text.Point
		hidden  text.Point
	}{
		{text.DirectionLTR, text.Point{X: 2, Y: 5}, text.Point{X: 8, Y: 5}},
		{text.DirectionRTL, text.Point{X: 8, Y: 5}, text.Point{X: 2, Y: 5}},
		{text.DirectionTTB, text.Point{X: 5, Y: 8}, text.Point{X: 5, Y: 2}},
		{text.DirectionBTT, text.Point{X: 5, Y: 2}, text.Point{X: 5, Y: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			p := NewTextProgress(Glyph, tt.dir)
			builtStack(t, p)
			if err := p.SetProgresses([]float32{0.5, 1, 1, 1, 1}); err != nil {
				t.Fatal(err)
			}
			if c := p.Color(White, 0, tt.visible); c[3] != 1 {
				t.Errorf("point %+v hidden", tt.visible)
			}
			if c := p.Color(White, 0, tt.hidden); c[3] != 0 {
				t.Errorf("point %+v visible", tt.hidden)
			}
		})
	}
}

func TestTextProgressPerGlyphVerticalClip(t *testing.T) {
	p := NewTextProgress(Glyph, text.DirectionTTB)
	owner := newFakeOwner()
	owner.glyphs = 3
	owner.build()
	s := NewStack(owner)
	if err := s.Add(p); err != nil {
		t.Fatal(err)
	}
	if err := p.SetProgresses([]float32{0.5, 0.75, 1.0}); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}

	// Every glyph spans y 0..10. Sample once per unit row from the top.
	wantVisibleRows := []int{5, 8, 10}
	for g, want := range wantVisibleRows {
		visible := 0
		for row := 0; row < 10; row++ {
			y := 10 - (float64(row) + 0.3)
			x := float64(g)*10 + 5
			if s.Color(White, [4]float32{0, 0, 0, float32(g)}, text.Point{X: x, Y: y})[3] > 0 {
				visible++
			}
		}
		if visible != want {
			t.Errorf("glyph %d: %d visible rows, want %d", g, visible, want)
		}
	}

	if b := s.CombinedUniforms()["deformer1.bounds"]; len(b) != 12 || b[4] != 10 || b[7] != 10 {
		t.Errorf("bounds uniform = %v", b)
	}
}

func TestTextProgressDirectionIsStructural(t *testing.T) {
	p := NewTextProgress(Bounds, text.DirectionLTR)
	s, _ := builtStack(t, p)
	before := s.FragmentProgram()
	p.SetDirection(text.DirectionBTT)
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.FragmentProgram() == before {
		t.Error("direction change should re-synthesize")
	}
}

func TestPixelate(t *testing.T) {
	px := NewPixelate(Bounds)
	builtStack(t, px)
	if err := px.SetSizes([]float32{8}); err != nil {
		t.Fatal(err)
	}
	// 64 texels / 8 = 8 cells; uv 0.2 falls into cell 1, center 1.5/8
	got := px.UV(text.Point{X: 0.2, Y: 0.9}, 0)
	if !near(got.X, 1.5/8) || !near(got.Y, 7.5/8) {
		t.Errorf("UV = %+v", got)
	}
	if u := px.Uniforms()["params"]; len(u) != 1 || u[0] != 64 {
		t.Errorf("params = %v", u)
	}
}
