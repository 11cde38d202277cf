package deform

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

func builtStack(t *testing.T, ds ...Deformer) (*Stack, *fakeOwner) {
	t.Helper()
	owner := newFakeOwner()
	owner.build()
	s := NewStack(owner)
	for _, d := range ds {
		if err := s.Add(d); err != nil {
			t.Fatalf("Add(%s): %v", d.Name(), err)
		}
	}
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	return s, owner
}

func TestStackMembership(t *testing.T) {
	a, b, c := NewOffset(Glyph), NewTransform(Line), NewOpacity(Word)
	s, _ := builtStack(t, a, b, c)

	if err := s.Add(a); !errors.Is(err, ErrAlreadyAttached) {
		t.Errorf("Add twice: err = %v", err)
	}
	other := NewStack(newFakeOwner())
	if err := other.Add(b); !errors.Is(err, ErrAlreadyAttached) {
		t.Errorf("Add to second stack: err = %v", err)
	}
	if err := other.Remove(b); !errors.Is(err, ErrNotAttached) {
		t.Errorf("Remove from wrong stack: err = %v", err)
	}
	if err := s.Add(nil); !errors.Is(err, ErrNilDeformer) {
		t.Errorf("Add(nil): err = %v", err)
	}

	if a.Slot() != 1 || b.Slot() != 2 || c.Slot() != 3 {
		t.Fatalf("slots = %d %d %d", a.Slot(), b.Slot(), c.Slot())
	}
	if err := s.MoveToIndex(c, 0); err != nil {
		t.Fatal(err)
	}
	if c.Index() != 0 || a.Index() != 1 || b.Index() != 2 {
		t.Errorf("after move: %d %d %d", c.Index(), a.Index(), b.Index())
	}
	if err := s.MoveToIndex(c, 99); err != nil {
		t.Fatal(err)
	}
	if c.Index() != 2 {
		t.Errorf("clamped move: index %d", c.Index())
	}

	if err := s.Remove(a); err != nil {
		t.Fatal(err)
	}
	if a.Attached() || a.Index() != -1 || s.Len() != 2 {
		t.Error("Remove did not detach")
	}
	if err := other.Add(a); err != nil {
		t.Errorf("re-adding removed deformer: %v", err)
	}

	s.Clear()
	if s.Len() != 0 || b.Attached() || c.Attached() {
		t.Error("Clear did not detach")
	}
}

func TestStackProgramChain(t *testing.T) {
	tr, off, op := NewTransform(Line), NewOffset(Glyph), NewOpacity(Bounds)
	s, _ := builtStack(t, tr, off, op)

	vs := s.VertexProgram()
	for _, want := range []string{
		"let position_1 = computeMatrix1(in.weights) * position_0;",
		"let position_2 = computeVertexPosition2(position_1, in.weights);",
		"let idx = i32(weights.y);",
		"let idx = i32(weights.w);",
	} {
		if !strings.Contains(vs, want) {
			t.Errorf("vertex program missing %q", want)
		}
	}
	fs := s.FragmentProgram()
	if !strings.Contains(fs, "let color_1 = computeColor3(color_0, in.weights);") {
		t.Errorf("fragment program missing color chain:\n%s", fs)
	}
	if !strings.Contains(fs, "let idx = i32(weights.x);") {
		t.Error("BOUNDS deformer should read weights.x")
	}

	if err := s.MoveToIndex(off, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	vs = s.VertexProgram()
	if !strings.Contains(vs, "let position_1 = computeVertexPosition1(position_0, in.weights);") ||
		!strings.Contains(vs, "let position_2 = computeMatrix2(in.weights) * position_1;") {
		t.Errorf("reorder did not rename helpers:\n%s", vs)
	}
}

func TestDisabledDeformerKeepsSlots(t *testing.T) {
	a, b := NewOffset(Glyph), NewOffset(Glyph)
	s, _ := builtStack(t, a, b)
	a.SetEnabled(false)
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	vs := s.VertexProgram()
	if strings.Contains(vs, "computeVertexPosition1") {
		t.Error("disabled deformer still in program")
	}
	if !strings.Contains(vs, "let position_1 = computeVertexPosition2(position_0, in.weights);") {
		t.Errorf("second deformer should keep slot 2:\n%s", vs)
	}
	blocks := s.UniformBlocks()
	if len(blocks) != 1 || blocks[0].Slot != 2 || blocks[0].Binding != 0 {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestRemovingAllRestoresPassThrough(t *testing.T) {
	tr, op := NewTransform(Bounds), NewTextProgress(Glyph, text.DirectionLTR)
	s, _ := builtStack(t, tr, op)
	pass := shader.PassThrough()
	if s.VertexProgram() == pass.Vertex {
		t.Fatal("deformed program equals pass-through")
	}

	if err := s.Remove(tr); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(op); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.VertexProgram() != pass.Vertex || s.FragmentProgram() != pass.Fragment {
		t.Error("empty stack should produce the pass-through programs")
	}
	if len(s.CombinedUniforms()) != 0 || len(s.UniformBuffers()) != 0 {
		t.Error("empty stack should have no uniforms")
	}
}

func TestUpdateRebuildsOnlyOnStructuralChange(t *testing.T) {
	off := NewOffset(Glyph)
	s, owner := builtStack(t, off)
	p1 := s.Program()

	if err := off.SetOffsets(make([]float32, 10)); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Program() != p1 {
		t.Error("value change should not re-synthesize")
	}

	owner.build()
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	p2 := s.Program()
	if p2 == p1 {
		t.Error("geometry change should re-synthesize")
	}

	if err := off.SetGranularity(Word); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Program() == p2 {
		t.Error("granularity change should re-synthesize")
	}
	if !strings.Contains(s.VertexProgram(), "offsets: array<vec4<f32>, 3>") {
		t.Errorf("array not resized for 3 words:\n%s", s.VertexProgram())
	}
}

func TestWeights(t *testing.T) {
	line, glyph := NewOffset(Line), NewOpacity(Glyph)
	s, _ := builtStack(t, line, glyph)

	if got, want := s.Weights(line), []float32{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1}; !slices.Equal(got, want) {
		t.Errorf("LINE weights = %v", got)
	}

	gw := s.Weights(glyph)
	distinct := map[float32]int{}
	for _, w := range gw {
		distinct[w]++
	}
	if len(distinct) != 5 {
		t.Errorf("GLYPH weights have %d distinct values, want 5", len(distinct))
	}
	for v, n := range distinct {
		if n != 4 {
			t.Errorf("value %v appears %d times, want 4", v, n)
		}
	}

	attr := s.WeightsAttribute()
	if len(attr) != 5*4*4 {
		t.Fatalf("len(attribute) = %d", len(attr))
	}
	// vertex 0 of glyph 3: bounds 0, line 1, word 2, glyph 3
	v := attr[3*4*4 : 3*4*4+4]
	if !slices.Equal(v, []float32{0, 1, 2, 3}) {
		t.Errorf("attribute of glyph 3 = %v", v)
	}
}

func TestCombinedUniforms(t *testing.T) {
	tr := NewTransform(Line)
	s, _ := builtStack(t, tr)
	if err := tr.SetTranslations([]float32{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}

	u := s.CombinedUniforms()
	if got := u["deformer1.translations"]; !slices.Equal(got, []float32{1, 2, 3, 4}) {
		t.Errorf("translations = %v", got)
	}
	if got := u["deformer1.scales"]; !slices.Equal(got, []float32{1, 1, 1, 1}) {
		t.Errorf("scales = %v", got)
	}
	// line 0 spans x 0..30, y 0..10; line 1 spans x 0..20, y -10..0
	if got := u["deformer1.pivots"]; !slices.Equal(got, []float32{15, 5, 10, -5}) {
		t.Errorf("pivots = %v", got)
	}

	bufs := s.UniformBuffers()
	blocks := s.UniformBlocks()
	if len(bufs) != 1 || len(blocks) != 1 || len(bufs[0]) != blocks[0].Size() {
		t.Errorf("buffers %d, blocks %d", len(bufs), len(blocks))
	}
}

func TestEveryVariantLowers(t *testing.T) {
	for _, g := range Granularities {
		t.Run(g.String(), func(t *testing.T) {
			s, _ := builtStack(t,
				NewTransform(g),
				NewOffset(g),
				NewWave(g),
				NewPixelate(g),
				NewOpacity(g),
				NewTint(g),
				NewTextProgress(g, text.DirectionTTB),
			)
			p := s.Program()
			if err := p.Validate(); err != nil {
				t.Fatalf("Validate: %v\n%s\n%s", err, p.Vertex, p.Fragment)
			}
			if len(p.Blocks) != 7 {
				t.Errorf("blocks = %d, want 7", len(p.Blocks))
			}
		})
	}
}

func TestCPUChainMatchesOrder(t *testing.T) {
	tr, off := NewTransform(Bounds), NewOffset(Bounds)
	s, _ := builtStack(t, tr, off)
	if err := tr.SetScales([]float32{2, 2}); err != nil {
		t.Fatal(err)
	}
	if err := off.SetOffsets([]float32{0, 10}); err != nil {
		t.Fatal(err)
	}

	// Bounds span x 0..30, y -10..10, pivot (15, 0).
	got := s.Position(text.Point{X: 20, Y: 5}, [4]float32{})
	want := text.Point{X: 25, Y: 20}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("Position = %+v, want %+v", got, want)
	}

	off.SetEnabled(false)
	got = s.Position(text.Point{X: 20, Y: 5}, [4]float32{})
	if math.Abs(got.Y-10) > 1e-9 {
		t.Errorf("disabled offset still applied: %+v", got)
	}
}
