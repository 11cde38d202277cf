package deform

import (
	"fmt"
	"slices"

	"github.com/gogpu/textfx/internal/logging"
	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// Stack is the ordered list of deformers of one owner. It synthesizes the
// owner's program and produces the weights attribute.
//
// Stack is not safe for concurrent use.
type Stack struct {
	owner     Owner
	deformers []Deformer

	program *shader.Program
	units   []shader.Unit
	sig     signature
	synced  bool

	weights   [granularityCount][]float32
	attribute []float32

	uniforms     map[string][]float32
	uniformBytes [][]byte
}

// signature captures everything that changes the program text or the
// weights attribute.
type signature struct {
	version uint64
	entries []sigEntry
}

type sigEntry struct {
	b          *Base
	generation uint64
	groups     int
	enabled    bool
}

func (s signature) equal(o signature) bool {
	return s.version == o.version && slices.Equal(s.entries, o.entries)
}

// NewStack returns an empty stack deforming owner.
func NewStack(owner Owner) *Stack {
	return &Stack{
		owner:    owner,
		program:  shader.PassThrough(),
		uniforms: map[string][]float32{},
	}
}

// Owner returns the geometry the stack deforms.
func (s *Stack) Owner() Owner { return s.owner }

// Len returns the number of deformers, enabled or not.
func (s *Stack) Len() int { return len(s.deformers) }

// Deformers returns the deformers in stack order.
func (s *Stack) Deformers() []Deformer {
	return slices.Clone(s.deformers)
}

// Add appends d. A deformer belongs to at most one stack.
func (s *Stack) Add(d Deformer) error {
	if d == nil {
		return ErrNilDeformer
	}
	b := d.base()
	if b.stack != nil {
		return ErrAlreadyAttached
	}
	s.deformers = append(s.deformers, d)
	b.stack = s
	b.groups = -1
	b.structural()
	b.sync()
	return nil
}

// Remove detaches d. The deformer keeps its settings and can be added to
// another stack.
func (s *Stack) Remove(d Deformer) error {
	i := s.indexOf(d)
	if i < 0 {
		return ErrNotAttached
	}
	s.deformers = slices.Delete(s.deformers, i, i+1)
	b := d.base()
	b.stack = nil
	b.dirty = true
	return nil
}

// MoveToIndex moves d to position i, clamped to the stack bounds.
func (s *Stack) MoveToIndex(d Deformer, i int) error {
	from := s.indexOf(d)
	if from < 0 {
		return ErrNotAttached
	}
	i = max(0, min(i, len(s.deformers)-1))
	if i == from {
		return nil
	}
	s.deformers = slices.Delete(s.deformers, from, from+1)
	s.deformers = slices.Insert(s.deformers, i, d)
	d.base().structural()
	return nil
}

// Clear detaches every deformer.
func (s *Stack) Clear() {
	for _, d := range s.deformers {
		b := d.base()
		b.stack = nil
		b.dirty = true
	}
	s.deformers = nil
}

func (s *Stack) indexOf(d Deformer) int {
	if d == nil {
		return -1
	}
	b := d.base()
	if b.stack != s {
		return -1
	}
	for i, x := range s.deformers {
		if x.base() == b {
			return i
		}
	}
	return -1
}

// Update cleans every deformer and, when anything structural changed
// since the previous call, re-synthesizes the program and regenerates the
// weights. Uniform values are gathered on every call. Before the owner's
// first build Update only leaves deformers dirty.
func (s *Stack) Update() error {
	for _, d := range s.deformers {
		d.base().update()
	}
	if s.owner == nil || !s.owner.GeometryBuilt() {
		return nil
	}
	sig := s.signature()
	if !s.synced || !sig.equal(s.sig) {
		s.rebuild()
		s.sig = sig
		s.synced = true
	}
	return s.gather()
}

func (s *Stack) signature() signature {
	sig := signature{version: s.owner.GeometryVersion()}
	for _, d := range s.deformers {
		b := d.base()
		sig.entries = append(sig.entries, sigEntry{
			b:          b,
			generation: b.generation,
			groups:     b.groups,
			enabled:    b.enabled,
		})
	}
	return sig
}

func (s *Stack) rebuild() {
	s.units = nil
	for i, d := range s.deformers {
		if !d.base().enabled {
			continue
		}
		s.units = append(s.units, d.Unit(i+1))
	}
	s.program = shader.Synthesize(s.units)

	for _, g := range Granularities {
		s.weights[g] = s.owner.Weights(g)
	}
	s.attribute = interleave(s.weights)

	logging.Logger().Debug("deform: stack rebuilt",
		"deformers", len(s.deformers),
		"active", len(s.units),
		"vertices", len(s.attribute)/granularityCount)
}

func interleave(w [granularityCount][]float32) []float32 {
	n := len(w[Bounds])
	out := make([]float32, 0, n*granularityCount)
	for v := 0; v < n; v++ {
		for _, g := range Granularities {
			var x float32
			if v < len(w[g]) {
				x = w[g][v]
			}
			out = append(out, x)
		}
	}
	return out
}

func (s *Stack) gather() error {
	s.uniforms = make(map[string][]float32)
	s.uniformBytes = s.uniformBytes[:0]
	for _, u := range s.units {
		if u.Uniform == nil {
			continue
		}
		d := s.deformers[u.Slot-1]
		values := d.Uniforms()
		block := *u.Uniform
		block.Slot = u.Slot
		buf, err := block.Pack(values)
		if err != nil {
			return fmt.Errorf("deform: %s: %w", d.Name(), err)
		}
		s.uniformBytes = append(s.uniformBytes, buf)
		for _, f := range block.Fields {
			s.uniforms[block.VarName()+"."+f.Name] = values[f.Name]
		}
	}
	return nil
}

// Program returns the synthesized program, the pass-through program
// before the first Update that sees built geometry.
func (s *Stack) Program() *shader.Program { return s.program }

// VertexProgram returns the synthesized vertex program text.
func (s *Stack) VertexProgram() string { return s.program.Vertex }

// FragmentProgram returns the synthesized fragment program text.
func (s *Stack) FragmentProgram() string { return s.program.Fragment }

// UniformBlocks returns the deformer uniform blocks in binding order.
func (s *Stack) UniformBlocks() []shader.UniformBlock {
	return slices.Clone(s.program.Blocks)
}

// CombinedUniforms returns every uniform field of every active deformer,
// keyed "deformerN.field".
func (s *Stack) CombinedUniforms() map[string][]float32 {
	out := make(map[string][]float32, len(s.uniforms))
	for k, v := range s.uniforms {
		out[k] = slices.Clone(v)
	}
	return out
}

// UniformBuffers returns the packed contents of each uniform block in
// binding order.
func (s *Stack) UniformBuffers() [][]byte {
	return slices.Clone(s.uniformBytes)
}

// Weights returns the per-vertex group indices at d's granularity, one
// float per vertex.
func (s *Stack) Weights(d Deformer) []float32 {
	if d == nil {
		return nil
	}
	return slices.Clone(s.weights[d.base().granularity])
}

// WeightsAttribute returns the vec4 weights attribute: for every vertex,
// its BOUNDS, LINE, WORD and GLYPH group indices.
func (s *Stack) WeightsAttribute() []float32 {
	return slices.Clone(s.attribute)
}

// active calls fn for every enabled deformer in stack order.
func (s *Stack) active(fn func(d Deformer, b *Base)) {
	for _, d := range s.deformers {
		if b := d.base(); b.enabled {
			fn(d, b)
		}
	}
}

// Position runs p through every MATRIX and VERTEX deformer on the CPU,
// mirroring the vertex program.
func (s *Stack) Position(p text.Point, weights [4]float32) text.Point {
	s.active(func(d Deformer, b *Base) {
		g := b.groupOf(weights)
		if m, ok := d.(MatrixDeformer); ok && b.caps.Has(CapMatrix) {
			p = m.Matrix(g).Apply(p)
		}
		if v, ok := d.(VertexDeformer); ok && b.caps.Has(CapVertex) {
			p = v.Position(p, g)
		}
	})
	return p
}

// UV runs a texture coordinate through every UV deformer on the CPU.
func (s *Stack) UV(uv text.Point, weights [4]float32) text.Point {
	s.active(func(d Deformer, b *Base) {
		if u, ok := d.(UVDeformer); ok && b.caps.Has(CapUV) {
			uv = u.UV(uv, b.groupOf(weights))
		}
	})
	return uv
}

// Color runs c through every COLOR deformer on the CPU. local is the
// undeformed position of the shaded point.
func (s *Stack) Color(c [4]float64, weights [4]float32, local text.Point) [4]float64 {
	col := Color(c)
	s.active(func(d Deformer, b *Base) {
		if cd, ok := d.(ColorDeformer); ok && b.caps.Has(CapColor) {
			col = cd.Color(col, b.groupOf(weights), local)
		}
	})
	return col
}
