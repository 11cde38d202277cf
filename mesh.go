package textfx

import (
	"image"
	"image/color"

	"github.com/gogpu/textfx/deform"
	"github.com/gogpu/textfx/geometry"
	"github.com/gogpu/textfx/render"
	"github.com/gogpu/textfx/shader"
)

// mesh is the geometry and deformer state shared by owners.
type mesh struct {
	label   string
	builder *geometry.Builder
	stack   *deform.Stack
	color   [4]float64

	version uint64
	built   bool
}

// Deformers returns the owner's deformer stack.
func (m *mesh) Deformers() *deform.Stack { return m.stack }

// GeometryBuilt reports whether Build has succeeded at least once.
func (m *mesh) GeometryBuilt() bool { return m.built }

// GeometryVersion changes every time the vertex arrays change.
func (m *mesh) GeometryVersion() uint64 { return m.version }

// SetColor sets the base color multiplied by the sampled texture.
func (m *mesh) SetColor(c color.Color) { m.color = toFloat(c) }

// Color returns the base color as straight-alpha RGBA in [0, 1].
func (m *mesh) Color() [4]float64 { return m.color }

// Update refreshes the deformer stack without touching the geometry.
func (m *mesh) Update() error { return m.stack.Update() }

// Program returns the synthesized program of the deformer stack.
func (m *mesh) Program() *shader.Program { return m.stack.Program() }

// Uniforms returns every uniform field of every active deformer, keyed
// "deformerN.field".
func (m *mesh) Uniforms() map[string][]float32 { return m.stack.CombinedUniforms() }

// Vertices returns the quad positions, 8 floats per quad.
func (m *mesh) Vertices() []float32 { return m.builder.Vertices() }

// UVs returns the texture coordinates, 8 floats per quad.
func (m *mesh) UVs() []float32 { return m.builder.UVs() }

// Indices returns the triangle indices, 6 per quad.
func (m *mesh) Indices() []uint32 { return m.builder.Indices() }

// commit records a geometry change.
func (m *mesh) commit() {
	m.built = true
	m.version++
}

// pageLookup resolves a texture id to an image and its version.
type pageLookup func(id int) (image.Image, uint64)

// draw issues one draw item per texture run.
func (m *mesh) draw(ctx *render.Context, lookup pageLookup) error {
	runs := m.builder.TextureRuns()
	if len(runs) == 0 {
		return nil
	}
	indices := m.builder.Indices()
	weights := m.stack.WeightsAttribute()
	if len(weights) == 0 {
		weights = nil
	}
	uniforms := m.stack.UniformBuffers()

	for _, run := range runs {
		item := &render.DrawItem{
			Label:     m.label,
			Positions: m.builder.Vertices(),
			UVs:       m.builder.UVs(),
			Weights:   weights,
			Indices:   indices[run.FirstIndex : run.FirstIndex+run.IndexCount],
			Program:   m.stack.Program(),
			Uniforms:  uniforms,
			Color:     m.color,
			Evaluator: m.stack,
		}
		if lookup != nil {
			item.Texture, item.TextureVersion = lookup(run.TextureID)
		}
		if err := ctx.Draw(item); err != nil {
			return err
		}
	}
	return nil
}
