package geometry

import (
	"github.com/gogpu/textfx/text"
)

const (
	floatsPerQuad  = 8
	indicesPerQuad = 6
)

// Side tells which half of a glyph a point falls on.
type Side int

const (
	// SideLeft is the half before the glyph's horizontal center.
	SideLeft Side = iota
	// SideRight is the half after it.
	SideRight
)

// String returns the string representation of the side.
func (s Side) String() string {
	if s == SideLeft {
		return "Left"
	}
	return "Right"
}

// glyphEntry is the per-glyph table row.
type glyphEntry struct {
	codepoint  rune
	whitespace bool
	texture    int

	// box is the advance box at the origin, used for hit-testing.
	box    text.Rect
	origin text.Point
}

// Builder accumulates glyph quads.
type Builder struct {
	vertices []float32
	uvs      []float32
	indices  []uint32
	glyphs   []glyphEntry

	textureSize float64
	ascent      float64
	descent     float64

	// centers caches hit-box centers for ClosestGlyph.
	centers      []text.Point
	centersValid bool

	version uint64
}

// NewBuilder returns a builder whose UVs are normalized by textureSize
// (the atlas page side in pixels) and whose hit boxes span the font's
// ascent and descent.
func NewBuilder(textureSize int, metrics text.Metrics) *Builder {
	b := &Builder{}
	b.SetTextureSize(textureSize)
	b.SetLineMetrics(metrics.Ascent, metrics.Descent)
	return b
}

// SetTextureSize changes the UV normalization for quads added later.
func (b *Builder) SetTextureSize(size int) {
	b.textureSize = float64(max(size, 1))
}

// TextureSize returns the UV normalization size.
func (b *Builder) TextureSize() int {
	return int(b.textureSize)
}

// SetLineMetrics changes the hit box height for quads added later.
func (b *Builder) SetLineMetrics(ascent, descent float64) {
	b.ascent, b.descent = ascent, descent
}

// AddGlyph appends the quad of g at the origin. Atlas pixel metrics are
// multiplied by multiplier to get layout units.
func (b *Builder) AddGlyph(g *text.Glyph, multiplier float64) int {
	if multiplier == 0 {
		multiplier = 1
	}
	x0 := g.LeftBearing * multiplier
	x1 := x0 + float64(g.Width)*multiplier
	y1 := g.TopBearing * multiplier
	y0 := y1 - float64(g.Height)*multiplier

	res := b.textureSize
	u0 := float64(g.AtlasX) / res
	u1 := float64(g.AtlasX+g.Width) / res
	vTop := float64(g.AtlasY) / res
	vBottom := float64(g.AtlasY+g.Height) / res

	return b.appendQuad(
		[floatsPerQuad]float32{
			f32(x1), f32(y1),
			f32(x1), f32(y0),
			f32(x0), f32(y0),
			f32(x0), f32(y1),
		},
		[floatsPerQuad]float32{
			f32(u1), f32(vTop),
			f32(u1), f32(vBottom),
			f32(u0), f32(vBottom),
			f32(u0), f32(vTop),
		},
		glyphEntry{
			codepoint: g.Codepoint,
			texture:   g.TextureID,
			box:       b.advanceBox(g.AdvanceWidth * multiplier),
		},
	)
}

// AddWhitespace appends a zero-area quad for r. The glyph still has an
// index, a center and a hit box of the given width.
func (b *Builder) AddWhitespace(r rune, width, height float64) int {
	box := b.advanceBox(width)
	if b.ascent == 0 && b.descent == 0 {
		box.MaxY = height
	}
	return b.appendQuad(
		[floatsPerQuad]float32{},
		[floatsPerQuad]float32{},
		glyphEntry{codepoint: r, whitespace: true, texture: -1, box: box},
	)
}

// AddRect appends an arbitrary quad covering rect and sampling uv
// (normalized, V down). It is used for non-text owners.
func (b *Builder) AddRect(rect, uv text.Rect, texture int) int {
	return b.appendQuad(
		[floatsPerQuad]float32{
			f32(rect.MaxX), f32(rect.MaxY),
			f32(rect.MaxX), f32(rect.MinY),
			f32(rect.MinX), f32(rect.MinY),
			f32(rect.MinX), f32(rect.MaxY),
		},
		[floatsPerQuad]float32{
			f32(uv.MaxX), f32(uv.MinY),
			f32(uv.MaxX), f32(uv.MaxY),
			f32(uv.MinX), f32(uv.MaxY),
			f32(uv.MinX), f32(uv.MinY),
		},
		glyphEntry{texture: texture, box: rect},
	)
}

func (b *Builder) advanceBox(width float64) text.Rect {
	return text.Rect{MinX: 0, MinY: -b.descent, MaxX: width, MaxY: b.ascent}
}

func (b *Builder) appendQuad(pos, uv [floatsPerQuad]float32, e glyphEntry) int {
	i := len(b.glyphs)
	base := uint32(i * 4) //nolint:gosec // glyph counts stay far below 2^30

	b.vertices = append(b.vertices, pos[:]...)
	b.uvs = append(b.uvs, uv[:]...)
	// First triangle 0, 1, 2; second 2, 3, 0.
	b.indices = append(b.indices,
		base+0, base+1, base+2,
		base+2, base+3, base+0,
	)
	b.glyphs = append(b.glyphs, e)
	b.mutated()
	return i
}

// MoveGlyph translates the four vertices of glyph i in place. Unknown
// indices are ignored.
func (b *Builder) MoveGlyph(i int, dx, dy float64) {
	if i < 0 || i >= len(b.glyphs) {
		return
	}
	v := b.vertices[i*floatsPerQuad : (i+1)*floatsPerQuad]
	fx, fy := f32(dx), f32(dy)
	for k := 0; k < floatsPerQuad; k += 2 {
		v[k] += fx
		v[k+1] += fy
	}
	g := &b.glyphs[i]
	g.origin.X += dx
	g.origin.Y += dy
	b.mutated()
}

// Reset drops every quad, keeping capacity.
func (b *Builder) Reset() {
	b.vertices = b.vertices[:0]
	b.uvs = b.uvs[:0]
	b.indices = b.indices[:0]
	b.glyphs = b.glyphs[:0]
	b.mutated()
}

func (b *Builder) mutated() {
	b.version++
	b.Invalidate()
}

// Invalidate drops cached per-glyph data. Every mutation calls it.
func (b *Builder) Invalidate() {
	b.centersValid = false
}

// Version increases on every mutation.
func (b *Builder) Version() uint64 {
	return b.version
}

// GlyphCount returns the number of quads.
func (b *Builder) GlyphCount() int {
	return len(b.glyphs)
}

// Vertices returns the position array (x, y per vertex).
func (b *Builder) Vertices() []float32 {
	return b.vertices
}

// UVs returns the texture coordinate array (u, v per vertex).
func (b *Builder) UVs() []float32 {
	return b.uvs
}

// Indices returns the triangle index array.
func (b *Builder) Indices() []uint32 {
	return b.indices
}

// GlyphVertices returns the 8 position floats of glyph i, or an empty
// slice if i has no quad. The result aliases the builder's array.
func (b *Builder) GlyphVertices(i int) []float32 {
	if i < 0 || i >= len(b.glyphs) {
		return []float32{}
	}
	off := i * floatsPerQuad
	return b.vertices[off : off+floatsPerQuad : off+floatsPerQuad]
}

// Codepoint returns the source rune of glyph i.
func (b *Builder) Codepoint(i int) (rune, error) {
	if i < 0 || i >= len(b.glyphs) {
		return 0, outOfRange(i, len(b.glyphs))
	}
	return b.glyphs[i].codepoint, nil
}

// IsWhitespace reports whether glyph i is a placeholder quad.
func (b *Builder) IsWhitespace(i int) bool {
	return i >= 0 && i < len(b.glyphs) && b.glyphs[i].whitespace
}

// GlyphBox returns the advance box of glyph i at its current position.
func (b *Builder) GlyphBox(i int) (text.Rect, error) {
	if i < 0 || i >= len(b.glyphs) {
		return text.Rect{}, outOfRange(i, len(b.glyphs))
	}
	g := b.glyphs[i]
	return g.box.Translate(g.origin.X, g.origin.Y), nil
}

// GlyphCenter returns the center of glyph i's advance box.
func (b *Builder) GlyphCenter(i int) (text.Point, error) {
	box, err := b.GlyphBox(i)
	if err != nil {
		return text.Point{}, err
	}
	return box.Center(), nil
}

// Bounds returns the rectangle enclosing the quads of the listed glyphs.
// Whitespace quads contribute their pen position.
func (b *Builder) Bounds(indices []int) (text.Rect, error) {
	if len(indices) == 0 {
		return text.Rect{}, ErrEmptySelection
	}
	r := text.EmptyRect()
	for _, i := range indices {
		if i < 0 || i >= len(b.glyphs) {
			return text.Rect{}, outOfRange(i, len(b.glyphs))
		}
		v := b.GlyphVertices(i)
		for k := 0; k < floatsPerQuad; k += 2 {
			r = r.Extend(text.Point{X: float64(v[k]), Y: float64(v[k+1])})
		}
	}
	return r, nil
}

// RangeBounds is Bounds over a glyph range.
func (b *Builder) RangeBounds(rg text.Range) (text.Rect, error) {
	return b.Bounds(rg.Indices())
}

// Weights returns one float per vertex holding groupOf(glyph).
func (b *Builder) Weights(groupOf func(glyph int) int) []float32 {
	out := make([]float32, 0, len(b.glyphs)*4)
	for i := range b.glyphs {
		w := float32(groupOf(i))
		out = append(out, w, w, w, w)
	}
	return out
}

// TextureRun is a span of consecutive glyphs sampling the same atlas page.
type TextureRun struct {
	TextureID  int
	FirstIndex uint32
	IndexCount uint32
}

// TextureRuns splits the index array by atlas page. Whitespace glyphs join
// the surrounding run.
func (b *Builder) TextureRuns() []TextureRun {
	var runs []TextureRun
	for i, g := range b.glyphs {
		tex := g.texture
		if n := len(runs); n > 0 && (tex < 0 || tex == runs[n-1].TextureID) {
			runs[n-1].IndexCount += indicesPerQuad
			continue
		}
		if tex < 0 {
			tex = 0
		}
		runs = append(runs, TextureRun{
			TextureID:  tex,
			FirstIndex: uint32(i * indicesPerQuad), //nolint:gosec // bounded by glyph count
			IndexCount: indicesPerQuad,
		})
	}
	return runs
}

func f32(v float64) float32 { return float32(v) }

var _ text.GlyphSink = (*Builder)(nil)
