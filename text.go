package textfx

import (
	"fmt"
	"image"
	"slices"
	"unicode/utf8"

	"github.com/gogpu/textfx/deform"
	"github.com/gogpu/textfx/geometry"
	"github.com/gogpu/textfx/internal/logging"
	"github.com/gogpu/textfx/render"
	"github.com/gogpu/textfx/text"
	"github.com/gogpu/textfx/text/atlas"
)

// dirtyFlags records which part of a Text must be recomputed on the next
// Build.
type dirtyFlags uint8

const (
	// dirtyContent requires a full layout pass.
	dirtyContent dirtyFlags = 1 << iota
	// dirtyWrap requires only line assignment.
	dirtyWrap
)

// Text is a laid out string with a deformer stack. It implements
// deform.Owner and render.Renderable.
//
// Setters only record what changed; Build (or Render) recomputes layout and
// geometry at most once. Text is not safe for concurrent use.
type Text struct {
	mesh

	atlas   *atlas.Atlas
	engine  *text.LayoutEngine
	scratch *geometry.Builder

	content string
	opts    text.LayoutOptions
	layout  *text.Layout
	dirty   dirtyFlags

	// bounds caches group bounds per granularity for the current geometry.
	bounds [len(deform.Granularities)][]text.Rect
}

// NewText returns a text drawing content with the glyphs of a. Nothing is
// laid out until the first Build.
func NewText(a *atlas.Atlas, content string, opts ...TextOption) (*Text, error) {
	if a == nil {
		return nil, ErrNilAtlas
	}
	o := defaultTextOptions()
	for _, opt := range opts {
		opt(&o)
	}
	t := &Text{
		atlas:   a,
		engine:  text.NewLayoutEngine(),
		scratch: geometry.NewBuilder(a.PageSize(), a.Metrics()),
		content: text.Normalize(content),
		opts:    o.layout,
		dirty:   dirtyContent,
	}
	t.label = o.label
	t.builder = geometry.NewBuilder(a.PageSize(), a.Metrics())
	t.color = toFloat(o.color)
	t.stack = deform.NewStack(t)
	return t, nil
}

// Atlas returns the glyph atlas of the text.
func (t *Text) Atlas() *atlas.Atlas { return t.atlas }

// Text returns the current content in NFC with "\n" line endings. Its runes
// correspond one to one with glyph indices.
func (t *Text) Text() string { return t.content }

// SetText replaces the content. The text is normalized like the layout
// engine does and laid out again on the next Build.
func (t *Text) SetText(s string) {
	s = text.Normalize(s)
	if s == t.content {
		return
	}
	t.content = s
	t.dirty |= dirtyContent
}

// Insert inserts s before the rune at position pos. Positions count runes
// of Text, so they are glyph indices.
func (t *Text) Insert(pos int, s string) error {
	n := utf8.RuneCountInString(t.content)
	if pos < 0 || pos > n {
		return &PositionError{Pos: pos, Len: n}
	}
	if s == "" {
		return nil
	}
	off := runeOffset(t.content, pos)
	t.SetText(t.content[:off] + s + t.content[off:])
	return nil
}

// Delete removes the runes in [start, end).
func (t *Text) Delete(start, end int) error {
	n := utf8.RuneCountInString(t.content)
	if start < 0 || start > n {
		return &PositionError{Pos: start, Len: n}
	}
	if end < 0 || end > n {
		return &PositionError{Pos: end, Len: n}
	}
	if start > end {
		return ErrInvalidRange
	}
	if start == end {
		return nil
	}
	t.SetText(t.content[:runeOffset(t.content, start)] + t.content[runeOffset(t.content, end):])
	return nil
}

// runeOffset returns the byte offset of rune pos in s.
func runeOffset(s string, pos int) int {
	for i := range s {
		if pos == 0 {
			return i
		}
		pos--
	}
	return len(s)
}

// LayoutOptions returns the current layout options.
func (t *Text) LayoutOptions() text.LayoutOptions { return t.opts }

// SetMaxWidth changes the wrap width. Lines are reassigned on the next
// Build without rasterizing glyphs again.
func (t *Text) SetMaxWidth(w float64) {
	if w == t.opts.MaxWidth {
		return
	}
	t.opts.MaxWidth = w
	t.dirty |= dirtyWrap
}

// SetMaxHeight changes the height limit.
func (t *Text) SetMaxHeight(h float64) {
	if h == t.opts.MaxHeight {
		return
	}
	t.opts.MaxHeight = h
	t.dirty |= dirtyWrap
}

// SetAlignment changes the horizontal alignment of each line.
func (t *Text) SetAlignment(a text.Alignment) {
	if a == t.opts.Alignment {
		return
	}
	t.opts.Alignment = a
	t.dirty |= dirtyWrap
}

// SetLineSpacing changes the line height multiplier.
func (t *Text) SetLineSpacing(s float64) {
	if s == t.opts.LineSpacing {
		return
	}
	t.opts.LineSpacing = s
	t.dirty |= dirtyWrap
}

// Build lays the text out if anything changed since the previous call and
// updates the deformer stack. A failed layout leaves the previous geometry
// in place.
func (t *Text) Build() error {
	if err := t.buildGeometry(); err != nil {
		return err
	}
	return t.stack.Update()
}

func (t *Text) buildGeometry() error {
	switch {
	case !t.built || t.dirty&dirtyContent != 0:
		return t.relayout()
	case t.dirty&dirtyWrap != 0:
		l, ok, err := t.engine.Reflow(t.opts, t.builder)
		if err != nil {
			return fmt.Errorf("textfx: reflow: %w", err)
		}
		if !ok {
			return t.relayout()
		}
		t.commitLayout(l, "reflow")
	}
	return nil
}

// relayout runs a full layout pass into the scratch builder and swaps it
// in on success.
func (t *Text) relayout() error {
	t.scratch.Reset()
	t.scratch.SetTextureSize(t.atlas.PageSize())
	l, err := t.engine.Layout(t.content, t.opts, t.atlas, t.scratch)
	if err != nil {
		return fmt.Errorf("textfx: layout %q: %w", t.label, err)
	}
	t.builder, t.scratch = t.scratch, t.builder
	t.commitLayout(l, "layout")
	return nil
}

func (t *Text) commitLayout(l *text.Layout, pass string) {
	t.layout = l
	t.dirty = 0
	t.invalidate()
	t.commit()
	logging.Logger().Debug("textfx: geometry built",
		"label", t.label,
		"pass", pass,
		"glyphs", l.GlyphCount,
		"version", t.version)
}

// invalidate drops the group bounds cache.
func (t *Text) invalidate() {
	for i := range t.bounds {
		t.bounds[i] = nil
	}
}

// Render builds the text if needed and draws one item per atlas page.
func (t *Text) Render(ctx *render.Context) error {
	if err := t.Build(); err != nil {
		return err
	}
	return t.draw(ctx, func(id int) (image.Image, uint64) {
		page, ok := t.atlas.Page(id)
		if !ok {
			return nil, 0
		}
		return page.Image, page.Version()
	})
}

// Lines returns the glyph range of every line, empty before the first
// Build.
func (t *Text) Lines() []text.Range {
	if t.layout == nil {
		return nil
	}
	return slices.Clone(t.layout.Lines)
}

// Words returns the glyph range of every word.
func (t *Text) Words() []text.Range {
	if t.layout == nil {
		return nil
	}
	return slices.Clone(t.layout.Words)
}

// GlyphCount returns the number of laid out glyphs, whitespace included.
func (t *Text) GlyphCount() int { return t.builder.GlyphCount() }

// Dropped returns the number of tokens that did not fit within the
// maximum height.
func (t *Text) Dropped() int {
	if t.layout == nil {
		return 0
	}
	return t.layout.Dropped
}

// LineOfGlyph returns the line containing glyph i, or -1.
func (t *Text) LineOfGlyph(i int) int {
	if t.layout == nil {
		return -1
	}
	return t.layout.LineOf(i)
}

// WordOfGlyph returns the word containing glyph i, or -1.
func (t *Text) WordOfGlyph(i int) int {
	if t.layout == nil {
		return -1
	}
	return t.layout.WordOf(i)
}

// RangeBounds returns the undeformed bounds of the glyphs in r.
func (t *Text) RangeBounds(r text.Range) (text.Rect, error) {
	return t.builder.RangeBounds(r)
}

// GlyphVertices returns the 8 position floats of glyph i, or an empty
// slice for an unknown index. The slice is valid until the next Build.
func (t *Text) GlyphVertices(i int) []float32 { return t.builder.GlyphVertices(i) }

// HitTest returns the glyph under (x, y), or the closest one, and which
// half of it the point is on. ok is false for an empty text.
func (t *Text) HitTest(x, y float64) (glyph int, side geometry.Side, ok bool) {
	return t.builder.HitTest(x, y, text.Range{Start: 0, End: t.builder.GlyphCount()})
}

// GroupCount implements deform.Owner.
func (t *Text) GroupCount(g deform.Granularity) int {
	switch g {
	case deform.Bounds:
		return 1
	case deform.Line:
		if t.layout == nil {
			return 0
		}
		return len(t.layout.Lines)
	case deform.Word:
		if t.layout == nil {
			return 0
		}
		return len(t.layout.Words)
	default:
		return t.builder.GlyphCount()
	}
}

// ranges returns the glyph range of every group at g.
func (t *Text) ranges(g deform.Granularity) []text.Range {
	n := t.builder.GlyphCount()
	switch g {
	case deform.Bounds:
		return []text.Range{{Start: 0, End: n}}
	case deform.Line:
		return t.Lines()
	case deform.Word:
		return t.Words()
	default:
		out := make([]text.Range, n)
		for i := range out {
			out[i] = text.Range{Start: i, End: i + 1}
		}
		return out
	}
}

// GroupBounds implements deform.Owner. Bounds are computed once per
// geometry version.
func (t *Text) GroupBounds(g deform.Granularity, i int) text.Rect {
	if t.bounds[g] == nil {
		rs := t.ranges(g)
		bounds := make([]text.Rect, len(rs))
		for k, r := range rs {
			if b, err := t.builder.RangeBounds(r); err == nil {
				bounds[k] = b
			}
		}
		t.bounds[g] = bounds
	}
	if i < 0 || i >= len(t.bounds[g]) {
		return text.Rect{}
	}
	return t.bounds[g][i]
}

// Weights implements deform.Owner.
func (t *Text) Weights(g deform.Granularity) []float32 {
	return t.builder.Weights(func(i int) int {
		switch g {
		case deform.Line:
			return max(t.LineOfGlyph(i), 0)
		case deform.Word:
			return max(t.WordOfGlyph(i), 0)
		case deform.Glyph:
			return i
		default:
			return 0
		}
	})
}

// TextureSize implements deform.Owner.
func (t *Text) TextureSize() int { return t.atlas.PageSize() }

var (
	_ deform.Owner      = (*Text)(nil)
	_ render.Renderable = (*Text)(nil)
)
