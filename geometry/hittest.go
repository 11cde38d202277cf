package geometry

import (
	"math"

	"github.com/gogpu/textfx/text"
)

// clampRange limits r to the builder's glyphs.
func (b *Builder) clampRange(r text.Range) text.Range {
	return text.Range{Start: max(r.Start, 0), End: min(r.End, len(b.glyphs))}
}

func sideOf(x float64, box text.Rect) Side {
	if x < (box.MinX+box.MaxX)/2 {
		return SideLeft
	}
	return SideRight
}

// ContainsPoint returns the first glyph in r whose advance box contains
// (x, y), and which half of it the point is on.
func (b *Builder) ContainsPoint(x, y float64, r text.Range) (int, Side, bool) {
	r = b.clampRange(r)
	p := text.Point{X: x, Y: y}
	for i := r.Start; i < r.End; i++ {
		g := b.glyphs[i]
		box := g.box.Translate(g.origin.X, g.origin.Y)
		if box.Contains(p) {
			return i, sideOf(x, box), true
		}
	}
	return -1, SideLeft, false
}

// ClosestGlyph returns the glyph in r whose center is nearest to (x, y).
// Centers are computed once and cached until the next mutation.
func (b *Builder) ClosestGlyph(x, y float64, r text.Range) (int, Side, bool) {
	r = b.clampRange(r)
	if r.Len() == 0 {
		return -1, SideLeft, false
	}
	centers := b.glyphCenters()

	best, bestDist := -1, math.Inf(1)
	for i := r.Start; i < r.End; i++ {
		dx, dy := centers[i].X-x, centers[i].Y-y
		if d := dx*dx + dy*dy; d < bestDist {
			best, bestDist = i, d
		}
	}
	side := SideRight
	if x < centers[best].X {
		side = SideLeft
	}
	return best, side, true
}

// HitTest tries ContainsPoint and falls back to ClosestGlyph.
func (b *Builder) HitTest(x, y float64, r text.Range) (int, Side, bool) {
	if i, s, ok := b.ContainsPoint(x, y, r); ok {
		return i, s, true
	}
	return b.ClosestGlyph(x, y, r)
}

func (b *Builder) glyphCenters() []text.Point {
	if b.centersValid {
		return b.centers
	}
	b.centers = b.centers[:0]
	for _, g := range b.glyphs {
		b.centers = append(b.centers, g.box.Translate(g.origin.X, g.origin.Y).Center())
	}
	b.centersValid = true
	return b.centers
}
