package text

// Glyph is the atlas record for one codepoint of a font at one size.
// Records are created once by a GlyphProvider and never mutated.
//
// Pixel fields are in atlas units: the provider may rasterize at a higher
// resolution than the layout size, see GlyphProvider.Scale.
type Glyph struct {
	Codepoint rune

	// TextureID identifies the atlas page holding the bitmap.
	TextureID int

	// AtlasX and AtlasY locate the bitmap's top-left corner in its page.
	// Page rows grow downward.
	AtlasX, AtlasY int

	// Width and Height are the bitmap size in pixels.
	Width, Height int

	AdvanceWidth  float64
	AdvanceHeight float64

	// LeftBearing is the x distance from the pen position to the bitmap's left edge.
	LeftBearing float64

	// TopBearing is the distance from the baseline up to the bitmap's top edge.
	TopBearing float64
}

// Empty reports whether the glyph has no bitmap (spaces, controls).
func (g *Glyph) Empty() bool {
	return g.Width == 0 || g.Height == 0
}

// GlyphProvider supplies glyph records for layout.
type GlyphProvider interface {
	// Glyph returns the record for r, rasterizing it on first use.
	Glyph(r rune) (*Glyph, error)

	// Metrics returns the font metrics in layout units.
	Metrics() Metrics

	// Scale converts atlas units to layout units.
	Scale() float64
}

// GlyphSink receives glyph quads in layout order. The geometry builder
// implements it.
type GlyphSink interface {
	// AddGlyph appends the quad of g at the origin and returns its index.
	AddGlyph(g *Glyph, multiplier float64) int

	// AddWhitespace appends a zero-area placeholder and returns its index.
	AddWhitespace(r rune, width, height float64) int

	// MoveGlyph translates glyph i in place.
	MoveGlyph(i int, dx, dy float64)
}
