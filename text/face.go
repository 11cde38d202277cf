package text

// Face represents a font face at a specific size.
// Face is a lightweight object created from a FontSource and is safe for
// concurrent use.
type Face interface {
	// Metrics returns the font metrics at this face's size.
	Metrics() Metrics

	// Advance returns the total advance width of s in pixels.
	Advance(s string) float64

	// GlyphAdvance returns the advance width of a single rune.
	GlyphAdvance(r rune) float64

	// HasGlyph reports whether the font has a glyph for the given rune.
	HasGlyph(r rune) bool

	// Source returns the FontSource this face was created from.
	Source() *FontSource

	// Size returns the size of this face in pixels per em.
	Size() float64

	private()
}

// sourceFace is the internal implementation of Face.
type sourceFace struct {
	source *FontSource
	size   float64
}

func (f *sourceFace) Metrics() Metrics {
	fm := f.source.Parsed().Metrics(f.size)
	return Metrics{
		Ascent:    fm.Ascent,
		Descent:   fm.Descent,
		LineGap:   fm.LineGap,
		XHeight:   fm.XHeight,
		CapHeight: fm.CapHeight,
	}
}

func (f *sourceFace) Advance(s string) float64 {
	total := 0.0
	for _, r := range s {
		total += f.GlyphAdvance(r)
	}
	return total
}

func (f *sourceFace) GlyphAdvance(r rune) float64 {
	parsed := f.source.Parsed()
	return parsed.GlyphAdvance(parsed.GlyphIndex(r), f.size)
}

func (f *sourceFace) HasGlyph(r rune) bool {
	return f.source.Parsed().GlyphIndex(r) != 0
}

func (f *sourceFace) Source() *FontSource {
	return f.source
}

func (f *sourceFace) Size() float64 {
	return f.size
}

func (f *sourceFace) private() {}
