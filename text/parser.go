package text

import "golang.org/x/image/font"

// FontParser is an interface for font parsing backends.
// The default implementation uses golang.org/x/image/font/opentype.
type FontParser interface {
	// Parse parses font data (TTF or OTF) and returns a ParsedFont.
	Parse(data []byte) (ParsedFont, error)
}

// ParsedFont represents a parsed font file.
type ParsedFont interface {
	// Name returns the font family name, or "" if not available.
	Name() string

	// FullName returns the full font name, or "" if not available.
	FullName() string

	// NumGlyphs returns the number of glyphs in the font.
	NumGlyphs() int

	// UnitsPerEm returns the units per em for the font.
	UnitsPerEm() int

	// GlyphIndex returns the glyph index for a rune, 0 if not found.
	GlyphIndex(r rune) uint16

	// GlyphAdvance returns the advance width for a glyph at ppem pixels per em.
	GlyphAdvance(glyphIndex uint16, ppem float64) float64

	// GlyphBounds returns the ink bounds of a glyph at ppem, y-down.
	GlyphBounds(glyphIndex uint16, ppem float64) Rect

	// Metrics returns the font metrics at ppem.
	Metrics(ppem float64) FontMetrics

	// RasterFace returns an unhinted x/image face suitable for drawing
	// glyph bitmaps at ppem. The caller closes it.
	RasterFace(ppem float64) (font.Face, error)
}

// FontMetrics holds font-level metrics at a specific size.
type FontMetrics struct {
	// Ascent is the distance from the baseline to the top of the font (positive).
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the font (positive).
	Descent float64

	// LineGap is the recommended line gap between lines.
	LineGap float64

	// XHeight is the height of lowercase letters (like 'x').
	XHeight float64

	// CapHeight is the height of uppercase letters.
	CapHeight float64
}

// Height returns the total line height (ascent + descent + line gap).
func (m FontMetrics) Height() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// parserRegistry holds registered font parsers.
var parserRegistry = map[string]FontParser{
	"ximage": &ximageParser{},
}

// defaultParserName is the name of the default parser.
const defaultParserName = "ximage"

// RegisterParser registers a custom font parser.
func RegisterParser(name string, parser FontParser) {
	parserRegistry[name] = parser
}

// getParser returns the parser by name, or the default if not found.
func getParser(name string) FontParser {
	if p, ok := parserRegistry[name]; ok {
		return p
	}
	return parserRegistry[defaultParserName]
}
