// Package text loads fonts and lays text out into glyph quads.
//
// # Fonts
//
// A FontSource wraps a parsed TTF/OTF file; Face selects a size:
//
//	src, err := text.NewFontSource(goregular.TTF)
//	face := src.Face(32)
//
// # Layout
//
// LayoutEngine tokenizes a string into words, whitespace runs and
// newlines, requests glyph records from a GlyphProvider (usually an
// atlas), wraps lines against LayoutOptions.MaxWidth and writes one quad
// per glyph into a GlyphSink (usually a geometry builder).
//
// Every character produces exactly one glyph index, including spaces and
// newlines, so the Lines and Words of a Layout each partition the range
// [0, GlyphCount). Whitespace before a word is grouped with that word.
//
// Text that would start a line further than LayoutOptions.MaxHeight below
// the first one is dropped, not clipped or moved to another column.
//
// Scripts that cannot be drawn with one glyph per codepoint, such as
// Arabic or Devanagari, are rejected with UnsupportedScriptError.
package text
