// Package geometry builds GPU-ready quad buffers for laid out glyphs.
//
// A Builder holds three flat arrays: positions (8 floats per glyph),
// texture coordinates (8 floats per glyph) and triangle indices (6 per
// glyph). Quads are appended in layout order, so glyph i always owns
// floats [8i, 8i+8) and indices [6i, 6i+6).
//
// Positions are y-up. The corners of each quad are stored top-right,
// bottom-right, bottom-left, top-left. Texture V grows downward, so the
// top corners sample the first atlas row of the glyph.
//
// Builder implements text.GlyphSink. It is not safe for concurrent use;
// slices returned by its accessors alias the live arrays and are only
// valid until the next mutation.
package geometry
