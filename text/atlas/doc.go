// Package atlas rasterizes glyphs into shelf-packed alpha textures.
//
// An Atlas serves one font face at one size. Each codepoint is drawn
// once, the first time it is requested, and its text.Glyph record is
// reused for every later occurrence:
//
//	a, err := atlas.New(face, atlas.WithPageSize(1024))
//	g, err := a.Glyph('A')
//
// Glyph bitmaps are packed into square pages. When a page fills up a new
// one is started, up to Config.MaxPages. Each record's TextureID names
// the page that holds it.
//
// Atlas implements text.GlyphProvider and is safe for concurrent use.
package atlas
