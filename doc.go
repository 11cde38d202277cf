// Package textfx renders and animates text on a GPU canvas.
//
// # Overview
//
// A Text lays a string out with a glyph atlas, builds one quad per glyph
// and carries a deform.Stack. Deformers attached to the stack move,
// recolor or resample the text per line, word or glyph; the stack
// synthesizes a single WGSL program for the whole chain.
//
// # Quick Start
//
//	src, _ := text.NewFontSource(goregular.TTF)
//	glyphs, _ := atlas.New(src.Face(32))
//	t, _ := textfx.NewText(glyphs, "hello world", textfx.WithMaxWidth(300))
//
//	wave := deform.NewWave(deform.Glyph)
//	_ = t.Deformers().Add(wave)
//	_ = t.Build()
//	_ = wave.SetAmplitudes(amplitudes) // one per glyph
//
//	target := render.NewPixmapTarget(400, 200)
//	_ = t.Render(render.NewContext(render.NewSoftwareBackend(target), 400, 200))
//
// # Owners
//
// Text and Rectangle implement both deform.Owner and render.Renderable, so
// they can be attached to a render.Node and drawn by any backend.
// A Rectangle is a single quad: every granularity has exactly one group.
//
// # Coordinate System
//
// Layout space is y-up. The first baseline is y = 0 and later lines have
// negative y. render.NewContext maps (0, 0) to the bottom-left corner of
// the target.
//
// # Logging
//
// textfx is silent by default. SetLogger enables structured log/slog output
// for every sub-package.
package textfx

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
