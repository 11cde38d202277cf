package text

import (
	"fmt"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ximageParser implements FontParser using golang.org/x/image/font/opentype.
type ximageParser struct{}

// Parse implements FontParser.Parse.
func (p *ximageParser) Parse(data []byte) (ParsedFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	return &ximageParsedFont{font: f}, nil
}

// ximageParsedFont implements ParsedFont using sfnt.Font.
type ximageParsedFont struct {
	font *opentype.Font
}

func (f *ximageParsedFont) Name() string {
	if name, err := f.font.Name(nil, sfnt.NameIDFamily); err == nil {
		return name
	}
	return ""
}

func (f *ximageParsedFont) FullName() string {
	if name, err := f.font.Name(nil, sfnt.NameIDFull); err == nil {
		return name
	}
	return ""
}

func (f *ximageParsedFont) NumGlyphs() int {
	return f.font.NumGlyphs()
}

func (f *ximageParsedFont) UnitsPerEm() int {
	return int(f.font.UnitsPerEm())
}

func (f *ximageParsedFont) GlyphIndex(r rune) uint16 {
	idx, err := f.font.GlyphIndex(nil, r)
	if err != nil {
		return 0
	}
	return uint16(idx)
}

func (f *ximageParsedFont) GlyphAdvance(glyphIndex uint16, ppem float64) float64 {
	var buf sfnt.Buffer
	advance, err := f.font.GlyphAdvance(&buf, sfnt.GlyphIndex(glyphIndex), floatToFixed(ppem), font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat64(advance)
}

func (f *ximageParsedFont) GlyphBounds(glyphIndex uint16, ppem float64) Rect {
	var buf sfnt.Buffer
	bounds, _, err := f.font.GlyphBounds(&buf, sfnt.GlyphIndex(glyphIndex), floatToFixed(ppem), font.HintingNone)
	if err != nil {
		return Rect{}
	}
	return Rect{
		MinX: fixedToFloat64(bounds.Min.X),
		MinY: fixedToFloat64(bounds.Min.Y),
		MaxX: fixedToFloat64(bounds.Max.X),
		MaxY: fixedToFloat64(bounds.Max.Y),
	}
}

func (f *ximageParsedFont) Metrics(ppem float64) FontMetrics {
	var buf sfnt.Buffer
	m, err := f.font.Metrics(&buf, floatToFixed(ppem), font.HintingNone)
	if err != nil {
		return FontMetrics{}
	}
	ascent := fixedToFloat64(m.Ascent)
	// sfnt reports descent as a positive distance below the baseline.
	descent := math.Abs(fixedToFloat64(m.Descent))
	return FontMetrics{
		Ascent:    ascent,
		Descent:   descent,
		LineGap:   math.Max(0, fixedToFloat64(m.Height)-ascent-descent),
		XHeight:   fixedToFloat64(m.XHeight),
		CapHeight: fixedToFloat64(m.CapHeight),
	}
}

func (f *ximageParsedFont) RasterFace(ppem float64) (font.Face, error) {
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    ppem,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to create raster face: %w", err)
	}
	return face, nil
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

// floatToFixed converts a float64 size to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
