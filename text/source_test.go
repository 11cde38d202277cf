package text

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestNewFontSource(t *testing.T) {
	source, err := NewFontSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewFontSource failed: %v", err)
	}
	defer func() {
		_ = source.Close()
	}()

	if source.Name() == "" {
		t.Error("expected non-empty font name")
	}
	if source.Parsed().NumGlyphs() == 0 {
		t.Error("expected glyphs in parsed font")
	}
	if len(source.Data()) != len(goregular.TTF) {
		t.Errorf("Data() length = %d, want %d", len(source.Data()), len(goregular.TTF))
	}
}

func TestNewFontSource_Errors(t *testing.T) {
	if _, err := NewFontSource(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("nil data err = %v, want ErrEmptyFontData", err)
	}
	if _, err := NewFontSource([]byte("not a font")); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestNewFontSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	source, err := NewFontSourceFromFile(path)
	if err != nil {
		t.Fatalf("NewFontSourceFromFile: %v", err)
	}
	_ = source.Close()

	if _, err := NewFontSourceFromFile(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFontSource_CopyPanics(t *testing.T) {
	source, err := NewFontSource(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic when using a copied FontSource")
		}
	}()
	copied := &FontSource{addr: source.addr}
	_ = copied.Name()
}

func TestFace(t *testing.T) {
	face := layoutTestFace(t)

	if face.Size() != 16 {
		t.Errorf("Size() = %v, want 16", face.Size())
	}
	m := face.Metrics()
	if m.Ascent <= 0 || m.Descent <= 0 {
		t.Errorf("Metrics() = %+v, want positive ascent and descent", m)
	}
	if m.LineHeight() < m.Ascent+m.Descent {
		t.Errorf("LineHeight() = %v < ascent+descent", m.LineHeight())
	}

	a, b := face.GlyphAdvance('a'), face.GlyphAdvance('b')
	if a <= 0 {
		t.Errorf("GlyphAdvance('a') = %v", a)
	}
	if got := face.Advance("ab"); got != a+b {
		t.Errorf("Advance(ab) = %v, want %v", got, a+b)
	}
	if !face.HasGlyph('a') {
		t.Error("HasGlyph('a') = false")
	}
	if face.HasGlyph('\U0001F600') {
		t.Error("Go Regular should not contain emoji")
	}
}

func TestMetricsScale(t *testing.T) {
	m := Metrics{Ascent: 10, Descent: 4, LineGap: 2}.Scale(0.5)
	if m.LineHeight() != 8 {
		t.Errorf("scaled LineHeight = %v, want 8", m.LineHeight())
	}
}

func TestRasterFace(t *testing.T) {
	face := layoutTestFace(t)
	rf, err := face.Source().Parsed().RasterFace(32)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	if _, adv, ok := rf.GlyphBounds('H'); !ok || adv <= 0 {
		t.Errorf("GlyphBounds('H') ok=%v adv=%v", ok, adv)
	}

	// Unhinted advances keep their fractional part instead of snapping to
	// whole pixels.
	parsed := face.Source().Parsed()
	for _, r := range "Hamburgefonts" {
		_, adv, _ := rf.GlyphBounds(r)
		want := parsed.GlyphAdvance(parsed.GlyphIndex(r), 32)
		if got := fixedToFloat64(adv); math.Abs(got-want) > 1.0/32 {
			t.Errorf("advance(%q) = %v, want unhinted %v", r, got, want)
		}
	}
}
