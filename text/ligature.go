package text

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"

	"github.com/gogpu/textfx/internal/cache"
)

// verdictCacheSize bounds the number of remembered word verdicts.
const verdictCacheSize = 4096

// verdictKey identifies one shaped word.
type verdictKey struct {
	src  *FontSource
	size float64
	word string
}

// ligatureProbe shapes words with HarfBuzz and reports clusters where the
// font substituted several runes with fewer glyphs.
//
// Not safe for concurrent use; each LayoutEngine owns one.
type ligatureProbe struct {
	shaper   shaping.HarfbuzzShaper
	fonts    map[*FontSource]*font.Font
	verdicts *cache.Cache[verdictKey, error]
}

func newLigatureProbe() *ligatureProbe {
	return &ligatureProbe{
		fonts:    make(map[*FontSource]*font.Font),
		verdicts: cache.New[verdictKey, error](verdictCacheSize),
	}
}

func (p *ligatureProbe) fontFor(src *FontSource) (*font.Font, error) {
	if f, ok := p.fonts[src]; ok {
		return f, nil
	}
	face, err := font.ParseTTF(bytes.NewReader(src.Data()))
	if err != nil {
		return nil, fmt.Errorf("text: ligature probe: %w", err)
	}
	p.fonts[src] = face.Font
	return face.Font, nil
}

// check returns an UnsupportedScriptError if shaping word merges runes.
// Verdicts are remembered per font, size and word.
func (p *ligatureProbe) check(face Face, word string) error {
	key := verdictKey{src: face.Source(), size: face.Size(), word: word}
	if verdict, ok := p.verdicts.Get(key); ok {
		return verdict
	}
	verdict, err := p.shape(face, word)
	if err != nil {
		return err
	}
	p.verdicts.Set(key, verdict)
	return verdict
}

// shape returns the verdict for word, or err if the font cannot be parsed.
func (p *ligatureProbe) shape(face Face, word string) (verdict, err error) {
	f, err := p.fontFor(face.Source())
	if err != nil {
		return nil, err
	}
	runes := []rune(word)
	script := dominantScript(runes)
	out := p.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f),
		Size:      floatToFixed(face.Size()),
		Script:    script,
		Language:  language.NewLanguage("en"),
	})
	for _, g := range out.Glyphs {
		if g.RuneCount > g.GlyphCount {
			return &UnsupportedScriptError{
				Script:   Script(script),
				Rune:     runes[g.ClusterIndex],
				Ligature: true,
				Word:     word,
			}, nil
		}
	}
	return nil, nil
}
