package text

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/textfx/internal/logging"
)

// Alignment specifies horizontal alignment of lines within the layout width.
type Alignment int

const (
	// AlignLeft aligns text to the left edge (default).
	AlignLeft Alignment = iota
	// AlignCenter centers text horizontally.
	AlignCenter
	// AlignRight aligns text to the right edge.
	AlignRight
)

// String returns the string representation of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignCenter:
		return "Center"
	case AlignRight:
		return "Right"
	default:
		return unknownStr
	}
}

// ParseAlignment parses "left", "center" or "right", case-insensitively.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, &UnknownIdentifierError{Kind: "alignment", Value: s}
}

// LayoutOptions configures line breaking.
type LayoutOptions struct {
	// MaxWidth is the wrap width in layout units. 0 disables wrapping.
	MaxWidth float64

	// MaxHeight limits the laid out height. Once a line break moves the pen
	// further than MaxHeight down, the remaining tokens are dropped.
	// 0 means unlimited.
	MaxHeight float64

	// LineSpacing multiplies the font line height. 0 means 1.
	LineSpacing float64

	// Alignment shifts each line after wrapping.
	Alignment Alignment

	// LigatureFace, when set, shapes each word with HarfBuzz and rejects
	// words the font renders with ligatures.
	LigatureFace Face
}

// DefaultLayoutOptions returns options with no wrapping and natural spacing.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{LineSpacing: 1.0}
}

func (o LayoutOptions) lineHeight(m Metrics) float64 {
	spacing := o.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	return m.LineHeight() * spacing
}

// Layout is the result of one layout pass.
type Layout struct {
	// Lines partition the glyph sequence into visual rows.
	Lines []Range

	// Words partition the glyph sequence. Whitespace before a word belongs
	// to that word; trailing whitespace belongs to the last word.
	Words []Range

	// LineWidths holds each line's advance up to its last word.
	LineWidths []float64

	// Positions holds the pen position of each glyph. The first baseline
	// is y = 0 and later lines have negative y.
	Positions []Point

	GlyphCount int

	// LineHeight is the baseline distance used for this pass.
	LineHeight float64

	// Dropped counts tokens that did not fit within MaxHeight.
	Dropped int

	placedTokens int
}

// LineOf returns the line containing glyph i, or -1.
func (l *Layout) LineOf(i int) int {
	return searchRanges(l.Lines, i)
}

// WordOf returns the word containing glyph i, or -1.
func (l *Layout) WordOf(i int) int {
	return searchRanges(l.Words, i)
}

// Width returns the widest line.
func (l *Layout) Width() float64 {
	w := 0.0
	for _, lw := range l.LineWidths {
		w = max(w, lw)
	}
	return w
}

func searchRanges(rs []Range, i int) int {
	k := sort.Search(len(rs), func(k int) bool { return rs[k].End > i })
	if k < len(rs) && rs[k].Contains(i) {
		return k
	}
	return -1
}

// LayoutEngine tokenizes text, wraps it and emits glyph quads into a sink.
// It keeps the tokens of its last pass so Reflow can re-wrap without
// touching the glyph provider.
//
// LayoutEngine is not safe for concurrent use.
type LayoutEngine struct {
	ligatures *ligatureProbe

	tokens  []Token
	metrics Metrics
	last    *Layout
}

// NewLayoutEngine returns an empty engine.
func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{}
}

// Layout runs a full pass over s. The sink must be empty; glyphs are
// appended at the origin and moved into place.
//
// Unsupported scripts fail before anything is emitted.
func (e *LayoutEngine) Layout(s string, opts LayoutOptions, p GlyphProvider, sink GlyphSink) (*Layout, error) {
	if p == nil {
		return nil, ErrNilGlyphProvider
	}
	if sink == nil {
		return nil, ErrNilGlyphSink
	}

	tokens := Tokenize(Normalize(s))
	if err := e.checkTokens(tokens, opts); err != nil {
		return nil, err
	}
	if err := resolveTokens(tokens, p); err != nil {
		return nil, err
	}

	metrics := p.Metrics()
	l := place(tokens, opts, opts.lineHeight(metrics))
	emit(tokens[:l.placedTokens], l, p.Scale(), sink)

	e.tokens = tokens
	e.metrics = metrics
	e.last = l

	log := logging.Logger()
	log.Debug("text: layout", "glyphs", l.GlyphCount, "lines", len(l.Lines), "words", len(l.Words))
	if l.Dropped > 0 {
		log.Warn("text: tokens dropped beyond max height", "dropped", l.Dropped, "maxHeight", opts.MaxHeight)
	}
	return l, nil
}

// Reflow re-wraps the tokens of the previous pass with new options. When
// the number of placed glyphs is unchanged, glyphs in sink are moved to
// their new positions and ok is true. Otherwise nothing is emitted, ok is
// false, and the caller must rebuild with Layout.
func (e *LayoutEngine) Reflow(opts LayoutOptions, sink GlyphSink) (l *Layout, ok bool, err error) {
	if e.last == nil {
		return nil, false, ErrNoPreviousLayout
	}
	tokens := make([]Token, len(e.tokens))
	copy(tokens, e.tokens)

	l = place(tokens, opts, opts.lineHeight(e.metrics))
	if l.GlyphCount != e.last.GlyphCount {
		return nil, false, nil
	}
	for i, pos := range l.Positions {
		prev := e.last.Positions[i]
		if dx, dy := pos.X-prev.X, pos.Y-prev.Y; dx != 0 || dy != 0 {
			sink.MoveGlyph(i, dx, dy)
		}
	}
	e.tokens = tokens
	e.last = l
	logging.Logger().Debug("text: reflow", "glyphs", l.GlyphCount, "lines", len(l.Lines))
	return l, true, nil
}

func (e *LayoutEngine) checkTokens(tokens []Token, opts LayoutOptions) error {
	for i := range tokens {
		tok := &tokens[i]
		if !tok.IsWord() {
			continue
		}
		if err := checkScripts(tok.Content); err != nil {
			return err
		}
		if opts.LigatureFace != nil {
			if e.ligatures == nil {
				e.ligatures = newLigatureProbe()
			}
			if err := e.ligatures.check(opts.LigatureFace, tok.Content); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveTokens fetches glyph records and advances for every token.
func resolveTokens(tokens []Token, p GlyphProvider) error {
	scale := p.Scale()
	advance := func(r rune) (*Glyph, float64, error) {
		g, err := p.Glyph(r)
		if err != nil {
			return nil, 0, fmt.Errorf("text: glyph %U: %w", r, err)
		}
		return g, g.AdvanceWidth * scale, nil
	}

	for i := range tokens {
		tok := &tokens[i]
		tok.records = tok.records[:0]
		tok.advances = tok.advances[:0]
		tok.Width = 0

		for _, r := range tok.runes {
			var (
				g   *Glyph
				adv float64
				err error
			)
			switch {
			case tok.IsNewline:
			case r == '\t':
				_, adv, err = advance(' ')
				adv *= tabStops
			default:
				g, adv, err = advance(r)
			}
			if err != nil {
				return err
			}
			tok.records = append(tok.records, g)
			tok.advances = append(tok.advances, adv)
			tok.Width += adv
		}
	}
	return nil
}

// place assigns glyph indices and pen positions to tokens.
func place(tokens []Token, opts LayoutOptions, lineHeight float64) *Layout {
	l := &Layout{LineHeight: lineHeight}

	var (
		x, y      float64
		glyph     int
		lineStart int
		lineInk   float64
		wordStart int
	)

	closeLine := func() {
		l.Lines = append(l.Lines, Range{Start: lineStart, End: glyph})
		l.LineWidths = append(l.LineWidths, lineInk)
		lineStart = glyph
	}
	// newLine reports whether placement may continue: the pen has not
	// moved past MaxHeight.
	newLine := func() bool {
		closeLine()
		x, lineInk = 0, 0
		y += lineHeight
		return opts.MaxHeight <= 0 || y <= opts.MaxHeight
	}

	l.placedTokens = len(tokens)
	for ti := range tokens {
		tok := &tokens[ti]
		tok.Glyphs = Range{}

		if tok.IsWord() && glyph > lineStart && opts.MaxWidth > 0 && x+tok.Width > opts.MaxWidth {
			if !newLine() {
				l.placedTokens = ti
				break
			}
		}

		tok.Glyphs = Range{Start: glyph, End: glyph + len(tok.advances)}
		for _, adv := range tok.advances {
			l.Positions = append(l.Positions, Point{X: x, Y: -y})
			x += adv
			glyph++
		}

		if tok.IsWord() {
			lineInk = x
			l.Words = append(l.Words, Range{Start: wordStart, End: glyph})
			wordStart = glyph
		}

		if tok.IsNewline && !newLine() {
			l.placedTokens = ti + 1
			break
		}
	}
	if glyph > lineStart {
		closeLine()
	}
	for ti := l.placedTokens; ti < len(tokens); ti++ {
		tokens[ti].Glyphs = Range{}
	}

	l.GlyphCount = glyph
	l.Dropped = len(tokens) - l.placedTokens

	switch {
	case len(l.Words) == 0 && glyph > 0:
		l.Words = append(l.Words, Range{Start: 0, End: glyph})
	case len(l.Words) > 0 && wordStart < glyph:
		l.Words[len(l.Words)-1].End = glyph
	}

	applyAlignment(l, opts)
	return l
}

// applyAlignment shifts each line's pen positions by its alignment offset.
func applyAlignment(l *Layout, opts LayoutOptions) {
	if opts.Alignment == AlignLeft {
		return
	}
	container := opts.MaxWidth
	if container <= 0 {
		container = l.Width()
	}
	for li, line := range l.Lines {
		var offset float64
		switch opts.Alignment {
		case AlignCenter:
			offset = (container - l.LineWidths[li]) / 2
		case AlignRight:
			offset = container - l.LineWidths[li]
		}
		if offset <= 0 {
			continue
		}
		for i := line.Start; i < line.End; i++ {
			l.Positions[i].X += offset
		}
	}
}

// emit appends every placed glyph to sink and moves it to its pen position.
func emit(tokens []Token, l *Layout, scale float64, sink GlyphSink) {
	for ti := range tokens {
		tok := &tokens[ti]
		for k, g := range tok.records {
			gi := tok.Glyphs.Start + k
			var idx int
			if g == nil || tok.IsWhitespace {
				idx = sink.AddWhitespace(tok.runes[k], tok.advances[k], l.LineHeight)
			} else {
				idx = sink.AddGlyph(g, scale)
			}
			pos := l.Positions[gi]
			if pos.X != 0 || pos.Y != 0 {
				sink.MoveGlyph(idx, pos.X, pos.Y)
			}
		}
	}
}
