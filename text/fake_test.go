package text

// fixedProvider returns glyphs with a constant advance for every rune.
type fixedProvider struct {
	advance float64
	metrics Metrics
	scale   float64
	calls   map[rune]int
}

func newFixedProvider(advance float64) *fixedProvider {
	return &fixedProvider{
		advance: advance,
		metrics: Metrics{Ascent: 8, Descent: 2},
		scale:   1,
		calls:   make(map[rune]int),
	}
}

func (p *fixedProvider) Glyph(r rune) (*Glyph, error) {
	p.calls[r]++
	g := &Glyph{Codepoint: r, AdvanceWidth: p.advance}
	if r != ' ' {
		g.Width, g.Height = 6, 8
		g.TopBearing = 8
	}
	return g, nil
}

func (p *fixedProvider) Metrics() Metrics { return p.metrics }
func (p *fixedProvider) Scale() float64   { return p.scale }

type sinkGlyph struct {
	r          rune
	whitespace bool
	x, y       float64
}

// recordingSink stores glyph positions as the layout engine emits them.
type recordingSink struct {
	glyphs []sinkGlyph
}

func (s *recordingSink) AddGlyph(g *Glyph, _ float64) int {
	s.glyphs = append(s.glyphs, sinkGlyph{r: g.Codepoint})
	return len(s.glyphs) - 1
}

func (s *recordingSink) AddWhitespace(r rune, _, _ float64) int {
	s.glyphs = append(s.glyphs, sinkGlyph{r: r, whitespace: true})
	return len(s.glyphs) - 1
}

func (s *recordingSink) MoveGlyph(i int, dx, dy float64) {
	s.glyphs[i].x += dx
	s.glyphs[i].y += dy
}
