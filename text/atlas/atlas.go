package atlas

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textfx/internal/logging"
	"github.com/gogpu/textfx/text"
)

// Atlas rasterizes glyphs of one face into pages on demand.
type Atlas struct {
	config  Config
	face    text.Face
	metrics text.Metrics

	mu     sync.RWMutex
	raster font.Face
	glyphs map[rune]*text.Glyph
	pages  []*Page
	closed bool

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an atlas for face.
func New(face text.Face, opts ...Option) (*Atlas, error) {
	if face == nil {
		return nil, ErrNilFace
	}
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ppem := face.Size() * float64(config.Oversample)
	raster, err := face.Source().Parsed().RasterFace(ppem)
	if err != nil {
		return nil, fmt.Errorf("atlas: %w", err)
	}

	return &Atlas{
		config:  config,
		face:    face,
		metrics: face.Metrics(),
		raster:  raster,
		glyphs:  make(map[rune]*text.Glyph),
		pages:   make([]*Page, 0, config.MaxPages),
	}, nil
}

// Glyph returns the record for r, rasterizing it on first use.
// Runes missing from the font get the font's fallback glyph under their
// own codepoint.
func (a *Atlas) Glyph(r rune) (*text.Glyph, error) {
	a.mu.RLock()
	if g, ok := a.glyphs[r]; ok {
		a.mu.RUnlock()
		a.hits.Add(1)
		return g, nil
	}
	closed := a.closed
	a.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	a.misses.Add(1)

	a.mu.Lock()
	defer a.mu.Unlock()

	if g, ok := a.glyphs[r]; ok {
		return g, nil
	}
	if a.closed {
		return nil, ErrClosed
	}

	g, err := a.rasterize(r)
	if err != nil {
		return nil, err
	}
	a.glyphs[r] = g
	return g, nil
}

// Glyphs returns the records for every rune of s, in order.
func (a *Atlas) Glyphs(s string) ([]*text.Glyph, error) {
	out := make([]*text.Glyph, 0, len(s))
	for _, r := range s {
		g, err := a.Glyph(r)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// rasterize draws r into a page. Caller holds a.mu.
func (a *Atlas) rasterize(r rune) (*text.Glyph, error) {
	bounds, advance, _ := a.raster.GlyphBounds(r)

	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()

	g := &text.Glyph{
		Codepoint:    r,
		AdvanceWidth: fixedToFloat64(advance),
		// Horizontal layout only: the vertical advance is one line.
		AdvanceHeight: a.metrics.LineHeight() * float64(a.config.Oversample),
	}
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return g, nil
	}

	page, x, y, err := a.allocate(w, h)
	if err != nil {
		return nil, fmt.Errorf("atlas: glyph %U (%dx%d): %w", r, w, h, err)
	}

	dst := page.Image.SubImage(image.Rect(x, y, x+w, y+h)).(*image.Alpha)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: a.raster,
		Dot:  fixed.P(x-minX, y-minY),
	}
	d.DrawString(string(r))
	page.glyphs++
	page.version++

	g.TextureID = page.ID
	g.AtlasX, g.AtlasY = x, y
	g.Width, g.Height = w, h
	g.LeftBearing = float64(minX)
	g.TopBearing = float64(-minY)

	logging.Logger().Debug("atlas: glyph rasterized",
		"rune", string(r), "page", page.ID, "x", x, "y", y, "w", w, "h", h)
	return g, nil
}

// allocate returns a page with room for w×h, creating one if needed.
func (a *Atlas) allocate(w, h int) (*Page, int, int, error) {
	if len(a.pages) > 0 && !a.pages[0].alloc.fits(w, h) {
		return nil, 0, 0, ErrGlyphTooLarge
	}
	for _, p := range a.pages {
		if x, y, ok := p.alloc.allocate(w, h); ok {
			return p, x, y, nil
		}
	}
	if len(a.pages) >= a.config.MaxPages {
		return nil, 0, 0, ErrAtlasFull
	}
	p := newPage(len(a.pages), a.config.PageSize, a.config.Padding)
	x, y, ok := p.alloc.allocate(w, h)
	if !ok {
		return nil, 0, 0, ErrGlyphTooLarge
	}
	a.pages = append(a.pages, p)
	logging.Logger().Debug("atlas: page created", "page", p.ID, "size", a.config.PageSize)
	return p, x, y, nil
}

// Metrics returns the face metrics in layout units.
func (a *Atlas) Metrics() text.Metrics {
	return a.metrics
}

// Scale converts atlas pixels to layout units.
func (a *Atlas) Scale() float64 {
	return 1 / float64(a.config.Oversample)
}

// PageSize returns the side length of every page in pixels.
func (a *Atlas) PageSize() int {
	return a.config.PageSize
}

// Pages returns a snapshot of the allocated pages.
func (a *Atlas) Pages() []*Page {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*Page, len(a.pages))
	copy(out, a.pages)
	return out
}

// Page returns the page with the given TextureID.
func (a *Atlas) Page(id int) (*Page, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if id < 0 || id >= len(a.pages) {
		return nil, false
	}
	return a.pages[id], true
}

// Len returns the number of distinct codepoints rasterized.
func (a *Atlas) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.glyphs)
}

// Stats returns cache hits and misses of Glyph.
func (a *Atlas) Stats() (hits, misses uint64) {
	return a.hits.Load(), a.misses.Load()
}

// Face returns the face the atlas rasterizes.
func (a *Atlas) Face() text.Face {
	return a.face
}

// Close releases the raster face. Existing records stay valid.
func (a *Atlas) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.raster.Close()
}

func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

var _ text.GlyphProvider = (*Atlas)(nil)

