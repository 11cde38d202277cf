package atlas

import "image"

// Page is one square alpha texture of the atlas.
type Page struct {
	// ID is the page's index, stored in text.Glyph.TextureID.
	ID int

	// Image holds glyph coverage. Rows grow downward.
	Image *image.Alpha

	alloc   *shelfAllocator
	glyphs  int
	version uint64
}

func newPage(id, size, padding int) *Page {
	return &Page{
		ID:    id,
		Image: image.NewAlpha(image.Rect(0, 0, size, size)),
		alloc: newShelfAllocator(size, size, padding),
	}
}

// Size returns the page width (equal to its height).
func (p *Page) Size() int {
	return p.Image.Rect.Dx()
}

// Version increases every time a glyph is drawn into the page. Uploaders
// compare it against the version they last copied.
func (p *Page) Version() uint64 {
	return p.version
}

// GlyphCount returns the number of bitmaps packed into the page.
func (p *Page) GlyphCount() int {
	return p.glyphs
}

// Utilization returns the fraction of the page covered by glyphs.
func (p *Page) Utilization() float64 {
	return p.alloc.utilization()
}

// RGBA expands the coverage into tightly packed RGBA8 texels: white with
// the coverage in alpha.
func (p *Page) RGBA() []byte {
	size := p.Size()
	out := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		row := p.Image.Pix[y*p.Image.Stride : y*p.Image.Stride+size]
		for x, a := range row {
			o := (y*size + x) * 4
			out[o+0] = 0xff
			out[o+1] = 0xff
			out[o+2] = 0xff
			out[o+3] = a
		}
	}
	return out
}
