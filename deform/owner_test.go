package deform

import "github.com/gogpu/textfx/text"

// fakeOwner is a two-line, three-word, five-glyph owner. Each glyph is a
// 10x10 square; glyphs 0-2 sit on the first line, 3-4 on the second.
type fakeOwner struct {
	built   bool
	version uint64
	glyphs  int
	texture int
}

func newFakeOwner() *fakeOwner {
	return &fakeOwner{glyphs: 5, texture: 64}
}

func (o *fakeOwner) build() {
	o.built = true
	o.version++
}

var (
	fakeLineOf = []int{0, 0, 0, 1, 1}
	fakeWordOf = []int{0, 0, 1, 2, 2}
)

func (o *fakeOwner) GeometryBuilt() bool     { return o.built }
func (o *fakeOwner) GeometryVersion() uint64 { return o.version }
func (o *fakeOwner) TextureSize() int        { return o.texture }

func (o *fakeOwner) GroupCount(g Granularity) int {
	switch g {
	case Bounds:
		return 1
	case Line:
		return 2
	case Word:
		return 3
	default:
		return o.glyphs
	}
}

func (o *fakeOwner) glyphBox(i int) text.Rect {
	x := float64(i%3) * 10
	y := -float64(i/3) * 10
	return text.Rect{MinX: x, MinY: y, MaxX: x + 10, MaxY: y + 10}
}

func (o *fakeOwner) groupOf(g Granularity, i int) int {
	switch g {
	case Bounds:
		return 0
	case Line:
		return fakeLineOf[i]
	case Word:
		return fakeWordOf[i]
	default:
		return i
	}
}

func (o *fakeOwner) GroupBounds(g Granularity, group int) text.Rect {
	r := text.EmptyRect()
	for i := 0; i < o.glyphs; i++ {
		if o.groupOf(g, i) == group {
			r = r.Union(o.glyphBox(i))
		}
	}
	return r
}

func (o *fakeOwner) Weights(g Granularity) []float32 {
	out := make([]float32, 0, o.glyphs*4)
	for i := 0; i < o.glyphs; i++ {
		w := float32(o.groupOf(g, i))
		out = append(out, w, w, w, w)
	}
	return out
}
