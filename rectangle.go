package textfx

import (
	"image"

	"github.com/gogpu/textfx/deform"
	"github.com/gogpu/textfx/geometry"
	"github.com/gogpu/textfx/render"
	"github.com/gogpu/textfx/text"
)

// fullUV samples the whole texture.
var fullUV = text.Rect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}

// Rectangle is a single textured quad with a deformer stack. Every
// granularity has exactly one group covering the whole rectangle.
type Rectangle struct {
	mesh

	rect    text.Rect
	texture image.Image
	texVer  uint64
	dirty   bool
}

// NewRectangle returns an untextured rectangle covering r, in layout
// units with y up.
func NewRectangle(r text.Rect) *Rectangle {
	q := &Rectangle{rect: r, dirty: true}
	q.label = "rectangle"
	q.builder = geometry.NewBuilder(1, text.Metrics{})
	q.color = [4]float64{1, 1, 1, 1}
	q.stack = deform.NewStack(q)
	return q
}

// Rect returns the undeformed rectangle.
func (q *Rectangle) Rect() text.Rect { return q.rect }

// SetRect moves or resizes the rectangle on the next Build.
func (q *Rectangle) SetRect(r text.Rect) {
	if r == q.rect {
		return
	}
	q.rect = r
	q.dirty = true
}

// Texture returns the sampled image, nil for a solid rectangle.
func (q *Rectangle) Texture() image.Image { return q.texture }

// SetTexture sets the sampled image. Calling it again with the same image
// after modifying its pixels schedules a re-upload.
func (q *Rectangle) SetTexture(img image.Image) {
	q.texture = img
	q.texVer++
}

// Build rebuilds the quad if it changed and updates the deformer stack.
func (q *Rectangle) Build() error {
	if q.dirty || !q.built {
		q.builder.Reset()
		q.builder.AddRect(q.rect, fullUV, 0)
		q.dirty = false
		q.commit()
	}
	return q.stack.Update()
}

// Render builds the rectangle if needed and draws it.
func (q *Rectangle) Render(ctx *render.Context) error {
	if err := q.Build(); err != nil {
		return err
	}
	return q.draw(ctx, func(int) (image.Image, uint64) {
		return q.texture, q.texVer
	})
}

// GroupCount implements deform.Owner.
func (q *Rectangle) GroupCount(deform.Granularity) int { return 1 }

// GroupBounds implements deform.Owner.
func (q *Rectangle) GroupBounds(deform.Granularity, int) text.Rect { return q.rect }

// Weights implements deform.Owner.
func (q *Rectangle) Weights(deform.Granularity) []float32 {
	return q.builder.Weights(func(int) int { return 0 })
}

// TextureSize implements deform.Owner.
func (q *Rectangle) TextureSize() int {
	if q.texture == nil {
		return 1
	}
	return max(q.texture.Bounds().Dx(), 1)
}

var (
	_ deform.Owner      = (*Rectangle)(nil)
	_ render.Renderable = (*Rectangle)(nil)
)
