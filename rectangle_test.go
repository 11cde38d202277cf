package textfx

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/textfx/deform"
	"github.com/gogpu/textfx/render"
	"github.com/gogpu/textfx/text"
)

func renderRect(t *testing.T, q *Rectangle, w, h int) *render.PixmapTarget {
	t.Helper()
	target := render.NewPixmapTarget(w, h)
	if err := q.Render(render.NewContext(render.NewSoftwareBackend(target), w, h)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return target
}

func TestRectangleTranslateAndOffsetGolden(t *testing.T) {
	const w, h = 100, 40

	q := NewRectangle(text.Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 10})
	q.SetColor(color.RGBA{R: 255, A: 255})
	move := deform.NewTransform(deform.Bounds)
	shift := deform.NewOffset(deform.Bounds)
	for _, d := range []deform.Deformer{move, shift} {
		if err := q.Deformers().Add(d); err != nil {
			t.Fatal(err)
		}
	}
	if err := q.Build(); err != nil {
		t.Fatal(err)
	}
	if err := move.SetTranslations([]float32{50, 0}); err != nil {
		t.Fatal(err)
	}
	if err := shift.SetOffsets([]float32{0, 10}); err != nil {
		t.Fatal(err)
	}
	got := renderRect(t, q, w, h)

	golden := NewRectangle(text.Rect{MinX: 50, MinY: 10, MaxX: 70, MaxY: 20})
	golden.SetColor(color.RGBA{R: 255, A: 255})
	want := renderRect(t, golden, w, h)

	if !bytes.Equal(got.Pixels(), want.Pixels()) {
		t.Error("deformed rectangle differs from the rectangle drawn at (50, 10)")
	}
	// Layout y = 15 is image row h-1-15.
	if c := got.GetPixel(60, h-1-15); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside pixel = %v", c)
	}
	if c := got.GetPixel(5, h-1-5); c.A != 0 {
		t.Errorf("undeformed position drawn: %v", c)
	}
}

func TestRectangleOwner(t *testing.T) {
	q := NewRectangle(text.Rect{MaxX: 4, MaxY: 2})
	if q.GeometryBuilt() {
		t.Fatal("built before Build")
	}
	if err := q.Build(); err != nil {
		t.Fatal(err)
	}
	for _, g := range deform.Granularities {
		if q.GroupCount(g) != 1 {
			t.Errorf("GroupCount(%v) = %d", g, q.GroupCount(g))
		}
		if b := q.GroupBounds(g, 0); b != q.Rect() {
			t.Errorf("GroupBounds(%v) = %v", g, b)
		}
		if w := q.Weights(g); len(w) != 4 || w[0] != 0 || w[3] != 0 {
			t.Errorf("Weights(%v) = %v", g, w)
		}
	}
	if q.TextureSize() != 1 {
		t.Errorf("TextureSize = %d", q.TextureSize())
	}

	v := q.GeometryVersion()
	if err := q.Build(); err != nil || q.GeometryVersion() != v {
		t.Error("clean Build changed the geometry")
	}
	q.SetRect(text.Rect{MaxX: 8, MaxY: 2})
	if err := q.Build(); err != nil || q.GeometryVersion() == v {
		t.Error("SetRect did not rebuild")
	}
	if got := q.Vertices()[0]; got != 8 {
		t.Errorf("top-right x = %v", got)
	}
}

func TestRectangleTextureAndPixelate(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			tex.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 60), A: 255})
		}
	}
	q := NewRectangle(text.Rect{MaxX: 16, MaxY: 16})
	q.SetTexture(tex)
	if q.TextureSize() != 4 {
		t.Fatalf("TextureSize = %d", q.TextureSize())
	}
	plain := renderRect(t, q, 16, 16)
	if a, b := plain.GetPixel(1, 1), plain.GetPixel(14, 1); a == b {
		t.Errorf("texture not sampled: %v == %v", a, b)
	}

	px := deform.NewPixelate(deform.Bounds)
	if err := q.Deformers().Add(px); err != nil {
		t.Fatal(err)
	}
	if err := q.Build(); err != nil {
		t.Fatal(err)
	}
	if err := px.SetSizes([]float32{4}); err != nil {
		t.Fatal(err)
	}
	blocky := renderRect(t, q, 16, 16)
	first := blocky.GetPixel(0, 0)
	for y := range 16 {
		for x := range 16 {
			if c := blocky.GetPixel(x, y); c != first {
				t.Fatalf("pixel (%d, %d) = %v, want one block %v", x, y, c, first)
			}
		}
	}
}
