// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/textfx/text"
)

// SoftwareBackend is a CPU backend rasterizing draw items into a
// PixmapTarget.
//
// It does not run the synthesized programs. Instead it evaluates the draw
// item's Evaluator with each deformer's CPU semantics: vertex positions
// per vertex, UVs and colors per pixel. Edge coverage comes from the
// x/image/vector rasterizer; attributes are interpolated barycentrically
// at pixel centers and weights are flat (first vertex of the triangle).
// Texture sampling is nearest with clamp-to-edge.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	backend := render.NewSoftwareBackend(target)
//	ctx := render.NewContext(backend, 800, 600)
//	_ = scene.Render(ctx)
//	img := target.Image()
type SoftwareBackend struct {
	target *PixmapTarget
	raster *vector.Rasterizer
	mask   *image.Alpha
}

// NewSoftwareBackend creates a CPU backend drawing into target.
func NewSoftwareBackend(target *PixmapTarget) *SoftwareBackend {
	return &SoftwareBackend{
		target: target,
		raster: vector.NewRasterizer(0, 0),
	}
}

// Target returns the pixmap the backend draws into.
func (b *SoftwareBackend) Target() *PixmapTarget {
	return b.target
}

// Capabilities returns the backend's capabilities.
func (b *SoftwareBackend) Capabilities() BackendCapabilities {
	return BackendCapabilities{
		SupportsAntialiasing: true,
	}
}

// swVertex is a vertex after the CPU vertex stage.
type swVertex struct {
	screen  text.Point
	local   text.Point
	uv      text.Point
	weights [4]float32
}

// Draw rasterizes item.
func (b *SoftwareBackend) Draw(projection [16]float32, item *DrawItem) error {
	if b.target == nil {
		return ErrNilTarget
	}
	if err := item.Validate(); err != nil {
		return err
	}

	w, h := float64(b.target.Width()), float64(b.target.Height())
	verts := make([]swVertex, item.VertexCount())
	for v := range verts {
		local := item.position(v)
		wt := item.weightsAt(v)
		p := local
		if item.Evaluator != nil {
			p = item.Evaluator.Position(p, wt)
		}
		p.X += item.Translation.X
		p.Y += item.Translation.Y
		verts[v] = swVertex{
			screen:  toScreen(projection, p, w, h),
			local:   local,
			uv:      item.uv(v),
			weights: wt,
		}
	}

	tex := newTexSampler(item.Texture)
	idx := item.Indices
	for t := 0; t+2 < len(idx); t += 3 {
		tris := [][3]uint32{{idx[t], idx[t+1], idx[t+2]}}
		// Quads arrive as (a, b, c) (c, d, a); fill them as one polygon
		// so the shared diagonal gets no seam.
		if t+5 < len(idx) && idx[t+3] == idx[t+2] && idx[t+5] == idx[t] {
			tris = append(tris, [3]uint32{idx[t+3], idx[t+4], idx[t+5]})
			t += 3
		}
		b.fill(verts, tris, item, tex)
	}
	return nil
}

// toScreen maps p through the column-major projection and the viewport.
// Screen rows grow downward.
func toScreen(m [16]float32, p text.Point, w, h float64) text.Point {
	cx := float64(m[0])*p.X + float64(m[4])*p.Y + float64(m[12])
	cy := float64(m[1])*p.X + float64(m[5])*p.Y + float64(m[13])
	cw := float64(m[3])*p.X + float64(m[7])*p.Y + float64(m[15])
	if cw == 0 {
		cw = 1
	}
	return text.Point{
		X: (cx/cw + 1) / 2 * w,
		Y: (1 - cy/cw) / 2 * h,
	}
}

func polygon(verts []swVertex, tris [][3]uint32) []text.Point {
	t := tris[0]
	poly := []text.Point{verts[t[0]].screen, verts[t[1]].screen, verts[t[2]].screen}
	if len(tris) > 1 {
		poly = append(poly, verts[tris[1][1]].screen)
	}
	return poly
}

func (b *SoftwareBackend) fill(verts []swVertex, tris [][3]uint32, item *DrawItem, tex texSampler) {
	poly := polygon(verts, tris)
	r := text.EmptyRect()
	for _, p := range poly {
		r = r.Extend(p)
	}
	area := image.Rect(
		int(math.Floor(r.MinX)), int(math.Floor(r.MinY)),
		int(math.Ceil(r.MaxX)), int(math.Ceil(r.MaxY)),
	).Intersect(b.target.img.Bounds())
	if area.Empty() {
		return
	}

	b.raster.Reset(area.Dx(), area.Dy())
	b.raster.DrawOp = draw.Src
	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	for i, p := range poly {
		x, y := float32(p.X-ox), float32(p.Y-oy)
		if i == 0 {
			b.raster.MoveTo(x, y)
		} else {
			b.raster.LineTo(x, y)
		}
	}
	b.raster.ClosePath()
	mask := b.maskFor(area.Dx(), area.Dy())
	b.raster.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	dst := b.target.img
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			cov := mask.Pix[(y-area.Min.Y)*mask.Stride+(x-area.Min.X)]
			if cov == 0 {
				continue
			}
			center := text.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			tri, bc := barycentric(verts, tris, center)
			v0, v1, v2 := &verts[tri[0]], &verts[tri[1]], &verts[tri[2]]

			uv := interpolate(v0.uv, v1.uv, v2.uv, bc)
			c := item.Color
			if ev := item.Evaluator; ev != nil {
				local := interpolate(v0.local, v1.local, v2.local, bc)
				uv = ev.UV(uv, v0.weights)
				c = ev.Color(c, v0.weights, local)
			}
			s := tex.at(uv)
			out := [4]float64{s[0] * c[0], s[1] * c[1], s[2] * c[2], s[3] * c[3]}
			alpha := clamp01(out[3]) * float64(cov) / 255
			if alpha <= 0 {
				continue
			}
			blendOver(dst, x, y, out, alpha)
		}
	}
}

func (b *SoftwareBackend) maskFor(w, h int) *image.Alpha {
	if b.mask == nil || cap(b.mask.Pix) < w*h {
		b.mask = image.NewAlpha(image.Rect(0, 0, w, h))
		return b.mask
	}
	b.mask = &image.Alpha{Pix: b.mask.Pix[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}
	return b.mask
}

// barycentric returns the triangle containing p and p's coordinates in it.
// Points on partially covered edge pixels may lie slightly outside every
// triangle; they snap to the closest one.
func barycentric(verts []swVertex, tris [][3]uint32, p text.Point) ([3]uint32, [3]float64) {
	best := tris[0]
	bestBC := [3]float64{1, 0, 0}
	bestMin := math.Inf(-1)
	for _, t := range tris {
		a, b, c := verts[t[0]].screen, verts[t[1]].screen, verts[t[2]].screen
		den := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
		if den == 0 {
			continue
		}
		l0 := ((b.Y-c.Y)*(p.X-c.X) + (c.X-b.X)*(p.Y-c.Y)) / den
		l1 := ((c.Y-a.Y)*(p.X-c.X) + (a.X-c.X)*(p.Y-c.Y)) / den
		l2 := 1 - l0 - l1
		if m := min(l0, l1, l2); m > bestMin {
			best, bestBC, bestMin = t, [3]float64{l0, l1, l2}, m
		}
	}
	if bestMin < 0 {
		sum := 0.0
		for i := range bestBC {
			bestBC[i] = max(bestBC[i], 0)
			sum += bestBC[i]
		}
		if sum > 0 {
			for i := range bestBC {
				bestBC[i] /= sum
			}
		}
	}
	return best, bestBC
}

func interpolate(a, b, c text.Point, bc [3]float64) text.Point {
	return text.Point{
		X: a.X*bc[0] + b.X*bc[1] + c.X*bc[2],
		Y: a.Y*bc[0] + b.Y*bc[1] + c.Y*bc[2],
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// blendOver composites a straight-alpha color over the premultiplied
// destination pixel.
func blendOver(dst *image.RGBA, x, y int, c [4]float64, alpha float64) {
	o := dst.PixOffset(x, y)
	px := dst.Pix[o : o+4 : o+4]
	inv := 1 - alpha
	for i := range 3 {
		d := float64(px[i]) / 255
		px[i] = to8(clamp01(c[i])*alpha + d*inv)
	}
	px[3] = to8(alpha + float64(px[3])/255*inv)
}

func to8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// texSampler fetches texels with nearest filtering and clamp-to-edge
// addressing. A nil image samples opaque white.
type texSampler struct {
	img    image.Image
	alpha  *image.Alpha
	bounds image.Rectangle
}

func newTexSampler(img image.Image) texSampler {
	if img == nil {
		return texSampler{}
	}
	s := texSampler{img: img, bounds: img.Bounds()}
	s.alpha, _ = img.(*image.Alpha)
	return s
}

func (s texSampler) at(uv text.Point) [4]float64 {
	if s.img == nil || s.bounds.Empty() {
		return [4]float64{1, 1, 1, 1}
	}
	w, h := s.bounds.Dx(), s.bounds.Dy()
	x := s.bounds.Min.X + min(max(int(math.Floor(uv.X*float64(w))), 0), w-1)
	y := s.bounds.Min.Y + min(max(int(math.Floor(uv.Y*float64(h))), 0), h-1)
	if s.alpha != nil {
		return [4]float64{1, 1, 1, float64(s.alpha.AlphaAt(x, y).A) / 255}
	}
	c := color.NRGBAModel.Convert(s.img.At(x, y)).(color.NRGBA)
	return [4]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}

var _ Backend = (*SoftwareBackend)(nil)
