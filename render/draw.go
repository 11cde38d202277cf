// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
)

// vertexStride is the byte stride of the interleaved vertex buffer:
//
//	position (vec2<f32>) = 8 bytes  (location 0)
//	uv       (vec2<f32>) = 8 bytes  (location 1)
//	weights  (vec4<f32>) = 16 bytes (location 2)
const vertexStride = 32

// Evaluator runs the deformer chain of a draw on the CPU. *deform.Stack
// implements it.
type Evaluator interface {
	Position(p text.Point, weights [4]float32) text.Point
	UV(uv text.Point, weights [4]float32) text.Point
	Color(c [4]float64, weights [4]float32, local text.Point) [4]float64
}

// DrawItem is one indexed triangle list with the program that shades it.
// Owners fill it from their geometry and deformer stack.
type DrawItem struct {
	Label string

	// Positions holds x, y per vertex in layout units (y up).
	Positions []float32

	// UVs holds u, v per vertex, normalized with v down.
	UVs []float32

	// Weights holds the four group indices (bounds, line, word, glyph) per
	// vertex. Nil means every vertex is in group 0.
	Weights []float32

	Indices []uint32

	Program *shader.Program

	// Uniforms holds one packed buffer per Program.Blocks entry.
	Uniforms [][]byte

	// Texture is sampled by the fragment stage. Nil samples opaque white.
	Texture image.Image

	// TextureVersion changes whenever Texture's pixels change. GPU
	// backends re-upload when it differs from the last upload.
	TextureVersion uint64

	Color [4]float64

	Translation text.Point

	// Evaluator is used by the software backend. Nil leaves vertices,
	// UVs and colors unchanged.
	Evaluator Evaluator
}

// VertexCount returns the number of vertices.
func (d *DrawItem) VertexCount() int {
	return len(d.Positions) / 2
}

// Validate checks that the arrays agree with each other and with the
// program.
func (d *DrawItem) Validate() error {
	if d.Program == nil {
		return ErrNilProgram
	}
	if len(d.Positions)%2 != 0 {
		return &DrawItemError{Field: "Positions", Want: len(d.Positions) + 1, Got: len(d.Positions)}
	}
	n := d.VertexCount()
	if len(d.UVs) != 2*n {
		return &DrawItemError{Field: "UVs", Want: 2 * n, Got: len(d.UVs)}
	}
	if d.Weights != nil && len(d.Weights) != 4*n {
		return &DrawItemError{Field: "Weights", Want: 4 * n, Got: len(d.Weights)}
	}
	if len(d.Uniforms) != len(d.Program.Blocks) {
		return &DrawItemError{Field: "Uniforms", Want: len(d.Program.Blocks), Got: len(d.Uniforms)}
	}
	for _, idx := range d.Indices {
		if int(idx) >= n {
			return &DrawItemError{Field: "Indices", Want: n, Got: int(idx) + 1}
		}
	}
	return nil
}

func (d *DrawItem) position(v int) text.Point {
	return text.Point{X: float64(d.Positions[2*v]), Y: float64(d.Positions[2*v+1])}
}

func (d *DrawItem) uv(v int) text.Point {
	return text.Point{X: float64(d.UVs[2*v]), Y: float64(d.UVs[2*v+1])}
}

func (d *DrawItem) weightsAt(v int) [4]float32 {
	var w [4]float32
	if d.Weights != nil {
		copy(w[:], d.Weights[4*v:4*v+4])
	}
	return w
}

// Globals returns the per-draw uniform for projection.
func (d *DrawItem) Globals(projection [16]float32) shader.Globals {
	return shader.Globals{
		Projection:  projection,
		Translation: shader.Translate4(float32(d.Translation.X), float32(d.Translation.Y)),
		Color: [4]float32{
			float32(d.Color[0]), float32(d.Color[1]), float32(d.Color[2]), float32(d.Color[3]),
		},
	}
}

// VertexBytes interleaves positions, UVs and weights.
func (d *DrawItem) VertexBytes() []byte {
	n := d.VertexCount()
	buf := make([]byte, n*vertexStride)
	for v := range n {
		o := v * vertexStride
		w := d.weightsAt(v)
		for k, f := range [8]float32{
			d.Positions[2*v], d.Positions[2*v+1],
			d.UVs[2*v], d.UVs[2*v+1],
			w[0], w[1], w[2], w[3],
		} {
			binary.LittleEndian.PutUint32(buf[o+4*k:], math.Float32bits(f))
		}
	}
	return buf
}

// IndexBytes returns the index buffer contents.
func (d *DrawItem) IndexBytes() []byte {
	buf := make([]byte, 4*len(d.Indices))
	for i, idx := range d.Indices {
		binary.LittleEndian.PutUint32(buf[4*i:], idx)
	}
	return buf
}
