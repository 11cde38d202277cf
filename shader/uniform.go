package shader

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// vec4Size is the byte size and array stride of one uniform entry.
const vec4Size = 16

// UniformField is one array member of a deformer's uniform struct. Every
// entry is stored as a vec4<f32> so the array stride is 16 bytes in the
// uniform address space; only the first Components floats are meaningful.
type UniformField struct {
	Name       string
	Components int
	Count      int
}

// WGSL returns the struct member declaration.
func (f UniformField) WGSL() string {
	return fmt.Sprintf("%s: array<vec4<f32>, %d>", f.Name, f.count())
}

// Floats returns the number of meaningful floats, Count*Components.
func (f UniformField) Floats() int {
	return f.count() * f.Components
}

func (f UniformField) count() int {
	if f.Count < 1 {
		return 1
	}
	return f.Count
}

// UniformBlock is a deformer's uniform buffer, bound at @group(1).
type UniformBlock struct {
	Slot    int
	Binding int
	Fields  []UniformField
}

// StructName returns the WGSL struct type name, e.g. "Deformer2".
func (b *UniformBlock) StructName() string {
	return fmt.Sprintf("Deformer%d", b.Slot)
}

// VarName returns the WGSL variable name, e.g. "deformer2".
func (b *UniformBlock) VarName() string {
	return fmt.Sprintf("deformer%d", b.Slot)
}

// Field returns the field called name.
func (b *UniformBlock) Field(name string) (UniformField, bool) {
	for _, f := range b.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return UniformField{}, false
}

// Size returns the buffer size in bytes.
func (b *UniformBlock) Size() int {
	n := 0
	for _, f := range b.Fields {
		n += f.count() * vec4Size
	}
	return n
}

// WGSL returns the struct declaration and its binding.
func (b *UniformBlock) WGSL() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "struct %s {\n", b.StructName())
	for _, f := range b.Fields {
		fmt.Fprintf(&sb, "    %s,\n", f.WGSL())
	}
	sb.WriteString("}\n\n")
	fmt.Fprintf(&sb, "@group(%d) @binding(%d) var<uniform> %s: %s;\n",
		DeformerGroup, b.Binding, b.VarName(), b.StructName())
	return sb.String()
}

// Pack lays values out in buffer order. values must hold exactly
// Floats() entries for every field.
func (b *UniformBlock) Pack(values map[string][]float32) ([]byte, error) {
	buf := make([]byte, b.Size())
	off := 0
	for _, f := range b.Fields {
		v := values[f.Name]
		if len(v) != f.Floats() {
			return nil, &PackError{Block: b.StructName(), Field: f.Name, Want: f.Floats(), Got: len(v)}
		}
		for i := 0; i < f.count(); i++ {
			for c := 0; c < f.Components && c < 4; c++ {
				binary.LittleEndian.PutUint32(buf[off+c*4:], math.Float32bits(v[i*f.Components+c]))
			}
			off += vec4Size
		}
	}
	return buf, nil
}

// Globals is the per-draw uniform shared by both stages at @group(0)
// @binding(0).
type Globals struct {
	Projection  [16]float32
	Translation [16]float32
	Color       [4]float32
}

// GlobalsSize is the byte size of Globals.
const GlobalsSize = 144

// Identity4 is the 4x4 identity matrix in column-major order.
var Identity4 = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Bytes returns the uniform buffer contents.
func (g *Globals) Bytes() []byte {
	buf := make([]byte, GlobalsSize)
	off := 0
	put := func(vs []float32) {
		for _, v := range vs {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
			off += 4
		}
	}
	put(g.Projection[:])
	put(g.Translation[:])
	put(g.Color[:])
	return buf
}

// Ortho returns a column-major orthographic projection mapping x in
// [left, right] and y in [bottom, top] to clip space.
func Ortho(left, right, bottom, top float32) [16]float32 {
	w := right - left
	h := top - bottom
	return [16]float32{
		2 / w, 0, 0, 0,
		0, 2 / h, 0, 0,
		0, 0, 1, 0,
		-(right + left) / w, -(top + bottom) / h, 0, 1,
	}
}

// Translate4 returns a column-major translation matrix.
func Translate4(x, y float32) [16]float32 {
	m := Identity4
	m[12] = x
	m[13] = y
	return m
}
