package shader

import (
	"fmt"
	"strings"
)

// Bind group indices used by synthesized programs.
const (
	// GlobalsGroup holds Globals at binding 0, the base texture at
	// binding 1 and its sampler at binding 2.
	GlobalsGroup = 0
	// DeformerGroup holds one uniform block per deformer, numbered in
	// stack order starting at binding 0.
	DeformerGroup = 1
)

// Vertex attribute locations.
const (
	PositionLocation = 0
	UVLocation       = 1
	WeightsLocation  = 2
)

// firstVaryingLocation is the first output location free for deformer
// varyings; 0 and 1 carry uv and weights.
const firstVaryingLocation = 2

const globalsWGSL = `struct Globals {
    projection: mat4x4<f32>,
    translation: mat4x4<f32>,
    color: vec4<f32>,
}

@group(0) @binding(0) var<uniform> globals: Globals;
`

const textureWGSL = `@group(0) @binding(1) var base_texture: texture_2d<f32>;
@group(0) @binding(2) var base_sampler: sampler;
`

// UsesWeights reports whether any unit reads the weights attribute.
func UsesWeights(units []Unit) bool {
	for i := range units {
		if units[i].Weighted {
			return true
		}
	}
	return false
}

// Blocks returns copies of the units' uniform blocks with bindings
// assigned in slot order.
func Blocks(units []Unit) []UniformBlock {
	var out []UniformBlock
	for i := range units {
		if units[i].Uniform == nil {
			continue
		}
		b := *units[i].Uniform
		b.Slot = units[i].Slot
		b.Binding = len(out)
		out = append(out, b)
	}
	return out
}

// SynthesizeVertex builds the vertex program for units, which must be in
// stack order. A nil or empty slice yields the pass-through program.
func SynthesizeVertex(units []Unit) string {
	weights := UsesWeights(units)
	blocks := blockIndex(units)

	var sb strings.Builder
	sb.WriteString(globalsWGSL)
	sb.WriteString("\n")
	writeVertexInput(&sb, weights)
	sb.WriteString("\n")
	writeVertexOutput(&sb, units, weights)
	writeDeclarations(&sb, units, blocks, StageVertex)

	sb.WriteString("\n@vertex\nfn vs_main(in: VertexInput) -> VertexOutput {\n")
	sb.WriteString("    var out: VertexOutput;\n")
	sb.WriteString("    let position_0 = vec3<f32>(in.position, 1.0);\n")
	k := 0
	for i := range units {
		u := &units[i]
		if u.Caps.Has(CapMatrix) {
			fmt.Fprintf(&sb, "    let position_%d = %s(%s) * position_%d;\n",
				k+1, MatrixFunc(u.Slot), weightsArg(u, "in"), k)
			k++
		}
		if u.Caps.Has(CapVertex) {
			fmt.Fprintf(&sb, "    let position_%d = %s(%s);\n",
				k+1, VertexPositionFunc(u.Slot), joinArgs(fmt.Sprintf("position_%d", k), weightsArg(u, "in")))
			k++
		}
	}
	fmt.Fprintf(&sb, "    out.clip_position = globals.projection * globals.translation * vec4<f32>(position_%d.xy, 0.0, 1.0);\n", k)
	sb.WriteString("    out.uv = in.uv;\n")
	if weights {
		sb.WriteString("    out.weights = in.weights;\n")
	}
	for i := range units {
		for _, src := range units[i].fragments(StageVertex, KindMain) {
			writeIndented(&sb, src)
		}
	}
	sb.WriteString("    return out;\n}\n")
	return sb.String()
}

// SynthesizeFragment builds the fragment program for units, which must be
// in stack order. A nil or empty slice yields the pass-through program.
func SynthesizeFragment(units []Unit) string {
	weights := UsesWeights(units)
	blocks := blockIndex(units)

	var sb strings.Builder
	sb.WriteString(globalsWGSL)
	sb.WriteString(textureWGSL)
	sb.WriteString("\n")
	writeVertexOutput(&sb, units, weights)
	writeDeclarations(&sb, units, blocks, StageFragment)

	sb.WriteString("\n@fragment\nfn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {\n")
	sb.WriteString("    let uv_0 = in.uv;\n")
	k := 0
	for i := range units {
		u := &units[i]
		if !u.Caps.Has(CapUV) {
			continue
		}
		fmt.Fprintf(&sb, "    let uv_%d = %s(%s);\n", k+1, UVFunc(u.Slot),
			joinArgs(fmt.Sprintf("uv_%d", k), weightsArg(u, "in"), varyingArgs(u)))
		k++
	}
	fmt.Fprintf(&sb, "    let sampled = textureSample(base_texture, base_sampler, uv_%d);\n", k)
	sb.WriteString("    let color_0 = globals.color;\n")
	k = 0
	for i := range units {
		u := &units[i]
		if !u.Caps.Has(CapColor) {
			continue
		}
		fmt.Fprintf(&sb, "    let color_%d = %s(%s);\n", k+1, ColorFunc(u.Slot),
			joinArgs(fmt.Sprintf("color_%d", k), weightsArg(u, "in"), varyingArgs(u)))
		k++
	}
	for i := range units {
		for _, src := range units[i].fragments(StageFragment, KindMain) {
			writeIndented(&sb, src)
		}
	}
	fmt.Fprintf(&sb, "    return sampled * color_%d;\n}\n", k)
	return sb.String()
}

func blockIndex(units []Unit) map[int]UniformBlock {
	m := make(map[int]UniformBlock)
	for _, b := range Blocks(units) {
		m[b.Slot] = b
	}
	return m
}

func writeVertexInput(sb *strings.Builder, weights bool) {
	sb.WriteString("struct VertexInput {\n")
	fmt.Fprintf(sb, "    @location(%d) position: vec2<f32>,\n", PositionLocation)
	fmt.Fprintf(sb, "    @location(%d) uv: vec2<f32>,\n", UVLocation)
	if weights {
		fmt.Fprintf(sb, "    @location(%d) weights: vec4<f32>,\n", WeightsLocation)
	}
	sb.WriteString("}\n")
}

// writeVertexOutput emits the stage interface. Both programs declare the
// same struct so locations always agree.
func writeVertexOutput(sb *strings.Builder, units []Unit, weights bool) {
	sb.WriteString("struct VertexOutput {\n")
	sb.WriteString("    @builtin(position) clip_position: vec4<f32>,\n")
	sb.WriteString("    @location(0) uv: vec2<f32>,\n")
	if weights {
		sb.WriteString("    @location(1) @interpolate(flat) weights: vec4<f32>,\n")
	}
	loc := firstVaryingLocation
	for i := range units {
		for _, v := range units[i].Varyings {
			interp := ""
			if v.Flat {
				interp = " @interpolate(flat)"
			}
			fmt.Fprintf(sb, "    @location(%d)%s %s: %s,\n", loc, interp, v.Name, v.Type)
			loc++
		}
	}
	sb.WriteString("}\n")
}

func writeDeclarations(sb *strings.Builder, units []Unit, blocks map[int]UniformBlock, stage Stage) {
	for i := range units {
		u := &units[i]
		if !u.declares(stage) {
			continue
		}
		if b, ok := blocks[u.Slot]; ok {
			sb.WriteString("\n")
			sb.WriteString(b.WGSL())
		}
		for _, src := range u.fragments(stage, KindHeader) {
			sb.WriteString("\n")
			sb.WriteString(strings.TrimRight(src, "\n"))
			sb.WriteString("\n")
		}
	}
	for i := range units {
		u := &units[i]
		for _, src := range u.fragments(stage, KindBody) {
			sb.WriteString("\n")
			sb.WriteString(strings.TrimRight(src, "\n"))
			sb.WriteString("\n")
		}
	}
}

func weightsArg(u *Unit, input string) string {
	if !u.Weighted {
		return ""
	}
	return input + ".weights"
}

func varyingArgs(u *Unit) string {
	names := make([]string, 0, len(u.Varyings))
	for _, v := range u.Varyings {
		names = append(names, "in."+v.Name)
	}
	return strings.Join(names, ", ")
}

func joinArgs(args ...string) string {
	out := args[:0:0]
	for _, a := range args {
		if a != "" {
			out = append(out, a)
		}
	}
	return strings.Join(out, ", ")
}

func writeIndented(sb *strings.Builder, src string) {
	for _, line := range strings.Split(strings.TrimRight(src, "\n"), "\n") {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString("    ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
