package shader

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"

	"github.com/gogpu/textfx/internal/logging"
)

// Entry point names of synthesized programs.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Program is a synthesized vertex/fragment pair. It is immutable once
// created.
type Program struct {
	Vertex   string
	Fragment string

	// Blocks lists the deformer uniform blocks in binding order.
	Blocks []UniformBlock

	// UsesWeights reports whether the vertex input declares the weights
	// attribute.
	UsesWeights bool

	once     sync.Once
	compiled *Compiled
	err      error
}

// Compiled holds SPIR-V words for both stages.
type Compiled struct {
	Vertex   []uint32
	Fragment []uint32
}

// Synthesize builds both programs for units in stack order.
func Synthesize(units []Unit) *Program {
	p := &Program{
		Vertex:      SynthesizeVertex(units),
		Fragment:    SynthesizeFragment(units),
		Blocks:      Blocks(units),
		UsesWeights: UsesWeights(units),
	}
	logging.Logger().Debug("shader: program synthesized",
		"units", len(units),
		"blocks", len(p.Blocks),
		"weights", p.UsesWeights,
		"vertex_bytes", len(p.Vertex),
		"fragment_bytes", len(p.Fragment))
	return p
}

// PassThrough returns the program of an empty stack.
func PassThrough() *Program {
	return Synthesize(nil)
}

// Key identifies the program text. Backends cache pipelines by it.
func (p *Program) Key() string {
	return p.Vertex + "\x00" + p.Fragment
}

// Compile compiles both stages to SPIR-V. The result is cached.
func (p *Program) Compile() (*Compiled, error) {
	p.once.Do(func() {
		vs, err := CompileSPIRV(p.Vertex)
		if err != nil {
			p.err = fmt.Errorf("vertex: %w", err)
			return
		}
		fs, err := CompileSPIRV(p.Fragment)
		if err != nil {
			p.err = fmt.Errorf("fragment: %w", err)
			return
		}
		p.compiled = &Compiled{Vertex: vs, Fragment: fs}
	})
	return p.compiled, p.err
}

// Validate parses, lowers and validates both stages without generating
// code.
func (p *Program) Validate() error {
	if _, err := Lower(p.Vertex); err != nil {
		return fmt.Errorf("vertex: %w", err)
	}
	if _, err := Lower(p.Fragment); err != nil {
		return fmt.Errorf("fragment: %w", err)
	}
	return nil
}

// Lower parses src and lowers it to naga IR, running the IR validator.
func Lower(src string) (*ir.Module, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProgram, err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProgram, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProgram, err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProgram, &verrs[0])
	}
	return module, nil
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProgram, err)
	}
	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return code, nil
}

// Target is a shading language Translate can emit.
type Target int

const (
	TargetGLSL Target = iota
	TargetMSL
	TargetHLSL
)

func (t Target) String() string {
	switch t {
	case TargetGLSL:
		return "glsl"
	case TargetMSL:
		return "msl"
	case TargetHLSL:
		return "hlsl"
	default:
		return unknownStr
	}
}

// ParseTarget maps "glsl", "msl" or "hlsl" to a Target.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "glsl":
		return TargetGLSL, nil
	case "msl":
		return TargetMSL, nil
	case "hlsl":
		return TargetHLSL, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownTarget, s)
}

// Translate converts WGSL source to another shading language.
func Translate(src string, target Target) (string, error) {
	module, err := Lower(src)
	if err != nil {
		return "", err
	}
	var out string
	switch target {
	case TargetGLSL:
		out, _, err = glsl.Compile(module, glsl.DefaultOptions())
	case TargetMSL:
		out, _, err = msl.Compile(module, msl.DefaultOptions())
	case TargetHLSL:
		out, _, err = hlsl.Compile(module, hlsl.DefaultOptions())
	default:
		return "", fmt.Errorf("%w %d", ErrUnknownTarget, int(target))
	}
	if err != nil {
		return "", fmt.Errorf("shader: translate to %s: %w", target, err)
	}
	return out, nil
}
