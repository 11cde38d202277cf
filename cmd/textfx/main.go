// Command textfx lays out a string, attaches deformers, and prints or
// renders the result.
//
// Usage:
//
//	textfx -text "hello world" -effects wave:glyph,tint:word -dump
//	textfx -effects progress:line -direction TTB -png preview.png
//	textfx -effects transform:word -target msl -dump
package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textfx"
	"github.com/gogpu/textfx/render"
	"github.com/gogpu/textfx/shader"
	"github.com/gogpu/textfx/text"
	"github.com/gogpu/textfx/text/atlas"
)

// options holds the parsed command line.
type options struct {
	text      string
	font      string
	size      float64
	width     int
	height    int
	maxWidth  float64
	align     string
	effects   string
	amount    float64
	direction string
	target    string
	dump      bool
	validate  bool
	png       string
	verbose   bool
}

func main() {
	var o options
	flag.StringVar(&o.text, "text", "Hello, textfx!\nDeformed on the GPU.", "text to lay out")
	flag.StringVar(&o.font, "font", "", "TTF/OTF file (default Go Regular)")
	flag.Float64Var(&o.size, "size", 32, "font size in pixels")
	flag.IntVar(&o.width, "width", 640, "preview width")
	flag.IntVar(&o.height, "height", 200, "preview height")
	flag.Float64Var(&o.maxWidth, "max-width", 0, "wrap width, 0 disables wrapping")
	flag.StringVar(&o.align, "align", "left", "line alignment: left, center or right")
	flag.StringVar(&o.effects, "effects", "", "comma separated kind[:granularity] list, e.g. wave:glyph,tint:word")
	flag.Float64Var(&o.amount, "amount", 6, "effect strength")
	flag.StringVar(&o.direction, "direction", "LTR", "progress direction: LTR, RTL, TTB or BTT")
	flag.StringVar(&o.target, "target", "wgsl", "shading language for -dump: wgsl, glsl, msl or hlsl")
	flag.BoolVar(&o.dump, "dump", false, "print the synthesized programs")
	flag.BoolVar(&o.validate, "validate", false, "validate the synthesized programs with naga")
	flag.StringVar(&o.png, "png", "", "render a software preview to this PNG file")
	flag.BoolVar(&o.verbose, "v", false, "debug logging to stderr")
	flag.Parse()

	if err := run(o, os.Stdout); err != nil {
		log.Fatalf("textfx: %v", err)
	}
}

func run(o options, stdout io.Writer) error {
	if o.verbose {
		textfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	align, err := text.ParseAlignment(o.align)
	if err != nil {
		return err
	}
	dir, err := text.ParseDirection(o.direction)
	if err != nil {
		return err
	}
	effects, err := parseEffects(o.effects, float32(o.amount), dir)
	if err != nil {
		return err
	}

	source, err := loadFont(o.font)
	if err != nil {
		return err
	}
	defer func() { _ = source.Close() }()
	glyphs, err := atlas.New(source.Face(o.size))
	if err != nil {
		return err
	}
	defer func() { _ = glyphs.Close() }()

	t, err := textfx.NewText(glyphs, o.text,
		textfx.WithMaxWidth(o.maxWidth),
		textfx.WithAlignment(align),
		textfx.WithColor(color.White),
	)
	if err != nil {
		return err
	}
	for _, e := range effects {
		if err := t.Deformers().Add(e.d); err != nil {
			return err
		}
	}
	if err := t.Build(); err != nil {
		return err
	}
	for _, e := range effects {
		if err := e.apply(); err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
	}
	if err := t.Update(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "glyphs=%d lines=%d words=%d deformers=%d\n",
		t.GlyphCount(), len(t.Lines()), len(t.Words()), len(effects))

	prog := t.Program()
	if o.validate {
		if err := prog.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "programs valid")
	}
	if o.dump {
		if err := dump(stdout, prog, o.target); err != nil {
			return err
		}
	}
	if o.png != "" {
		return preview(t, glyphs.Metrics(), o)
	}
	return nil
}

func loadFont(path string) (*text.FontSource, error) {
	if path == "" {
		return text.NewFontSource(goregular.TTF)
	}
	return text.NewFontSourceFromFile(path)
}

// dump writes both stages in the requested language.
func dump(w io.Writer, prog *shader.Program, target string) error {
	vertex, fragment := prog.Vertex, prog.Fragment
	if target != "wgsl" {
		tgt, err := shader.ParseTarget(target)
		if err != nil {
			return err
		}
		if vertex, err = shader.Translate(prog.Vertex, tgt); err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		if fragment, err = shader.Translate(prog.Fragment, tgt); err != nil {
			return fmt.Errorf("fragment: %w", err)
		}
	}
	fmt.Fprintf(w, "// vertex (%s)\n%s\n// fragment (%s)\n%s\n", target, vertex, target, fragment)
	return nil
}

// preview renders t with the software backend on a dark background.
func preview(t *textfx.Text, m text.Metrics, o options) error {
	target := render.NewPixmapTarget(o.width, o.height)
	target.Clear(color.RGBA{R: 24, G: 24, B: 32, A: 255})

	ctx := render.NewContext(render.NewSoftwareBackend(target), o.width, o.height)
	margin := o.size / 2
	ctx.Translation = text.Point{X: margin, Y: float64(o.height) - margin - m.Ascent}
	if err := t.Render(ctx); err != nil {
		return err
	}

	f, err := os.Create(o.png)
	if err != nil {
		return err
	}
	if err := png.Encode(f, target.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
