package textfx_test

import (
	"fmt"
	"log"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textfx"
	"github.com/gogpu/textfx/deform"
	"github.com/gogpu/textfx/render"
	"github.com/gogpu/textfx/text"
	"github.com/gogpu/textfx/text/atlas"
)

func Example() {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	glyphs, err := atlas.New(src.Face(24))
	if err != nil {
		log.Fatal(err)
	}

	t, err := textfx.NewText(glyphs, "hello\nworld")
	if err != nil {
		log.Fatal(err)
	}
	lift := deform.NewOffset(deform.Line)
	if err := t.Deformers().Add(lift); err != nil {
		log.Fatal(err)
	}
	if err := t.Build(); err != nil {
		log.Fatal(err)
	}
	if err := lift.SetOffsets([]float32{0, 4, 0, -4}); err != nil {
		log.Fatal(err)
	}

	target := render.NewPixmapTarget(160, 80)
	ctx := render.NewContext(render.NewSoftwareBackend(target), 160, 80)
	ctx.Translation = text.Point{X: 8, Y: 48}
	if err := t.Render(ctx); err != nil {
		log.Fatal(err)
	}

	fmt.Println(t.GlyphCount(), len(t.Lines()), len(t.Words()))
	fmt.Println(t.Uniforms()["deformer1.offsets"])
	// Output:
	// 11 2 2
	// [0 4 0 -4]
}
