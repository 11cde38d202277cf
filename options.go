package textfx

import (
	"image/color"

	"github.com/gogpu/textfx/text"
)

// TextOption configures a Text during creation.
//
// Example:
//
//	t, err := textfx.NewText(glyphs, "hello",
//	    textfx.WithMaxWidth(200),
//	    textfx.WithAlignment(text.AlignCenter))
type TextOption func(*textOptions)

// textOptions holds optional configuration for Text creation.
type textOptions struct {
	layout text.LayoutOptions
	color  color.Color
	label  string
}

// defaultTextOptions returns the default text options: no wrapping,
// natural line spacing, opaque black.
func defaultTextOptions() textOptions {
	return textOptions{
		layout: text.DefaultLayoutOptions(),
		color:  color.Black,
		label:  "text",
	}
}

// WithMaxWidth sets the wrap width in layout units. 0 disables wrapping.
func WithMaxWidth(w float64) TextOption {
	return func(o *textOptions) {
		o.layout.MaxWidth = w
	}
}

// WithMaxHeight limits the laid out height. Text that would start a line
// below it is dropped.
func WithMaxHeight(h float64) TextOption {
	return func(o *textOptions) {
		o.layout.MaxHeight = h
	}
}

// WithLineSpacing multiplies the font line height.
func WithLineSpacing(s float64) TextOption {
	return func(o *textOptions) {
		o.layout.LineSpacing = s
	}
}

// WithAlignment sets the horizontal alignment of each line.
func WithAlignment(a text.Alignment) TextOption {
	return func(o *textOptions) {
		o.layout.Alignment = a
	}
}

// WithLigatureCheck shapes every word with face and rejects words the
// font would draw with ligatures.
func WithLigatureCheck(face text.Face) TextOption {
	return func(o *textOptions) {
		o.layout.LigatureFace = face
	}
}

// WithColor sets the base color of the text.
func WithColor(c color.Color) TextOption {
	return func(o *textOptions) {
		o.color = c
	}
}

// WithLabel names the text in draw items and logs.
func WithLabel(label string) TextOption {
	return func(o *textOptions) {
		o.label = label
	}
}

// toFloat converts c to straight-alpha components in [0, 1].
func toFloat(c color.Color) [4]float64 {
	if c == nil {
		return [4]float64{0, 0, 0, 1}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return [4]float64{
		float64(n.R) / 255,
		float64(n.G) / 255,
		float64(n.B) / 255,
		float64(n.A) / 255,
	}
}
