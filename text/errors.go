package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrNilGlyphProvider is returned when layout runs without a glyph provider.
	ErrNilGlyphProvider = errors.New("text: nil glyph provider")

	// ErrNilGlyphSink is returned when layout runs without a geometry sink.
	ErrNilGlyphSink = errors.New("text: nil glyph sink")

	// ErrNoPreviousLayout is returned by Reflow before any Layout call.
	ErrNoPreviousLayout = errors.New("text: no previous layout to reflow")
)

// UnsupportedScriptError is returned when the text contains a script that
// needs ligature substitution or contextual shaping.
type UnsupportedScriptError struct {
	Script Script
	Rune   rune
	// Ligature is set when the script itself is supported but the font
	// shaped the word into a ligature.
	Ligature bool
	Word     string
}

func (e *UnsupportedScriptError) Error() string {
	if e.Ligature {
		return fmt.Sprintf("text: word %q requires ligature substitution (script %s)", e.Word, e.Script)
	}
	return fmt.Sprintf("text: unsupported script %s (rune %U requires ligature substitution)", e.Script, e.Rune)
}

// UnknownIdentifierError is returned when parsing an enum identifier fails.
type UnknownIdentifierError struct {
	Kind  string
	Value string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("text: unknown %s %q", e.Kind, e.Value)
}
