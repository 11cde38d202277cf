package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// tabStops is the width of a tab in spaces.
const tabStops = 4

// Token is a word, whitespace run or newline produced by Tokenize.
type Token struct {
	Content      string
	IsWhitespace bool
	IsNewline    bool

	// Width is the token's advance in layout units, set during layout.
	Width float64

	// Glyphs is the range of glyph indices the token occupies after placement.
	Glyphs Range

	runes    []rune
	records  []*Glyph
	advances []float64
}

// IsWord reports whether the token is neither whitespace nor a newline.
func (t *Token) IsWord() bool {
	return !t.IsWhitespace && !t.IsNewline
}

// Normalize converts s to NFC and turns "\r\n" and "\r" into "\n".
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFC.String(s)
}

// Tokenize splits s into newline tokens (one per '\n'), runs of other
// breaking whitespace, and maximal runs of everything else. No-break
// spaces stay inside the word they join.
func Tokenize(s string) []Token {
	var tokens []Token
	var cur []rune
	curSpace := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		tokens = append(tokens, Token{
			Content:      string(cur),
			IsWhitespace: curSpace,
			runes:        cur,
		})
		cur = nil
	}

	for _, r := range s {
		if r == '\n' {
			flush()
			tokens = append(tokens, Token{
				Content:   "\n",
				IsNewline: true,
				runes:     []rune{'\n'},
			})
			continue
		}
		space := isBreakingSpace(r)
		if len(cur) > 0 && space != curSpace {
			flush()
		}
		curSpace = space
		cur = append(cur, r)
	}
	flush()
	return tokens
}

// isBreakingSpace reports whether a line may wrap at r.
func isBreakingSpace(r rune) bool {
	switch r {
	case '\u00A0', '\u2007', '\u202F':
		return false
	}
	return unicode.IsSpace(r)
}
