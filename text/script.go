package text

import (
	"github.com/go-text/typesetting/language"
)

// Script identifies a Unicode script (ISO 15924 tag).
type Script language.Script

// Scripts the layout engine distinguishes by name.
const (
	ScriptCommon    = Script(language.Common)
	ScriptInherited = Script(language.Inherited)
	ScriptLatin     = Script(language.Latin)
	ScriptCyrillic  = Script(language.Cyrillic)
	ScriptGreek     = Script(language.Greek)
	ScriptArabic    = Script(language.Arabic)
	ScriptHebrew    = Script(language.Hebrew)
	ScriptHan       = Script(language.Han)
	ScriptUnknown   = Script(language.Unknown)
)

// complexScripts lists scripts whose rendering depends on ligature
// substitution, contextual forms or right-to-left reordering.
var complexScripts = map[language.Script]string{
	language.Arabic:     "Arabic",
	language.Hebrew:     "Hebrew",
	language.Syriac:     "Syriac",
	language.Nko:        "Nko",
	language.Mongolian:  "Mongolian",
	language.Devanagari: "Devanagari",
	language.Bengali:    "Bengali",
	language.Gurmukhi:   "Gurmukhi",
	language.Gujarati:   "Gujarati",
	language.Oriya:      "Oriya",
	language.Tamil:      "Tamil",
	language.Telugu:     "Telugu",
	language.Kannada:    "Kannada",
	language.Malayalam:  "Malayalam",
	language.Sinhala:    "Sinhala",
	language.Thai:       "Thai",
	language.Lao:        "Lao",
	language.Tibetan:    "Tibetan",
	language.Myanmar:    "Myanmar",
	language.Khmer:      "Khmer",
}

var simpleNames = map[language.Script]string{
	language.Common:    "Common",
	language.Inherited: "Inherited",
	language.Latin:     "Latin",
	language.Cyrillic:  "Cyrillic",
	language.Greek:     "Greek",
	language.Han:       "Han",
	language.Unknown:   unknownStr,
}

// String returns the English name for well-known scripts and the
// four-letter ISO tag otherwise.
func (s Script) String() string {
	ls := language.Script(s)
	if name, ok := complexScripts[ls]; ok {
		return name
	}
	if name, ok := simpleNames[ls]; ok {
		return name
	}
	if s == 0 {
		return unknownStr
	}
	return ls.String()
}

// RequiresComplexShaping reports whether the script cannot be rendered
// with one glyph per codepoint.
func (s Script) RequiresComplexShaping() bool {
	_, ok := complexScripts[language.Script(s)]
	return ok
}

// DetectScript returns the Unicode script for a given rune.
func DetectScript(r rune) Script {
	return Script(language.LookupScript(r))
}

// checkScripts returns an UnsupportedScriptError for the first rune of word
// whose script requires complex shaping.
func checkScripts(word string) error {
	for _, r := range word {
		if s := DetectScript(r); s.RequiresComplexShaping() {
			return &UnsupportedScriptError{Script: s, Rune: r, Word: word}
		}
	}
	return nil
}

// dominantScript returns the first strong script in runes, Latin if none.
func dominantScript(runes []rune) language.Script {
	for _, r := range runes {
		if s := language.LookupScript(r); s.Strong() {
			return s
		}
	}
	return language.Latin
}
