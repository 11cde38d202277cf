package text

import (
	"fmt"
	"os"
	"sync"
)

// FontSource represents a loaded font file.
// One FontSource can create multiple Face instances at different sizes.
//
// FontSource is safe for concurrent use.
// FontSource must not be copied after creation (enforced by copyCheck).
type FontSource struct {
	// addr is used for copy protection. It must point to the FontSource itself.
	addr *FontSource

	data   []byte
	parsed ParsedFont

	name string

	mu sync.RWMutex

	config sourceConfig
}

// NewFontSource creates a FontSource from font data (TTF or OTF).
// The data slice is copied internally and can be reused after this call.
func NewFontSource(data []byte, opts ...SourceOption) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	config := defaultSourceConfig()
	for _, opt := range opts {
		opt(&config)
	}

	parsed, err := getParser(config.parserName).Parse(data)
	if err != nil {
		return nil, err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	s := &FontSource{
		data:   dataCopy,
		parsed: parsed,
		config: config,
	}
	s.addr = s
	s.name = extractFontName(parsed)

	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string, opts ...SourceOption) (*FontSource, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}
	return NewFontSource(data, opts...)
}

// Face creates a Face at the specified size in pixels per em. Glyphs are
// always rasterized unhinted.
// Panics if s is nil (e.g. when NewFontSourceFromFile error was ignored).
func (s *FontSource) Face(size float64) Face {
	if s == nil {
		panic("text: FontSource is nil, check the error from NewFontSource")
	}
	s.copyCheck()

	return &sourceFace{
		source: s,
		size:   size,
	}
}

// Name returns the font name.
func (s *FontSource) Name() string {
	s.copyCheck()
	return s.name
}

// Parsed returns the parsed font.
func (s *FontSource) Parsed() ParsedFont {
	s.copyCheck()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parsed
}

// Data returns the raw font bytes. The slice must not be modified.
func (s *FontSource) Data() []byte {
	s.copyCheck()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Close releases resources associated with the FontSource.
// All faces created from this source become invalid after Close.
func (s *FontSource) Close() error {
	s.copyCheck()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.parsed = nil
	return nil
}

// copyCheck panics if FontSource was copied by value.
func (s *FontSource) copyCheck() {
	if s.addr != s {
		panic("text: FontSource must not be copied by value")
	}
}

func extractFontName(parsed ParsedFont) string {
	if name := parsed.Name(); name != "" {
		return name
	}
	if fullName := parsed.FullName(); fullName != "" {
		return fullName
	}
	return "Unknown Font"
}
