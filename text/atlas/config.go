package atlas

// Config holds atlas configuration.
type Config struct {
	// PageSize is the page texture size (width = height).
	// Must be a power of 2. Default: 512
	PageSize int

	// Padding between glyphs to prevent sampling bleed.
	// Default: 1
	Padding int

	// MaxPages limits the number of pages.
	// Default: 4
	MaxPages int

	// Oversample rasterizes glyphs at Oversample times the face size.
	// Layout divides glyph metrics by the same factor. Default: 1
	Oversample int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		PageSize:   512,
		Padding:    1,
		MaxPages:   4,
		Oversample: 1,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PageSize < 64 {
		return &ConfigError{Field: "PageSize", Reason: "must be at least 64"}
	}
	if c.PageSize > 8192 {
		return &ConfigError{Field: "PageSize", Reason: "must be at most 8192"}
	}
	if c.PageSize&(c.PageSize-1) != 0 {
		return &ConfigError{Field: "PageSize", Reason: "must be power of 2"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding > 16 {
		return &ConfigError{Field: "Padding", Reason: "must be at most 16"}
	}
	if c.MaxPages < 1 {
		return &ConfigError{Field: "MaxPages", Reason: "must be at least 1"}
	}
	if c.MaxPages > 64 {
		return &ConfigError{Field: "MaxPages", Reason: "must be at most 64"}
	}
	if c.Oversample < 1 || c.Oversample > 4 {
		return &ConfigError{Field: "Oversample", Reason: "must be between 1 and 4"}
	}
	return nil
}

// Option configures an Atlas.
type Option func(*Config)

// WithPageSize sets the page texture size.
func WithPageSize(size int) Option {
	return func(c *Config) {
		c.PageSize = size
	}
}

// WithPadding sets the gap between packed glyphs.
func WithPadding(padding int) Option {
	return func(c *Config) {
		c.Padding = padding
	}
}

// WithMaxPages limits how many pages the atlas may allocate.
func WithMaxPages(n int) Option {
	return func(c *Config) {
		c.MaxPages = n
	}
}

// WithOversample rasterizes glyphs at a multiple of the face size.
func WithOversample(k int) Option {
	return func(c *Config) {
		c.Oversample = k
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}
