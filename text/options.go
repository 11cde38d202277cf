package text

// SourceOption configures FontSource creation.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	parserName string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{
		parserName: defaultParserName,
	}
}

// WithParser specifies the font parser backend.
// The default is "ximage" which uses golang.org/x/image/font/opentype.
// Custom parsers can be registered with RegisterParser.
func WithParser(name string) SourceOption {
	return func(c *sourceConfig) {
		c.parserName = name
	}
}
