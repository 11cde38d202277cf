package text

// Metrics holds font metrics at a specific size, in layout units.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the font.
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the font,
	// stored as a positive value.
	Descent float64

	// LineGap is the recommended gap between lines.
	LineGap float64

	// XHeight is the height of lowercase letters (like 'x').
	XHeight float64

	// CapHeight is the height of uppercase letters.
	CapHeight float64
}

// LineHeight returns the distance between baselines of consecutive lines.
func (m Metrics) LineHeight() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// Scale returns m with every field multiplied by k.
func (m Metrics) Scale(k float64) Metrics {
	return Metrics{
		Ascent:    m.Ascent * k,
		Descent:   m.Descent * k,
		LineGap:   m.LineGap * k,
		XHeight:   m.XHeight * k,
		CapHeight: m.CapHeight * k,
	}
}
