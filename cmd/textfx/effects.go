package main

import (
	"fmt"
	"strings"

	"github.com/gogpu/textfx/deform"
	"github.com/gogpu/textfx/text"
)

// effect is a deformer plus the values it receives once the text is built.
type effect struct {
	name  string
	d     deform.Deformer
	apply func() error
}

// ramp returns i / (n-1), or 1 for a single group.
func ramp(i, n int) float32 {
	if n <= 1 {
		return 1
	}
	return float32(i) / float32(n-1)
}

// fill builds a per-group array of n groups.
func fill(n int, f func(i int) []float32) []float32 {
	var out []float32
	for i := 0; i < n; i++ {
		out = append(out, f(i)...)
	}
	return out
}

// parseEffect parses "kind" or "kind:granularity". amount scales the
// effect; dir is used by progress.
func parseEffect(arg string, amount float32, dir text.Direction) (*effect, error) {
	kind, gran, _ := strings.Cut(strings.TrimSpace(arg), ":")
	g := deform.Glyph
	if gran != "" {
		var err error
		if g, err = deform.ParseGranularity(gran); err != nil {
			return nil, err
		}
	}

	e := &effect{name: kind}
	switch strings.ToLower(kind) {
	case "transform":
		d := deform.NewTransform(g)
		e.d = d
		e.apply = func() error {
			return d.SetRotations(fill(d.GroupCount(), func(i int) []float32 {
				return []float32{amount * 0.05 * (2*ramp(i, d.GroupCount()) - 1)}
			}))
		}
	case "offset":
		d := deform.NewOffset(g)
		e.d = d
		e.apply = func() error {
			return d.SetOffsets(fill(d.GroupCount(), func(i int) []float32 {
				return []float32{0, amount * float32(i%2)}
			}))
		}
	case "wave":
		d := deform.NewWave(g)
		d.SetFrequency(0.25)
		e.d = d
		e.apply = func() error {
			return d.SetAmplitudes(fill(d.GroupCount(), func(int) []float32 {
				return []float32{amount}
			}))
		}
	case "opacity":
		d := deform.NewOpacity(g)
		e.d = d
		e.apply = func() error {
			return d.SetOpacities(fill(d.GroupCount(), func(i int) []float32 {
				return []float32{1 - ramp(i, d.GroupCount())*min(amount/10, 1)}
			}))
		}
	case "tint":
		d := deform.NewTint(g)
		e.d = d
		e.apply = func() error {
			return d.SetColors(fill(d.GroupCount(), func(i int) []float32 {
				t := ramp(i, d.GroupCount())
				return []float32{1 - t, 0.2, t, 1}
			}))
		}
	case "progress":
		d := deform.NewTextProgress(g, dir)
		e.d = d
		e.apply = func() error {
			return d.SetProgresses(fill(d.GroupCount(), func(i int) []float32 {
				return []float32{ramp(i, d.GroupCount())}
			}))
		}
	case "pixelate":
		d := deform.NewPixelate(g)
		e.d = d
		e.apply = func() error {
			return d.SetSizes(fill(d.GroupCount(), func(int) []float32 {
				return []float32{max(amount, 1)}
			}))
		}
	default:
		return nil, &text.UnknownIdentifierError{Kind: "effect", Value: kind}
	}
	return e, nil
}

// parseEffects parses a comma separated list of effects.
func parseEffects(list string, amount float32, dir text.Direction) ([]*effect, error) {
	var out []*effect
	for _, arg := range strings.Split(list, ",") {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		e, err := parseEffect(arg, amount, dir)
		if err != nil {
			return nil, fmt.Errorf("effect %q: %w", arg, err)
		}
		out = append(out, e)
	}
	return out, nil
}
