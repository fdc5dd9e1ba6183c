// Package palette maps cell attributes to colors for both front ends.
package palette

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/gridfield/internal/field"
)

// Palette holds the border ramp and the glow color.
type Palette struct {
	Base      colorful.Color
	Highlight colorful.Color
	Glow      colorful.Color
}

// Parse builds a Palette from hex strings.
func Parse(base, highlight, glow string) (Palette, error) {
	var (
		p   Palette
		err error
	)
	if p.Base, err = colorful.Hex(base); err != nil {
		return Palette{}, fmt.Errorf("base color: %w", err)
	}
	if p.Highlight, err = colorful.Hex(highlight); err != nil {
		return Palette{}, fmt.Errorf("highlight color: %w", err)
	}
	if p.Glow, err = colorful.Hex(glow); err != nil {
		return Palette{}, fmt.Errorf("glow color: %w", err)
	}
	return p, nil
}

// Intensity rescales opacity from [0.1, 1] onto [0, 1].
func Intensity(opacity float64) float64 {
	t := (opacity - field.MinOpacity) / (field.MaxOpacity - field.MinOpacity)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Border blends from Base to Highlight as the cell gets closer to the pointer.
func (p Palette) Border(opacity float64) colorful.Color {
	return p.Base.BlendHcl(p.Highlight, Intensity(opacity)).Clamped()
}

// GlowMix tints c towards the glow color by amount in [0, 1].
func (p Palette) GlowMix(c colorful.Color, amount float64) colorful.Color {
	if amount <= 0 {
		return c
	}
	if amount > 1 {
		amount = 1
	}
	return c.BlendHcl(p.Glow, amount).Clamped()
}
