package colors

import (
	"fmt"

	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/model"
)

// blendRatio is the mix between the two base colours given to the
// intermediate node type.
const blendRatio = 0.5

// Scheme derives a palette for a whole vocabulary from two base colours.
//
// Each child tier is coloured by rotating its parent's hue by a fixed step
// per child: child i receives parent.Rotate((i+1) * step). Steps may be
// negative to sweep the hue wheel the other way.
type Scheme struct {
	BaseA        Color   `json:"base_a" toml:"base_a" yaml:"base_a"`
	BaseB        Color   `json:"base_b" toml:"base_b" yaml:"base_b"`
	StepA        float64 `json:"step_a" toml:"step_a" yaml:"step_a"`
	StepB        float64 `json:"step_b" toml:"step_b" yaml:"step_b"`
	StepTertiary float64 `json:"step_tertiary" toml:"step_tertiary" yaml:"step_tertiary"`
}

// DefaultScheme uses the RoboFab font (olive) and glyph (amber) colours.
func DefaultScheme() Scheme {
	return Scheme{
		BaseA:        HSL(80, 0.50, 0.49),
		BaseB:        HSL(38, 0.91, 0.69),
		StepA:        25,
		StepB:        -15,
		StepTertiary: -20,
	}
}

// Validate rejects non-finite steps and out-of-range base colours.
func (s Scheme) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"step_a", s.StepA},
		{"step_b", s.StepB},
		{"step_tertiary", s.StepTertiary},
	} {
		if err := errors.ValidateFinite(f.name, f.v); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		name string
		c    Color
	}{
		{"base_a", s.BaseA},
		{"base_b", s.BaseB},
	} {
		if f.c.S < 0 || f.c.S > 1 || f.c.L < 0 || f.c.L > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s saturation and lightness must be in [0, 1]", f.name).
				In(errors.PhaseConfig, "")
		}
	}
	return nil
}

// Derive assigns a colour to every node type of m.
//
// The primaries take the base colours, the three child tiers take hue
// cascades from their parent, and the intermediate type takes a 50% RGB
// blend of the two bases. Derive is a pure function of (s, m).
func (s Scheme) Derive(m model.Model) (Palette, error) {
	if err := m.Validate(); err != nil {
		return Palette{}, err
	}
	if err := s.Validate(); err != nil {
		return Palette{}, err
	}

	colors := make(map[model.NodeType]Color, len(m.Types()))
	colors[m.PrimaryA] = s.BaseA
	colors[m.PrimaryB] = s.BaseB

	cascade := func(parent model.NodeType, step float64) {
		base := colors[parent]
		for i, child := range m.Children(parent) {
			colors[child] = base.Rotate(float64(i+1) * step)
		}
	}
	cascade(m.PrimaryA, s.StepA)
	cascade(m.PrimaryB, s.StepB)
	// The tertiary root was coloured by the PrimaryB cascade above.
	cascade(m.TertiaryRoot, s.StepTertiary)

	colors[m.Intermediate] = s.BaseA.Blend(s.BaseB, blendRatio)

	order := m.Types()
	for _, n := range order {
		if _, ok := colors[n]; !ok {
			return Palette{}, errors.New(errors.ErrCodeMissingColor, "no colour derived").In(errors.PhasePalette, string(n))
		}
	}
	return Palette{colors: colors, order: order}, nil
}

// Palette maps every node type of a vocabulary to exactly one colour.
// It is immutable; derive a new one to change parameters.
type Palette struct {
	colors map[model.NodeType]Color
	order  []model.NodeType
}

// Entry is one palette row with both projections.
type Entry struct {
	Type model.NodeType `json:"type"`
	HSL  Color          `json:"hsl"`
	Hex  string         `json:"hex"`
	RGB  [3]float64     `json:"rgb"`
	CMYK [4]float64     `json:"cmyk"`
}

// Len returns the number of entries.
func (p Palette) Len() int { return len(p.order) }

// Types returns the node types in canonical order.
func (p Palette) Types() []model.NodeType {
	return append([]model.NodeType(nil), p.order...)
}

// Lookup returns the colour for n, or a MISSING_COLOR error.
func (p Palette) Lookup(n model.NodeType) (Color, error) {
	c, ok := p.colors[n]
	if !ok {
		return Color{}, errors.New(errors.ErrCodeMissingColor, "no palette entry").In(errors.PhasePalette, string(n))
	}
	return c, nil
}

// Color returns the colour for n. Asking for a node type outside the
// vocabulary is a programming error and panics.
func (p Palette) Color(n model.NodeType) Color {
	c, ok := p.colors[n]
	if !ok {
		panic(fmt.Sprintf("colors: no palette entry for node type %q", n))
	}
	return c
}

// RGB returns the RGB projection of n's colour. Panics on unknown n.
func (p Palette) RGB(n model.NodeType) [3]float64 { return p.Color(n).RGB() }

// CMYK returns the CMYK projection of n's colour. Panics on unknown n.
func (p Palette) CMYK(n model.NodeType) [4]float64 { return p.Color(n).CMYK() }

// Entries returns all palette rows in canonical order.
func (p Palette) Entries() []Entry {
	out := make([]Entry, 0, len(p.order))
	for _, n := range p.order {
		c := p.colors[n]
		out = append(out, Entry{Type: n, HSL: c, Hex: c.Hex(), RGB: c.RGB(), CMYK: c.CMYK()})
	}
	return out
}
