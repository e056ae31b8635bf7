package colors

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Paint is a configurable stroke or fill colour with alpha. The zero value
// is "none": nothing is painted.
type Paint struct {
	rgb   colorful.Color
	alpha float64
	set   bool
}

// None is the absent paint.
var None = Paint{}

// RGBA returns an opaque-or-translucent paint from components in [0, 1].
func RGBA(r, g, b, a float64) Paint {
	return Paint{rgb: colorful.Color{R: r, G: g, B: b}, alpha: clamp01(a), set: true}
}

// Gray returns a grey paint; v is the brightness and a the alpha.
func Gray(v, a float64) Paint {
	return RGBA(v, v, v, a)
}

// PaintOf converts a palette colour into an opaque paint.
func PaintOf(c Color) Paint {
	rgb := c.RGB()
	return RGBA(rgb[0], rgb[1], rgb[2], 1)
}

// IsNone reports whether the paint is absent.
func (p Paint) IsNone() bool { return !p.set }

// Alpha returns the paint's opacity.
func (p Paint) Alpha() float64 { return p.alpha }

// WithAlpha returns the paint with its opacity replaced.
func (p Paint) WithAlpha(a float64) Paint {
	if !p.set {
		return p
	}
	p.alpha = clamp01(a)
	return p
}

// Color returns the paint as image/color, or nil when the paint is none.
func (p Paint) Color() color.Color {
	if !p.set {
		return nil
	}
	r, g, b := p.rgb.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(p.alpha*255 + 0.5)}
}

// Hex returns the opaque #rrggbb part, or "none".
func (p Paint) Hex() string {
	if !p.set {
		return "none"
	}
	return p.rgb.Clamped().Hex()
}

// String returns "none", "#rrggbb" or "#rrggbbaa".
func (p Paint) String() string {
	if !p.set {
		return "none"
	}
	hex := p.rgb.Clamped().Hex()
	if p.alpha >= 1 {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, uint8(p.alpha*255+0.5))
}

// ParsePaint accepts "none", "", #rgb, #rrggbb and #rrggbbaa.
func ParsePaint(s string) (Paint, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return None, nil
	}
	alpha := 1.0
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return None, fmt.Errorf("invalid paint %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return None, fmt.Errorf("invalid paint %q: %w", s, err)
	}
	return Paint{rgb: cf, alpha: alpha, set: true}, nil
}

// MustPaint is like ParsePaint but panics on error. Intended for constants.
func MustPaint(s string) Paint {
	p, err := ParsePaint(s)
	if err != nil {
		panic(err)
	}
	return p
}

// MarshalText implements encoding.TextMarshaler.
func (p Paint) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Paint) UnmarshalText(b []byte) error {
	parsed, err := ParsePaint(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Paint) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return p.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler.
func (p Paint) MarshalYAML() (any, error) {
	return p.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}
