package colors

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a colour stored as hue (degrees, [0, 360)), saturation and
// lightness ([0, 1]). RGB and CMYK are projections of this single value.
type Color struct {
	H, S, L float64
}

// HSL constructs a colour from hue in degrees and saturation/lightness in [0, 1].
// The hue is wrapped into [0, 360).
func HSL(h, s, l float64) Color {
	return Color{H: wrapHue(h), S: s, L: l}
}

// FromRGB constructs a colour from RGB components in [0, 1].
func FromRGB(r, g, b float64) Color {
	return fromColorful(colorful.Color{R: r, G: g, B: b})
}

// FromColor converts any image/color value, ignoring alpha.
func FromColor(c color.Color) Color {
	cf, _ := colorful.MakeColor(c)
	return fromColorful(cf)
}

func fromColorful(c colorful.Color) Color {
	h, s, l := c.Clamped().Hsl()
	return HSL(h, s, l)
}

func (c Color) colorful() colorful.Color {
	return colorful.Hsl(c.H, c.S, c.L).Clamped()
}

// Rotate returns the colour with its hue shifted by deg degrees.
func (c Color) Rotate(deg float64) Color {
	return HSL(c.H+deg, c.S, c.L)
}

// WithHue returns the colour with hue replaced by h.
func (c Color) WithHue(h float64) Color {
	return HSL(h, c.S, c.L)
}

// Blend linearly interpolates in RGB space: t=0 yields c, t=1 yields o.
func (c Color) Blend(o Color, t float64) Color {
	return fromColorful(c.colorful().BlendRgb(o.colorful(), t))
}

// Darken scales lightness by (1 - f).
func (c Color) Darken(f float64) Color {
	return HSL(c.H, c.S, clamp01(c.L*(1-f)))
}

// RGB projects the colour to red, green and blue in [0, 1].
func (c Color) RGB() [3]float64 {
	cf := c.colorful()
	return [3]float64{cf.R, cf.G, cf.B}
}

// CMYK projects the colour to cyan, magenta, yellow and key in [0, 1]
// using the device-independent naive conversion.
func (c Color) CMYK() [4]float64 {
	rgb := c.RGB()
	k := 1 - math.Max(rgb[0], math.Max(rgb[1], rgb[2]))
	if k >= 1 {
		return [4]float64{0, 0, 0, 1}
	}
	return [4]float64{
		(1 - rgb[0] - k) / (1 - k),
		(1 - rgb[1] - k) / (1 - k),
		(1 - rgb[2] - k) / (1 - k),
		k,
	}
}

// RGBA implements image/color.Color (fully opaque).
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.colorful().RGBA()
}

// Hex returns the colour as #rrggbb.
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// String returns the colour in the hsl(h, s, l) notation accepted by UnmarshalText.
func (c Color) String() string {
	return "hsl(" + ftoa(c.H) + ", " + ftoa(c.S) + ", " + ftoa(c.L) + ")"
}

// MarshalText encodes the colour losslessly as hsl(h, s, l).
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts hsl(h, s, l) or a #rgb / #rrggbb hex string.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses hsl(h, s, l) or a hex string.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if inner, ok := strings.CutPrefix(s, "hsl("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return Color{}, fmt.Errorf("invalid colour %q: missing ')'", s)
		}
		parts := strings.Split(inner, ",")
		if len(parts) != 3 {
			return Color{}, fmt.Errorf("invalid colour %q: want hsl(h, s, l)", s)
		}
		var v [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
			}
			v[i] = f
		}
		if v[1] < 0 || v[1] > 1 || v[2] < 0 || v[2] > 1 {
			return Color{}, fmt.Errorf("invalid colour %q: saturation and lightness must be in [0, 1]", s)
		}
		return HSL(v[0], v[1], v[2]), nil
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return fromColorful(cf), nil
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
