package colors

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/model"
)

const eps = 1e-9

func TestDeriveAssignsEveryType(t *testing.T) {
	m := model.FontParts()
	p, err := DefaultScheme().Derive(m)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	if p.Len() != len(m.Types()) {
		t.Errorf("Len() = %d, want %d", p.Len(), len(m.Types()))
	}
	seen := map[model.NodeType]bool{}
	for _, n := range p.Types() {
		if seen[n] {
			t.Errorf("duplicate palette entry %q", n)
		}
		seen[n] = true
		if _, err := p.Lookup(n); err != nil {
			t.Errorf("Lookup(%q) error = %v", n, err)
		}
	}
	for _, n := range m.Types() {
		if !seen[n] {
			t.Errorf("missing palette entry %q", n)
		}
	}
}

func TestDeriveHueCascades(t *testing.T) {
	p, err := DefaultScheme().Derive(model.FontParts())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n   model.NodeType
		hue float64
	}{
		{model.Font, 80},
		{model.FontLib, 105},
		{model.Info, 130},
		{model.Groups, 155},
		{model.Kerning, 180},
		{model.Features, 205},
		{model.Glyph, 38},
		{model.GlyphLib, 23},
		{model.Anchor, 8},
		{model.Component, 353},
		{model.Image, 338},
		{model.Guideline, 323},
		{model.Contour, 308},
		{model.Point, 288},
		{model.BPoint, 268},
		{model.Segment, 248},
	}
	for _, tt := range tests {
		t.Run(string(tt.n), func(t *testing.T) {
			c := p.Color(tt.n)
			if math.Abs(c.H-tt.hue) > eps {
				t.Errorf("hue = %v, want %v", c.H, tt.hue)
			}
		})
	}

	// children keep the parent's saturation and lightness
	if got, want := p.Color(model.Point), p.Color(model.Glyph); got.S != want.S || got.L != want.L {
		t.Errorf("point S/L = %v/%v, want %v/%v", got.S, got.L, want.S, want.L)
	}
}

func TestDeriveIntermediateIsBlend(t *testing.T) {
	s := DefaultScheme()
	p, err := s.Derive(model.FontParts())
	if err != nil {
		t.Fatal(err)
	}
	a, b := s.BaseA.RGB(), s.BaseB.RGB()
	got := p.RGB(model.Layer)
	for i := range 3 {
		want := (a[i] + b[i]) / 2
		if math.Abs(got[i]-want) > 1e-6 {
			t.Errorf("layer rgb[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	m := model.FontParts()
	p1, err := DefaultScheme().Derive(m)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := DefaultScheme().Derive(m)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range m.Types() {
		if p1.RGB(n) != p2.RGB(n) {
			t.Errorf("RGB(%q) differs: %v vs %v", n, p1.RGB(n), p2.RGB(n))
		}
		if p1.CMYK(n) != p2.CMYK(n) {
			t.Errorf("CMYK(%q) differs: %v vs %v", n, p1.CMYK(n), p2.CMYK(n))
		}
	}
}

func TestProjectionsAreConsistent(t *testing.T) {
	p, err := DefaultScheme().Derive(model.FontParts())
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range p.Types() {
		rgb := p.RGB(n)
		back := FromRGB(rgb[0], rgb[1], rgb[2]).RGB()
		for i := range 3 {
			if math.Abs(back[i]-rgb[i]) > 1e-9 {
				t.Errorf("%q: RGB->HSL->RGB[%d] = %v, want %v", n, i, back[i], rgb[i])
			}
		}

		cmyk := p.CMYK(n)
		for i := range 3 {
			r := (1 - cmyk[i]) * (1 - cmyk[3])
			if math.Abs(r-rgb[i]) > 1e-9 {
				t.Errorf("%q: CMYK->RGB[%d] = %v, want %v", n, i, r, rgb[i])
			}
		}
	}
}

func TestDeriveRejectsInvalidModel(t *testing.T) {
	m := model.FontParts()
	m.Tree[model.Font] = nil
	if _, err := DefaultScheme().Derive(m); !errors.Is(err, errors.ErrCodeEmptyTier) {
		t.Errorf("Derive() error = %v, want EMPTY_TIER", err)
	}
}

func TestSchemeValidateReportsFirstField(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Scheme)
		field string
	}{
		{"steps", func(s *Scheme) { s.StepA = math.NaN(); s.StepTertiary = math.Inf(1) }, "step_a"},
		{"later step", func(s *Scheme) { s.StepB = math.NaN(); s.StepTertiary = math.NaN() }, "step_b"},
		{"bases", func(s *Scheme) { s.BaseA.S = 2; s.BaseB.L = -1 }, "base_a"},
		{"step before base", func(s *Scheme) { s.BaseA.S = 2; s.StepTertiary = math.NaN() }, "step_tertiary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScheme()
			tt.edit(&s)
			for range 20 {
				err := s.Validate()
				if !errors.Is(err, errors.ErrCodeInvalidConfig) {
					t.Fatalf("Validate() error = %v, want INVALID_CONFIG", err)
				}
				if msg := errors.UserMessage(err); !strings.Contains(msg, ": "+tt.field+" ") {
					t.Fatalf("Validate() = %q, want it to name %s", msg, tt.field)
				}
			}
		})
	}
}

func TestPaletteUnknownType(t *testing.T) {
	p, err := DefaultScheme().Derive(model.FontParts())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Lookup("kerning pair"); !errors.Is(err, errors.ErrCodeMissingColor) {
		t.Errorf("Lookup() error = %v, want MISSING_COLOR", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Color() on unknown type did not panic")
		}
	}()
	_ = p.Color("kerning pair")
}

func TestRotateWraps(t *testing.T) {
	tests := []struct {
		h, deg, want float64
	}{
		{10, -20, 350},
		{350, 20, 10},
		{0, 720, 0},
		{38, -90, 308},
	}
	for _, tt := range tests {
		if got := HSL(tt.h, .5, .5).Rotate(tt.deg).H; math.Abs(got-tt.want) > eps {
			t.Errorf("HSL(%v).Rotate(%v).H = %v, want %v", tt.h, tt.deg, got, tt.want)
		}
	}
}

func TestCMYK(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want [4]float64
	}{
		{"black", FromRGB(0, 0, 0), [4]float64{0, 0, 0, 1}},
		{"white", FromRGB(1, 1, 1), [4]float64{0, 0, 0, 0}},
		{"red", FromRGB(1, 0, 0), [4]float64{0, 1, 1, 0}},
		{"half gray", FromRGB(.5, .5, .5), [4]float64{0, 0, 0, .5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.c.CMYK()
			for i := range 4 {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("CMYK() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"hsl(80, 0.5, 0.49)", HSL(80, .5, .49), false},
		{"hsl(-10,1,0.5)", HSL(350, 1, .5), false},
		{"#ff0000", FromRGB(1, 0, 0), false},
		{"hsl(80, 2, 0.5)", Color{}, true},
		{"hsl(80, 0.5)", Color{}, true},
		{"hsl(80, 0.5, 0.5", Color{}, true},
		{"tomato", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorTextRoundTrip(t *testing.T) {
	c := HSL(38, 0.91, 0.69)
	b, err := c.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var back Color
	if err := back.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if back != c {
		t.Errorf("round trip = %v, want %v", back, c)
	}
}

func TestParsePaint(t *testing.T) {
	tests := []struct {
		in        string
		wantNone  bool
		wantAlpha float64
		wantStr   string
		wantErr   bool
	}{
		{"none", true, 0, "none", false},
		{"", true, 0, "none", false},
		{"#cccccc", false, 1, "#cccccc", false},
		{"#00000040", false, 64.0 / 255, "#00000040", false},
		{"#fff", false, 1, "#ffffff", false},
		{"#zzzzzz", false, 0, "", true},
		{"#000000zz", false, 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePaint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePaint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if p.IsNone() != tt.wantNone {
				t.Errorf("IsNone() = %v, want %v", p.IsNone(), tt.wantNone)
			}
			if math.Abs(p.Alpha()-tt.wantAlpha) > 1e-9 {
				t.Errorf("Alpha() = %v, want %v", p.Alpha(), tt.wantAlpha)
			}
			if p.String() != tt.wantStr {
				t.Errorf("String() = %q, want %q", p.String(), tt.wantStr)
			}
		})
	}
}

func TestPaintColor(t *testing.T) {
	if None.Color() != nil {
		t.Error("None.Color() should be nil")
	}
	c := Gray(0.8, 1).Color()
	r, g, b, a := c.RGBA()
	if r != g || g != b || a != 0xffff {
		t.Errorf("Gray(0.8).RGBA() = %d %d %d %d", r, g, b, a)
	}
}

func TestEntriesJSON(t *testing.T) {
	p, err := DefaultScheme().Derive(model.FontParts())
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(p.Entries())
	if err != nil {
		t.Fatal(err)
	}
	var back []struct {
		Type string `json:"type"`
		HSL  string `json:"hsl"`
		Hex  string `json:"hex"`
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != p.Len() {
		t.Fatalf("len = %d, want %d", len(back), p.Len())
	}
	if back[0].Type != "font" || back[0].HSL != "hsl(80, 0.5, 0.49)" {
		t.Errorf("first entry = %+v", back[0])
	}
}
