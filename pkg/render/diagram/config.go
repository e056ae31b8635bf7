package diagram

import (
	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/fonts"
	"github.com/fontparts/partsmap/pkg/model"
)

// Step is one pass of the diagram renderer.
type Step int

// Render steps, in the order they are drawn. Later steps sit on top.
const (
	StepEdges Step = iota
	StepCircles
	StepCaptions
)

// order is the fixed draw order.
var order = [...]Step{StepEdges, StepCircles, StepCaptions}

func (s Step) String() string {
	switch s {
	case StepEdges:
		return "edges"
	case StepCircles:
		return "circles"
	case StepCaptions:
		return "captions"
	}
	return "unknown"
}

// Steps toggles the render steps. Toggling a step never changes the order
// the remaining steps are drawn in.
type Steps struct {
	Edges    bool `json:"edges" toml:"edges" yaml:"edges"`
	Circles  bool `json:"circles" toml:"circles" yaml:"circles"`
	Captions bool `json:"captions" toml:"captions" yaml:"captions"`
}

// AllSteps enables every step.
func AllSteps() Steps {
	return Steps{Edges: true, Circles: true, Captions: true}
}

// Enabled reports whether step s is drawn.
func (s Steps) Enabled(step Step) bool {
	switch step {
	case StepEdges:
		return s.Edges
	case StepCircles:
		return s.Circles
	case StepCaptions:
		return s.Captions
	}
	return false
}

// Shadow is a configurable drop shadow. Offset is in diagram units, y up.
type Shadow struct {
	Enabled bool         `json:"enabled" toml:"enabled" yaml:"enabled"`
	Offset  [2]float64   `json:"offset" toml:"offset" yaml:"offset"`
	Blur    float64      `json:"blur" toml:"blur" yaml:"blur"`
	Color   colors.Paint `json:"color" toml:"color" yaml:"color"`
}

func (s Shadow) withColor(c colors.Paint) *canvas.Shadow {
	if !s.Enabled {
		return nil
	}
	return &canvas.Shadow{Offset: canvas.Point{X: s.Offset[0], Y: s.Offset[1]}, Blur: s.Blur, Color: c}
}

// Config is the render configuration snapshot for one Draw call.
type Config struct {
	// LinesStrokeColor of "none" hides plain edges. Gradient edges ignore it.
	LinesStrokeColor colors.Paint `json:"lines_stroke_color" toml:"lines_stroke_color" yaml:"lines_stroke_color"`
	LinesStrokeWidth float64      `json:"lines_stroke_width" toml:"lines_stroke_width" yaml:"lines_stroke_width"`
	LinesDash        []float64    `json:"lines_dash" toml:"lines_dash" yaml:"lines_dash"`
	// LinesGradient strokes each edge with a gradient between its endpoint
	// colours, clipped to the circle outlines.
	LinesGradient bool `json:"lines_gradient" toml:"lines_gradient" yaml:"lines_gradient"`

	CirclesStrokeColor colors.Paint `json:"circles_stroke_color" toml:"circles_stroke_color" yaml:"circles_stroke_color"`
	CirclesStrokeWidth float64      `json:"circles_stroke_width" toml:"circles_stroke_width" yaml:"circles_stroke_width"`
	CirclesShadow      Shadow       `json:"circles_shadow" toml:"circles_shadow" yaml:"circles_shadow"`

	CaptionFont  string       `json:"caption_font" toml:"caption_font" yaml:"caption_font"`
	CaptionSize1 float64      `json:"caption_size1" toml:"caption_size1" yaml:"caption_size1"`
	CaptionSize2 float64      `json:"caption_size2" toml:"caption_size2" yaml:"caption_size2"`
	CaptionColor colors.Paint `json:"caption_color" toml:"caption_color" yaml:"caption_color"`
	// CaptionShadow supplies offset and blur; the colour is always derived
	// from the node colour, darkened by CaptionShadowDarken and faded to
	// CaptionShadowAlpha.
	CaptionShadow       Shadow  `json:"caption_shadow" toml:"caption_shadow" yaml:"caption_shadow"`
	CaptionShadowDarken float64 `json:"caption_shadow_darken" toml:"caption_shadow_darken" yaml:"caption_shadow_darken"`
	CaptionShadowAlpha  float64 `json:"caption_shadow_alpha" toml:"caption_shadow_alpha" yaml:"caption_shadow_alpha"`

	// DimColor replaces the palette colour of dimmed node types.
	DimColor colors.Paint `json:"dim_color" toml:"dim_color" yaml:"dim_color"`

	Steps Steps `json:"steps" toml:"steps" yaml:"steps"`
}

// DefaultConfig returns the look of the published FontParts map.
func DefaultConfig() Config {
	return Config{
		LinesStrokeColor: colors.Gray(0.6, 1),
		LinesStrokeWidth: 4,
		LinesDash:        []float64{3, 7},

		CirclesStrokeColor: colors.Gray(0, 1),
		CirclesStrokeWidth: 3,
		CirclesShadow: Shadow{
			Enabled: true,
			Offset:  [2]float64{10, 0},
			Blur:    15,
			Color:   colors.Gray(0, 0.25),
		},

		CaptionFont:  fonts.Default,
		CaptionSize1: 18,
		CaptionSize2: 32,
		CaptionColor: colors.Gray(1, 1),
		CaptionShadow: Shadow{
			Enabled: true,
			Offset:  [2]float64{2, -2},
			Blur:    5,
		},
		CaptionShadowDarken: 0.5,
		CaptionShadowAlpha:  0.6,

		DimColor: colors.Gray(0.85, 1),
		Steps:    AllSteps(),
	}
}

// Validate reports the first invalid field as a configuration error.
func (c Config) Validate() error {
	checks := []struct {
		field string
		fn    func(string, float64) error
		v     float64
	}{
		{"lines_stroke_width", errors.ValidateNonNegative, c.LinesStrokeWidth},
		{"circles_stroke_width", errors.ValidateNonNegative, c.CirclesStrokeWidth},
		{"circles_shadow.blur", errors.ValidateNonNegative, c.CirclesShadow.Blur},
		{"circles_shadow.offset[0]", errors.ValidateFinite, c.CirclesShadow.Offset[0]},
		{"circles_shadow.offset[1]", errors.ValidateFinite, c.CirclesShadow.Offset[1]},
		{"caption_size1", errors.ValidatePositive, c.CaptionSize1},
		{"caption_size2", errors.ValidatePositive, c.CaptionSize2},
		{"caption_shadow.blur", errors.ValidateNonNegative, c.CaptionShadow.Blur},
		{"caption_shadow.offset[0]", errors.ValidateFinite, c.CaptionShadow.Offset[0]},
		{"caption_shadow.offset[1]", errors.ValidateFinite, c.CaptionShadow.Offset[1]},
	}
	for _, chk := range checks {
		if err := chk.fn(chk.field, chk.v); err != nil {
			return err
		}
	}
	for _, d := range c.LinesDash {
		if err := errors.ValidateNonNegative("lines_dash", d); err != nil {
			return err
		}
	}
	unit := []struct {
		field string
		v     float64
	}{
		{"caption_shadow_darken", c.CaptionShadowDarken},
		{"caption_shadow_alpha", c.CaptionShadowAlpha},
	}
	for _, u := range unit {
		if u.v < 0 || u.v > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be within [0, 1], got %v", u.field, u.v).
				In(errors.PhaseConfig, "")
		}
	}
	if c.DimColor.IsNone() {
		return errors.New(errors.ErrCodeInvalidConfig, "dim_color must be a colour").In(errors.PhaseConfig, "")
	}
	if c.Steps.Captions && !fonts.Has(c.CaptionFont) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown caption_font %q (available: %v)", c.CaptionFont, fonts.Names()).
			In(errors.PhaseConfig, "")
	}
	return nil
}

// DimSet is the set of node types drawn in the dim colour.
type DimSet map[model.NodeType]bool

// NewDimSet returns a set holding types.
func NewDimSet(types ...model.NodeType) DimSet {
	d := make(DimSet, len(types))
	for _, t := range types {
		d[t] = true
	}
	return d
}

// Has reports whether n is dimmed. A nil set dims nothing.
func (d DimSet) Has(n model.NodeType) bool {
	return d[n]
}

// Except returns a set dimming every type in all except keep.
func Except(all []model.NodeType, keep model.NodeType) DimSet {
	d := make(DimSet, len(all))
	for _, t := range all {
		if t != keep {
			d[t] = true
		}
	}
	return d
}
