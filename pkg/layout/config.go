package layout

import (
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/model"
)

// Config holds the polar parameters of the radial layout. Angles are in
// degrees, counter-clockwise from the positive x axis.
type Config struct {
	// Radius1 is the circle radius of secondary node types.
	Radius1 float64 `json:"radius1" toml:"radius1" yaml:"radius1"`
	// Radius2 is the circle radius of the two primary node types.
	Radius2 float64 `json:"radius2" toml:"radius2" yaml:"radius2"`

	// Length1 is the distance from a parent to its children.
	Length1 float64 `json:"length1" toml:"length1" yaml:"length1"`
	// Length2 is the distance PrimaryA -> Intermediate -> PrimaryB.
	Length2 float64 `json:"length2" toml:"length2" yaml:"length2"`
	// Length3 overrides the tertiary tier distance when positive. Zero means
	// Length1 - (Radius2 - Radius1).
	Length3 float64 `json:"length3" toml:"length3" yaml:"length3"`

	Angle1 float64 `json:"angle1" toml:"angle1" yaml:"angle1"`
	Angle2 float64 `json:"angle2" toml:"angle2" yaml:"angle2"`
	Angle3 float64 `json:"angle3" toml:"angle3" yaml:"angle3"`

	AngleStart0 float64 `json:"angle_start0" toml:"angle_start0" yaml:"angle_start0"`
	AngleStart1 float64 `json:"angle_start1" toml:"angle_start1" yaml:"angle_start1"`
	AngleStart2 float64 `json:"angle_start2" toml:"angle_start2" yaml:"angle_start2"`
	AngleStart3 float64 `json:"angle_start3" toml:"angle_start3" yaml:"angle_start3"`
	AngleStart4 float64 `json:"angle_start4" toml:"angle_start4" yaml:"angle_start4"`

	// Randomness bounds the per-axis integer jitter. Zero disables it.
	Randomness int `json:"randomness" toml:"randomness" yaml:"randomness"`
}

// DefaultConfig is the vertical FontParts map: font on top, layer and glyph
// hanging below, glyph children sweeping clockwise.
func DefaultConfig() Config {
	return Config{
		Radius1:     55,
		Radius2:     87,
		Length1:     180,
		Length2:     180,
		Angle1:      50,
		Angle2:      45,
		Angle3:      -55,
		AngleStart0: -90,
		AngleStart1: 0,
		AngleStart2: 30,
		AngleStart3: -165,
		AngleStart4: -90,
	}
}

// Reduced returns cfg in the two-offset form: the intermediate and second
// primary sit straight below the first primary.
func Reduced(cfg Config) Config {
	cfg.AngleStart0 = -90
	cfg.AngleStart4 = -90
	return cfg
}

// TertiaryLength returns the child distance used for the tertiary tier.
func (c Config) TertiaryLength() float64 {
	if c.Length3 > 0 {
		return c.Length3
	}
	return c.Length1 - (c.Radius2 - c.Radius1)
}

// Validate reports the first invalid field as a configuration error.
func (c Config) Validate() error {
	checks := []struct {
		field string
		fn    func(string, float64) error
		v     float64
	}{
		{"radius1", errors.ValidatePositive, c.Radius1},
		{"radius2", errors.ValidatePositive, c.Radius2},
		{"length1", errors.ValidatePositive, c.Length1},
		{"length2", errors.ValidatePositive, c.Length2},
		{"length3", errors.ValidateNonNegative, c.Length3},
		{"angle1", errors.ValidateFinite, c.Angle1},
		{"angle2", errors.ValidateFinite, c.Angle2},
		{"angle3", errors.ValidateFinite, c.Angle3},
		{"angle_start0", errors.ValidateFinite, c.AngleStart0},
		{"angle_start1", errors.ValidateFinite, c.AngleStart1},
		{"angle_start2", errors.ValidateFinite, c.AngleStart2},
		{"angle_start3", errors.ValidateFinite, c.AngleStart3},
		{"angle_start4", errors.ValidateFinite, c.AngleStart4},
		{"randomness", errors.ValidateNonNegative, float64(c.Randomness)},
	}
	for _, chk := range checks {
		if err := chk.fn(chk.field, chk.v); err != nil {
			return err
		}
	}
	if c.Radius2 < c.Radius1 {
		return errors.New(errors.ErrCodeInvalidConfig, "radius2 (%v) must not be smaller than radius1 (%v)", c.Radius2, c.Radius1).
			In(errors.PhaseConfig, "")
	}
	if c.TertiaryLength() <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tertiary tier distance %v is not positive; raise length1 or set length3",
			c.TertiaryLength()).In(errors.PhaseConfig, "")
	}
	return nil
}

// Spread returns the angular step that fans n children evenly over span
// degrees. A tier without children has no defined step.
func Spread(span float64, n int) (float64, error) {
	if n <= 0 {
		return 0, errors.New(errors.ErrCodeEmptyTier, "cannot spread %v degrees over %d children", span, n).
			In(errors.PhaseLayout, "")
	}
	return span / float64(n), nil
}

// AutoAngles sets Angle1, Angle2 and Angle3 so that each tier fans evenly
// over span degrees. The sweep direction of each tier is preserved.
func AutoAngles(cfg Config, m model.Model, span float64) (Config, error) {
	tiers := []struct {
		parent model.NodeType
		angle  *float64
	}{
		{m.PrimaryA, &cfg.Angle1},
		{m.PrimaryB, &cfg.Angle2},
		{m.TertiaryRoot, &cfg.Angle3},
	}
	for _, t := range tiers {
		step, err := Spread(span, len(m.Children(t.parent)))
		if err != nil {
			err.(*errors.Error).Node = string(t.parent)
			return cfg, err
		}
		if *t.angle < 0 {
			step = -step
		}
		*t.angle = step
	}
	return cfg, nil
}
