// Package config holds the configuration snapshot a render is made from.
//
// A snapshot groups every tunable of the pipeline: where the diagram is
// rooted, the layout geometry, the render look, the colour scheme and the
// canvas. [Default] is the one place default values are defined; config
// files only overlay the keys they name.
//
// # File formats
//
// [Load] reads TOML (.toml) or YAML (.yaml, .yml). Unknown keys are an
// error in both formats, so a misspelt key never silently falls back to
// its default:
//
//	[layout]
//	radius1 = 60
//	randomness = 4
//
//	[render]
//	lines_gradient = true
//	dim_color = "#dddddd"
package config

import (
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/fonts"
	"github.com/fontparts/partsmap/pkg/layout"
	"github.com/fontparts/partsmap/pkg/model"
	"github.com/fontparts/partsmap/pkg/render/diagram"
	"github.com/fontparts/partsmap/pkg/render/swatch"
)

// Canvas describes the output surface.
type Canvas struct {
	Width      float64      `json:"width" toml:"width" yaml:"width"`
	Height     float64      `json:"height" toml:"height" yaml:"height"`
	Scale      float64      `json:"scale" toml:"scale" yaml:"scale"`
	Background colors.Paint `json:"background" toml:"background" yaml:"background"`
	// Fit centres the diagram on the canvas instead of drawing it at Root.
	Fit bool `json:"fit" toml:"fit" yaml:"fit"`
	// EmbedFonts inlines the caption fonts into SVG output.
	EmbedFonts bool `json:"embed_fonts" toml:"embed_fonts" yaml:"embed_fonts"`
}

// Swatch configures the swatch sheet.
type Swatch struct {
	Cell     swatch.Size `json:"cell" toml:"cell" yaml:"cell"`
	Padding  float64     `json:"padding" toml:"padding" yaml:"padding"`
	Captions bool        `json:"captions" toml:"captions" yaml:"captions"`
}

// Logotype configures the annotated glyph logotype.
type Logotype struct {
	Text string `json:"text" toml:"text" yaml:"text"`
	Font string `json:"font" toml:"font" yaml:"font"`
	// BlendWith names a second font; outlines are interpolated between
	// Font and BlendWith at Factor.
	BlendWith string           `json:"blend_with" toml:"blend_with" yaml:"blend_with"`
	Factor    float64          `json:"factor" toml:"factor" yaml:"factor"`
	Scale     float64          `json:"scale" toml:"scale" yaml:"scale"`
	Layers    []model.NodeType `json:"layers" toml:"layers" yaml:"layers"`
}

// Config is a complete configuration snapshot.
type Config struct {
	// Root is where the first primary node is placed.
	Root     layout.Point   `json:"root" toml:"root" yaml:"root"`
	Canvas   Canvas         `json:"canvas" toml:"canvas" yaml:"canvas"`
	Layout   layout.Config  `json:"layout" toml:"layout" yaml:"layout"`
	Render   diagram.Config `json:"render" toml:"render" yaml:"render"`
	Scheme   colors.Scheme  `json:"scheme" toml:"scheme" yaml:"scheme"`
	Swatch   Swatch         `json:"swatch" toml:"swatch" yaml:"swatch"`
	Logotype Logotype       `json:"logotype" toml:"logotype" yaml:"logotype"`
}

// Default returns the canonical snapshot.
func Default() Config {
	return Config{
		Root: layout.Point{X: 500, Y: 500},
		Canvas: Canvas{
			Width:      1000,
			Height:     1000,
			Scale:      1,
			Background: colors.Gray(1, 1),
			Fit:        true,
		},
		Layout: layout.DefaultConfig(),
		Render: diagram.DefaultConfig(),
		Scheme: colors.DefaultScheme(),
		Swatch: Swatch{
			Cell:     swatch.Size{W: 120, H: 80},
			Padding:  10,
			Captions: true,
		},
		Logotype: Logotype{
			Text:   "FontParts",
			Font:   fonts.GoBold,
			Factor: 0.5,
			Scale:  0.2,
			Layers: []model.NodeType{model.Info, model.Glyph, model.Anchor, model.Contour, model.Point},
		},
	}
}

// Validate checks every section and reports the first problem.
func (c Config) Validate() error {
	for _, v := range []struct {
		field string
		fn    func(string, float64) error
		v     float64
	}{
		{"root.x", errors.ValidateFinite, c.Root.X},
		{"root.y", errors.ValidateFinite, c.Root.Y},
		{"canvas.width", errors.ValidatePositive, c.Canvas.Width},
		{"canvas.height", errors.ValidatePositive, c.Canvas.Height},
		{"canvas.scale", errors.ValidatePositive, c.Canvas.Scale},
		{"swatch.cell.w", errors.ValidatePositive, c.Swatch.Cell.W},
		{"swatch.cell.h", errors.ValidatePositive, c.Swatch.Cell.H},
		{"swatch.padding", errors.ValidateNonNegative, c.Swatch.Padding},
		{"logotype.scale", errors.ValidatePositive, c.Logotype.Scale},
	} {
		if err := v.fn(v.field, v.v); err != nil {
			return err
		}
	}
	if c.Logotype.Factor < 0 || c.Logotype.Factor > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "logotype.factor must be within [0, 1], got %v", c.Logotype.Factor).
			In(errors.PhaseConfig, "")
	}
	for _, f := range []string{c.Logotype.Font, c.Logotype.BlendWith} {
		if f != "" && !fonts.Has(f) {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown logotype font %q (available: %v)", f, fonts.Names()).
				In(errors.PhaseConfig, "")
		}
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}
	return c.Scheme.Validate()
}

// Load reads a config file over Default and validates the result. The
// format is chosen by extension.
func Load(path string) (Config, error) {
	cfg := Default()
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = loadTOML(path, &cfg)
	case ".yaml", ".yml":
		err = loadYAML(path, &cfg)
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (want .toml, .yaml or .yml)", ext).
			In(errors.PhaseConfig, "")
	}
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadTOML(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path).In(errors.PhaseConfig, "")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(names, ", ")).
			In(errors.PhaseConfig, "")
	}
	return nil
}

func loadYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path).In(errors.PhaseConfig, "")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path).In(errors.PhaseConfig, "")
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config").In(errors.PhaseEncode, "")
	}
	return nil
}
