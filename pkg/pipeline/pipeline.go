// Package pipeline runs the configuration -> layout -> palette -> render ->
// encode sequence shared by the CLI and the HTTP server.
//
// By centralizing this logic, both entry points produce byte-identical
// artifacts for the same configuration snapshot.
//
// # Artifacts
//
// A [Runner] produces five artifact families:
//
//  1. Diagram: the radial map of the model, in svg, png, json (the recorded
//     draw operations) or dot
//  2. Swatches: the colour sheet, one row per colour group
//  3. Logotype: a word drawn as annotated glyph outlines
//  4. Graph: the hierarchy as a node-link graph laid out by Graphviz
//  5. Frames: an animated diagram sequence, rendered in parallel
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	res, err := runner.Diagram(ctx, pipeline.Options{
//	    Config:  config.Default(),
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/config"
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/fonts"
	"github.com/fontparts/partsmap/pkg/layout"
	"github.com/fontparts/partsmap/pkg/model"
	"github.com/fontparts/partsmap/pkg/render/diagram"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultSeed seeds the layout jitter when Options.Seed is zero.
	DefaultSeed = uint64(42)

	// DefaultFrameCount is the number of jitter frames.
	DefaultFrameCount = 12

	// TitleSize is the em size of the optional diagram title.
	TitleSize = 48.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// Frame sequence modes.
const (
	// ModeHighlight renders one frame per node type, dimming all others.
	ModeHighlight = "highlight"
	// ModeJitter renders frames with successive jitter seeds.
	ModeJitter = "jitter"
)

// ValidModes is the set of supported frame modes.
var ValidModes = map[string]bool{
	ModeHighlight: true,
	ModeJitter:    true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures a diagram or swatch render.
type Options struct {
	// Config is the snapshot to render. Start from config.Default().
	Config config.Config
	// Model is the vocabulary; the zero value means model.FontParts().
	Model model.Model

	Formats []string

	// Highlight dims every node type except this one.
	Highlight model.NodeType
	// Dim lists further node types drawn in the dim colour.
	Dim []model.NodeType

	// Seed drives the layout jitter. Zero means DefaultSeed.
	Seed uint64

	// Title is drawn as glyph outlines above the diagram.
	Title     string
	TitleFont string

	// Reduced hangs the intermediate and second primary straight below the
	// first primary.
	Reduced bool
	// FanSpan, when positive, replaces the three tier angles with steps that
	// fan each tier evenly over this many degrees.
	FanSpan float64

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a render.
type Result struct {
	// Layout is empty for swatch and logotype renders.
	Layout  layout.Layout
	Palette colors.Palette
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte
	Stats     Stats
}

// Stats contains timing and size information.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(sortedKeys(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a frame mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid mode: %q (must be one of: %s)", mode, strings.Join(sortedKeys(ValidModes), ", "))
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Model.Tree) == 0 {
		o.Model = model.FontParts()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.TitleFont == "" {
		o.TitleFont = fonts.Default
	}

	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Model.Validate(); err != nil {
		return err
	}
	if err := o.applyLayoutShape(); err != nil {
		return err
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if !fonts.Has(o.TitleFont) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown title font %q (available: %v)", o.TitleFont, fonts.Names()).
			In(errors.PhaseConfig, "")
	}
	for _, n := range append([]model.NodeType{o.Highlight}, o.Dim...) {
		if n != "" && !o.Model.Has(n) {
			return errors.New(errors.ErrCodeUnknownNode, "unknown node type %q", n).In(errors.PhaseConfig, string(n))
		}
	}
	o.validated = true
	return nil
}

// applyLayoutShape folds Reduced and FanSpan into the layout config.
func (o *Options) applyLayoutShape() error {
	if o.Reduced {
		o.Config.Layout = layout.Reduced(o.Config.Layout)
	}
	if o.FanSpan == 0 {
		return nil
	}
	if err := errors.ValidatePositive("fan_span", o.FanSpan); err != nil {
		return err
	}
	cfg, err := layout.AutoAngles(o.Config.Layout, o.Model, o.FanSpan)
	if err != nil {
		return err
	}
	o.Config.Layout = cfg
	return nil
}

// DimSet returns the node types to dim: every type but Highlight when it
// is set, plus Dim.
func (o *Options) DimSet() diagram.DimSet {
	dim := diagram.NewDimSet(o.Dim...)
	if o.Highlight != "" {
		for n := range diagram.Except(o.Model.Types(), o.Highlight) {
			dim[n] = true
		}
	}
	return dim
}

// LogotypeOptions configures a logotype render. The text, fonts and
// layers come from Config.Logotype.
type LogotypeOptions struct {
	Config config.Config
	// Model supplies the palette; the zero value means model.FontParts().
	Model   model.Model
	Formats []string

	validated bool
}

// ValidateAndSetDefaults checks every field and applies defaults.
func (o *LogotypeOptions) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Model.Tree) == 0 {
		o.Model = model.FontParts()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if slices.Contains(o.Formats, FormatDOT) {
		return errors.New(errors.ErrCodeUnsupported, "the logotype has no dot form").In(errors.PhaseConfig, "")
	}
	if err := o.Model.Validate(); err != nil {
		return err
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// FrameOptions configures an animated sequence.
type FrameOptions struct {
	Options

	Mode string
	// Count is the number of jitter frames. Highlight mode renders one
	// frame per node type and ignores it.
	Count int
	// Format is the single output format of every frame.
	Format string
	// Parallelism bounds concurrent frames. Zero means one per CPU.
	Parallelism int
}

// Frame is one rendered frame of a sequence.
type Frame struct {
	Index int
	// Label names the highlighted node type or the jitter seed.
	Label string
	Data  []byte
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
