package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fontparts/partsmap/pkg/config"
	"github.com/fontparts/partsmap/pkg/model"
	"github.com/fontparts/partsmap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command. Flags
// left unset keep the configuration snapshot's value.
type renderOpts struct {
	output     string // output file path (or base path for multiple outputs)
	formats    string // comma-separated output formats
	highlight  string // node type drawn in colour, everything else dimmed
	dim        string // comma-separated node types drawn in the dim colour
	title      string // title drawn above the diagram
	titleFont  string // built-in font of the title
	seed       uint64 // jitter seed
	randomness int    // per-axis jitter bound (0 disables jitter)
	gradient   bool   // stroke edges with endpoint gradients
	captions   bool   // draw node captions
	reduced    bool   // hang the intermediate and second primary below the first
	fan        float64
	canvas     canvasOpts
}

// canvasOpts are the canvas overrides shared by every drawing command.
type canvasOpts struct {
	width  float64
	height float64
	scale  float64
}

func (o *canvasOpts) register(fs *pflag.FlagSet, cv config.Canvas) {
	fs.Float64Var(&o.width, "width", cv.Width, "canvas width")
	fs.Float64Var(&o.height, "height", cv.Height, "canvas height")
	fs.Float64Var(&o.scale, "scale", cv.Scale, "pixels per canvas unit")
}

func (o *canvasOpts) apply(fs *pflag.FlagSet, cv *config.Canvas) {
	if fs.Changed("width") {
		cv.Width = o.width
	}
	if fs.Changed("height") {
		cv.Height = o.height
	}
	if fs.Changed("scale") {
		cv.Scale = o.scale
	}
}

// renderCommand creates the render command for drawing the radial diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := newRenderOpts(defaultOutput)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the radial diagram",
		Long: `Render the FontParts object model as a radial diagram.

Formats: svg (default), png, json (the recorded draw operations), dot.`,
		Example: `  partsmap render
  partsmap render -f svg,png -o map --highlight glyph
  partsmap render --randomness 10 --seed 7 --title FontParts
  partsmap render --reduced --fan 150`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	opts.register(cmd)

	return cmd
}

// newRenderOpts returns the flag defaults, taken from the default snapshot.
func newRenderOpts(output string) renderOpts {
	def := config.Default()
	return renderOpts{
		output:     output,
		randomness: def.Layout.Randomness,
		gradient:   def.Render.LinesGradient,
		captions:   def.Render.Steps.Captions,
		seed:       pipeline.DefaultSeed,
	}
}

// register adds the diagram flags shared by render and animate.
func (o *renderOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.highlight, "highlight", "", "node type to highlight; all others are dimmed")
	cmd.Flags().StringVar(&o.dim, "dim", "", "node types to dim (comma-separated)")
	cmd.Flags().StringVar(&o.title, "title", "", "title drawn above the diagram")
	cmd.Flags().StringVar(&o.titleFont, "title-font", "", "built-in font of the title")
	cmd.Flags().Uint64Var(&o.seed, "seed", o.seed, "jitter seed")
	cmd.Flags().IntVar(&o.randomness, "randomness", o.randomness, "per-axis jitter bound (0 disables jitter)")
	cmd.Flags().BoolVar(&o.gradient, "gradient", o.gradient, "stroke edges with endpoint gradients")
	cmd.Flags().BoolVar(&o.captions, "captions", o.captions, "draw node captions")
	cmd.Flags().BoolVar(&o.reduced, "reduced", false, "hang the intermediate and second primary straight below the first")
	cmd.Flags().Float64Var(&o.fan, "fan", 0, "fan every tier evenly over this many degrees (0 keeps the configured angles)")
	o.canvas.register(cmd.Flags(), config.Default().Canvas)
}

// diagramOptions overlays the flags that were set onto the snapshot.
func (c *CLI) diagramOptions(cmd *cobra.Command, opts *renderOpts) pipeline.Options {
	cfg := c.cfg
	flags := cmd.Flags()
	if flags.Changed("randomness") {
		cfg.Layout.Randomness = opts.randomness
	}
	if flags.Changed("gradient") {
		cfg.Render.LinesGradient = opts.gradient
	}
	if flags.Changed("captions") {
		cfg.Render.Steps.Captions = opts.captions
	}
	opts.canvas.apply(flags, &cfg.Canvas)

	return pipeline.Options{
		Config:    cfg,
		Formats:   parseFormats(opts.formats),
		Highlight: model.NodeType(opts.highlight),
		Dim:       parseNodeTypes(opts.dim),
		Seed:      opts.seed,
		Title:     opts.title,
		TitleFont: opts.titleFont,
		Reduced:   opts.reduced,
		FanSpan:   opts.fan,
	}
}

func (c *CLI) runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	po := c.diagramOptions(cmd, opts)

	res, err := c.runWithSpinner(ctx, "Rendering diagram", func() (*pipeline.Result, error) {
		return c.newRunner().Diagram(ctx, po)
	})
	if err != nil {
		return err
	}

	printSuccess("Rendered diagram")
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.LayoutTime+res.Stats.RenderTime)
	return writeArtifacts(opts.output, po.Formats, res.Artifacts)
}

// swatchesCommand creates the swatches command for drawing the colour sheet.
func (c *CLI) swatchesCommand() *cobra.Command {
	var output, formats string
	var captions bool

	cmd := &cobra.Command{
		Use:   "swatches",
		Short: "Render the colour swatch sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg
			if cmd.Flags().Changed("captions") {
				cfg.Swatch.Captions = captions
			}
			po := pipeline.Options{Config: cfg, Formats: parseFormats(formats)}

			res, err := c.runWithSpinner(ctx, "Rendering swatches", func() (*pipeline.Result, error) {
				return c.newRunner().Swatches(ctx, po)
			})
			if err != nil {
				return err
			}
			printSuccess("Rendered %d swatches", res.Palette.Len())
			return writeArtifacts(output, po.Formats, res.Artifacts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultOutput+"_swatches", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().BoolVar(&captions, "captions", config.Default().Swatch.Captions, "label each swatch")

	return cmd
}

// logotypeOpts holds the command-line flags for the logotype command.
type logotypeOpts struct {
	output    string
	formats   string
	text      string
	font      string
	blendWith string
	factor    float64
	scale     float64
	layers    string
}

// logotypeCommand creates the logotype command for drawing annotated glyphs.
func (c *CLI) logotypeCommand() *cobra.Command {
	def := config.Default().Logotype
	opts := logotypeOpts{
		output: defaultOutput + "_logotype",
		text:   def.Text,
		font:   def.Font,
		factor: def.Factor,
		scale:  def.Scale,
	}

	cmd := &cobra.Command{
		Use:   "logotype",
		Short: "Render a word as annotated glyph outlines",
		Long: `Render a word as glyph outlines annotated with the FontParts layers
that make it up: info metrics, glyph boxes, anchors, contours and points.

With --blend-with the outlines are interpolated between two fonts.`,
		Example: `  partsmap logotype --text Hamburg
  partsmap logotype --font goregular --blend-with gobold --factor 0.3
  partsmap logotype --layers contour,point -f png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lo := pipeline.LogotypeOptions{Config: c.logotypeConfig(cmd, &opts), Formats: parseFormats(opts.formats)}

			res, err := c.runWithSpinner(ctx, "Rendering logotype", func() (*pipeline.Result, error) {
				return c.newRunner().Logotype(ctx, lo)
			})
			if err != nil {
				return err
			}
			printSuccess("Rendered %q", lo.Config.Logotype.Text)
			return writeArtifacts(opts.output, lo.Formats, res.Artifacts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.text, "text", opts.text, "text to draw")
	cmd.Flags().StringVar(&opts.font, "font", opts.font, "built-in font")
	cmd.Flags().StringVar(&opts.blendWith, "blend-with", "", "second font to interpolate towards")
	cmd.Flags().Float64Var(&opts.factor, "factor", opts.factor, "interpolation factor between the fonts")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "canvas units per font unit")
	cmd.Flags().StringVar(&opts.layers, "layers", "", "annotation layers (comma-separated node types)")

	return cmd
}

func (c *CLI) logotypeConfig(cmd *cobra.Command, opts *logotypeOpts) config.Config {
	cfg := c.cfg
	lc := &cfg.Logotype
	flags := cmd.Flags()
	if flags.Changed("text") {
		lc.Text = opts.text
	}
	if flags.Changed("font") {
		lc.Font = opts.font
	}
	if flags.Changed("blend-with") {
		lc.BlendWith = opts.blendWith
	}
	if flags.Changed("factor") {
		lc.Factor = opts.factor
	}
	if flags.Changed("scale") {
		lc.Scale = opts.scale
	}
	if flags.Changed("layers") {
		lc.Layers = parseNodeTypes(opts.layers)
	}
	return cfg
}

// runWithSpinner logs the start of a render and runs it under a spinner
// when the CLI logs to a terminal.
func (c *CLI) runWithSpinner(ctx context.Context, message string, fn func() (*pipeline.Result, error)) (*pipeline.Result, error) {
	loggerFromContext(ctx).Debug(message)
	if c.tty == nil {
		return withSpinner(ctx, nil, message, fn)
	}
	return withSpinner(ctx, c.tty, message, fn)
}

// graphCommand creates the graph command for the Graphviz node-link view.
func (c *CLI) graphCommand() *cobra.Command {
	var output, formats, highlight, dim string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the model hierarchy as a node-link graph",
		Long: `Render the FontParts hierarchy as a node-link graph laid out by Graphviz.

Formats: svg (default), png, dot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			po := pipeline.Options{
				Config:    c.cfg,
				Formats:   parseFormats(formats),
				Highlight: model.NodeType(highlight),
				Dim:       parseNodeTypes(dim),
			}
			res, err := c.runWithSpinner(ctx, "Rendering graph", func() (*pipeline.Result, error) {
				return c.newRunner().Graph(ctx, po)
			})
			if err != nil {
				return err
			}
			printSuccess("Rendered graph")
			printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.RenderTime)
			return writeArtifacts(output, po.Formats, res.Artifacts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultOutput+"_graph", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().StringVar(&highlight, "highlight", "", "node type to highlight; all others are dimmed")
	cmd.Flags().StringVar(&dim, "dim", "", "node types to dim (comma-separated)")
	return cmd
}
