package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/config"
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/glyph"
	"github.com/fontparts/partsmap/pkg/layout"
	"github.com/fontparts/partsmap/pkg/model"
	"github.com/fontparts/partsmap/pkg/observability"
	"github.com/fontparts/partsmap/pkg/render/diagram"
	"github.com/fontparts/partsmap/pkg/render/logotype"
	"github.com/fontparts/partsmap/pkg/render/nodelink"
	"github.com/fontparts/partsmap/pkg/render/swatch"
)

// Runner executes renders. It stores no results; multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
	// Hooks receives layout and render events. Nil means the globally
	// registered observability.Pipeline hooks.
	Hooks observability.PipelineHooks
}

// NewRunner creates a runner. If logger is nil, output is discarded.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = discardLogger()
	}
	return &Runner{Logger: logger}
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Hooks != nil {
		return r.Hooks
	}
	return observability.Pipeline()
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return discardLogger()
}

// Diagram computes the layout, derives the palette and renders the
// diagram in every requested format.
func (r *Runner) Diagram(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	palette, err := opts.Config.Scheme.Derive(opts.Model)
	if err != nil {
		return nil, err
	}

	layoutStart := time.Now()
	l, err := r.computeLayout(ctx, opts, opts.Seed)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Layout:  l,
		Palette: palette,
		Stats: Stats{
			NodeCount:  len(l.Nodes),
			EdgeCount:  len(l.Edges),
			LayoutTime: time.Since(layoutStart),
		},
	}
	r.logger().Debug("computed layout",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, err := r.renderDiagram(ctx, opts, l, palette, opts.DimSet(), opts.Formats)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.logger().Info("rendered diagram",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Swatches renders the colour sheet of the palette.
func (r *Runner) Swatches(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if slices.Contains(opts.Formats, FormatDOT) {
		return nil, errors.New(errors.ErrCodeUnsupported, "the swatch sheet has no dot form").In(errors.PhaseConfig, "")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	palette, err := opts.Config.Scheme.Derive(opts.Model)
	if err != nil {
		return nil, err
	}

	sw := swatch.DefaultOptions()
	sw.CellSize = opts.Config.Swatch.Cell
	sw.Padding = opts.Config.Swatch.Padding
	sw.Captions = opts.Config.Swatch.Captions
	groups := swatch.Groups(opts.Model)
	w, h := swatch.Extent(groups, sw)
	w += 2 * sw.Origin.X
	h += 2 * sw.Origin.Y

	start := time.Now()
	artifacts, err := r.render(ctx, "swatches", opts.Formats, w, h, opts.Config.Canvas, "", func(c canvas.Canvas) error {
		return swatch.Draw(c, palette, groups, sw)
	})
	if err != nil {
		return nil, err
	}
	r.logger().Info("rendered swatches", "formats", opts.Formats, "groups", len(groups), "duration", time.Since(start))
	return &Result{
		Palette:   palette,
		Artifacts: artifacts,
		Stats:     Stats{NodeCount: palette.Len(), RenderTime: time.Since(start)},
	}, nil
}

// logotypeMargin surrounds the logotype on every side, in canvas units.
const logotypeMargin = 40.0

// Logotype renders Config.Logotype.Text from the configured font, or from
// a blend of Font and BlendWith at Factor.
func (r *Runner) Logotype(ctx context.Context, opts LogotypeOptions) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	palette, err := opts.Config.Scheme.Derive(opts.Model)
	if err != nil {
		return nil, err
	}
	lc := opts.Config.Logotype
	src, err := logotypeSource(lc)
	if err != nil {
		return nil, err
	}

	lo := logotype.DefaultOptions()
	lo.Text = lc.Text
	lo.Scale = lc.Scale
	lo.Layers = make(map[model.NodeType]bool, len(lc.Layers))
	for _, n := range lc.Layers {
		lo.Layers[n] = true
	}
	box, err := logotype.Bounds(src, lo)
	if err != nil {
		return nil, err
	}
	lo.Origin = canvas.Point{X: logotypeMargin - box.X, Y: logotypeMargin - box.Y}

	start := time.Now()
	artifacts, err := r.render(ctx, "logotype", opts.Formats, box.W+2*logotypeMargin, box.H+2*logotypeMargin, opts.Config.Canvas, lc.Text,
		func(c canvas.Canvas) error {
			return logotype.Draw(c, src, palette, lo)
		})
	if err != nil {
		return nil, err
	}
	r.logger().Info("rendered logotype", "text", lc.Text, "font", lc.Font, "blend_with", lc.BlendWith, "duration", time.Since(start))
	return &Result{
		Palette:   palette,
		Artifacts: artifacts,
		Stats:     Stats{NodeCount: len(lc.Layers), RenderTime: time.Since(start)},
	}, nil
}

func logotypeSource(lc config.Logotype) (glyph.Source, error) {
	a, err := glyph.Open(lc.Font)
	if err != nil {
		return nil, err
	}
	if lc.BlendWith == "" {
		return a, nil
	}
	b, err := glyph.Open(lc.BlendWith)
	if err != nil {
		return nil, err
	}
	return glyph.Blend{A: a, B: b, T: lc.Factor}, nil
}

// Frames renders an animated sequence. Frames are independent: each one
// gets its own layout and canvas, and they render concurrently. The
// result is in frame order.
func (r *Runner) Frames(ctx context.Context, opts FrameOptions) ([]Frame, error) {
	if err := opts.Options.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ValidateMode(opts.Mode); err != nil {
		return nil, err
	}
	if opts.Format == "" {
		opts.Format = FormatSVG
	}
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	if opts.Count <= 0 {
		opts.Count = DefaultFrameCount
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}

	palette, err := opts.Config.Scheme.Derive(opts.Model)
	if err != nil {
		return nil, err
	}

	n := opts.Count
	types := opts.Model.Types()
	if opts.Mode == ModeHighlight {
		n = len(types)
	} else if opts.Config.Layout.Randomness == 0 {
		r.logger().Warn("jitter frames with zero randomness are identical")
	}

	frames := make([]Frame, n)
	hooks := r.hooks()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			frame, err := r.frame(gctx, opts, palette, types, i)
			hooks.OnFrame(gctx, i, n, time.Since(start), err)
			if err != nil {
				return err
			}
			frames[i] = frame
			r.logger().Debug("rendered frame", "index", i, "label", frame.Label, "duration", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logger().Info("rendered frames", "mode", opts.Mode, "count", n, "format", opts.Format)
	return frames, nil
}

func (r *Runner) frame(ctx context.Context, opts FrameOptions, palette colors.Palette, types []model.NodeType, i int) (Frame, error) {
	frame := Frame{Index: i}
	seed := opts.Seed
	dim := opts.DimSet()
	switch opts.Mode {
	case ModeHighlight:
		frame.Label = string(types[i])
		for n := range diagram.Except(types, types[i]) {
			dim[n] = true
		}
	case ModeJitter:
		seed += uint64(i)
		frame.Label = fmt.Sprintf("seed-%d", seed)
	}

	l, err := r.computeLayout(ctx, opts.Options, seed)
	if err != nil {
		return Frame{}, err
	}
	artifacts, err := r.renderDiagram(ctx, opts.Options, l, palette, dim, []string{opts.Format})
	if err != nil {
		return Frame{}, err
	}
	frame.Data = artifacts[opts.Format]
	return frame, nil
}

// computeLayout places the model for opts, centred on the canvas when
// Canvas.Fit is set.
func (r *Runner) computeLayout(ctx context.Context, opts Options, seed uint64) (layout.Layout, error) {
	cfg := opts.Config
	root := cfg.Root
	if cfg.Canvas.Fit {
		var err error
		if root, err = fitRoot(cfg, opts.Model, titleBand(opts.Title)); err != nil {
			return layout.Layout{}, err
		}
	}

	hooks := r.hooks()
	count := len(opts.Model.Types())
	hooks.OnLayoutStart(ctx, count)
	start := time.Now()
	l, err := layout.Compute(root, cfg.Layout, opts.Model, layout.WithSeed(seed))
	hooks.OnLayoutComplete(ctx, count, time.Since(start), err)
	return l, err
}

// fitRoot returns the root that centres the unjittered layout in the
// canvas area below the title band. Jittered layouts share this root, so
// the frames of a sequence stay registered.
func fitRoot(cfg config.Config, m model.Model, band float64) (layout.Point, error) {
	still := cfg.Layout
	still.Randomness = 0
	l, err := layout.Compute(layout.Point{}, still, m)
	if err != nil {
		return layout.Point{}, err
	}
	lo, hi := l.Bounds()
	return layout.Point{
		X: cfg.Canvas.Width/2 - (lo.X+hi.X)/2,
		Y: (cfg.Canvas.Height-band)/2 - (lo.Y+hi.Y)/2,
	}, nil
}

func titleBand(title string) float64 {
	if title == "" {
		return 0
	}
	return 2 * TitleSize
}

func (r *Runner) renderDiagram(ctx context.Context, opts Options, l layout.Layout, p colors.Palette, dim diagram.DimSet, formats []string) (map[string][]byte, error) {
	cv := opts.Config.Canvas
	artifacts, err := r.render(ctx, "diagram", without(formats, FormatDOT), cv.Width, cv.Height, cv, opts.Title, func(c canvas.Canvas) error {
		if err := diagram.Draw(c, l, p, dim, opts.Config.Render); err != nil {
			return err
		}
		return drawTitle(c, opts)
	})
	if err != nil {
		return nil, err
	}
	if slices.Contains(formats, FormatDOT) {
		artifacts[FormatDOT] = []byte(nodelink.ToDOT(opts.Model, p, dim, nodelink.Options{DimColor: opts.Config.Render.DimColor}))
	}
	return artifacts, nil
}

// drawTitle centres opts.Title in the band above the diagram.
func drawTitle(c canvas.Canvas, opts Options) error {
	if opts.Title == "" {
		return nil
	}
	// one source per call: an SFNT source is not safe for concurrent use
	src, err := glyph.Open(opts.TitleFont)
	if err != nil {
		return err
	}
	w, err := glyph.Measure(src, opts.Title, TitleSize)
	if err != nil {
		return err
	}
	cv := opts.Config.Canvas
	c.Save()
	c.Translate((cv.Width-w)/2, cv.Height-titleBand(opts.Title)+TitleSize/2)
	_, err = glyph.DrawText(c, src, opts.Title, TitleSize, colors.Gray(0, 1))
	c.Restore()
	return err
}

func without(formats []string, drop string) []string {
	return slices.DeleteFunc(slices.Clone(formats), func(f string) bool { return f == drop })
}
