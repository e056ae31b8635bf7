package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/render/nodelink"
)

// Graph renders the model hierarchy as a node-link diagram laid out by
// Graphviz, in svg, png or dot. Highlight and Dim apply as in Diagram.
func (r *Runner) Graph(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if slices.Contains(opts.Formats, FormatJSON) {
		return nil, errors.New(errors.ErrCodeUnsupported, "the node-link graph has no json form").In(errors.PhaseConfig, "")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	palette, err := opts.Config.Scheme.Derive(opts.Model)
	if err != nil {
		return nil, err
	}

	hooks := r.hooks()
	hooks.OnRenderStart(ctx, "graph", opts.Formats)
	start := time.Now()
	artifacts, err := graphArtifacts(ctx, opts, nodelink.ToDOT(opts.Model, palette, opts.DimSet(), nodelink.Options{
		DimColor: opts.Config.Render.DimColor,
	}))
	hooks.OnRenderComplete(ctx, "graph", opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.logger().Info("rendered graph", "formats", opts.Formats, "duration", time.Since(start))
	return &Result{
		Palette:   palette,
		Artifacts: artifacts,
		Stats: Stats{
			NodeCount:  len(opts.Model.Types()),
			EdgeCount:  len(opts.Model.Edges),
			RenderTime: time.Since(start),
		},
	}, nil
}

func graphArtifacts(ctx context.Context, opts Options, dot string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		}
		if err != nil {
			return nil, encodeError(format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
