// Package nodelink renders the object model as a node-link diagram.
//
// # Overview
//
// This package produces a directed graph of the model using Graphviz,
// where every node type is a circle filled with its palette colour and
// edges are dashed lines. Graphviz picks the positions, which makes it a
// quick sanity view of the hierarchy independent of the radial layout.
//
// # Usage
//
// Convert a model to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(model.FontParts(), palette, nil, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no Graphviz installation is needed.
package nodelink
