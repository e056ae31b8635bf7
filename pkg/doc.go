// Package pkg provides the core libraries of partsmap, which draws the
// FontParts object model as a radial map of coloured circles.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. Domain: [model] (the node vocabulary and hierarchy), [colors] (the
//     palette derived from a hue scheme), [layout] (radial placement)
//  2. Drawing: [canvas] and its backends, [render] (diagram, swatches,
//     logotype, node-link), [glyph] and [fonts]
//  3. Orchestration: [pipeline] (config -> layout -> palette -> render ->
//     encode) and [config]
//  4. Support: [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	config.Config
//	     ↓
//	[model] + [colors] (vocabulary and palette)
//	     ↓
//	[layout] (positions and edges)
//	     ↓
//	[render/diagram] onto a [canvas] backend
//	     ↓
//	SVG/PNG/JSON/DOT output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil)
//	res, err := runner.Diagram(ctx, pipeline.Options{Config: config.Default()})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("fontparts.svg", res.Artifacts["svg"], 0o644)
package pkg
