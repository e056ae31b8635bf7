package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/model"
	"github.com/fontparts/partsmap/pkg/render/diagram"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the colour values to node labels.
	// When false, only the display name is shown.
	Detailed bool
	// DimColor fills dimmed nodes. The zero value uses the diagram default.
	DimColor colors.Paint
}

// ToDOT converts a model to Graphviz DOT format, with every node filled
// in its palette colour. The resulting DOT string can be rendered using
// [RenderSVG] or [RenderPNG].
//
// Primary nodes are drawn larger. Dimmed nodes are filled with the dim
// colour and get grey labels, like in the radial diagram.
func ToDOT(m model.Model, p colors.Palette, dim diagram.DimSet, opts Options) string {
	dimColor := opts.DimColor
	if dimColor.IsNone() {
		dimColor = diagram.DefaultConfig().DimColor
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=1.2, fontname=\"Helvetica-Bold\", fontsize=14, fontcolor=white, color=black, penwidth=2];\n")
	buf.WriteString("  edge [style=dashed, color=\"#999999\", penwidth=2, arrowhead=none];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range m.Types() {
		attrs := fmtAttrs(m, p, n, dim.Has(n), dimColor, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", string(n), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range m.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", string(e.From), string(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n model.NodeType, fill string, detailed bool) string {
	if !detailed {
		return n.DisplayName()
	}
	return n.DisplayName() + "\n" + fill
}

func fmtAttrs(m model.Model, p colors.Palette, n model.NodeType, dimmed bool, dimColor colors.Paint, detailed bool) []string {
	fill := p.Color(n).Hex()
	if dimmed {
		fill = dimColor.Hex()
	}
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, fill, detailed)),
		fmt.Sprintf("fillcolor=%q", fill),
	}
	if m.IsPrimary(n) {
		attrs = append(attrs, "width=1.8", "fontsize=22")
	}
	if dimmed {
		attrs = append(attrs, "fontcolor=grey40")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the SVG scales like the canvas output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
