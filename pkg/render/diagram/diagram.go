package diagram

import (
	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/layout"
	"github.com/fontparts/partsmap/pkg/model"
)

// node is a layout node with its resolved display colour.
type node struct {
	layout.Node
	color colors.Color
	paint colors.Paint
}

type edge struct {
	from, to node
}

// Draw renders the diagram onto c: edges, then circles, then captions.
//
// Every node and every edge endpoint is resolved against the layout and
// the palette before the first canvas call, so an incomplete snapshot
// returns a configuration error and leaves c untouched.
func Draw(c canvas.Canvas, l layout.Layout, p colors.Palette, dim DimSet, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	nodes, edges, err := resolve(l, p, dim, cfg)
	if err != nil {
		return err
	}

	for _, step := range order {
		if !cfg.Steps.Enabled(step) {
			continue
		}
		c.Save()
		switch step {
		case StepEdges:
			drawEdges(c, edges, cfg)
		case StepCircles:
			drawCircles(c, nodes, cfg)
		case StepCaptions:
			drawCaptions(c, nodes, cfg)
		}
		c.Restore()
	}
	return nil
}

func resolve(l layout.Layout, p colors.Palette, dim DimSet, cfg Config) ([]node, []edge, error) {
	dimColor := colors.FromColor(cfg.DimColor.Color())
	byType := make(map[model.NodeType]node, len(l.Nodes))
	nodes := make([]node, 0, len(l.Nodes))
	for _, ln := range l.Nodes {
		c, err := p.Lookup(ln.Type)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeMissingColor, err, "node has no palette colour").
				In(errors.PhaseRender, string(ln.Type))
		}
		n := node{Node: ln, color: c, paint: colors.PaintOf(c)}
		if dim.Has(ln.Type) {
			n.color, n.paint = dimColor, cfg.DimColor
		}
		byType[ln.Type] = n
		nodes = append(nodes, n)
	}

	edges := make([]edge, 0, len(l.Edges))
	for _, e := range l.Edges {
		from, ok := byType[e.From]
		if !ok {
			return nil, nil, missing(e.From)
		}
		to, ok := byType[e.To]
		if !ok {
			return nil, nil, missing(e.To)
		}
		edges = append(edges, edge{from, to})
	}
	return nodes, edges, nil
}

func missing(n model.NodeType) error {
	return errors.New(errors.ErrCodeMissingPosition, "edge endpoint has no position").
		In(errors.PhaseRender, string(n))
}

func point(p layout.Point) canvas.Point {
	return canvas.Point{X: p.X, Y: p.Y}
}

func drawEdges(c canvas.Canvas, edges []edge, cfg Config) {
	s := canvas.Stroke{
		Paint: cfg.LinesStrokeColor,
		Width: cfg.LinesStrokeWidth,
		Dash:  cfg.LinesDash,
		Cap:   canvas.CapRound,
	}
	for _, e := range edges {
		a, b := point(e.from.Center), point(e.to.Center)
		if !cfg.LinesGradient {
			if s.Visible() {
				c.Line(a, b, s)
			}
			continue
		}
		a, b, ok := canvas.Shorten(a, b, e.from.Radius, e.to.Radius)
		if !ok {
			// the circles overlap; nothing of the line would show
			continue
		}
		c.GradientLine(a, b, e.from.paint, e.to.paint, canvas.Stroke{Width: s.Width, Dash: s.Dash, Cap: s.Cap})
	}
}

func drawCircles(c canvas.Canvas, nodes []node, cfg Config) {
	s := canvas.Stroke{Paint: cfg.CirclesStrokeColor, Width: cfg.CirclesStrokeWidth}
	c.SetShadow(cfg.CirclesShadow.withColor(cfg.CirclesShadow.Color))
	for _, n := range nodes {
		r := n.Radius
		c.Oval(n.Center.X-r, n.Center.Y-r, 2*r, 2*r, n.paint, s)
	}
}

func drawCaptions(c canvas.Canvas, nodes []node, cfg Config) {
	for _, n := range nodes {
		size := cfg.CaptionSize1
		if n.Primary {
			size = cfg.CaptionSize2
		}
		shadow := colors.PaintOf(n.color.Darken(cfg.CaptionShadowDarken)).WithAlpha(cfg.CaptionShadowAlpha)
		c.SetShadow(cfg.CaptionShadow.withColor(shadow))

		r := n.Radius
		box := canvas.Box{X: n.Center.X - r, Y: n.Center.Y - r, W: 2 * r, H: 2 * r}
		c.TextBox(n.Type.DisplayName(), box, canvas.TextStyle{
			Font:  cfg.CaptionFont,
			Size:  size,
			Fill:  cfg.CaptionColor,
			Align: canvas.AlignCenter,
		})
	}
}
