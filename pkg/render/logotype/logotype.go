// Package logotype draws a word as annotated glyph outlines: each FontParts
// object that exists inside a glyph (contours, points, anchors, vertical
// metrics) is shown as its own layer, in the object's palette colour.
package logotype

import (
	"fmt"

	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/fonts"
	"github.com/fontparts/partsmap/pkg/glyph"
	"github.com/fontparts/partsmap/pkg/model"
)

// order lists the drawable layers in draw order. Layers later in the list
// sit on top.
var order = []model.NodeType{
	model.Font,
	model.Info,
	model.Glyph,
	model.Anchor,
	model.Contour,
	model.Point,
	model.BPoint,
}

// Layers returns the node types that have a logotype layer, in draw order.
func Layers() []model.NodeType {
	return append([]model.NodeType(nil), order...)
}

// Options configures a logotype. Sizes are in font units.
type Options struct {
	Text   string
	Origin canvas.Point
	// Scale converts font units to canvas units.
	Scale float64
	// Layers enables layers by node type. Types without a layer are
	// rejected by Draw.
	Layers map[model.NodeType]bool

	StrokeWidth float64
	PointSize   float64
	InfoDash    []float64
	// InfoValues labels each metrics line with its height.
	InfoValues bool
	// GlyphWidths draws a line at every advance boundary.
	GlyphWidths bool
	// GlyphData labels each glyph with its code point and advance width.
	GlyphData bool

	CaptionFont string
	CaptionSize float64
	SummarySize float64
}

// DefaultOptions draws "FontParts" with outlines, metrics, anchors and
// points.
func DefaultOptions() Options {
	return Options{
		Text:  "FontParts",
		Scale: 0.2,
		Layers: map[model.NodeType]bool{
			model.Glyph:   true,
			model.Info:    true,
			model.Anchor:  true,
			model.Contour: true,
			model.Point:   true,
		},
		StrokeWidth: 5,
		PointSize:   16,
		InfoDash:    []float64{10, 10},
		InfoValues:  true,
		GlyphWidths: true,
		GlyphData:   true,
		CaptionFont: fonts.GoMono,
		CaptionSize: 42,
		SummarySize: 90,
	}
}

func (o Options) validate() error {
	if o.Text == "" {
		return errors.New(errors.ErrCodeInvalidInput, "logotype text is empty").In(errors.PhaseConfig, "")
	}
	checks := []struct {
		field string
		v     float64
	}{
		{"scale", o.Scale},
		{"point_size", o.PointSize},
		{"caption_size", o.CaptionSize},
		{"summary_size", o.SummarySize},
	}
	for _, chk := range checks {
		if err := errors.ValidatePositive(chk.field, chk.v); err != nil {
			return err
		}
	}
	if err := errors.ValidateNonNegative("stroke_width", o.StrokeWidth); err != nil {
		return err
	}
	for n, on := range o.Layers {
		if on && !hasLayer(n) {
			return errors.New(errors.ErrCodeUnsupported, "no logotype layer for node type").In(errors.PhaseConfig, string(n))
		}
	}
	if !fonts.Has(o.CaptionFont) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown caption font %q", o.CaptionFont).In(errors.PhaseConfig, "")
	}
	return nil
}

func hasLayer(n model.NodeType) bool {
	for _, l := range order {
		if l == n {
			return true
		}
	}
	return false
}

// word is the resolved text: outlines, their x offsets and the vertical
// frame, all in font units.
type word struct {
	outlines []glyph.Outline
	offsets  []float64
	width    float64
	metrics  glyph.Metrics
	yBottom  float64
	yTop     float64
}

func resolve(src glyph.Source, text string) (word, error) {
	var w word
	for _, r := range text {
		o, err := src.Glyph(r)
		if err != nil {
			return word{}, err
		}
		w.outlines = append(w.outlines, o)
		w.offsets = append(w.offsets, w.width)
		w.width += o.Advance
	}

	upm := w.outlines[0].UnitsPerEm
	if upm <= 0 {
		upm = 1000
	}
	w.metrics = glyph.Metrics{UnitsPerEm: upm, Ascender: upm * 0.8, Descender: -upm * 0.2}
	if m, ok := src.(glyph.Measurer); ok {
		mm, err := m.Metrics()
		if err != nil {
			return word{}, err
		}
		w.metrics = mm
	}
	// split the line gap evenly above and below
	gap := w.metrics.UnitsPerEm - (w.metrics.Ascender - w.metrics.Descender)
	w.yBottom = w.metrics.Descender - gap/2
	w.yTop = w.metrics.Ascender + gap/2
	return w, nil
}

// Bounds returns the area Draw covers in canvas units, relative to
// opts.Origin.
func Bounds(src glyph.Source, opts Options) (canvas.Box, error) {
	if err := opts.validate(); err != nil {
		return canvas.Box{}, err
	}
	w, err := resolve(src, opts.Text)
	if err != nil {
		return canvas.Box{}, err
	}
	lo := canvas.Point{X: -opts.StrokeWidth, Y: w.yBottom}
	hi := canvas.Point{X: w.width + opts.StrokeWidth, Y: w.yTop}
	if opts.Layers[model.Info] && opts.InfoValues {
		lo.X = -(valueWidth + valueMargin)
	}
	if opts.Layers[model.Font] {
		lo.Y = w.yBottom - opts.SummarySize*1.5 - summaryMargin
	}
	s := opts.Scale
	return canvas.Box{X: lo.X * s, Y: lo.Y * s, W: (hi.X - lo.X) * s, H: (hi.Y - lo.Y) * s}, nil
}

const (
	valueWidth    = 300
	valueMargin   = 50
	summaryMargin = 20
	dataMargin    = 40
)

// Draw renders opts.Text from src onto c. Each enabled layer is drawn in
// the palette colour of its node type. All glyphs are resolved first, so
// a missing glyph returns GLYPH_NOT_FOUND and nothing is drawn.
func Draw(c canvas.Canvas, src glyph.Source, p colors.Palette, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	w, err := resolve(src, opts.Text)
	if err != nil {
		return err
	}
	paints := make(map[model.NodeType]colors.Paint, len(order))
	for _, n := range order {
		if !opts.Layers[n] {
			continue
		}
		col, err := p.Lookup(n)
		if err != nil {
			return err
		}
		paints[n] = colors.PaintOf(col)
	}

	d := drawer{c: c, w: w, opts: opts}
	c.Save()
	c.Translate(opts.Origin.X, opts.Origin.Y)
	c.Scale(opts.Scale, opts.Scale)
	for _, n := range order {
		if !opts.Layers[n] {
			continue
		}
		c.Save()
		d.layer(n, paints[n])
		c.Restore()
	}
	c.Restore()
	return nil
}

type drawer struct {
	c    canvas.Canvas
	w    word
	opts Options
}

func (d drawer) layer(n model.NodeType, paint colors.Paint) {
	switch n {
	case model.Font:
		d.summary(paint)
	case model.Info:
		d.info(paint)
	case model.Glyph:
		d.glyphs(paint)
	case model.Anchor:
		d.anchors(paint)
	case model.Contour:
		d.contours(paint)
	case model.Point:
		d.points(paint)
	case model.BPoint:
		d.bPoints(paint)
	}
}

func (d drawer) caption(text string, box canvas.Box, paint colors.Paint, align canvas.Align) {
	d.c.TextBox(text, box, canvas.TextStyle{Font: d.opts.CaptionFont, Size: d.opts.CaptionSize, Fill: paint, Align: align})
}

func (d drawer) summary(paint colors.Paint) {
	contours, points := 0, 0
	for _, o := range d.w.outlines {
		contours += len(o.Contours)
		for _, ct := range o.Contours {
			for _, s := range ct {
				points += len(s.Controls()) + 1
			}
		}
	}
	text := fmt.Sprintf("%d glyphs / %d contours / %d points", len(d.w.outlines), contours, points)
	h := d.opts.SummarySize * 1.5
	box := canvas.Box{X: 0, Y: d.w.yBottom - h - summaryMargin, W: d.w.width, H: h}
	d.c.TextBox(text, box, canvas.TextStyle{Font: d.opts.CaptionFont, Size: d.opts.SummarySize, Fill: paint, Align: canvas.AlignCenter})
}

func (d drawer) info(paint colors.Paint) {
	m := d.w.metrics
	s := canvas.Stroke{Paint: paint, Width: d.opts.StrokeWidth, Dash: d.opts.InfoDash}
	for _, y := range []float64{0, m.XHeight, m.Descender, m.Ascender} {
		d.c.Line(canvas.Point{X: 0, Y: y}, canvas.Point{X: d.w.width, Y: y}, s)
		if d.opts.InfoValues {
			box := canvas.Box{X: -valueWidth - valueMargin, Y: y - d.opts.CaptionSize*0.6, W: valueWidth, H: d.opts.CaptionSize * 1.2}
			d.caption(fmt.Sprintf("%.1f", y), box, paint, canvas.AlignRight)
		}
	}
}

func (d drawer) glyphs(paint colors.Paint) {
	s := canvas.Stroke{Paint: paint, Width: d.opts.StrokeWidth}
	boundary := func(x float64) {
		if d.opts.GlyphWidths {
			d.c.Line(canvas.Point{X: x, Y: d.w.yBottom}, canvas.Point{X: x, Y: d.w.yTop}, s)
		}
	}
	for i, o := range d.w.outlines {
		x := d.w.offsets[i]
		if p := o.Path(1, canvas.Point{X: x}); !p.Empty() {
			d.c.Path(p, paint, canvas.NoStroke)
		}
		boundary(x)
		if d.opts.GlyphData {
			h := d.opts.CaptionSize * 1.5
			box := canvas.Box{X: x + dataMargin, Y: d.w.yBottom, W: o.Advance - 2*dataMargin, H: h}
			d.caption(fmt.Sprintf("U+%04X", o.Rune), box, paint, canvas.AlignLeft)
			box.Y = d.w.yTop - h
			d.caption(fmt.Sprintf("%d", int(o.Advance)), box, paint, canvas.AlignCenter)
		}
	}
	boundary(d.w.width)
}

func (d drawer) anchors(paint colors.Paint) {
	r := d.opts.PointSize
	s := canvas.Stroke{Paint: paint, Width: d.opts.StrokeWidth}
	for i, o := range d.w.outlines {
		x0 := d.w.offsets[i]
		for _, a := range o.Anchors {
			x, y := x0+a.X, a.Y
			d.c.Oval(x-r, y-r, 2*r, 2*r, colors.None, s)
			d.c.Line(canvas.Point{X: x - r, Y: y}, canvas.Point{X: x + r, Y: y}, s)
			d.c.Line(canvas.Point{X: x, Y: y - r}, canvas.Point{X: x, Y: y + r}, s)
		}
	}
}

func (d drawer) contours(paint colors.Paint) {
	s := canvas.Stroke{Paint: paint, Width: d.opts.StrokeWidth}
	for i, o := range d.w.outlines {
		if p := o.Path(1, canvas.Point{X: d.w.offsets[i]}); !p.Empty() {
			d.c.Path(p, colors.None, s)
		}
	}
}

func (d drawer) points(paint colors.Paint) {
	r := d.opts.PointSize / 2
	for i, o := range d.w.outlines {
		x0 := d.w.offsets[i]
		for _, ct := range o.Contours {
			for _, seg := range ct {
				for _, pt := range append(seg.Controls(), seg.End()) {
					d.c.Oval(x0+pt.X-r, pt.Y-r, 2*r, 2*r, paint, canvas.NoStroke)
				}
			}
		}
	}
}

func (d drawer) bPoints(paint colors.Paint) {
	r := d.opts.PointSize
	s := canvas.Stroke{Paint: paint, Width: d.opts.StrokeWidth}
	for i, o := range d.w.outlines {
		x0 := d.w.offsets[i]
		at := func(p canvas.Point) canvas.Point { return canvas.Point{X: x0 + p.X, Y: p.Y} }
		for _, h := range o.Handles() {
			d.c.Line(at(h.Anchor), at(h.Control), s)
		}
		for _, pt := range o.OnCurve() {
			p := at(pt)
			d.c.Oval(p.X-r, p.Y-r, 2*r, 2*r, colors.None, s)
		}
	}
}
