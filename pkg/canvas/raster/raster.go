// Package raster implements canvas.Canvas on top of fogleman/gg.
//
// The canvas keeps its own y-up transform stack and hands gg device
// coordinates only, so gg's matrix stays at identity. Drop shadows are
// painted on a cropped offscreen layer, blurred with disintegration/imaging
// and composited under the shape.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/fonts"
)

// Option configures a raster canvas.
type Option func(*Canvas)

// WithScale sets device pixels per user unit. Default is 1.
func WithScale(s float64) Option {
	return func(c *Canvas) {
		if s > 0 {
			c.scale = s
		}
	}
}

// WithBackground fills the canvas before drawing. Default is transparent.
func WithBackground(p colors.Paint) Option {
	return func(c *Canvas) { c.background = p }
}

type state struct {
	m      gg.Matrix
	shadow *canvas.Shadow
}

type faceKey struct {
	name string
	size float64
}

// Canvas paints into an in-memory RGBA image.
type Canvas struct {
	dc         *gg.Context
	w, h       float64
	scale      float64
	background colors.Paint

	st    state
	stack []state
	faces map[faceKey]font.Face
	err   error
}

var _ canvas.Canvas = (*Canvas)(nil)

// New returns a canvas of logical size w×h.
func New(w, h float64, opts ...Option) *Canvas {
	c := &Canvas{w: w, h: h, scale: 1, faces: make(map[faceKey]font.Face)}
	for _, opt := range opts {
		opt(c)
	}
	pw := int(math.Ceil(w * c.scale))
	ph := int(math.Ceil(h * c.scale))
	c.dc = gg.NewContext(pw, ph)
	if !c.background.IsNone() {
		c.dc.SetColor(c.background.Color())
		c.dc.Clear()
	}
	c.st.m = gg.Identity().Translate(0, float64(ph)).Scale(c.scale, -c.scale)
	return c
}

// Image returns the painted image.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// Err returns the first drawing error.
func (c *Canvas) Err() error { return c.err }

// EncodePNG writes the image as PNG, or the first drawing error.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if c.err != nil {
		return c.err
	}
	return c.dc.EncodePNG(w)
}

func (c *Canvas) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Canvas) Size() (float64, float64) { return c.w, c.h }

func (c *Canvas) Save() {
	c.stack = append(c.stack, c.st)
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		c.fail(fmt.Errorf("raster: Restore without Save"))
		return
	}
	c.st = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) Translate(dx, dy float64) { c.st.m = c.st.m.Translate(dx, dy) }
func (c *Canvas) Scale(sx, sy float64) { c.st.m = c.st.m.Scale(sx, sy) }
func (c *Canvas) Rotate(deg float64) { c.st.m = c.st.m.Rotate(gg.Radians(deg)) }

func (c *Canvas) SetShadow(s *canvas.Shadow) {
	if s == nil || s.Color.IsNone() {
		c.st.shadow = nil
		return
	}
	v := *s
	c.st.shadow = &v
}

func (c *Canvas) device(p canvas.Point) canvas.Point {
	x, y := c.st.m.TransformPoint(p.X, p.Y)
	return canvas.Point{X: x, Y: y}
}

// unit is the device length of one user unit, used for widths and sizes.
func (c *Canvas) unit() float64 {
	m := c.st.m
	return math.Sqrt(math.Abs(m.XX*m.YY - m.XY*m.YX))
}

func (c *Canvas) Line(a, b canvas.Point, s canvas.Stroke) {
	if !s.Visible() {
		return
	}
	p := &canvas.Path{}
	p.MoveTo(a)
	p.LineTo(b)
	c.shape(p, colors.None, s, nil)
}

func (c *Canvas) GradientLine(a, b canvas.Point, from, to colors.Paint, s canvas.Stroke) {
	if s.Width <= 0 || (from.IsNone() && to.IsNone()) {
		return
	}
	p := &canvas.Path{}
	p.MoveTo(a)
	p.LineTo(b)
	da, db := c.device(a), c.device(b)
	g := gg.NewLinearGradient(da.X, da.Y, db.X, db.Y)
	g.AddColorStop(0, paintOrClear(from))
	g.AddColorStop(1, paintOrClear(to))
	c.shape(p, colors.None, s, g)
}

func (c *Canvas) Oval(x, y, w, h float64, fill colors.Paint, s canvas.Stroke) {
	p := &canvas.Path{}
	canvas.Ellipse(p, x, y, w, h)
	c.shape(p, fill, s, nil)
}

func (c *Canvas) Rect(x, y, w, h float64, fill colors.Paint, s canvas.Stroke) {
	p := &canvas.Path{}
	p.MoveTo(canvas.Point{X: x, Y: y})
	p.LineTo(canvas.Point{X: x + w, Y: y})
	p.LineTo(canvas.Point{X: x + w, Y: y + h})
	p.LineTo(canvas.Point{X: x, Y: y + h})
	p.Close()
	c.shape(p, fill, s, nil)
}

func (c *Canvas) Path(p *canvas.Path, fill colors.Paint, s canvas.Stroke) {
	if p.Empty() {
		return
	}
	c.shape(p, fill, s, nil)
}

// TextBox draws the text upright at the transformed anchor point; rotation
// moves the anchor but does not turn the glyphs.
func (c *Canvas) TextBox(text string, box canvas.Box, style canvas.TextStyle) {
	if text == "" || style.Fill.IsNone() {
		return
	}
	size := style.Size * c.unit()
	face, err := c.face(style.Font, size)
	if err != nil {
		c.fail(err)
		return
	}
	at := c.device(style.AnchorPoint(box))
	ax := style.Align.Anchor()

	if sh := c.st.shadow; sh != nil {
		c.dc.SetFontFace(face)
		tw, th := c.dc.MeasureString(text)
		b := canvas.Box{X: at.X - tw*ax, Y: at.Y - th, W: tw, H: 2 * th}
		c.castShadow(sh, b, 0, func(layer *gg.Context, dx, dy float64) {
			layer.SetFontFace(face)
			layer.SetColor(opaque(sh.Color))
			layer.DrawStringAnchored(text, at.X-dx, at.Y-dy, ax, 0.5)
		})
	}
	c.dc.SetFontFace(face)
	c.dc.SetColor(style.Fill.Color())
	c.dc.DrawStringAnchored(text, at.X, at.Y, ax, 0.5)
}

func (c *Canvas) face(name string, size float64) (font.Face, error) {
	if name == "" {
		name = fonts.Default
	}
	k := faceKey{name, size}
	if f, ok := c.faces[k]; ok {
		return f, nil
	}
	f, err := fonts.Face(name, size)
	if err != nil {
		return nil, err
	}
	c.faces[k] = f
	return f, nil
}

// brush is a resolved fill and stroke in device units.
type brush struct {
	fill   gg.Pattern
	stroke gg.Pattern
	width  float64
	dash   []float64
	cap    gg.LineCap
}

func (b brush) paint(dc *gg.Context, p *canvas.Path) {
	trace(dc, p)
	if b.fill != nil {
		dc.SetFillStyle(b.fill)
		dc.FillPreserve()
	}
	if b.stroke != nil {
		dc.SetStrokeStyle(b.stroke)
		dc.SetLineWidth(b.width)
		dc.SetDash(b.dash...)
		dc.SetLineCap(b.cap)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

// silhouette paints the same coverage in a single solid colour.
func (b brush) silhouette(c color.Color) brush {
	solid := gg.NewSolidPattern(c)
	if b.fill != nil {
		b.fill = solid
	}
	if b.stroke != nil {
		b.stroke = solid
	}
	return b
}

func (c *Canvas) shape(p *canvas.Path, fill colors.Paint, s canvas.Stroke, strokePattern gg.Pattern) {
	u := c.unit()
	b := brush{width: s.Width * u, cap: lineCap(s.Cap)}
	if !fill.IsNone() {
		b.fill = gg.NewSolidPattern(fill.Color())
	}
	switch {
	case strokePattern != nil:
		b.stroke = strokePattern
	case s.Visible():
		b.stroke = gg.NewSolidPattern(s.Paint.Color())
	}
	if b.fill == nil && b.stroke == nil {
		return
	}
	for _, d := range s.Dash {
		b.dash = append(b.dash, d*u)
	}

	dp := p.Transform(c.device)
	if sh := c.st.shadow; sh != nil {
		pad := 0.0
		if b.stroke != nil {
			pad = b.width / 2
		}
		ghost := b.silhouette(opaque(sh.Color))
		c.castShadow(sh, dp.Bounds(), pad, func(layer *gg.Context, dx, dy float64) {
			ghost.paint(layer, dp.Transform(func(pt canvas.Point) canvas.Point {
				return canvas.Point{X: pt.X - dx, Y: pt.Y - dy}
			}))
		})
	}
	b.paint(c.dc, dp)
}

// castShadow paints draw onto a layer covering bounds (device space),
// blurs it, applies the shadow alpha and composites it at the shadow
// offset. draw receives the layer origin to subtract from device points.
func (c *Canvas) castShadow(sh *canvas.Shadow, bounds canvas.Box, pad float64, draw func(layer *gg.Context, dx, dy float64)) {
	sigma := sh.Blur * c.scale / 2
	pad += 3*sigma + 2
	x0 := int(math.Floor(bounds.X - pad))
	y0 := int(math.Floor(bounds.Y - pad))
	x1 := int(math.Ceil(bounds.X + bounds.W + pad))
	y1 := int(math.Ceil(bounds.Y + bounds.H + pad))
	if x1 <= x0 || y1 <= y0 {
		return
	}

	layer := gg.NewContext(x1-x0, y1-y0)
	draw(layer, float64(x0), float64(y0))

	var img image.Image = layer.Image()
	if sigma > 0 {
		img = imaging.Blur(img, sigma)
	}
	alpha := sh.Color.Alpha()
	img = imaging.AdjustFunc(img, func(px color.NRGBA) color.NRGBA {
		px.A = uint8(float64(px.A)*alpha + 0.5)
		return px
	})

	// Offsets are in unscaled y-up units, independent of the current transform.
	ox := int(math.Round(sh.Offset.X * c.scale))
	oy := int(math.Round(-sh.Offset.Y * c.scale))
	c.dc.DrawImage(img, x0+ox, y0+oy)
}

func trace(dc *gg.Context, p *canvas.Path) {
	for _, s := range p.Segments {
		pts := s.Points
		switch s.Verb {
		case canvas.VerbMove:
			dc.MoveTo(pts[0].X, pts[0].Y)
		case canvas.VerbLine:
			dc.LineTo(pts[0].X, pts[0].Y)
		case canvas.VerbQuad:
			dc.QuadraticTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		case canvas.VerbCube:
			dc.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case canvas.VerbClose:
			dc.ClosePath()
		}
	}
}

func lineCap(c canvas.LineCap) gg.LineCap {
	switch c {
	case canvas.CapRound:
		return gg.LineCapRound
	case canvas.CapSquare:
		return gg.LineCapSquare
	}
	return gg.LineCapButt
}

func opaque(p colors.Paint) color.Color {
	return p.WithAlpha(1).Color()
}

func paintOrClear(p colors.Paint) color.Color {
	if p.IsNone() {
		return color.Transparent
	}
	return p.Color()
}
