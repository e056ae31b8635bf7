// Package vector implements canvas.Canvas as a streaming SVG writer on top
// of ajstarks/svgo.
//
// The document root flips the y axis once, so every shape is written in
// user space. Transforms become nested <g transform> groups closed on
// Restore; gradients and shadow filters are emitted as <defs> at first use.
package vector

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/fonts"
)

// Option configures a vector canvas.
type Option func(*Canvas)

// WithScale sets the rendered pixel size per user unit. The viewBox keeps
// the logical size.
func WithScale(s float64) Option {
	return func(c *Canvas) {
		if s > 0 {
			c.scale = s
		}
	}
}

// WithBackground paints a full-size rectangle first.
func WithBackground(p colors.Paint) Option {
	return func(c *Canvas) { c.background = p }
}

// WithEmbeddedFonts inlines each used font as an @font-face rule, making
// the SVG render identically without the Go fonts installed.
func WithEmbeddedFonts() Option {
	return func(c *Canvas) { c.embedFonts = true }
}

// WithTitle sets the document <title>.
func WithTitle(t string) Option {
	return func(c *Canvas) { c.title = t }
}

type state struct {
	groups int
	shadow *canvas.Shadow
}

// Canvas writes SVG elements as they are drawn. Call Close to finish the
// document.
type Canvas struct {
	svg  *svg.SVG
	out  *errWriter
	w, h float64

	scale      float64
	background colors.Paint
	embedFonts bool
	title      string

	st     state
	stack  []state
	ids    int
	defs   map[string]string
	fonts  map[string]bool
	err    error
	closed bool
}

var _ canvas.Canvas = (*Canvas)(nil)

// New starts an SVG document of logical size w×h on out.
func New(out io.Writer, w, h float64, opts ...Option) *Canvas {
	ew := &errWriter{w: out}
	c := &Canvas{
		svg:   svg.New(ew),
		out:   ew,
		w:     w,
		h:     h,
		scale: 1,
		defs:  make(map[string]string),
		fonts: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.svg.Start(w*c.scale, h*c.scale, fmt.Sprintf(`viewBox="0 0 %s %s"`, num(w), num(h)))
	if c.title != "" {
		c.svg.Title(c.title)
	}
	if !c.background.IsNone() {
		c.svg.Rect(0, 0, w, h, fillStyle(c.background))
	}
	c.svg.Gtransform(fmt.Sprintf("matrix(1 0 0 -1 0 %s)", num(h)))
	return c
}

// Close ends every open group and the document. It reports unbalanced
// Save/Restore, drawing errors and write errors.
func (c *Canvas) Close() error {
	if c.closed {
		return c.err
	}
	c.closed = true
	if len(c.stack) > 0 {
		c.fail(fmt.Errorf("vector: %d Save calls without Restore", len(c.stack)))
	}
	for len(c.stack) > 0 {
		c.Restore()
	}
	c.endGroups()
	c.svg.Gend()
	c.svg.End()
	if c.err != nil {
		return c.err
	}
	return c.out.err
}

func (c *Canvas) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Canvas) Size() (float64, float64) { return c.w, c.h }

func (c *Canvas) Save() {
	c.stack = append(c.stack, c.st)
	c.st.groups = 0
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		c.fail(fmt.Errorf("vector: Restore without Save"))
		return
	}
	c.endGroups()
	c.st = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) endGroups() {
	for ; c.st.groups > 0; c.st.groups-- {
		c.svg.Gend()
	}
}

func (c *Canvas) transform(t string) {
	c.svg.Gtransform(t)
	c.st.groups++
}

func (c *Canvas) Translate(dx, dy float64) {
	c.transform("translate(" + num(dx) + "," + num(dy) + ")")
}

func (c *Canvas) Scale(sx, sy float64) {
	c.transform("scale(" + num(sx) + "," + num(sy) + ")")
}

func (c *Canvas) Rotate(deg float64) {
	c.transform("rotate(" + num(deg) + ")")
}

func (c *Canvas) SetShadow(s *canvas.Shadow) {
	if s == nil || s.Color.IsNone() {
		c.st.shadow = nil
		return
	}
	v := *s
	c.st.shadow = &v
}

// filter returns the id of a drop-shadow filter for s, writing its
// definition on first use. flip negates the offset for elements drawn in a
// y-down local frame.
func (c *Canvas) filter(s canvas.Shadow, flip bool) string {
	dy := s.Offset.Y
	if flip && dy != 0 {
		dy = -dy
	}
	key := fmt.Sprintf("shadow %v %v %v %s", s.Offset.X, dy, s.Blur, s.Color)
	if id, ok := c.defs[key]; ok {
		return id
	}
	id := c.nextID("shadow")
	c.defs[key] = id
	c.svg.Def()
	c.svg.Filter(id, `x="-50%"`, `y="-50%"`, `width="200%"`, `height="200%"`)
	c.svg.FeGaussianBlur(svg.Filterspec{In: "SourceAlpha", Result: "blur"}, s.Blur/2, s.Blur/2)
	fmt.Fprintf(c.svg.Writer, `<feOffset in="blur" dx="%s" dy="%s" result="offset"/>`+"\n", num(s.Offset.X), num(dy))
	fmt.Fprintf(c.svg.Writer, `<feFlood flood-color="%s" flood-opacity="%s" result="color"/>`+"\n",
		s.Color.Hex(), num(s.Color.Alpha()))
	fmt.Fprintln(c.svg.Writer, `<feComposite in="color" in2="offset" operator="in" result="shadow"/>`)
	c.svg.FeMerge([]string{"shadow", "SourceGraphic"})
	c.svg.Fend()
	c.svg.DefEnd()
	return id
}

func (c *Canvas) nextID(prefix string) string {
	c.ids++
	return prefix + strconv.Itoa(c.ids)
}

// attrs returns the style plus the shadow filter reference, if any.
func (c *Canvas) attrs(style string, flip bool) []string {
	if c.st.shadow == nil {
		return []string{style}
	}
	return []string{style, `filter="url(#` + c.filter(*c.st.shadow, flip) + `)"`}
}

func (c *Canvas) Line(a, b canvas.Point, s canvas.Stroke) {
	if !s.Visible() {
		return
	}
	c.svg.Line(a.X, a.Y, b.X, b.Y, c.attrs(strokeStyle(s, "", s.Paint), false)...)
}

func (c *Canvas) GradientLine(a, b canvas.Point, from, to colors.Paint, s canvas.Stroke) {
	if s.Width <= 0 || (from.IsNone() && to.IsNone()) {
		return
	}
	id := c.nextID("grad")
	c.svg.Def()
	fmt.Fprintf(c.svg.Writer, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">`+"\n",
		id, num(a.X), num(a.Y), num(b.X), num(b.Y))
	for _, stop := range []struct {
		offset string
		p      colors.Paint
	}{{"0", from}, {"1", to}} {
		fmt.Fprintf(c.svg.Writer, `<stop offset="%s" stop-color="%s" stop-opacity="%s"/>`+"\n",
			stop.offset, stop.p.Hex(), num(stop.p.Alpha()))
	}
	fmt.Fprintln(c.svg.Writer, `</linearGradient>`)
	c.svg.DefEnd()
	c.svg.Line(a.X, a.Y, b.X, b.Y, c.attrs(strokeStyle(s, "url(#"+id+")", colors.None), false)...)
}

func (c *Canvas) Oval(x, y, w, h float64, fill colors.Paint, s canvas.Stroke) {
	c.svg.Ellipse(x+w/2, y+h/2, w/2, h/2, c.attrs(shapeStyle(fill, s), false)...)
}

func (c *Canvas) Rect(x, y, w, h float64, fill colors.Paint, s canvas.Stroke) {
	c.svg.Rect(x, y, w, h, c.attrs(shapeStyle(fill, s), false)...)
}

func (c *Canvas) Path(p *canvas.Path, fill colors.Paint, s canvas.Stroke) {
	if p.Empty() {
		return
	}
	c.svg.Path(p.SVG(), c.attrs(shapeStyle(fill, s), false)...)
}

// TextBox writes the text in a local y-down frame so glyphs are upright.
func (c *Canvas) TextBox(text string, box canvas.Box, style canvas.TextStyle) {
	if text == "" || style.Fill.IsNone() {
		return
	}
	name := style.Font
	if name == "" {
		name = fonts.Default
	}
	family, err := fonts.CSS(name)
	if err != nil {
		c.fail(err)
		return
	}
	if c.embedFonts && !c.fonts[name] {
		rule, err := fonts.FontFace(name)
		if err != nil {
			c.fail(err)
			return
		}
		c.fonts[name] = true
		c.svg.Def()
		fmt.Fprintf(c.svg.Writer, "<style type=\"text/css\"><![CDATA[%s]]></style>\n", rule)
		c.svg.DefEnd()
	}

	at := style.AnchorPoint(box)
	css := fillStyle(style.Fill) + ";font-size:" + num(style.Size) + "px;" + family +
		";text-anchor:" + textAnchor(style.Align) + ";dominant-baseline:central"
	attrs := append([]string{`transform="scale(1,-1)"`}, c.attrs(css, true)...)
	c.svg.Text(at.X, -at.Y, text, attrs...)
}

func textAnchor(a canvas.Align) string {
	switch a {
	case canvas.AlignCenter:
		return "middle"
	case canvas.AlignRight:
		return "end"
	}
	return "start"
}

func fillStyle(p colors.Paint) string {
	if p.IsNone() {
		return "fill:none"
	}
	st := "fill:" + p.Hex()
	if a := p.Alpha(); a < 1 {
		st += ";fill-opacity:" + num(a)
	}
	return st
}

func shapeStyle(fill colors.Paint, s canvas.Stroke) string {
	if !s.Visible() {
		return fillStyle(fill) + ";stroke:none"
	}
	return fillStyle(fill) + ";" + strokeStyle(s, "", s.Paint)
}

// strokeStyle renders s; a non-empty ref replaces the stroke colour.
func strokeStyle(s canvas.Stroke, ref string, p colors.Paint) string {
	var b strings.Builder
	if ref != "" {
		b.WriteString("stroke:" + ref)
	} else {
		b.WriteString("stroke:" + p.Hex())
		if a := p.Alpha(); a < 1 {
			b.WriteString(";stroke-opacity:" + num(a))
		}
	}
	b.WriteString(";stroke-width:" + num(s.Width))
	if len(s.Dash) > 0 {
		parts := make([]string, len(s.Dash))
		for i, d := range s.Dash {
			parts[i] = num(d)
		}
		b.WriteString(";stroke-dasharray:" + strings.Join(parts, ","))
	}
	if s.Cap != "" {
		b.WriteString(";stroke-linecap:" + string(s.Cap))
	}
	return b.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = err
	}
	return len(p), nil
}
