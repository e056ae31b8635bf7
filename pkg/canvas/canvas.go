package canvas

import (
	"math"

	"github.com/fontparts/partsmap/pkg/colors"
)

// Canvas is a 2D drawing surface in a y-up coordinate system.
//
// Transform and shadow state is scoped by Save and Restore. Implementations
// are not safe for concurrent use; give each goroutine its own canvas.
type Canvas interface {
	// Size returns the logical width and height.
	Size() (w, h float64)

	Save()
	Restore()

	Translate(dx, dy float64)
	Scale(sx, sy float64)
	// Rotate turns the coordinate system counter-clockwise by deg degrees.
	Rotate(deg float64)

	// SetShadow applies s to every following shape until the enclosing
	// Restore. A nil shadow disables shadows.
	SetShadow(s *Shadow)

	Line(a, b Point, s Stroke)
	// GradientLine strokes a→b with a linear gradient running from the
	// colour at a to the colour at b.
	GradientLine(a, b Point, from, to colors.Paint, s Stroke)
	// Oval draws the ellipse inscribed in the box with lower-left corner
	// (x, y).
	Oval(x, y, w, h float64, fill colors.Paint, s Stroke)
	Rect(x, y, w, h float64, fill colors.Paint, s Stroke)
	// TextBox draws a single line of text inside box, horizontally aligned
	// by style.Align and vertically centred.
	TextBox(text string, box Box, style TextStyle)
	Path(p *Path, fill colors.Paint, s Stroke)
}

// Point is a position in user space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle given by its lower-left corner.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the box midpoint.
func (b Box) Center() Point {
	return Point{b.X + b.W/2, b.Y + b.H/2}
}

// LineCap is the shape at the ends of open stroked paths.
type LineCap string

// Line caps.
const (
	CapButt   LineCap = "butt"
	CapRound  LineCap = "round"
	CapSquare LineCap = "square"
)

// Stroke describes how an outline is painted.
type Stroke struct {
	Paint colors.Paint `json:"paint"`
	Width float64      `json:"width"`
	Dash  []float64    `json:"dash,omitempty"`
	Cap   LineCap      `json:"cap,omitempty"`
}

// NoStroke paints nothing.
var NoStroke = Stroke{}

// Visible reports whether the stroke paints anything.
func (s Stroke) Visible() bool {
	return !s.Paint.IsNone() && s.Width > 0
}

// Shadow is a blurred drop shadow cast by filled and stroked shapes.
type Shadow struct {
	Offset Point        `json:"offset"`
	Blur   float64      `json:"blur"`
	Color  colors.Paint `json:"color"`
}

// Align is the horizontal text alignment inside a box.
type Align string

// Alignments.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Anchor returns the fraction of the text width left of the anchor point.
func (a Align) Anchor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	}
	return 0
}

// TextStyle describes caption text. Font names a face registered in
// package fonts.
type TextStyle struct {
	Font  string       `json:"font"`
	Size  float64      `json:"size"`
	Fill  colors.Paint `json:"fill"`
	Align Align        `json:"align"`
}

// AnchorPoint returns where text of this style is anchored inside box: the
// vertical centre, and the left edge, centre or right edge horizontally.
func (s TextStyle) AnchorPoint(box Box) Point {
	return Point{box.X + box.W*s.Align.Anchor(), box.Y + box.H/2}
}

// Ellipse appends the four cubic arcs of the ellipse inscribed in the box
// to p. Backends that only draw paths use it for Oval.
func Ellipse(p *Path, x, y, w, h float64) {
	// control point distance for a quarter circle
	const k = 0.5522847498307936
	rx, ry := w/2, h/2
	cx, cy := x+rx, y+ry
	ox, oy := rx*k, ry*k
	p.MoveTo(Point{cx + rx, cy})
	p.CubeTo(Point{cx + rx, cy + oy}, Point{cx + ox, cy + ry}, Point{cx, cy + ry})
	p.CubeTo(Point{cx - ox, cy + ry}, Point{cx - rx, cy + oy}, Point{cx - rx, cy})
	p.CubeTo(Point{cx - rx, cy - oy}, Point{cx - ox, cy - ry}, Point{cx, cy - ry})
	p.CubeTo(Point{cx + ox, cy - ry}, Point{cx + rx, cy - oy}, Point{cx + rx, cy})
	p.Close()
}

// Shorten returns the segment a→b with da removed from the start and db
// from the end. ok is false when nothing would remain.
func Shorten(a, b Point, da, db float64) (Point, Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	d := math.Hypot(dx, dy)
	if d <= da+db {
		return a, b, false
	}
	ux, uy := dx/d, dy/d
	return Point{a.X + ux*da, a.Y + uy*da}, Point{b.X - ux*db, b.Y - uy*db}, true
}
