package canvas

import (
	"math"
	"strconv"
	"strings"
)

// Verb is a path construction command.
type Verb string

// Path verbs.
const (
	VerbMove  Verb = "M"
	VerbLine  Verb = "L"
	VerbQuad  Verb = "Q"
	VerbCube  Verb = "C"
	VerbClose Verb = "Z"
)

// Segment is one path command with its control and end points. The end
// point is always last.
type Segment struct {
	Verb   Verb    `json:"verb"`
	Points []Point `json:"points,omitempty"`
}

// Path is an outline made of move, line, quadratic, cubic and close
// commands. The zero value is an empty path.
type Path struct {
	Segments []Segment `json:"segments"`
}

// MoveTo starts a new subpath at p.
func (p *Path) MoveTo(pt Point) {
	p.Segments = append(p.Segments, Segment{Verb: VerbMove, Points: []Point{pt}})
}

// LineTo adds a straight segment.
func (p *Path) LineTo(pt Point) {
	p.Segments = append(p.Segments, Segment{Verb: VerbLine, Points: []Point{pt}})
}

// QuadTo adds a quadratic Bézier segment.
func (p *Path) QuadTo(c, pt Point) {
	p.Segments = append(p.Segments, Segment{Verb: VerbQuad, Points: []Point{c, pt}})
}

// CubeTo adds a cubic Bézier segment.
func (p *Path) CubeTo(c1, c2, pt Point) {
	p.Segments = append(p.Segments, Segment{Verb: VerbCube, Points: []Point{c1, c2, pt}})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Verb: VerbClose})
}

// Empty reports whether the path has no segments.
func (p *Path) Empty() bool {
	return p == nil || len(p.Segments) == 0
}

// Transform returns a copy of p with every point mapped through f.
func (p *Path) Transform(f func(Point) Point) *Path {
	out := &Path{Segments: make([]Segment, len(p.Segments))}
	for i, s := range p.Segments {
		pts := make([]Point, len(s.Points))
		for j, pt := range s.Points {
			pts[j] = f(pt)
		}
		out.Segments[i] = Segment{Verb: s.Verb, Points: pts}
	}
	return out
}

// Bounds returns the bounding box of all points, control points included.
func (p *Path) Bounds() Box {
	lo := Point{math.Inf(1), math.Inf(1)}
	hi := Point{math.Inf(-1), math.Inf(-1)}
	for _, s := range p.Segments {
		for _, pt := range s.Points {
			lo.X, lo.Y = min(lo.X, pt.X), min(lo.Y, pt.Y)
			hi.X, hi.Y = max(hi.X, pt.X), max(hi.Y, pt.Y)
		}
	}
	if lo.X > hi.X {
		return Box{}
	}
	return Box{X: lo.X, Y: lo.Y, W: hi.X - lo.X, H: hi.Y - lo.Y}
}

// SVG returns the path in SVG path-data syntax.
func (p *Path) SVG() string {
	var b strings.Builder
	for i, s := range p.Segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(s.Verb))
		for _, pt := range s.Points {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(pt.X, 'f', -1, 64))
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(pt.Y, 'f', -1, 64))
		}
	}
	return b.String()
}
