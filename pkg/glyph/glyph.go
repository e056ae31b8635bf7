package glyph

import (
	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/errors"
)

// Op is an outline segment kind.
type Op uint8

// Segment kinds.
const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubeTo
)

// argCount is the number of points each op carries.
var argCount = [...]int{MoveTo: 1, LineTo: 1, QuadTo: 2, CubeTo: 3}

// Segment is one outline command in font units, y up. Only the first
// argCount(Op) entries of Args are meaningful; the end point is last.
type Segment struct {
	Op   Op
	Args [3]canvas.Point
}

// End returns the on-curve point the segment ends at.
func (s Segment) End() canvas.Point {
	return s.Args[argCount[s.Op]-1]
}

// Controls returns the off-curve control points.
func (s Segment) Controls() []canvas.Point {
	return s.Args[:argCount[s.Op]-1]
}

// Outline is a glyph shape in font units. Every contour starts with a
// MoveTo and is implicitly closed.
type Outline struct {
	Rune       rune
	UnitsPerEm float64
	Advance    float64
	Contours   [][]Segment
	Anchors    map[string]canvas.Point
}

// Path returns the outline scaled by scale and shifted by origin.
func (o Outline) Path(scale float64, origin canvas.Point) *canvas.Path {
	at := func(pt canvas.Point) canvas.Point {
		return canvas.Point{X: origin.X + pt.X*scale, Y: origin.Y + pt.Y*scale}
	}
	p := &canvas.Path{}
	for _, contour := range o.Contours {
		for _, s := range contour {
			switch s.Op {
			case MoveTo:
				p.MoveTo(at(s.Args[0]))
			case LineTo:
				p.LineTo(at(s.Args[0]))
			case QuadTo:
				p.QuadTo(at(s.Args[0]), at(s.Args[1]))
			case CubeTo:
				p.CubeTo(at(s.Args[0]), at(s.Args[1]), at(s.Args[2]))
			}
		}
		if len(contour) > 0 {
			p.Close()
		}
	}
	return p
}

// OnCurve returns the contour end points in order.
func (o Outline) OnCurve() []canvas.Point {
	var out []canvas.Point
	for _, contour := range o.Contours {
		for _, s := range contour {
			out = append(out, s.End())
		}
	}
	return out
}

// Handle joins an on-curve point to one of its control points.
type Handle struct {
	Anchor, Control canvas.Point
}

// Handles returns the control-point handles of every curve segment: the
// first control hangs off the previous on-curve point, the last off the
// segment's end.
func (o Outline) Handles() []Handle {
	var out []Handle
	for _, contour := range o.Contours {
		var prev canvas.Point
		for _, s := range contour {
			ctl := s.Controls()
			if len(ctl) > 0 {
				out = append(out, Handle{prev, ctl[0]})
				out = append(out, Handle{s.End(), ctl[len(ctl)-1]})
			}
			prev = s.End()
		}
	}
	return out
}

// Interpolate blends two point-compatible outlines: t=0 yields a, t=1
// yields b. Outlines must have the same contours with the same segment
// kinds, and the same anchor names.
func Interpolate(a, b Outline, t float64) (Outline, error) {
	fail := func(format string, args ...any) (Outline, error) {
		return Outline{}, errors.New(errors.ErrCodeIncompatibleGlyphs, format, args...).
			In(errors.PhaseGlyph, string(a.Rune))
	}
	if a.UnitsPerEm != b.UnitsPerEm {
		return fail("units per em differ (%v vs %v)", a.UnitsPerEm, b.UnitsPerEm)
	}
	if len(a.Contours) != len(b.Contours) {
		return fail("contour counts differ (%d vs %d)", len(a.Contours), len(b.Contours))
	}
	if len(a.Anchors) != len(b.Anchors) {
		return fail("anchor counts differ (%d vs %d)", len(a.Anchors), len(b.Anchors))
	}

	lerp := func(p, q canvas.Point) canvas.Point {
		return canvas.Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
	}
	out := Outline{
		Rune:       a.Rune,
		UnitsPerEm: a.UnitsPerEm,
		Advance:    a.Advance + (b.Advance-a.Advance)*t,
		Contours:   make([][]Segment, len(a.Contours)),
	}
	for i, ca := range a.Contours {
		cb := b.Contours[i]
		if len(ca) != len(cb) {
			return fail("contour %d segment counts differ (%d vs %d)", i, len(ca), len(cb))
		}
		out.Contours[i] = make([]Segment, len(ca))
		for j, sa := range ca {
			sb := cb[j]
			if sa.Op != sb.Op {
				return fail("contour %d segment %d kinds differ", i, j)
			}
			s := Segment{Op: sa.Op}
			for k := range argCount[sa.Op] {
				s.Args[k] = lerp(sa.Args[k], sb.Args[k])
			}
			out.Contours[i][j] = s
		}
	}
	if len(a.Anchors) > 0 {
		out.Anchors = make(map[string]canvas.Point, len(a.Anchors))
		for name, pa := range a.Anchors {
			pb, ok := b.Anchors[name]
			if !ok {
				return fail("anchor %q missing from second outline", name)
			}
			out.Anchors[name] = lerp(pa, pb)
		}
	}
	return out, nil
}
