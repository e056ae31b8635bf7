package glyph

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/fonts"
)

// Source supplies glyph outlines by code point.
type Source interface {
	// Glyph returns the outline for r, or a GLYPH_NOT_FOUND error.
	Glyph(r rune) (Outline, error)
}

// Metrics are vertical font dimensions in font units, y up (Descender is
// negative).
type Metrics struct {
	UnitsPerEm float64
	Ascender   float64
	Descender  float64
	XHeight    float64
	CapHeight  float64
}

// Measurer is implemented by sources that know their vertical metrics.
type Measurer interface {
	Metrics() (Metrics, error)
}

// SFNTSource reads outlines from an OpenType/TrueType font. It is safe for
// concurrent use.
type SFNTSource struct {
	mu   sync.Mutex
	f    *sfnt.Font
	buf  sfnt.Buffer
	ppem fixed.Int26_6
	upem float64
}

// NewSFNTSource wraps a parsed font. Outlines are loaded at one pixel per
// font unit, so coordinates come back in font units.
func NewSFNTSource(f *sfnt.Font) *SFNTSource {
	upem := f.UnitsPerEm()
	return &SFNTSource{f: f, ppem: fixed.I(int(upem)), upem: float64(upem)}
}

// Open returns a source for a font registered in package fonts.
func Open(name string) (*SFNTSource, error) {
	f, err := fonts.SFNT(name)
	if err != nil {
		return nil, err
	}
	return NewSFNTSource(f), nil
}

func (s *SFNTSource) Glyph(r rune) (Outline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.f.GlyphIndex(&s.buf, r)
	if err != nil {
		return Outline{}, errors.Wrap(errors.ErrCodeInternal, err, "glyph index").In(errors.PhaseGlyph, string(r))
	}
	if idx == 0 {
		return Outline{}, errors.New(errors.ErrCodeGlyphNotFound, "no glyph for U+%04X", r).In(errors.PhaseGlyph, string(r))
	}
	segs, err := s.f.LoadGlyph(&s.buf, idx, s.ppem, nil)
	if err != nil {
		return Outline{}, errors.Wrap(errors.ErrCodeInternal, err, "load glyph").In(errors.PhaseGlyph, string(r))
	}
	adv, err := s.f.GlyphAdvance(&s.buf, idx, s.ppem, font.HintingNone)
	if err != nil {
		return Outline{}, errors.Wrap(errors.ErrCodeInternal, err, "glyph advance").In(errors.PhaseGlyph, string(r))
	}

	o := Outline{Rune: r, UnitsPerEm: s.upem, Advance: unit(adv)}
	var contour []Segment
	for _, seg := range segs {
		g := Segment{}
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if len(contour) > 0 {
				o.Contours = append(o.Contours, contour)
			}
			contour = nil
			g.Op = MoveTo
		case sfnt.SegmentOpLineTo:
			g.Op = LineTo
		case sfnt.SegmentOpQuadTo:
			g.Op = QuadTo
		case sfnt.SegmentOpCubeTo:
			g.Op = CubeTo
		}
		for k := range argCount[g.Op] {
			// sfnt addresses y downwards
			g.Args[k] = canvas.Point{X: unit(seg.Args[k].X), Y: -unit(seg.Args[k].Y)}
		}
		contour = append(contour, g)
	}
	if len(contour) > 0 {
		o.Contours = append(o.Contours, contour)
	}
	return o, nil
}

func (s *SFNTSource) Metrics() (Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.f.Metrics(&s.buf, s.ppem, font.HintingNone)
	if err != nil {
		return Metrics{}, errors.Wrap(errors.ErrCodeInternal, err, "font metrics").In(errors.PhaseGlyph, "")
	}
	return Metrics{
		UnitsPerEm: s.upem,
		Ascender:   unit(m.Ascent),
		Descender:  -unit(m.Descent),
		XHeight:    unit(m.XHeight),
		CapHeight:  unit(m.CapHeight),
	}, nil
}

func unit(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Blend serves outlines interpolated between two sources at T.
type Blend struct {
	A, B Source
	T    float64
}

func (b Blend) Glyph(r rune) (Outline, error) {
	oa, err := b.A.Glyph(r)
	if err != nil {
		return Outline{}, err
	}
	ob, err := b.B.Glyph(r)
	if err != nil {
		return Outline{}, err
	}
	return Interpolate(oa, ob, b.T)
}

// Metrics interpolates the metrics of both sources when both know them.
func (b Blend) Metrics() (Metrics, error) {
	ma, ok1 := b.A.(Measurer)
	mb, ok2 := b.B.(Measurer)
	if !ok1 || !ok2 {
		return Metrics{}, errors.New(errors.ErrCodeUnsupported, "blended sources have no metrics").In(errors.PhaseGlyph, "")
	}
	x, err := ma.Metrics()
	if err != nil {
		return Metrics{}, err
	}
	y, err := mb.Metrics()
	if err != nil {
		return Metrics{}, err
	}
	mix := func(p, q float64) float64 { return p + (q-p)*b.T }
	return Metrics{
		UnitsPerEm: x.UnitsPerEm,
		Ascender:   mix(x.Ascender, y.Ascender),
		Descender:  mix(x.Descender, y.Descender),
		XHeight:    mix(x.XHeight, y.XHeight),
		CapHeight:  mix(x.CapHeight, y.CapHeight),
	}, nil
}
