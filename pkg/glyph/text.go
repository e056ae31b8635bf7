package glyph

import (
	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/colors"
)

// defaultUPM is assumed for outlines that do not state their em size.
const defaultUPM = 1000

func emScale(o Outline, size float64) float64 {
	upm := o.UnitsPerEm
	if upm <= 0 {
		upm = defaultUPM
	}
	return size / upm
}

// Measure returns the advance width of text at size.
func Measure(src Source, text string, size float64) (float64, error) {
	w := 0.0
	for _, r := range text {
		o, err := src.Glyph(r)
		if err != nil {
			return 0, err
		}
		w += o.Advance * emScale(o, size)
	}
	return w, nil
}

// DrawText fills the outlines of text with the baseline at y=0, starting at
// x=0, and returns the advance width. All outlines are resolved before
// anything is drawn, so a missing glyph leaves the canvas untouched.
func DrawText(c canvas.Canvas, src Source, text string, size float64, fill colors.Paint) (float64, error) {
	var outlines []Outline
	for _, r := range text {
		o, err := src.Glyph(r)
		if err != nil {
			return 0, err
		}
		outlines = append(outlines, o)
	}

	x := 0.0
	for _, o := range outlines {
		sc := emScale(o, size)
		if p := o.Path(sc, canvas.Point{X: x}); !p.Empty() {
			c.Path(p, fill, canvas.NoStroke)
		}
		x += o.Advance * sc
	}
	return x, nil
}
