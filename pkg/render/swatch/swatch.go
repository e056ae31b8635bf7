// Package swatch draws the palette as rows of colour cells, one row per
// colour group, as a reference sheet for the diagram colours.
package swatch

import (
	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/fonts"
	"github.com/fontparts/partsmap/pkg/model"
)

// Size is a cell width and height.
type Size struct {
	W float64 `json:"w" toml:"w" yaml:"w"`
	H float64 `json:"h" toml:"h" yaml:"h"`
}

// Options controls the sheet geometry.
type Options struct {
	// Origin is the lower-left corner of the bottom row.
	Origin   canvas.Point
	CellSize Size
	Padding  float64
	// Captions writes each node type name onto its cell.
	Captions bool
	// Font is the caption font; empty means fonts.Default.
	Font string
}

// DefaultOptions matches the published swatch sheet.
func DefaultOptions() Options {
	return Options{
		Origin:   canvas.Point{X: 20, Y: 20},
		CellSize: Size{W: 120, H: 80},
		Padding:  10,
		Captions: true,
		Font:     fonts.Default,
	}
}

// Groups returns the colour groups of m: the first primary with its
// children, the second primary with its children, the tertiary root with
// its children, and the spine of first primary, intermediate and second
// primary.
func Groups(m model.Model) [][]model.NodeType {
	withChildren := func(n model.NodeType) []model.NodeType {
		return append([]model.NodeType{n}, m.Children(n)...)
	}
	return [][]model.NodeType{
		withChildren(m.PrimaryA),
		withChildren(m.PrimaryB),
		withChildren(m.TertiaryRoot),
		{m.PrimaryA, m.Intermediate, m.PrimaryB},
	}
}

// Extent returns the width and height the sheet occupies, excluding Origin.
func Extent(groups [][]model.NodeType, opts Options) (w, h float64) {
	cols := 0
	for _, g := range groups {
		cols = max(cols, len(g))
	}
	if cols == 0 {
		return 0, 0
	}
	w = float64(cols)*opts.CellSize.W + float64(cols-1)*opts.Padding
	h = float64(len(groups))*opts.CellSize.H + float64(len(groups)-1)*opts.Padding
	return w, h
}

func (o Options) validate() error {
	if err := errors.ValidatePositive("cell_size.w", o.CellSize.W); err != nil {
		return err
	}
	if err := errors.ValidatePositive("cell_size.h", o.CellSize.H); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("padding", o.Padding); err != nil {
		return err
	}
	if o.Captions && o.Font != "" && !fonts.Has(o.Font) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown swatch font %q", o.Font).In(errors.PhaseConfig, "")
	}
	return nil
}

// Draw paints one row per group, left to right. Rows stack upwards in
// reverse group order, so the first group ends up on top. Every cell
// colour is resolved before drawing starts.
func Draw(c canvas.Canvas, p colors.Palette, groups [][]model.NodeType, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	rows := make([][]colors.Paint, len(groups))
	for i, g := range groups {
		for _, n := range g {
			col, err := p.Lookup(n)
			if err != nil {
				return err
			}
			rows[i] = append(rows[i], colors.PaintOf(col))
		}
	}
	font := opts.Font
	if font == "" {
		font = fonts.Default
	}
	w, h := opts.CellSize.W, opts.CellSize.H
	style := canvas.TextStyle{Font: font, Size: w * 0.12, Fill: colors.Gray(0, 1), Align: canvas.AlignLeft}

	c.Save()
	c.Translate(opts.Origin.X, opts.Origin.Y)
	for i := len(groups) - 1; i >= 0; i-- {
		c.Save()
		for j, n := range groups[i] {
			c.Rect(0, 0, w, h, rows[i][j], canvas.NoStroke)
			if opts.Captions {
				c.TextBox(string(n), canvas.Box{X: w * 0.1, Y: h * 0.2, W: w * 0.8, H: style.Size}, style)
			}
			c.Translate(w+opts.Padding, 0)
		}
		c.Restore()
		c.Translate(0, h+opts.Padding)
	}
	c.Restore()
	return nil
}
