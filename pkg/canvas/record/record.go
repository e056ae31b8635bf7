// Package record implements a canvas that logs draw calls instead of
// painting them.
//
// The op log is the "json" output format of the pipeline and the canvas
// used by renderer tests to assert draw order and parameters.
package record

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fontparts/partsmap/pkg/canvas"
	"github.com/fontparts/partsmap/pkg/colors"
)

// Op kinds.
const (
	OpSave         = "save"
	OpRestore      = "restore"
	OpTranslate    = "translate"
	OpScale        = "scale"
	OpRotate       = "rotate"
	OpShadow       = "shadow"
	OpLine         = "line"
	OpGradientLine = "gradient_line"
	OpOval         = "oval"
	OpRect         = "rect"
	OpText         = "text"
	OpPath         = "path"
)

// Op is one recorded canvas call.
type Op struct {
	Kind   string            `json:"op"`
	Args   []float64         `json:"args,omitempty"`
	Points []canvas.Point    `json:"points,omitempty"`
	Box    *canvas.Box       `json:"box,omitempty"`
	Fill   string            `json:"fill,omitempty"`
	From   string            `json:"from,omitempty"`
	To     string            `json:"to,omitempty"`
	Stroke *canvas.Stroke    `json:"stroke,omitempty"`
	Shadow *canvas.Shadow    `json:"shadow,omitempty"`
	Text   string            `json:"text,omitempty"`
	Style  *canvas.TextStyle `json:"style,omitempty"`
	Path   *canvas.Path      `json:"path,omitempty"`

	// Depth is the Save nesting level the op was issued at.
	Depth int `json:"depth"`
}

// Canvas records every call in order.
type Canvas struct {
	w, h  float64
	ops   []Op
	depth int
	err   error
}

var _ canvas.Canvas = (*Canvas)(nil)

// New returns an empty recording canvas of the given logical size.
func New(w, h float64) *Canvas {
	return &Canvas{w: w, h: h}
}

// Ops returns the recorded calls.
func (c *Canvas) Ops() []Op { return c.ops }

// Kinds returns the op kinds in call order.
func (c *Canvas) Kinds() []string {
	out := make([]string, len(c.ops))
	for i, op := range c.ops {
		out[i] = op.Kind
	}
	return out
}

// Filter returns the ops of one kind.
func (c *Canvas) Filter(kind string) []Op {
	var out []Op
	for _, op := range c.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Err returns the first misuse detected, such as an unbalanced Restore.
func (c *Canvas) Err() error {
	if c.err != nil {
		return c.err
	}
	if c.depth != 0 {
		return fmt.Errorf("record: %d Save calls without Restore", c.depth)
	}
	return nil
}

// MarshalJSON encodes the canvas size and op log.
func (c *Canvas) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Ops    []Op    `json:"ops"`
	}{c.w, c.h, c.ops})
}

// Encode writes the op log as indented JSON.
func (c *Canvas) Encode(w io.Writer) error {
	if err := c.Err(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func (c *Canvas) add(op Op) {
	op.Depth = c.depth
	c.ops = append(c.ops, op)
}

func (c *Canvas) Size() (float64, float64) { return c.w, c.h }

func (c *Canvas) Save() {
	c.add(Op{Kind: OpSave})
	c.depth++
}

func (c *Canvas) Restore() {
	if c.depth == 0 {
		if c.err == nil {
			c.err = fmt.Errorf("record: Restore without Save")
		}
		return
	}
	c.depth--
	c.add(Op{Kind: OpRestore})
}

func (c *Canvas) Translate(dx, dy float64) {
	c.add(Op{Kind: OpTranslate, Args: []float64{dx, dy}})
}

func (c *Canvas) Scale(sx, sy float64) {
	c.add(Op{Kind: OpScale, Args: []float64{sx, sy}})
}

func (c *Canvas) Rotate(deg float64) {
	c.add(Op{Kind: OpRotate, Args: []float64{deg}})
}

func (c *Canvas) SetShadow(s *canvas.Shadow) {
	var cp *canvas.Shadow
	if s != nil {
		v := *s
		cp = &v
	}
	c.add(Op{Kind: OpShadow, Shadow: cp})
}

func (c *Canvas) Line(a, b canvas.Point, s canvas.Stroke) {
	c.add(Op{Kind: OpLine, Points: []canvas.Point{a, b}, Stroke: &s})
}

func (c *Canvas) GradientLine(a, b canvas.Point, from, to colors.Paint, s canvas.Stroke) {
	c.add(Op{Kind: OpGradientLine, Points: []canvas.Point{a, b}, From: from.String(), To: to.String(), Stroke: &s})
}

func (c *Canvas) Oval(x, y, w, h float64, fill colors.Paint, s canvas.Stroke) {
	c.add(Op{Kind: OpOval, Box: &canvas.Box{X: x, Y: y, W: w, H: h}, Fill: fill.String(), Stroke: &s})
}

func (c *Canvas) Rect(x, y, w, h float64, fill colors.Paint, s canvas.Stroke) {
	c.add(Op{Kind: OpRect, Box: &canvas.Box{X: x, Y: y, W: w, H: h}, Fill: fill.String(), Stroke: &s})
}

func (c *Canvas) TextBox(text string, box canvas.Box, style canvas.TextStyle) {
	c.add(Op{Kind: OpText, Text: text, Box: &box, Style: &style})
}

func (c *Canvas) Path(p *canvas.Path, fill colors.Paint, s canvas.Stroke) {
	c.add(Op{Kind: OpPath, Path: p, Fill: fill.String(), Stroke: &s})
}
