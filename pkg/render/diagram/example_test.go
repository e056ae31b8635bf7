package diagram_test

import (
	"fmt"

	"github.com/fontparts/partsmap/pkg/canvas/record"
	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/layout"
	"github.com/fontparts/partsmap/pkg/model"
	"github.com/fontparts/partsmap/pkg/render/diagram"
)

func ExampleDraw() {
	m := model.FontParts()
	l, _ := layout.Compute(layout.Point{X: 500, Y: 900}, layout.DefaultConfig(), m)
	p, _ := colors.DefaultScheme().Derive(m)

	c := record.New(1000, 1000)
	cfg := diagram.DefaultConfig()
	if err := diagram.Draw(c, l, p, diagram.NewDimSet(model.Kerning), cfg); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("lines:", len(c.Filter(record.OpLine)))
	fmt.Println("circles:", len(c.Filter(record.OpOval)))
	fmt.Println("captions:", len(c.Filter(record.OpText)))
	// Output:
	// lines: 16
	// circles: 17
	// captions: 17
}
