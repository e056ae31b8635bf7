package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fontparts/partsmap/pkg/config"
	"github.com/fontparts/partsmap/pkg/errors"
)

func TestGraphDOT(t *testing.T) {
	res, err := NewRunner(nil).Graph(context.Background(), Options{
		Config:    config.Default(),
		Formats:   []string{FormatDOT},
		Highlight: "glyph",
	})
	if err != nil {
		t.Fatal(err)
	}
	dot := string(res.Artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("dot starts %.20q", dot)
	}
	dim := `fillcolor="` + config.Default().Render.DimColor.Hex() + `"`
	if got := strings.Count(dot, dim); got != 16 {
		t.Errorf("dimmed nodes = %d, want 16", got)
	}
	if res.Stats.NodeCount != 17 {
		t.Errorf("NodeCount = %d, want 17", res.Stats.NodeCount)
	}
}

func TestGraphSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz render in short mode")
	}
	res, err := NewRunner(nil).Graph(context.Background(), Options{Config: config.Default(), Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("graph svg lacks an <svg> element")
	}
}

func TestGraphJSONUnsupported(t *testing.T) {
	_, err := NewRunner(nil).Graph(context.Background(), Options{Config: config.Default(), Formats: []string{FormatJSON}})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Graph(json) error = %v, want UNSUPPORTED", err)
	}
}
