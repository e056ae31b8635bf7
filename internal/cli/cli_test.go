package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/fontparts/partsmap/pkg/canvas/record"
	"github.com/fontparts/partsmap/pkg/colors"
	"github.com/fontparts/partsmap/pkg/config"
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/fonts"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,json", []string{"svg", "png", "json"}},
		{"spaces and empty items", " svg, ,dot ", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNodeTypes(t *testing.T) {
	got := parseNodeTypes("glyph, contour,,point")
	if len(got) != 3 || got[0] != "glyph" || got[1] != "contour" || got[2] != "point" {
		t.Errorf("parseNodeTypes = %v", got)
	}
	if got := parseNodeTypes(""); len(got) != 0 {
		t.Errorf("parseNodeTypes(\"\") = %v, want empty", got)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base   string
		format string
		single bool
		want   string
	}{
		{"map", "svg", true, "map.svg"},
		{"map.svg", "svg", true, "map.svg"},
		{"map.svg", "png", false, "map.png"},
		{"out/map", "json", false, "out/map.json"},
		{"map.drawing", "svg", false, "map.svg"},
	}

	for _, tt := range tests {
		if got := outputPath(tt.base, tt.format, tt.single); got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.base, tt.format, tt.single, got, tt.want)
		}
	}
}

func TestFramePath(t *testing.T) {
	if got := framePath("frames/map", 7, "png"); got != "frames/map_007.png" {
		t.Errorf("framePath = %q", got)
	}
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

func TestRenderWritesEveryFormat(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "out", "map")
	if _, err := execute(t, "render", "-f", "svg,png,json,dot", "-o", base); err != nil {
		t.Fatal(err)
	}

	prefixes := map[string]string{"svg": "<?xml", "png": "\x89PNG", "json": "{", "dot": "digraph G {"}
	for format, prefix := range prefixes {
		data := readFile(t, base+"."+format)
		if !bytes.HasPrefix(data, []byte(prefix)) {
			t.Errorf("%s starts %.20q, want %q", format, data, prefix)
		}
	}
}

func TestRenderSingleOutputKeepsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.image")
	if _, err := execute(t, "render", "-o", path); err != nil {
		t.Fatal(err)
	}
	readFile(t, path)
}

func TestRenderFlags(t *testing.T) {
	base := filepath.Join(t.TempDir(), "map")
	if _, err := execute(t, "render", "-f", "json", "-o", base, "--highlight", "glyph", "--captions=false", "--width", "800"); err != nil {
		t.Fatal(err)
	}

	var rec struct {
		Width float64     `json:"width"`
		Ops   []record.Op `json:"ops"`
	}
	if err := json.Unmarshal(readFile(t, base+".json"), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Width != 800 {
		t.Errorf("width = %v, want 800", rec.Width)
	}
	dim := config.Default().Render.DimColor.String()
	dimmed := 0
	for _, op := range rec.Ops {
		if op.Kind == record.OpText {
			t.Fatal("captions drawn with --captions=false")
		}
		if op.Kind == record.OpOval && op.Fill == dim {
			dimmed++
		}
	}
	if dimmed != 16 {
		t.Errorf("dimmed = %d, want 16", dimmed)
	}
}

func TestRenderLayoutShape(t *testing.T) {
	dir := t.TempDir()
	render := func(name string, args ...string) []byte {
		t.Helper()
		path := filepath.Join(dir, name+".json")
		if _, err := execute(t, append([]string{"render", "-f", "json", "-o", path}, args...)...); err != nil {
			t.Fatal(err)
		}
		return readFile(t, path)
	}

	plain := render("plain")
	tests := []struct {
		name string
		args []string
		same bool
	}{
		{"reduced defaults", []string{"--reduced"}, true},
		{"zero fan", []string{"--fan", "0"}, true},
		{"fan", []string{"--fan", "300"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(strings.ReplaceAll(tt.name, " ", "_"), tt.args...)
			if bytes.Equal(got, plain) != tt.same {
				t.Errorf("%v: same output = %v, want %v", tt.args, !tt.same, tt.same)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown highlight", []string{"render", "--highlight", "kernel"}, errors.ErrCodeUnknownNode},
		{"bad format", []string{"render", "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"negative randomness", []string{"render", "--randomness", "-1"}, errors.ErrCodeInvalidConfig},
		{"negative fan", []string{"render", "--fan", "-30"}, errors.ErrCodeInvalidConfig},
		{"swatch dot", []string{"swatches", "-f", "dot"}, errors.ErrCodeUnsupported},
		{"graph json", []string{"graph", "-f", "json"}, errors.ErrCodeUnsupported},
		{"logotype missing glyph", []string{"logotype", "--text", "中"}, errors.ErrCodeGlyphNotFound},
		{"bad mode", []string{"animate", "--mode", "spin"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "-o", filepath.Join(dir, "x"))
			_, err := execute(t, args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSwatchesAndLogotype(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "swatches", "-o", filepath.Join(dir, "sheet")); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "logotype", "--text", "Go", "--blend-with", "go-bold", "-f", "png", "-o", filepath.Join(dir, "logo")); err != nil {
		t.Fatal(err)
	}
	if data := readFile(t, filepath.Join(dir, "sheet.svg")); !bytes.HasPrefix(data, []byte("<?xml")) {
		t.Errorf("swatch sheet starts %.20q", data)
	}
	if data := readFile(t, filepath.Join(dir, "logo.png")); !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("logotype starts %.20q", data)
	}
}

func TestGraphDOT(t *testing.T) {
	base := filepath.Join(t.TempDir(), "graph")
	if _, err := execute(t, "graph", "-f", "dot", "--highlight", "glyph", "-o", base); err != nil {
		t.Fatal(err)
	}
	if data := readFile(t, base+".dot"); !bytes.HasPrefix(data, []byte("digraph G {")) {
		t.Errorf("graph starts %.20q", data)
	}
}

func TestAnimateWritesFrames(t *testing.T) {
	base := filepath.Join(t.TempDir(), "frames", "map")
	if _, err := execute(t, "animate", "--mode", "jitter", "--randomness", "5", "--count", "3", "-f", "json", "-o", base); err != nil {
		t.Fatal(err)
	}
	for i := range 3 {
		readFile(t, framePath(base, i, "json"))
	}
	if _, err := os.Stat(framePath(base, 3, "json")); !os.IsNotExist(err) {
		t.Errorf("frame 3 exists, want exactly 3 frames")
	}
}

func TestPaletteJSON(t *testing.T) {
	out, err := execute(t, "palette", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var entries []colors.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 17 || entries[0].Type != "font" {
		t.Errorf("entries = %d, first %q", len(entries), entries[0].Type)
	}
}

func TestPaletteTable(t *testing.T) {
	out, err := execute(t, "palette")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Type", "Hex", "CMYK", "glyph", "contour"} {
		if !strings.Contains(out, want) {
			t.Errorf("table lacks %q", want)
		}
	}
}

func TestConfigRoundTrip(t *testing.T) {
	out, err := execute(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[layout]") || !strings.Contains(out, "radius1 = 55.0") {
		t.Fatalf("config output lacks the layout section:\n%s", out)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "partsmap.toml")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		t.Fatal(err)
	}
	again, err := execute(t, "--config", path, "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(again, "radius1 = 55.0") {
		t.Error("loaded config lost the layout section")
	}
	if _, err := execute(t, "--config", path, "render", "-o", filepath.Join(dir, "map")); err != nil {
		t.Fatalf("render with printed config: %v", err)
	}
}

func TestConfigFileMissing(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "config")
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "partsmap") {
		t.Error("bash completion does not mention partsmap")
	}
}

func TestFlagValueCompletion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
		not  []string
	}{
		{"highlight", []string{"render", "--highlight", "gl"}, []string{"glyph", "glyph lib"}, []string{"font", "guideline"}},
		{"format list", []string{"render", "--format", "svg,p"}, []string{"svg,png"}, []string{"svg,json", "png"}},
		{"dim list", []string{"graph", "--dim", "font,ker"}, []string{"font,kerning"}, []string{"kerning"}},
		{"mode", []string{"animate", "--mode", ""}, []string{"highlight", "jitter"}, nil},
		{"font", []string{"logotype", "--font", ""}, fonts.Names(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{cobra.ShellCompNoDescRequestCmd}, tt.args...)...)
			if err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(out, "\n")
			for _, want := range tt.want {
				if !slices.Contains(lines, want) {
					t.Errorf("completions %q lack %q", lines, want)
				}
			}
			for _, not := range tt.not {
				if slices.Contains(lines, not) {
					t.Errorf("completions %q offer %q", lines, not)
				}
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New(errors.ErrCodeUnknownNode, "unknown node type %q", "kerning"))
	out := buf.String()
	if !strings.Contains(out, `unknown node type "kerning"`) || !strings.Contains(out, "UNKNOWN_NODE") {
		t.Errorf("PrintError = %q", out)
	}
}
