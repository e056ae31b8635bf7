package config

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/layout"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverlaysDefault(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "cfg.toml", `
[layout]
radius1 = 60
randomness = 4

[render]
lines_gradient = true
dim_color = "#dddddd"
lines_dash = [2, 7]
`},
		{"yaml", "cfg.yaml", `
layout:
  radius1: 60
  randomness: 4
render:
  lines_gradient: true
  dim_color: "#dddddd"
  lines_dash: [2, 7]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(write(t, tt.file, tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Layout.Radius1 != 60 || cfg.Layout.Randomness != 4 {
				t.Errorf("layout = %+v", cfg.Layout)
			}
			if cfg.Layout.Radius2 != layout.DefaultConfig().Radius2 {
				t.Errorf("radius2 = %v, want default kept", cfg.Layout.Radius2)
			}
			if !cfg.Render.LinesGradient || cfg.Render.DimColor.String() != "#dddddd" {
				t.Errorf("render = %+v", cfg.Render)
			}
			if !slices.Equal(cfg.Render.LinesDash, []float64{2, 7}) {
				t.Errorf("lines_dash = %v", cfg.Render.LinesDash)
			}
			if cfg.Render.CaptionSize2 != 32 {
				t.Errorf("caption_size2 = %v, want default kept", cfg.Render.CaptionSize2)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		key     string
	}{
		{"toml", "cfg.toml", "[layout]\nradius3 = 1\n", "layout.radius3"},
		{"yaml", "cfg.yml", "layout:\n  radius3: 1\n", "radius3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, tt.file, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("Load() error = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
	}{
		{"unknown extension", "cfg.json", "{}", errors.ErrCodeInvalidFormat},
		{"bad toml", "cfg.toml", "[layout\n", errors.ErrCodeInvalidConfig},
		{"bad paint", "cfg.toml", "[render]\ndim_color = \"teal-ish\"\n", errors.ErrCodeInvalidConfig},
		{"invalid value", "cfg.toml", "[layout]\nradius1 = -5\n", errors.ErrCodeInvalidConfig},
		{"radius order", "cfg.yaml", "layout:\n  radius1: 100\n  radius2: 50\n", errors.ErrCodeInvalidConfig},
		{"unknown font", "cfg.yaml", "logotype:\n  font: comic\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(write(t, tt.file, tt.content)); !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestEmptyYAMLIsDefault(t *testing.T) {
	cfg, err := Load(write(t, "empty.yaml", ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout != layout.DefaultConfig() {
		t.Errorf("layout = %+v, want default", cfg.Layout)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Default()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[layout]", "radius1 = 55.0", "[render]", "lines_dash = [3.0, 7.0]", `base_a = "hsl(80, 0.5, 0.49)"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("encoded config lacks %q:\n%s", want, buf.String())
		}
	}

	cfg, err := Load(write(t, "round.toml", buf.String()))
	if err != nil {
		t.Fatalf("Load(encoded default) = %v\n%s", err, buf.String())
	}
	def := Default()
	if cfg.Layout != def.Layout || cfg.Scheme != def.Scheme || cfg.Root != def.Root {
		t.Error("round trip changed layout, scheme or root")
	}
	if cfg.Render.DimColor.String() != def.Render.DimColor.String() || !slices.Equal(cfg.Render.LinesDash, def.Render.LinesDash) {
		t.Error("round trip changed render config")
	}
	if !slices.Equal(cfg.Logotype.Layers, def.Logotype.Layers) {
		t.Errorf("logotype layers = %v", cfg.Logotype.Layers)
	}
}
