package fonts

import (
	"strings"
	"testing"

	"github.com/fontparts/partsmap/pkg/errors"
)

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 4 {
		t.Fatalf("Names() = %v", names)
	}
	for _, n := range names {
		if !Has(n) {
			t.Errorf("Has(%q) = false", n)
		}
	}
	if !Has(Default) {
		t.Errorf("default font %q not registered", Default)
	}
}

func TestFace(t *testing.T) {
	face, err := Face(GoBold, 32)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	m := face.Metrics()
	if m.Ascent <= 0 || m.Height <= 0 {
		t.Errorf("Metrics() = %+v", m)
	}
	if _, ok := face.GlyphAdvance('g'); !ok {
		t.Error("GlyphAdvance('g') not found")
	}
}

func TestUnknownFont(t *testing.T) {
	if _, err := Face("Comic Sans", 12); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Face() error = %v, want INVALID_CONFIG", err)
	}
	if _, err := CSS("Comic Sans"); err == nil {
		t.Error("CSS() error = nil")
	}
	if _, err := SFNT("Comic Sans"); err == nil {
		t.Error("SFNT() error = nil")
	}
}

func TestCSS(t *testing.T) {
	css, err := CSS(GoMonoBold)
	if err != nil {
		t.Fatal(err)
	}
	if css != "font-family:'Go Mono',sans-serif;font-weight:bold" {
		t.Errorf("CSS() = %q", css)
	}
}

func TestFontFace(t *testing.T) {
	rule, err := FontFace(GoRegular)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(rule, "@font-face{font-family:'Go';") || !strings.Contains(rule, "base64,") {
		t.Errorf("FontFace() = %.80q...", rule)
	}
	again, _ := FontFace(GoRegular)
	if again != rule {
		t.Error("FontFace() not stable across calls")
	}
}

func TestSFNT(t *testing.T) {
	f, err := SFNT(GoRegular)
	if err != nil {
		t.Fatal(err)
	}
	if f.NumGlyphs() == 0 {
		t.Error("NumGlyphs() = 0")
	}
}
