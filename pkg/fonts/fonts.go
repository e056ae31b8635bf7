// Package fonts provides the caption and title faces.
//
// The faces are the Go fonts from golang.org/x/image/font/gofont, compiled
// into the binary, so rendering never depends on system fonts. Raster
// backends get a [font.Face] through golang/freetype; the vector backend
// gets a CSS family and, optionally, the TTF data for an inline
// @font-face rule; the glyph package gets a parsed sfnt font.
package fonts

import (
	"encoding/base64"
	"fmt"
	"slices"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/fontparts/partsmap/pkg/errors"
)

// Registered font names.
const (
	GoRegular  = "go-regular"
	GoBold     = "go-bold"
	GoMono     = "go-mono"
	GoMonoBold = "go-mono-bold"
)

// Default is the caption font.
const Default = GoBold

type entry struct {
	family string
	weight string
	ttf    []byte

	once   sync.Once
	parsed *truetype.Font
	sfnt   *sfnt.Font
	b64    string
	err    error
}

var registry = map[string]*entry{
	GoRegular:  {family: "Go", weight: "normal", ttf: goregular.TTF},
	GoBold:     {family: "Go", weight: "bold", ttf: gobold.TTF},
	GoMono:     {family: "Go Mono", weight: "normal", ttf: gomono.TTF},
	GoMonoBold: {family: "Go Mono", weight: "bold", ttf: gomonobold.TTF},
}

// Names returns the registered font names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Has reports whether name is registered.
func Has(name string) bool {
	_, ok := registry[name]
	return ok
}

func lookup(name string) (*entry, error) {
	e, ok := registry[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown font %q (available: %v)", name, Names()).
			In(errors.PhaseConfig, "")
	}
	// Parsing is done once per font and shared by every face size.
	e.once.Do(func() {
		e.parsed, e.err = truetype.Parse(e.ttf)
		if e.err != nil {
			return
		}
		e.sfnt, e.err = sfnt.Parse(e.ttf)
		e.b64 = base64.StdEncoding.EncodeToString(e.ttf)
	})
	if e.err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, e.err, "parse font %q", name)
	}
	return e, nil
}

// Face returns a face of the named font at size points (72 DPI, so one
// point is one pixel). Faces are not safe for concurrent use; callers
// create one per canvas.
func Face(name string, size float64) (font.Face, error) {
	e, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(e.parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// SFNT returns the parsed font for outline extraction.
func SFNT(name string) (*sfnt.Font, error) {
	e, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return e.sfnt, nil
}

// CSS returns the font-family and font-weight declarations for name.
func CSS(name string) (string, error) {
	e, ok := registry[name]
	if !ok {
		_, err := lookup(name)
		return "", err
	}
	return fmt.Sprintf("font-family:'%s',sans-serif;font-weight:%s", e.family, e.weight), nil
}

// FontFace returns an @font-face rule embedding the named font as base64
// TTF. The encoding is computed once per font.
func FontFace(name string) (string, error) {
	e, err := lookup(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("@font-face{font-family:'%s';font-weight:%s;src:url(data:font/ttf;base64,%s) format('truetype');}",
		e.family, e.weight, e.b64), nil
}
