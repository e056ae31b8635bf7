// Package colors derives the diagram palette and adapts colour math.
//
// [Color] stores hue, saturation and lightness and projects to RGB and CMYK
// on demand; the conversions are delegated to go-colorful. [Paint] is the
// configurable, possibly absent, colour used for strokes, shadows and the
// dim colour.
//
// [Scheme.Derive] turns two base colours into a [Palette] covering an
// entire [model.Model]:
//
//	p, err := colors.DefaultScheme().Derive(model.FontParts())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(p.Color(model.Layer).Hex())
//
// [model.Model]: github.com/fontparts/partsmap/pkg/model.Model
package colors
