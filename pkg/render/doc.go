// Package render groups the drawings partsmap produces. Every renderer
// draws onto a [canvas.Canvas], so one drawing serves the svg, png and
// json backends alike.
//
//   - [diagram]: the radial map, drawn in a fixed step order (edges,
//     circles, captions) with optional dimming and gradient edges
//   - [swatch]: the colour sheet, one row per colour group
//   - [logotype]: a word drawn as annotated glyph outlines
//   - [nodelink]: the hierarchy as Graphviz DOT, laid out by go-graphviz
//
// # Coordinates
//
// Canvas space is y-up with the origin at the bottom left, so layouts
// can be drawn without flipping. Backends that are y-down flip once at
// the root.
package render
