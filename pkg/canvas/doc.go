// Package canvas defines the drawing capability the renderers target.
//
// A [Canvas] works in a y-up user space with angles counter-clockwise, the
// same convention the layout package uses, so renderers never flip
// coordinates themselves. Each backend maps user space to its device:
//
//   - [github.com/fontparts/partsmap/pkg/canvas/raster] paints PNG images
//     with fogleman/gg
//   - [github.com/fontparts/partsmap/pkg/canvas/vector] writes SVG with
//     ajstarks/svgo
//   - [github.com/fontparts/partsmap/pkg/canvas/record] logs every call,
//     for tests and JSON export
//
// Backends collect drawing errors (an unknown font, unbalanced Restore)
// and report the first one when the result is encoded.
package canvas
