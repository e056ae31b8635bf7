// Package diagram draws a computed layout as the FontParts object map.
//
// A diagram is drawn in three fixed steps, each inside its own
// Save/Restore pair:
//
//  1. Edges: dashed lines between the centres of connected node types, or,
//     in gradient mode, lines clipped to the circle outlines and shaded
//     from one endpoint colour to the other.
//  2. Circles: one filled circle per node type, primaries at the larger
//     radius, with an optional drop shadow.
//  3. Captions: the display name of each node type centred on its circle,
//     with a soft shadow in a darker shade of the node's own colour.
//
// Steps can be switched off through [Config.Steps]; the remaining steps
// keep their order. Node types in the [DimSet] are painted in
// [Config.DimColor] wherever their colour is used.
//
// [Draw] only talks to the [canvas.Canvas] interface, so the same call
// produces SVG, PNG or a recorded op log depending on the canvas passed in.
package diagram
