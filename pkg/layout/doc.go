// Package layout computes the radial placement of a [model.Model].
//
// The layout is polar: every position is derived from a parent position,
// an angle and a distance. One primary node type sits at the root, the
// intermediate type and the second primary hang from it, and each of the
// three parent tiers fans its children around itself.
//
// # Coordinates
//
// The plane is y-up with angles measured in degrees counter-clockwise from
// the positive x axis. Canvases that address pixels y-down flip the axis
// themselves; layout never does.
//
// # Jitter
//
// [Config.Randomness] adds an integer offset in [-r, r] to both axes of every
// node after placement. The random source is explicit: pass [WithSeed] for
// reproducible frames or [WithRand] to share one generator across calls.
//
// [model.Model]: github.com/fontparts/partsmap/pkg/model.Model
package layout
