// Package model describes the object-model vocabulary that partsmap draws.
//
// # Overview
//
// A [Model] is a closed set of [NodeType] values arranged in three tiers
// below a pair of primary types:
//
//	PrimaryA ── children (tier 1)
//	   │
//	Intermediate
//	   │
//	PrimaryB ── children (tier 2), one of which is the TertiaryRoot
//	               └── TertiaryRoot's children (tier 3)
//
// The edge list is independent of the tree but every endpoint must be part
// of the vocabulary. [Model.Validate] enforces this and the other structural
// invariants; a failure is a configuration error reported with the node type
// at fault.
//
// # FontParts
//
// [FontParts] returns the canonical vocabulary: font and glyph objects, the
// layer between them, and the contour/point tier:
//
//	m := model.FontParts()
//	for _, n := range m.Types() {
//	    fmt.Println(n, m.IsPrimary(n))
//	}
package model
