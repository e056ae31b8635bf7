package model

import (
	"strings"

	"github.com/fontparts/partsmap/pkg/errors"
)

// NodeType is one element of a model's closed vocabulary.
type NodeType string

// DisplayName returns the caption text for the node type. Names may carry a
// namespace prefix separated by underscores ("font_info"); only the last
// segment is shown.
func (n NodeType) DisplayName() string {
	s := string(n)
	if i := strings.LastIndex(s, "_"); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}

// Edge is a connecting line drawn between two node types.
type Edge struct {
	From NodeType `json:"from" toml:"from" yaml:"from"`
	To   NodeType `json:"to" toml:"to" yaml:"to"`
}

// Model is a fixed object-model vocabulary together with its parent/child
// structure and the edges drawn between node types.
//
// Exactly three parents own children: PrimaryA, PrimaryB and TertiaryRoot,
// where TertiaryRoot is itself one of PrimaryB's children. Intermediate sits
// between the two primaries and has no children of its own.
//
// The zero value is not usable - use [FontParts] or fill every field and
// call [Model.Validate].
type Model struct {
	PrimaryA     NodeType                `json:"primary_a" toml:"primary_a" yaml:"primary_a"`
	PrimaryB     NodeType                `json:"primary_b" toml:"primary_b" yaml:"primary_b"`
	Intermediate NodeType                `json:"intermediate" toml:"intermediate" yaml:"intermediate"`
	TertiaryRoot NodeType                `json:"tertiary_root" toml:"tertiary_root" yaml:"tertiary_root"`
	Tree         map[NodeType][]NodeType `json:"tree" toml:"tree" yaml:"tree"`
	Edges        []Edge                  `json:"edges" toml:"edges" yaml:"edges"`
}

// Types returns the full vocabulary in canonical order: PrimaryA and its
// children, Intermediate, PrimaryB and its children, then the tertiary tier.
// Draw order and swatch order follow this sequence.
func (m Model) Types() []NodeType {
	out := make([]NodeType, 0, 3+len(m.Tree[m.PrimaryA])+len(m.Tree[m.PrimaryB])+len(m.Tree[m.TertiaryRoot]))
	out = append(out, m.PrimaryA)
	out = append(out, m.Tree[m.PrimaryA]...)
	out = append(out, m.Intermediate)
	out = append(out, m.PrimaryB)
	out = append(out, m.Tree[m.PrimaryB]...)
	out = append(out, m.Tree[m.TertiaryRoot]...)
	return out
}

// Children returns the ordered children of n, or nil if n is not a parent.
func (m Model) Children(n NodeType) []NodeType {
	return m.Tree[n]
}

// IsPrimary reports whether n is one of the two primary node types.
func (m Model) IsPrimary(n NodeType) bool {
	return n == m.PrimaryA || n == m.PrimaryB
}

// Has reports whether n belongs to the vocabulary.
func (m Model) Has(n NodeType) bool {
	for _, t := range m.Types() {
		if t == n {
			return true
		}
	}
	return false
}

// Parents returns the three parent node types in tier order.
func (m Model) Parents() []NodeType {
	return []NodeType{m.PrimaryA, m.PrimaryB, m.TertiaryRoot}
}

// Validate checks the structural invariants of the model. All failures are
// configuration errors and carry the offending node type.
func (m Model) Validate() error {
	roles := []struct {
		field string
		n     NodeType
	}{
		{"primary_a", m.PrimaryA},
		{"primary_b", m.PrimaryB},
		{"intermediate", m.Intermediate},
		{"tertiary_root", m.TertiaryRoot},
	}
	for _, r := range roles {
		if r.n == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s is not set", r.field).In(errors.PhaseModel, "")
		}
	}

	for parent := range m.Tree {
		if parent != m.PrimaryA && parent != m.PrimaryB && parent != m.TertiaryRoot {
			return errors.New(errors.ErrCodeInvalidConfig, "only %q, %q and %q may have children",
				m.PrimaryA, m.PrimaryB, m.TertiaryRoot).In(errors.PhaseModel, string(parent))
		}
	}
	for _, parent := range m.Parents() {
		if len(m.Tree[parent]) == 0 {
			return errors.New(errors.ErrCodeEmptyTier, "tier has no children").In(errors.PhaseModel, string(parent))
		}
	}

	if !contains(m.Tree[m.PrimaryB], m.TertiaryRoot) {
		return errors.New(errors.ErrCodeInvalidConfig, "tertiary root must be a child of %q", m.PrimaryB).
			In(errors.PhaseModel, string(m.TertiaryRoot))
	}

	seen := make(map[NodeType]bool)
	for _, n := range m.Types() {
		if err := errors.ValidateNodeName(string(n)); err != nil {
			return err
		}
		if seen[n] {
			return errors.New(errors.ErrCodeInvalidConfig, "node type appears more than once").
				In(errors.PhaseModel, string(n))
		}
		seen[n] = true
	}

	for _, e := range m.Edges {
		for _, end := range []NodeType{e.From, e.To} {
			if !seen[end] {
				return errors.New(errors.ErrCodeUnknownNode, "edge %s -> %s references an unknown node type", e.From, e.To).
					In(errors.PhaseModel, string(end))
			}
		}
	}
	return nil
}

func contains(list []NodeType, n NodeType) bool {
	for _, x := range list {
		if x == n {
			return true
		}
	}
	return false
}
