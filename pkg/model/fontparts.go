package model

// FontParts object types.
const (
	Font      NodeType = "font"
	FontLib   NodeType = "font lib"
	Info      NodeType = "info"
	Groups    NodeType = "groups"
	Kerning   NodeType = "kerning"
	Features  NodeType = "features"
	Layer     NodeType = "layer"
	Glyph     NodeType = "glyph"
	GlyphLib  NodeType = "glyph lib"
	Anchor    NodeType = "anchor"
	Component NodeType = "component"
	Image     NodeType = "image"
	Guideline NodeType = "guideline"
	Contour   NodeType = "contour"
	Point     NodeType = "point"
	BPoint    NodeType = "bPoint"
	Segment   NodeType = "segment"
)

// FontParts returns the FontParts object model: font and glyph are the
// primaries, layer sits between them, and contour owns the point tier.
//
// Each call returns a fresh value; callers may modify it freely.
func FontParts() Model {
	return Model{
		PrimaryA:     Font,
		PrimaryB:     Glyph,
		Intermediate: Layer,
		TertiaryRoot: Contour,
		Tree: map[NodeType][]NodeType{
			Font:    {FontLib, Info, Groups, Kerning, Features},
			Glyph:   {GlyphLib, Anchor, Component, Image, Guideline, Contour},
			Contour: {Point, BPoint, Segment},
		},
		Edges: []Edge{
			{Font, Info},
			{Font, FontLib},
			{Font, Groups},
			{Font, Kerning},
			{Font, Features},
			{Font, Layer},
			{Layer, Glyph},
			{Glyph, GlyphLib},
			{Glyph, Anchor},
			{Glyph, Component},
			{Glyph, Image},
			{Glyph, Guideline},
			{Glyph, Contour},
			{Contour, Point},
			{Contour, BPoint},
			{Contour, Segment},
		},
	}
}
