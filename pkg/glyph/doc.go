// Package glyph reads glyph outlines and draws text from them.
//
// A [Source] maps code points to [Outline] values in font units with the
// y axis pointing up. [SFNTSource] wraps golang.org/x/image/font/sfnt and
// only converts what sfnt returns; no font parsing happens here.
//
// Missing glyphs are data errors (GLYPH_NOT_FOUND) and are returned, never
// drawn as blanks. [Interpolate] and [Blend] mix two point-compatible
// outlines, such as two masters of one family; outlines with different
// structure fail with INCOMPATIBLE_GLYPHS.
package glyph
