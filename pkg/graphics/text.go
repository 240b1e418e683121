package graphics

import (
	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
)

// HAlign is horizontal text alignment relative to the anchor point.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenterH
	AlignRight
)

// VAlign is vertical text alignment relative to the anchor point.
type VAlign int

const (
	AlignTop VAlign = iota
	AlignCenterV
	AlignBottom
)

// Glyph advance as a fraction of the nominal glyph width. Stroke fonts in
// schematic files are roughly this wide on average.
const glyphAdvance = 0.6

// MeasureText returns the extent of a string laid out with the given glyph
// size and stroke thickness, without any transform or alignment applied.
// These are approximate stroke-font metrics; the pipeline only needs them
// to be deterministic and roughly proportional.
func MeasureText(text string, size geometry.Vec2, thickness float64) geometry.Vec2 {
	n := 0
	for range text {
		n++
	}
	w := float64(n)*size.X*glyphAdvance + thickness
	h := size.Y + thickness
	return geometry.Vec2{X: w, Y: h}
}

// AlignedTextBBox returns the box a string occupies around the origin
// anchor for the given alignment, before any rotation or transform.
func AlignedTextBBox(text string, size geometry.Vec2, thickness float64, ha HAlign, va VAlign) geometry.BBox {
	ext := MeasureText(text, size, thickness)

	var x float64
	switch ha {
	case AlignCenterH:
		x = -ext.X / 2.0
	case AlignRight:
		x = -ext.X
	}

	var y float64
	switch va {
	case AlignCenterV:
		y = -ext.Y / 2.0
	case AlignBottom:
		y = -ext.Y
	}

	return geometry.BBox{X: x, Y: y, W: ext.X, H: ext.Y}
}
