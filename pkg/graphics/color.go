// Package graphics defines the drawing primitives and the backend contract
// of the rendering pipeline. Painters emit primitives through a Renderer,
// which accumulates them into opaque CompiledLayer display lists; a
// RenderTarget replays compiled layers through a camera matrix with a depth
// and an alpha per layer.
package graphics

import "image/color"

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Predefined colors. ErrorColor is deliberately garish: it is the last
// resort of the stroke-color fallback chain and must be obvious on screen.
var (
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Transparent = Color{}
	ErrorColor  = Color{R: 1, G: 0, B: 1, A: 1}
)

// IsTransparent reports whether the color is fully transparent.
func (c Color) IsTransparent() bool {
	return c.A == 0
}

// WithAlpha returns the color with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// NRGBA converts the color to 8-bit non-premultiplied RGBA for gio.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: clamp8(c.R),
		G: clamp8(c.G),
		B: clamp8(c.B),
		A: clamp8(c.A),
	}
}

func clamp8(v float64) uint8 {
	scaled := v * 255.0
	if scaled <= 0 {
		return 0
	}
	if scaled >= 255 {
		return 255
	}
	return uint8(scaled + 0.5)
}
