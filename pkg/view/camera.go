// Package view implements the interactive half of the rendering pipeline:
// the camera and viewport transform, the layered scene set, the painter
// dispatch registry, and the viewer draw/pick/select state machine.
package view

import (
	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
)

// Fraction of the screen used when framing a bounding box, leaving a
// margin around the content.
const fitPadding = 0.9

// Camera owns the pan/zoom state and the screen-to-world affine transform.
// It is owned exclusively by a Viewport.
type Camera struct {
	// Center is the world point shown at the middle of the screen.
	Center geometry.Vec2

	// Zoom is the scale in screen pixels per world unit.
	Zoom float64

	// Rotation of the view around the center.
	Rotation geometry.Angle

	ScreenWidth  float64
	ScreenHeight float64
}

// NewCamera creates a camera for the given screen size at a default zoom.
func NewCamera(width, height float64) *Camera {
	return &Camera{
		Zoom:         10.0,
		ScreenWidth:  width,
		ScreenHeight: height,
	}
}

// Matrix returns the world-to-screen transform for the current state.
func (c *Camera) Matrix() geometry.Matrix {
	return geometry.Translation(c.ScreenWidth/2.0, c.ScreenHeight/2.0).
		Mul(geometry.Rotation(c.Rotation)).
		Mul(geometry.Scaling(c.Zoom, c.Zoom)).
		Mul(geometry.Translation(-c.Center.X, -c.Center.Y))
}

// WorldToScreen converts a world point to screen pixels.
func (c *Camera) WorldToScreen(p geometry.Vec2) geometry.Vec2 {
	return c.Matrix().Transform(p)
}

// ScreenToWorld converts a screen point to world coordinates. It is the
// exact algebraic inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(p geometry.Vec2) geometry.Vec2 {
	return c.Matrix().Inverse().Transform(p)
}

// Pan moves the camera by a screen-pixel delta.
func (c *Camera) Pan(delta geometry.Vec2) {
	world := delta.Scale(1.0 / c.Zoom).Rotate(-c.Rotation)
	c.Center = c.Center.Sub(world)
}

// ZoomAt scales the zoom by factor while keeping the world point under the
// given screen position stationary.
func (c *Camera) ZoomAt(screen geometry.Vec2, factor float64) {
	before := c.ScreenToWorld(screen)
	c.Zoom *= factor
	after := c.ScreenToWorld(screen)
	c.Center = c.Center.Add(before.Sub(after))
}

// FitBBox frames the given world box fully visible, preserving aspect
// ratio. Degenerate boxes are ignored.
func (c *Camera) FitBBox(b geometry.BBox) {
	if !b.IsValid() || b.W <= 0 || b.H <= 0 {
		return
	}
	c.Center = b.Center()

	zoomX := c.ScreenWidth * fitPadding / b.W
	zoomY := c.ScreenHeight * fitPadding / b.H
	if zoomX < zoomY {
		c.Zoom = zoomX
	} else {
		c.Zoom = zoomY
	}
}

// VisibleBounds returns the world box covered by the screen, useful for
// culling.
func (c *Camera) VisibleBounds() geometry.BBox {
	inv := c.Matrix().Inverse()
	corners := []geometry.Vec2{
		{X: 0, Y: 0},
		{X: c.ScreenWidth, Y: 0},
		{X: 0, Y: c.ScreenHeight},
		{X: c.ScreenWidth, Y: c.ScreenHeight},
	}
	return geometry.NewBBoxFromPoints(inv.TransformAll(corners))
}
