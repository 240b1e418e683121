package view

import (
	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
)

// Scroll-wheel distance to zoom factor conversion, matching the feel of
// the desktop viewers.
const scrollZoomStep = 0.1

// Viewport owns the camera and the pan/zoom gesture bookkeeping. The
// owning viewer registers a single change callback; every camera mutation
// invokes it synchronously before the mutating call returns.
type Viewport struct {
	camera *Camera

	panZoomEnabled bool
	minZoom        float64
	maxZoom        float64

	dragging bool
	lastDrag geometry.Vec2

	onChange func()
}

// NewViewport creates a viewport with a camera for the given screen size.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		camera:  NewCamera(width, height),
		minZoom: 0.1,
		maxZoom: 1000.0,
	}
}

// Camera returns the viewport's camera. Mutating it directly bypasses the
// change callback; gesture and fit methods on the viewport should be used
// instead.
func (vp *Viewport) Camera() *Camera {
	return vp.camera
}

// SetOnChange registers the single change callback.
func (vp *Viewport) SetOnChange(f func()) {
	vp.onChange = f
}

// EnablePanAndZoom activates gesture handling with the given zoom clamp.
// Pan is unconstrained.
func (vp *Viewport) EnablePanAndZoom(minZoom, maxZoom float64) {
	vp.panZoomEnabled = true
	vp.minZoom = minZoom
	vp.maxZoom = maxZoom
	vp.clampZoom()
}

// DisablePanAndZoom deactivates gesture handling. Programmatic camera
// moves (fit to box) still work.
func (vp *Viewport) DisablePanAndZoom() {
	vp.panZoomEnabled = false
	vp.dragging = false
}

// SetScreenSize updates the camera when the surface is resized.
func (vp *Viewport) SetScreenSize(width, height float64) {
	if vp.camera.ScreenWidth == width && vp.camera.ScreenHeight == height {
		return
	}
	vp.camera.ScreenWidth = width
	vp.camera.ScreenHeight = height
	vp.notify()
}

// ScreenToWorld converts a screen point to world coordinates.
func (vp *Viewport) ScreenToWorld(p geometry.Vec2) geometry.Vec2 {
	return vp.camera.ScreenToWorld(p)
}

// WorldToScreen converts a world point to screen pixels.
func (vp *Viewport) WorldToScreen(p geometry.Vec2) geometry.Vec2 {
	return vp.camera.WorldToScreen(p)
}

// StartDrag begins a pan gesture at the given screen position.
func (vp *Viewport) StartDrag(p geometry.Vec2) {
	if !vp.panZoomEnabled {
		return
	}
	vp.dragging = true
	vp.lastDrag = p
}

// Drag continues a pan gesture; the camera pans by the screen delta since
// the previous drag position.
func (vp *Viewport) Drag(p geometry.Vec2) {
	if !vp.dragging {
		return
	}
	vp.camera.Pan(p.Sub(vp.lastDrag))
	vp.lastDrag = p
	vp.notify()
}

// EndDrag finishes a pan gesture.
func (vp *Viewport) EndDrag() {
	vp.dragging = false
}

// Scroll applies a zoom gesture at the given screen position. Positive
// amounts zoom in. The resulting zoom is clamped to the configured range.
func (vp *Viewport) Scroll(p geometry.Vec2, amount float64) {
	if !vp.panZoomEnabled {
		return
	}
	factor := 1.0 + amount*scrollZoomStep
	if factor <= 0 {
		return
	}
	vp.camera.ZoomAt(p, factor)
	vp.clampZoom()
	vp.notify()
}

// FitBBox frames the given world box and notifies the change callback.
func (vp *Viewport) FitBBox(b geometry.BBox) {
	vp.camera.FitBBox(b)
	vp.clampZoom()
	vp.notify()
}

func (vp *Viewport) clampZoom() {
	if vp.camera.Zoom < vp.minZoom {
		vp.camera.Zoom = vp.minZoom
	}
	if vp.camera.Zoom > vp.maxZoom {
		vp.camera.Zoom = vp.maxZoom
	}
}

func (vp *Viewport) notify() {
	if vp.onChange != nil {
		vp.onChange()
	}
}
