package view

import (
	"math"
	"testing"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
)

const epsilon = 1e-9

func vecNear(a, b geometry.Vec2) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

func TestCameraRoundTrip(t *testing.T) {
	c := NewCamera(800, 600)
	c.Center = geometry.Vec2{X: 42.5, Y: -17.0}
	c.Zoom = 3.5
	c.Rotation = 30

	points := []geometry.Vec2{
		{X: 0, Y: 0},
		{X: 42.5, Y: -17.0},
		{X: -100, Y: 250},
	}
	for _, p := range points {
		back := c.ScreenToWorld(c.WorldToScreen(p))
		if !vecNear(p, back) {
			t.Errorf("round trip of %v gave %v", p, back)
		}
	}
}

func TestCameraCenterMapsToScreenCenter(t *testing.T) {
	c := NewCamera(800, 600)
	c.Center = geometry.Vec2{X: 10, Y: 20}
	c.Zoom = 7

	got := c.WorldToScreen(c.Center)
	if !vecNear(got, geometry.Vec2{X: 400, Y: 300}) {
		t.Errorf("center mapped to %v, want screen center", got)
	}
}

func TestCameraZoomAtKeepsCursorStationary(t *testing.T) {
	c := NewCamera(800, 600)
	c.Center = geometry.Vec2{X: 5, Y: 5}

	cursor := geometry.Vec2{X: 123, Y: 456}
	before := c.ScreenToWorld(cursor)
	c.ZoomAt(cursor, 1.5)
	after := c.ScreenToWorld(cursor)

	if !vecNear(before, after) {
		t.Errorf("world point under cursor moved from %v to %v", before, after)
	}
	if math.Abs(c.Zoom-15.0) > epsilon {
		t.Errorf("zoom = %v, want 15", c.Zoom)
	}
}

func TestCameraPan(t *testing.T) {
	c := NewCamera(800, 600)
	c.Zoom = 2

	under := c.ScreenToWorld(geometry.Vec2{X: 100, Y: 100})
	c.Pan(geometry.Vec2{X: 50, Y: -30})
	moved := c.WorldToScreen(under)

	if !vecNear(moved, geometry.Vec2{X: 150, Y: 70}) {
		t.Errorf("after pan the point landed at %v, want (150,70)", moved)
	}
}

func TestCameraFitBBox(t *testing.T) {
	c := NewCamera(800, 600)
	b := geometry.BBox{X: 0, Y: 0, W: 100, H: 50}
	c.FitBBox(b)

	if !vecNear(c.Center, geometry.Vec2{X: 50, Y: 25}) {
		t.Errorf("center = %v, want box center", c.Center)
	}
	// 800*0.9/100 = 7.2 vs 600*0.9/50 = 10.8, the smaller wins.
	if math.Abs(c.Zoom-7.2) > epsilon {
		t.Errorf("zoom = %v, want 7.2", c.Zoom)
	}

	// Degenerate boxes leave the camera untouched.
	c.FitBBox(geometry.BBox{X: 0, Y: 0, W: 0, H: 10})
	if math.Abs(c.Zoom-7.2) > epsilon {
		t.Errorf("degenerate fit changed zoom to %v", c.Zoom)
	}
}

func TestViewportScrollClampsZoom(t *testing.T) {
	vp := NewViewport(800, 600)
	vp.EnablePanAndZoom(1.0, 20.0)

	at := geometry.Vec2{X: 400, Y: 300}
	for i := 0; i < 100; i++ {
		vp.Scroll(at, 1.0)
	}
	if vp.Camera().Zoom > 20.0 {
		t.Errorf("zoom %v exceeds maximum", vp.Camera().Zoom)
	}
	for i := 0; i < 200; i++ {
		vp.Scroll(at, -1.0)
	}
	if vp.Camera().Zoom < 1.0 {
		t.Errorf("zoom %v below minimum", vp.Camera().Zoom)
	}
}

func TestViewportNotifiesSynchronously(t *testing.T) {
	vp := NewViewport(800, 600)
	vp.EnablePanAndZoom(0.1, 1000)

	calls := 0
	vp.SetOnChange(func() { calls++ })

	vp.StartDrag(geometry.Vec2{X: 10, Y: 10})
	vp.Drag(geometry.Vec2{X: 20, Y: 20})
	vp.EndDrag()
	vp.Scroll(geometry.Vec2{X: 0, Y: 0}, 1.0)
	vp.FitBBox(geometry.BBox{X: 0, Y: 0, W: 10, H: 10})

	if calls != 3 {
		t.Errorf("onChange fired %d times, want 3 (drag, scroll, fit)", calls)
	}
}

func TestViewportDisabledGesturesIgnored(t *testing.T) {
	vp := NewViewport(800, 600)
	vp.DisablePanAndZoom()

	center := vp.Camera().Center
	zoom := vp.Camera().Zoom

	vp.StartDrag(geometry.Vec2{X: 0, Y: 0})
	vp.Drag(geometry.Vec2{X: 50, Y: 50})
	vp.EndDrag()
	vp.Scroll(geometry.Vec2{X: 0, Y: 0}, 1.0)

	if vp.Camera().Center != center || vp.Camera().Zoom != zoom {
		t.Error("disabled viewport still moved the camera")
	}
}

func TestViewportSetScreenSize(t *testing.T) {
	vp := NewViewport(800, 600)
	calls := 0
	vp.SetOnChange(func() { calls++ })

	vp.SetScreenSize(800, 600)
	if calls != 0 {
		t.Error("unchanged size should not notify")
	}
	vp.SetScreenSize(1024, 768)
	if calls != 1 {
		t.Errorf("onChange fired %d times after resize, want 1", calls)
	}
	if vp.Camera().ScreenWidth != 1024 || vp.Camera().ScreenHeight != 768 {
		t.Error("camera screen size not updated")
	}
}
