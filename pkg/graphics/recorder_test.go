package graphics

import (
	"math"
	"testing"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestRecorderLayerLifecycle(t *testing.T) {
	r := NewRecorder()
	r.StartLayer("wire")
	r.Line([]geometry.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}, 0.25, White)
	layer := r.EndLayer()

	if layer.Name() != "wire" {
		t.Errorf("layer name = %q, want wire", layer.Name())
	}
	if len(layer.Primitives()) != 1 {
		t.Fatalf("primitives = %d, want 1", len(layer.Primitives()))
	}
	if layer.IsEmpty() {
		t.Error("layer should not be empty")
	}

	// A second layer starts from a clean list.
	r.StartLayer("junction")
	empty := r.EndLayer()
	if !empty.IsEmpty() {
		t.Error("fresh layer should be empty")
	}
}

func TestRecorderObjectBBoxCapture(t *testing.T) {
	item := &struct{ id int }{42}

	r := NewRecorder()
	r.StartLayer("notes")
	r.StartObject(item)
	r.Line([]geometry.Vec2{{X: 1, Y: 1}, {X: 5, Y: 3}}, 0, White)
	r.Circle(geometry.Vec2{X: 10, Y: 10}, 2, 0, White)
	bbox := r.EndObject()
	r.EndLayer()

	if bbox.Context != item {
		t.Error("object bbox must carry the context reference")
	}
	if !bbox.Contains(geometry.Vec2{X: 3, Y: 2}) || !bbox.Contains(geometry.Vec2{X: 11, Y: 11}) {
		t.Errorf("object bbox too small: %+v", bbox)
	}

	// A second object must not include the first object's primitives.
	r.StartLayer("notes")
	r.StartObject("a")
	r.Line([]geometry.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}, 0, White)
	r.EndObject()
	r.StartObject("b")
	r.Line([]geometry.Vec2{{X: 100, Y: 100}, {X: 101, Y: 100}}, 0, White)
	second := r.EndObject()
	r.EndLayer()

	if second.Contains(geometry.Vec2{X: 0.5, Y: 0}) {
		t.Errorf("second object bbox includes first object's extent: %+v", second)
	}
}

func TestRecorderBakesTransform(t *testing.T) {
	r := NewRecorder()
	r.StartLayer("symbol:foreground")
	r.Push()
	r.ApplyTransform(geometry.Translation(100, 0))
	r.Line([]geometry.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}, 0.25, White)
	r.Pop()
	layer := r.EndLayer()

	line := layer.Primitives()[0].(LineShape)
	if !approxEqual(line.Points[0].X, 100) || !approxEqual(line.Points[1].X, 110) {
		t.Errorf("points not baked through transform: %+v", line.Points)
	}
}

func TestRecorderStatePushPopIsolation(t *testing.T) {
	r := NewRecorder()
	r.State().StrokeColor = White
	r.State().StrokeWidth = 0.25

	r.Push()
	r.State().StrokeColor = ErrorColor
	r.State().StrokeWidth = 1.0
	r.ApplyTransform(geometry.Scaling(2, 2))
	r.Pop()

	if r.State().StrokeColor != White {
		t.Error("Pop did not restore stroke color")
	}
	if r.State().StrokeWidth != 0.25 {
		t.Error("Pop did not restore stroke width")
	}
	if r.State().Matrix != geometry.Identity() {
		t.Error("Pop did not restore transform")
	}

	// Underflow is logged, not fatal.
	r.Pop()
	r.Pop()
	if r.State() == nil {
		t.Fatal("state must survive stack underflow")
	}
}

func TestRecorderColorFallbackToState(t *testing.T) {
	r := NewRecorder()
	r.State().StrokeColor = Color{R: 0, G: 0.5, B: 0, A: 1}
	r.StartLayer("wire")
	r.Line([]geometry.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}, 0.25, Transparent)
	layer := r.EndLayer()

	line := layer.Primitives()[0].(LineShape)
	if line.Color != r.State().StrokeColor {
		t.Errorf("transparent color must fall back to state stroke, got %+v", line.Color)
	}
}

func TestRecorderStrokeWidthScalesWithTransform(t *testing.T) {
	r := NewRecorder()
	r.StartLayer("wire")
	r.Push()
	r.ApplyTransform(geometry.Scaling(4, 4))
	r.Line([]geometry.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}, 0.25, White)
	r.Pop()
	layer := r.EndLayer()

	line := layer.Primitives()[0].(LineShape)
	if !approxEqual(line.Width, 1.0) {
		t.Errorf("width = %f, want 1.0 (0.25 * scale 4)", line.Width)
	}
}

func TestRecorderDegeneratePrimitivesDropped(t *testing.T) {
	r := NewRecorder()
	r.StartLayer("notes")
	r.Line([]geometry.Vec2{{X: 1, Y: 1}}, 0.25, White)
	r.Polygon([]geometry.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}, White)
	layer := r.EndLayer()

	if !layer.IsEmpty() {
		t.Errorf("degenerate primitives must be dropped, got %d", len(layer.Primitives()))
	}
}

func TestMeasureTextProportional(t *testing.T) {
	size := geometry.Vec2{X: 1.27, Y: 1.27}
	short := MeasureText("AB", size, 0.15)
	long := MeasureText("ABCD", size, 0.15)

	if long.X <= short.X {
		t.Error("longer text must measure wider")
	}
	if !approxEqual(short.Y, long.Y) {
		t.Error("height must not depend on text length")
	}
}

func TestAlignedTextBBox(t *testing.T) {
	size := geometry.Vec2{X: 1.27, Y: 1.27}
	ext := MeasureText("NET1", size, 0)

	left := AlignedTextBBox("NET1", size, 0, AlignLeft, AlignTop)
	if left.X != 0 || left.Y != 0 {
		t.Errorf("left/top box = %+v, want origin anchor", left)
	}

	center := AlignedTextBBox("NET1", size, 0, AlignCenterH, AlignCenterV)
	if !approxEqual(center.X, -ext.X/2) || !approxEqual(center.Y, -ext.Y/2) {
		t.Errorf("center box = %+v", center)
	}

	right := AlignedTextBBox("NET1", size, 0, AlignRight, AlignBottom)
	if !approxEqual(right.X, -ext.X) || !approxEqual(right.Y, -ext.Y) {
		t.Errorf("right/bottom box = %+v", right)
	}
}

func TestTextShapeBBoxRotation(t *testing.T) {
	// Text recorded at 90 degrees occupies a vertical box.
	r := NewRecorder()
	r.StartLayer("label")
	bbox := r.Text("LONGNETNAME", geometry.Vec2{X: 5, Y: 5}, TextOptions{
		Size:   geometry.Vec2{X: 1.27, Y: 1.27},
		Angle:  90,
		HAlign: AlignLeft,
		VAlign: AlignBottom,
		Color:  White,
	})
	r.EndLayer()

	if bbox.H <= bbox.W {
		t.Errorf("rotated text box should be taller than wide: %+v", bbox)
	}
}

func TestTextRotationNormalizedAtRecordTime(t *testing.T) {
	r := NewRecorder()
	r.StartLayer("label")
	r.Text("A", geometry.Vec2{}, TextOptions{Size: geometry.Vec2{X: 1, Y: 1}, Angle: 180, Color: White})
	r.Text("A", geometry.Vec2{}, TextOptions{Size: geometry.Vec2{X: 1, Y: 1}, Angle: 270, Color: White})
	layer := r.EndLayer()

	if got := layer.Primitives()[0].(TextShape).Angle; got != 0 {
		t.Errorf("angle 180 must normalize to 0, got %v", got)
	}
	if got := layer.Primitives()[1].(TextShape).Angle; got != 90 {
		t.Errorf("angle 270 must normalize to 90, got %v", got)
	}
}

func TestColorNRGBA(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0, A: 1}
	n := c.NRGBA()
	if n.R != 255 || n.B != 0 || n.A != 255 {
		t.Errorf("NRGBA = %+v", n)
	}
	if n.G != 128 {
		t.Errorf("G = %d, want 128", n.G)
	}

	if !Transparent.IsTransparent() {
		t.Error("Transparent must report transparent")
	}
	if White.IsTransparent() {
		t.Error("White must not report transparent")
	}
}
