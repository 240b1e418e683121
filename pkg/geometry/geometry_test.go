package geometry

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vecApproxEqual(a, b Vec2) bool {
	return approxEqual(a.X, b.X) && approxEqual(a.Y, b.Y)
}

func TestVec2Rotate(t *testing.T) {
	v := Vec2{X: 1, Y: 0}

	r := v.Rotate(90)
	if !vecApproxEqual(r, Vec2{X: 0, Y: 1}) {
		t.Errorf("Rotate(90) = %v, want (0,1)", r)
	}

	r = v.Rotate(180)
	if !vecApproxEqual(r, Vec2{X: -1, Y: 0}) {
		t.Errorf("Rotate(180) = %v, want (-1,0)", r)
	}
}

func TestVec2Normalized(t *testing.T) {
	v := Vec2{X: 3, Y: 4}
	n := v.Normalized()
	if !approxEqual(n.Length(), 1.0) {
		t.Errorf("Normalized length = %f, want 1.0", n.Length())
	}

	zero := Vec2{}.Normalized()
	if zero != (Vec2{}) {
		t.Errorf("Normalized zero vector = %v, want zero", zero)
	}
}

func TestAngleNormalize(t *testing.T) {
	cases := []struct {
		in   Angle
		want Angle
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{720, 0},
	}
	for _, c := range cases {
		if got := c.in.Normalize(); !approxEqual(got.Degrees(), c.want.Degrees()) {
			t.Errorf("Normalize(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAngleNormalizeForText(t *testing.T) {
	// Text is never laid out upside-down: 180 collapses to 0, 270 to 90.
	if got := Angle(180).NormalizeForText(); got != 0 {
		t.Errorf("NormalizeForText(180) = %v, want 0", got)
	}
	if got := Angle(270).NormalizeForText(); got != 90 {
		t.Errorf("NormalizeForText(270) = %v, want 90", got)
	}
	if got := Angle(90).NormalizeForText(); got != 90 {
		t.Errorf("NormalizeForText(90) = %v, want 90", got)
	}
	if got := Angle(-180).NormalizeForText(); got != 0 {
		t.Errorf("NormalizeForText(-180) = %v, want 0", got)
	}
}

func TestMatrixTransformRoundTrip(t *testing.T) {
	m := Translation(120, -40).
		Mul(Rotation(30)).
		Mul(Scaling(2.5, 2.5))

	p := Vec2{X: 17.3, Y: -8.1}
	q := m.Inverse().Transform(m.Transform(p))
	if !vecApproxEqual(p, q) {
		t.Errorf("inverse round trip: got %v, want %v", q, p)
	}
}

func TestMatrixMulOrder(t *testing.T) {
	// Translation(10,0) * Rotation(90) rotates first, then translates.
	m := Translation(10, 0).Mul(Rotation(90))
	got := m.Transform(Vec2{X: 1, Y: 0})
	if !vecApproxEqual(got, Vec2{X: 10, Y: 1}) {
		t.Errorf("Transform = %v, want (10,1)", got)
	}
}

func TestMatrixAbsScale(t *testing.T) {
	m := Rotation(45).Mul(Scaling(3, 3))
	if got := m.AbsScale(); !approxEqual(got, 3.0) {
		t.Errorf("AbsScale = %f, want 3.0", got)
	}
}

func TestMatrixSingularInverse(t *testing.T) {
	m := Scaling(0, 0)
	if got := m.Inverse(); got != Identity() {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}

func TestBBoxNormalization(t *testing.T) {
	bb := NewBBoxFromCorners(Vec2{X: 10, Y: 20}, Vec2{X: -5, Y: 5})
	if bb.W < 0 || bb.H < 0 {
		t.Fatalf("box not normalized: %+v", bb)
	}
	if bb.X != -5 || bb.Y != 5 || bb.W != 15 || bb.H != 15 {
		t.Errorf("box = %+v, want x=-5 y=5 w=15 h=15", bb)
	}
}

func TestBBoxGrowAndContains(t *testing.T) {
	bb := BBox{X: 0, Y: 0, W: 10, H: 10}
	grown := bb.Grow(2)
	if grown.X != -2 || grown.W != 14 {
		t.Errorf("Grow: got %+v", grown)
	}
	if !grown.Contains(Vec2{X: -1, Y: -1}) {
		t.Error("grown box should contain (-1,-1)")
	}
	if bb.Contains(Vec2{X: 11, Y: 5}) {
		t.Error("box should not contain (11,5)")
	}
}

func TestBBoxUnionWithInvalid(t *testing.T) {
	invalid := InvalidBBox()
	bb := BBox{X: 1, Y: 2, W: 3, H: 4}

	if got := invalid.Union(bb); got.X != 1 || got.W != 3 {
		t.Errorf("invalid.Union(bb) = %+v, want bb", got)
	}
	if got := bb.Union(invalid); got != bb {
		t.Errorf("bb.Union(invalid) = %+v, want bb", got)
	}
}

func TestBBoxTransformKeepsContext(t *testing.T) {
	item := &struct{ name string }{"R1"}
	bb := BBox{X: 0, Y: 0, W: 2, H: 2, Context: item}

	out := bb.Transform(Rotation(90))
	if out.Context != item {
		t.Error("Transform dropped the context reference")
	}
	// Rotating a 2x2 box at origin by 90 degrees moves it to x in [-2,0].
	if !approxEqual(out.X, -2) || !approxEqual(out.W, 2) {
		t.Errorf("transformed box = %+v", out)
	}
}

func TestBBoxCenter(t *testing.T) {
	bb := BBox{X: 2, Y: 4, W: 6, H: 8}
	if c := bb.Center(); !vecApproxEqual(c, Vec2{X: 5, Y: 8}) {
		t.Errorf("Center = %v, want (5,8)", c)
	}
}

func TestCircumcenter(t *testing.T) {
	// Three points on the unit circle around (3, 4).
	c, ok := Circumcenter(Vec2{X: 4, Y: 4}, Vec2{X: 3, Y: 5}, Vec2{X: 2, Y: 4})
	if !ok || !vecApproxEqual(c, Vec2{X: 3, Y: 4}) {
		t.Errorf("center = %v, ok = %v", c, ok)
	}

	if _, ok := Circumcenter(Vec2{}, Vec2{X: 1, Y: 1}, Vec2{X: 2, Y: 2}); ok {
		t.Error("collinear points have no circumcircle")
	}
}
