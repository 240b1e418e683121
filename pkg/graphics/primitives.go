package graphics

import (
	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
)

// Primitive is a single drawing operation recorded into a CompiledLayer.
// Point data is stored in world coordinates: the recording renderer bakes
// its transform stack into each primitive, and the camera transform is
// applied at replay time.
type Primitive interface {
	BBox() geometry.BBox
}

// LineShape is an open polyline stroked with a given width.
type LineShape struct {
	Points []geometry.Vec2
	Width  float64
	Color  Color
}

func (s LineShape) BBox() geometry.BBox {
	return geometry.NewBBoxFromPoints(s.Points).Grow(s.Width / 2.0)
}

// PolygonShape is a closed, filled polygon.
type PolygonShape struct {
	Points []geometry.Vec2
	Color  Color
}

func (s PolygonShape) BBox() geometry.BBox {
	return geometry.NewBBoxFromPoints(s.Points)
}

// CircleShape is a circle, stroked when Width > 0, filled otherwise.
type CircleShape struct {
	Center geometry.Vec2
	Radius float64
	Width  float64
	Color  Color
}

func (s CircleShape) BBox() geometry.BBox {
	r := s.Radius + s.Width/2.0
	return geometry.BBox{
		X: s.Center.X - r,
		Y: s.Center.Y - r,
		W: r * 2,
		H: r * 2,
	}
}

// ArcShape is a stroked circular arc from Start to End, counter-clockwise.
type ArcShape struct {
	Center geometry.Vec2
	Radius float64
	Start  geometry.Angle
	End    geometry.Angle
	Width  float64
	Color  Color
}

func (s ArcShape) BBox() geometry.BBox {
	// Conservative: the full circle. Tight arc boxes are not worth the
	// quadrant bookkeeping for hit testing.
	r := s.Radius + s.Width/2.0
	return geometry.BBox{
		X: s.Center.X - r,
		Y: s.Center.Y - r,
		W: r * 2,
		H: r * 2,
	}
}

// TextShape is shaped text positioned by an anchor point and alignment.
// Matrix carries the recorder's transform stack at record time; At and
// Angle are in the local frame of that transform.
type TextShape struct {
	Matrix    geometry.Matrix
	Text      string
	At        geometry.Vec2
	Size      geometry.Vec2
	Thickness float64
	Angle     geometry.Angle
	HAlign    HAlign
	VAlign    VAlign
	Color     Color
}

func (s TextShape) BBox() geometry.BBox {
	local := AlignedTextBBox(s.Text, s.Size, s.Thickness, s.HAlign, s.VAlign)
	m := s.Matrix.
		Mul(geometry.Translation(s.At.X, s.At.Y)).
		Mul(geometry.Rotation(s.Angle))
	return local.Transform(m)
}
