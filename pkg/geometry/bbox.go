package geometry

import "math"

// BBox is an axis-aligned bounding box with position and size. Width and
// height are non-negative after normalization.
//
// Context is an optional non-owning back-reference to the domain item the
// box was computed for. Selection snapshots copy the box (and the
// reference) so later mutation of the source item does not alter them.
type BBox struct {
	X       float64
	Y       float64
	W       float64
	H       float64
	Context any
}

// NewBBoxFromCorners builds a normalized box from two opposite corners.
func NewBBoxFromCorners(a, b Vec2) BBox {
	return BBox{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

// NewBBoxFromPoints builds the smallest box containing all points. An
// empty point list yields the invalid box.
func NewBBoxFromPoints(pts []Vec2) BBox {
	if len(pts) == 0 {
		return InvalidBBox()
	}
	bb := BBox{X: pts[0].X, Y: pts[0].Y}
	for _, p := range pts[1:] {
		bb = bb.ExpandPoint(p)
	}
	return bb
}

// InvalidBBox returns a box that unions as the empty set.
func InvalidBBox() BBox {
	return BBox{X: math.Inf(1), Y: math.Inf(1), W: math.Inf(-1), H: math.Inf(-1)}
}

// IsValid reports whether the box has non-negative finite extent.
func (b BBox) IsValid() bool {
	return b.W >= 0 && b.H >= 0 &&
		!math.IsInf(b.X, 0) && !math.IsInf(b.Y, 0) &&
		!math.IsInf(b.W, 0) && !math.IsInf(b.H, 0)
}

// Copy returns a copy of the box, keeping the context reference.
func (b BBox) Copy() BBox {
	return b
}

// Start returns the top-left corner.
func (b BBox) Start() Vec2 { return Vec2{X: b.X, Y: b.Y} }

// End returns the bottom-right corner.
func (b BBox) End() Vec2 { return Vec2{X: b.X + b.W, Y: b.Y + b.H} }

// TopRight returns the top-right corner.
func (b BBox) TopRight() Vec2 { return Vec2{X: b.X + b.W, Y: b.Y} }

// BottomLeft returns the bottom-left corner.
func (b BBox) BottomLeft() Vec2 { return Vec2{X: b.X, Y: b.Y + b.H} }

// Center returns the center point of the box.
func (b BBox) Center() Vec2 {
	return Vec2{X: b.X + b.W/2.0, Y: b.Y + b.H/2.0}
}

// Grow returns the box expanded by amount on every side.
func (b BBox) Grow(amount float64) BBox {
	out := b
	out.X -= amount
	out.Y -= amount
	out.W += amount * 2
	out.H += amount * 2
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Contains reports whether the point lies inside the box (inclusive).
func (b BBox) Contains(p Vec2) bool {
	return p.X >= b.X && p.X <= b.X+b.W &&
		p.Y >= b.Y && p.Y <= b.Y+b.H
}

// ExpandPoint returns the smallest box containing both b and p.
func (b BBox) ExpandPoint(p Vec2) BBox {
	if !b.IsValid() {
		return BBox{X: p.X, Y: p.Y, Context: b.Context}
	}
	x0 := math.Min(b.X, p.X)
	y0 := math.Min(b.Y, p.Y)
	x1 := math.Max(b.X+b.W, p.X)
	y1 := math.Max(b.Y+b.H, p.Y)
	return BBox{X: x0, Y: y0, W: x1 - x0, H: y1 - y0, Context: b.Context}
}

// Union returns the smallest box containing both boxes. The context of the
// receiver is kept.
func (b BBox) Union(o BBox) BBox {
	if !o.IsValid() {
		return b
	}
	if !b.IsValid() {
		out := o
		out.Context = b.Context
		return out
	}
	out := b.ExpandPoint(o.Start())
	out = out.ExpandPoint(o.End())
	return out
}

// Transform returns the axis-aligned box containing the four transformed
// corners of b.
func (b BBox) Transform(m Matrix) BBox {
	corners := []Vec2{b.Start(), b.TopRight(), b.BottomLeft(), b.End()}
	out := NewBBoxFromPoints(m.TransformAll(corners))
	out.Context = b.Context
	return out
}
