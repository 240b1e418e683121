package graphics

import (
	"image"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
)

const circleSegments = 32

// Text smaller than this many pixels is culled instead of shaped.
const minTextPixels = 3.0

// GioTarget replays compiled layers into a gio frame. It is constructed per
// frame from the frame's layout context; compiled layers outlive it.
type GioTarget struct {
	gtx    layout.Context
	shaper *text.Shaper
}

// NewGioTarget wraps a frame's layout context and a text shaper.
func NewGioTarget(gtx layout.Context, shaper *text.Shaper) *GioTarget {
	return &GioTarget{gtx: gtx, shaper: shaper}
}

// Clear fills the whole surface with the given color.
func (t *GioTarget) Clear(c Color) {
	paint.Fill(t.gtx.Ops, c.NRGBA())
}

// Draw replays one compiled layer under the camera transform. Layers are
// submitted back to front, so the painter's algorithm realizes the depth
// ordering; the depth value itself is not consumed by this backend.
func (t *GioTarget) Draw(layer *CompiledLayer, camera geometry.Matrix, depth, alpha float64) {
	_ = depth
	for _, prim := range layer.Primitives() {
		switch p := prim.(type) {
		case LineShape:
			t.drawLine(p, camera, alpha)
		case PolygonShape:
			t.drawPolygon(p, camera, alpha)
		case CircleShape:
			t.drawCircle(p, camera, alpha)
		case ArcShape:
			t.drawArc(p, camera, alpha)
		case TextShape:
			t.drawText(p, camera, alpha)
		}
	}
}

func (t *GioTarget) drawLine(p LineShape, camera geometry.Matrix, alpha float64) {
	ops := t.gtx.Ops
	var path clip.Path
	path.Begin(ops)

	first := camera.Transform(p.Points[0])
	path.MoveTo(f32.Pt(float32(first.X), float32(first.Y)))
	for _, pt := range p.Points[1:] {
		s := camera.Transform(pt)
		path.LineTo(f32.Pt(float32(s.X), float32(s.Y)))
	}

	width := p.Width * camera.AbsScale()
	if width < 1.0 {
		width = 1.0
	}
	paint.FillShape(ops, p.Color.WithAlpha(alpha).NRGBA(), clip.Stroke{
		Path:  path.End(),
		Width: float32(width),
	}.Op())
}

func (t *GioTarget) drawPolygon(p PolygonShape, camera geometry.Matrix, alpha float64) {
	ops := t.gtx.Ops
	var path clip.Path
	path.Begin(ops)

	first := camera.Transform(p.Points[0])
	path.MoveTo(f32.Pt(float32(first.X), float32(first.Y)))
	for _, pt := range p.Points[1:] {
		s := camera.Transform(pt)
		path.LineTo(f32.Pt(float32(s.X), float32(s.Y)))
	}
	path.Close()

	paint.FillShape(ops, p.Color.WithAlpha(alpha).NRGBA(), clip.Outline{
		Path: path.End(),
	}.Op())
}

func (t *GioTarget) drawCircle(p CircleShape, camera geometry.Matrix, alpha float64) {
	ops := t.gtx.Ops
	center := camera.Transform(p.Center)
	radius := p.Radius * camera.AbsScale()
	col := p.Color.WithAlpha(alpha).NRGBA()

	if p.Width <= 0 {
		// Filled circle.
		paint.FillShape(ops, col, clip.Ellipse{
			Min: image.Pt(int(center.X-radius), int(center.Y-radius)),
			Max: image.Pt(int(center.X+radius), int(center.Y+radius)),
		}.Op(ops))
		return
	}

	var path clip.Path
	path.Begin(ops)
	for i := 0; i <= circleSegments; i++ {
		angle := float64(i) * 2.0 * math.Pi / circleSegments
		x := center.X + radius*math.Cos(angle)
		y := center.Y + radius*math.Sin(angle)
		if i == 0 {
			path.MoveTo(f32.Pt(float32(x), float32(y)))
		} else {
			path.LineTo(f32.Pt(float32(x), float32(y)))
		}
	}
	path.Close()

	width := p.Width * camera.AbsScale()
	if width < 1.0 {
		width = 1.0
	}
	paint.FillShape(ops, col, clip.Stroke{
		Path:  path.End(),
		Width: float32(width),
	}.Op())
}

func (t *GioTarget) drawArc(p ArcShape, camera geometry.Matrix, alpha float64) {
	ops := t.gtx.Ops
	center := camera.Transform(p.Center)
	radius := p.Radius * camera.AbsScale()

	start := p.Start.Radians()
	sweep := (p.End - p.Start).Normalize().Radians()

	var path clip.Path
	path.Begin(ops)
	for i := 0; i <= circleSegments; i++ {
		angle := start + sweep*float64(i)/circleSegments
		x := center.X + radius*math.Cos(angle)
		y := center.Y + radius*math.Sin(angle)
		if i == 0 {
			path.MoveTo(f32.Pt(float32(x), float32(y)))
		} else {
			path.LineTo(f32.Pt(float32(x), float32(y)))
		}
	}

	width := p.Width * camera.AbsScale()
	if width < 1.0 {
		width = 1.0
	}
	paint.FillShape(ops, p.Color.WithAlpha(alpha).NRGBA(), clip.Stroke{
		Path:  path.End(),
		Width: float32(width),
	}.Op())
}

func (t *GioTarget) drawText(p TextShape, camera geometry.Matrix, alpha float64) {
	full := camera.Mul(p.Matrix).
		Mul(geometry.Translation(p.At.X, p.At.Y)).
		Mul(geometry.Rotation(p.Angle))

	scale := full.AbsScale()
	fontSize := p.Size.Y * scale
	if fontSize < minTextPixels {
		return
	}
	if fontSize > 200.0 {
		fontSize = 200.0
	}

	anchor := full.Transform(geometry.Vec2{})
	rotation := full.RotationAngle().Radians()

	// Alignment offset in the rotated text frame, in pixels.
	ext := MeasureText(p.Text, p.Size, p.Thickness)
	var ox, oy float64
	switch p.HAlign {
	case AlignCenterH:
		ox = -ext.X * scale / 2.0
	case AlignRight:
		ox = -ext.X * scale
	}
	switch p.VAlign {
	case AlignTop:
		oy = 0
	case AlignCenterV:
		oy = -ext.Y * scale / 2.0
	case AlignBottom:
		oy = -ext.Y * scale
	}

	ops := t.gtx.Ops
	transform := f32.Affine2D{}.
		Offset(f32.Pt(float32(ox), float32(oy))).
		Rotate(f32.Pt(0, 0), float32(rotation)).
		Offset(f32.Pt(float32(anchor.X), float32(anchor.Y)))

	macro := op.Record(ops)
	stack := op.Affine(transform).Push(ops)
	paint.ColorOp{Color: p.Color.WithAlpha(alpha).NRGBA()}.Add(ops)
	label := widget.Label{
		Alignment: text.Start,
		MaxLines:  1,
	}
	label.Layout(t.gtx, t.shaper, font.Font{}, unit.Sp(fontSize), p.Text, op.CallOp{})
	stack.Pop()
	macro.Stop().Add(ops)
}
