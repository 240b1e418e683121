package render

import (
	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
	"github.com/OpenTraceLab/TraceCanvas/pkg/schematic"
	"github.com/OpenTraceLab/TraceCanvas/pkg/view"
)

// Pin decoration sizes in schematic units.
const (
	pinWidth        = 0.1524
	invertRadius    = 0.3175
	clockSize       = 0.635
	pinTextClear    = 0.4
	defaultBodyLine = 0.254
)

type symbolPainter struct{ theme *Theme }

// Layers declares every sub-layer a symbol contributes to; Paint is then
// called once per sub-layer with only that concern drawn.
func (p *symbolPainter) Layers(item any) []string {
	return []string{
		LayerSymbolBackground,
		LayerSymbolForeground,
		LayerSymbolPin,
		LayerSymbolField,
	}
}

// placementMatrix maps symbol-library space into world space: library
// geometry is Y-up, placement flips it into the sheet's Y-down frame,
// then mirror and rotation apply about the anchor.
func placementMatrix(s *schematic.SymbolInstance) geometry.Matrix {
	sx, sy := 1.0, -1.0
	switch s.Mirror {
	case "x":
		sy = 1.0
	case "y":
		sx = -1.0
	case "xy":
		sx, sy = -1.0, 1.0
	}
	return geometry.Translation(s.At.X, s.At.Y).
		Mul(geometry.Rotation(-s.Angle)).
		Mul(geometry.Scaling(sx, sy))
}

func (p *symbolPainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	sym := item.(*schematic.SymbolInstance)
	if sym.Lib == nil {
		// Instance without an embedded definition; fields still render.
		if layer.Name() == LayerSymbolField {
			p.paintFields(r, sym, geometry.Translation(sym.At.X, sym.At.Y))
		}
		return
	}

	placement := placementMatrix(sym)

	switch layer.Name() {
	case LayerSymbolField:
		p.paintFields(r, sym, placement)
		return
	case LayerSymbolPin:
		p.paintPins(r, sym, placement)
		return
	}

	r.Push()
	r.ApplyTransform(placement)
	for _, unit := range sym.Lib.UnitsFor(sym.Unit) {
		for _, shape := range unit.Shapes {
			switch layer.Name() {
			case LayerSymbolBackground:
				p.paintShapeFill(r, shape)
			case LayerSymbolForeground:
				p.paintShapeOutline(r, shape)
			}
		}
	}
	r.Pop()
}

func (p *symbolPainter) fillColor(shape *schematic.SymbolShape) (graphics.Color, bool) {
	switch shape.Fill.Type {
	case "background":
		return p.theme.SymbolFill, true
	case "outline":
		return p.theme.SymbolBody, true
	case "color":
		return shape.Fill.Color, true
	}
	return graphics.Transparent, false
}

func (p *symbolPainter) paintShapeFill(r graphics.Renderer, shape *schematic.SymbolShape) {
	fill, ok := p.fillColor(shape)
	if !ok {
		return
	}
	switch shape.Kind {
	case schematic.ShapeRectangle:
		r.Polygon(rectCorners(shape.Start, shape.End), fill)
	case schematic.ShapeCircle:
		r.Circle(shape.Center, shape.Radius, 0, fill)
	case schematic.ShapePolyline:
		r.Polygon(shape.Points, fill)
	}
}

func (p *symbolPainter) paintShapeOutline(r graphics.Renderer, shape *schematic.SymbolShape) {
	width := shape.Stroke.Width
	if width <= 0 {
		width = defaultBodyLine
	}
	c := shape.Stroke.Color
	if c.IsTransparent() {
		c = p.theme.SymbolBody
	}

	switch shape.Kind {
	case schematic.ShapeRectangle:
		corners := rectCorners(shape.Start, shape.End)
		r.Line(append(append([]geometry.Vec2{}, corners...), corners[0]), width, c)
	case schematic.ShapeCircle:
		r.Circle(shape.Center, shape.Radius, width, c)
	case schematic.ShapeArc:
		center, ok := geometry.Circumcenter(shape.Start, shape.Mid, shape.End)
		if !ok {
			r.Line([]geometry.Vec2{shape.Start, shape.End}, width, c)
			return
		}
		radius := shape.Start.Sub(center).Length()
		r.Arc(center, radius,
			shape.Start.Sub(center).AngleTo(),
			shape.End.Sub(center).AngleTo(),
			width, c)
	case schematic.ShapePolyline:
		r.Line(shape.Points, width, c)
	}
}

func rectCorners(a, b geometry.Vec2) []geometry.Vec2 {
	return []geometry.Vec2{
		a,
		{X: b.X, Y: a.Y},
		b,
		{X: a.X, Y: b.Y},
	}
}

func (p *symbolPainter) paintPins(r graphics.Renderer, sym *schematic.SymbolInstance, placement geometry.Matrix) {
	c := p.theme.SymbolPin

	r.Push()
	r.ApplyTransform(placement)
	for _, unit := range sym.Lib.UnitsFor(sym.Unit) {
		for _, pin := range unit.Pins {
			if pin.Hidden {
				continue
			}
			p.paintPinShape(r, pin, c)
		}
	}
	r.Pop()

	// Pin text is positioned through the placement matrix but drawn in
	// world space so the glyphs stay upright.
	for _, unit := range sym.Lib.UnitsFor(sym.Unit) {
		for _, pin := range unit.Pins {
			if pin.Hidden {
				continue
			}
			p.paintPinText(r, sym, pin, placement)
		}
	}
}

func (p *symbolPainter) paintPinShape(r graphics.Renderer, pin *schematic.Pin, c graphics.Color) {
	dir := geometry.Vec2{X: 1}.Rotate(pin.Angle)
	end := pin.At.Add(dir.Scale(pin.Length))

	switch pin.Style {
	case "inverted":
		bubble := pin.At.Add(dir.Scale(invertRadius))
		r.Circle(bubble, invertRadius, pinWidth, c)
		r.Line([]geometry.Vec2{pin.At.Add(dir.Scale(invertRadius * 2)), end}, pinWidth, c)
	case "clock":
		r.Line([]geometry.Vec2{pin.At, end}, pinWidth, c)
		p.paintClockMark(r, pin.At, dir, c)
	case "inverted_clock":
		bubble := pin.At.Add(dir.Scale(invertRadius))
		r.Circle(bubble, invertRadius, pinWidth, c)
		r.Line([]geometry.Vec2{pin.At.Add(dir.Scale(invertRadius * 2)), end}, pinWidth, c)
		p.paintClockMark(r, pin.At.Add(dir.Scale(invertRadius*2)), dir, c)
	default: // line
		r.Line([]geometry.Vec2{pin.At, end}, pinWidth, c)
	}
}

func (p *symbolPainter) paintClockMark(r graphics.Renderer, at, dir geometry.Vec2, c graphics.Color) {
	perp := dir.Perpendicular()
	r.Line([]geometry.Vec2{
		at.Add(perp.Scale(clockSize / 2)),
		at.Add(dir.Scale(clockSize)),
		at.Sub(perp.Scale(clockSize / 2)),
	}, pinWidth, c)
}

func (p *symbolPainter) paintPinText(r graphics.Renderer, sym *schematic.SymbolInstance, pin *schematic.Pin, placement geometry.Matrix) {
	dir := geometry.Vec2{X: 1}.Rotate(pin.Angle)
	angle := (pin.Angle + sym.Angle).Normalize()

	if sym.Lib.ShowPinNums && pin.Number != "" {
		mid := pin.At.Add(dir.Scale(pin.Length / 2))
		at := placement.Transform(mid.Add(geometry.Vec2{Y: pinTextClear}))
		r.Text(pin.Number, at, graphics.TextOptions{
			Size:      pin.NumberFont.Font.Size,
			Thickness: effectiveThickness(pin.NumberFont),
			Angle:     angle,
			HAlign:    graphics.AlignCenterH,
			VAlign:    graphics.AlignBottom,
			Color:     p.theme.PinText,
		})
	}
	if sym.Lib.ShowPinName && pin.Name != "" && pin.Name != "~" {
		at := placement.Transform(pin.At.Add(dir.Scale(pin.Length + pinTextClear)))
		r.Text(pin.Name, at, graphics.TextOptions{
			Size:      pin.NameFont.Font.Size,
			Thickness: effectiveThickness(pin.NameFont),
			Angle:     angle,
			HAlign:    graphics.AlignLeft,
			VAlign:    graphics.AlignCenterV,
			Color:     p.theme.PinText,
		})
	}
}

// paintFields lays out property text in two passes: the text is measured
// at the origin under an identity transform, that box is carried through
// the placement matrix, and the final render is centered on the
// transformed box so alignment never has to reason about the combined
// rotation and mirror directly.
func (p *symbolPainter) paintFields(r graphics.Renderer, sym *schematic.SymbolInstance, placement geometry.Matrix) {
	for _, prop := range sym.Properties {
		if prop.Value == "" || prop.Effects.Hidden {
			continue
		}

		size := prop.Effects.Font.Size
		th := effectiveThickness(prop.Effects)

		// Pass one: untransformed box at the origin, anchored by the
		// field's own justification.
		box := graphics.AlignedTextBBox(prop.Value, size, th,
			hAlignOf(prop.Effects.Justify), vAlignOf(prop.Effects.Justify))

		// Carry the box to the field anchor in library space, then
		// through the placement.
		local := placement.Inverse().Transform(prop.At)
		box.X += local.X
		box.Y += local.Y
		world := box.Transform(placement)

		// Pass two: center/center on the transformed box.
		r.Text(prop.Value, world.Center(), graphics.TextOptions{
			Size:      size,
			Thickness: th,
			Angle:     prop.Angle,
			HAlign:    graphics.AlignCenterH,
			VAlign:    graphics.AlignCenterV,
			Color:     p.theme.Field,
		})
	}
}
