package render

import (
	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
	"github.com/OpenTraceLab/TraceCanvas/pkg/schematic"
	"github.com/OpenTraceLab/TraceCanvas/pkg/view"
)

// Default widths and marker sizes in schematic units.
const (
	defaultWireWidth    = 0.1524
	defaultBusWidth     = 0.3048
	defaultJunctionDiam = 0.9144
	noConnectHalf       = 0.635
)

// effectiveThickness returns the stroke-font thickness, deriving the
// standard ratio from the size when the file leaves it zero.
func effectiveThickness(e schematic.Effects) float64 {
	if e.Font.Thickness > 0 {
		return e.Font.Thickness
	}
	return e.Font.Size.Y * 0.15
}

func hAlignOf(j schematic.Justify) graphics.HAlign {
	switch j.Horizontal {
	case "left":
		return graphics.AlignLeft
	case "right":
		return graphics.AlignRight
	}
	return graphics.AlignCenterH
}

func vAlignOf(j schematic.Justify) graphics.VAlign {
	switch j.Vertical {
	case "top":
		return graphics.AlignTop
	case "bottom":
		return graphics.AlignBottom
	}
	return graphics.AlignCenterV
}

type wirePainter struct{ theme *Theme }

func (p *wirePainter) Layers(item any) []string { return []string{LayerWire} }

func (p *wirePainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	w := item.(*schematic.Wire)
	width := w.Stroke.Width
	if width <= 0 {
		width = defaultWireWidth
	}
	r.Line(w.Points, width, p.theme.resolve(w.Stroke.Color, r, layer.Name()))
}

type busPainter struct{ theme *Theme }

func (p *busPainter) Layers(item any) []string { return []string{LayerBus} }

func (p *busPainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	b := item.(*schematic.Bus)
	width := b.Stroke.Width
	if width <= 0 {
		width = defaultBusWidth
	}
	r.Line(b.Points, width, p.theme.resolve(b.Stroke.Color, r, layer.Name()))
}

type busEntryPainter struct{ theme *Theme }

func (p *busEntryPainter) Layers(item any) []string { return []string{LayerBus} }

func (p *busEntryPainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	e := item.(*schematic.BusEntry)
	width := e.Stroke.Width
	if width <= 0 {
		width = defaultWireWidth
	}
	r.Line([]geometry.Vec2{e.At, e.At.Add(e.Size)}, width,
		p.theme.resolve(e.Stroke.Color, r, layer.Name()))
}

type junctionPainter struct{ theme *Theme }

func (p *junctionPainter) Layers(item any) []string { return []string{LayerJunction} }

func (p *junctionPainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	j := item.(*schematic.Junction)
	diam := j.Diameter
	if diam <= 0 {
		diam = defaultJunctionDiam
	}
	// Width zero fills the dot.
	r.Circle(j.At, diam/2, 0, p.theme.resolve(j.Color, r, layer.Name()))
}

type noConnectPainter struct{ theme *Theme }

func (p *noConnectPainter) Layers(item any) []string { return []string{LayerNoConnect} }

func (p *noConnectPainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	nc := item.(*schematic.NoConnect)
	c := p.theme.resolve(graphics.Transparent, r, layer.Name())
	h := noConnectHalf
	r.Line([]geometry.Vec2{
		{X: nc.At.X - h, Y: nc.At.Y - h},
		{X: nc.At.X + h, Y: nc.At.Y + h},
	}, defaultWireWidth, c)
	r.Line([]geometry.Vec2{
		{X: nc.At.X + h, Y: nc.At.Y - h},
		{X: nc.At.X - h, Y: nc.At.Y + h},
	}, defaultWireWidth, c)
}

type polylinePainter struct{ theme *Theme }

func (p *polylinePainter) Layers(item any) []string { return []string{LayerNotes} }

func (p *polylinePainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	pl := item.(*schematic.Polyline)
	width := pl.Stroke.Width
	if width <= 0 {
		width = defaultWireWidth
	}
	r.Line(pl.Points, width, p.theme.resolve(pl.Stroke.Color, r, layer.Name()))
}

type rectanglePainter struct{ theme *Theme }

func (p *rectanglePainter) Layers(item any) []string { return []string{LayerNotes} }

func (p *rectanglePainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	rc := item.(*schematic.Rectangle)
	corners := []geometry.Vec2{
		rc.Start,
		{X: rc.End.X, Y: rc.Start.Y},
		rc.End,
		{X: rc.Start.X, Y: rc.End.Y},
	}

	if !rc.Fill.Color.IsTransparent() {
		r.Polygon(corners, rc.Fill.Color)
	}

	width := rc.Stroke.Width
	if width <= 0 {
		width = defaultWireWidth
	}
	outline := append(append([]geometry.Vec2{}, corners...), corners[0])
	r.Line(outline, width, p.theme.resolve(rc.Stroke.Color, r, layer.Name()))
}

type textPainter struct{ theme *Theme }

func (p *textPainter) Layers(item any) []string { return []string{LayerNotes} }

func (p *textPainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	t := item.(*schematic.Text)
	if t.Text == "" || t.Effects.Hidden {
		return
	}
	r.Text(t.Text, t.At, graphics.TextOptions{
		Size:      t.Effects.Font.Size,
		Thickness: effectiveThickness(t.Effects),
		Angle:     t.Angle,
		HAlign:    hAlignOf(t.Effects.Justify),
		VAlign:    vAlignOf(t.Effects.Justify),
		Color:     p.theme.resolve(graphics.Transparent, r, layer.Name()),
	})
}

type sheetPainter struct{ theme *Theme }

func (p *sheetPainter) Layers(item any) []string { return []string{LayerSheet} }

func (p *sheetPainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	sh := item.(*schematic.Sheet)
	corners := []geometry.Vec2{
		sh.At,
		{X: sh.At.X + sh.Size.X, Y: sh.At.Y},
		{X: sh.At.X + sh.Size.X, Y: sh.At.Y + sh.Size.Y},
		{X: sh.At.X, Y: sh.At.Y + sh.Size.Y},
	}

	fill := sh.Fill.Color
	if fill.IsTransparent() {
		fill = p.theme.SheetFill
	}
	r.Polygon(corners, fill)

	width := sh.Stroke.Width
	if width <= 0 {
		width = defaultWireWidth
	}
	border := p.theme.resolve(sh.Stroke.Color, r, layer.Name())
	outline := append(append([]geometry.Vec2{}, corners...), corners[0])
	r.Line(outline, width, border)

	if sh.Name != "" {
		r.Text(sh.Name, geometry.Vec2{X: sh.At.X, Y: sh.At.Y - 0.5}, graphics.TextOptions{
			Size:      geometry.Vec2{X: schematic.DefaultTextSize, Y: schematic.DefaultTextSize},
			Thickness: schematic.DefaultTextSize * 0.15,
			HAlign:    graphics.AlignLeft,
			VAlign:    graphics.AlignBottom,
			Color:     border,
		})
	}
	if sh.FileName != "" {
		r.Text(sh.FileName, geometry.Vec2{X: sh.At.X, Y: sh.At.Y + sh.Size.Y + 0.5}, graphics.TextOptions{
			Size:      geometry.Vec2{X: schematic.DefaultTextSize, Y: schematic.DefaultTextSize},
			Thickness: schematic.DefaultTextSize * 0.15,
			HAlign:    graphics.AlignLeft,
			VAlign:    graphics.AlignTop,
			Color:     border,
		})
	}

	for _, pin := range sh.Pins {
		p.paintSheetPin(r, pin, border)
	}
}

func (p *sheetPainter) paintSheetPin(r graphics.Renderer, pin *schematic.SheetPin, c graphics.Color) {
	s := pin.Effects.Font.Size.Y
	if s <= 0 {
		s = schematic.DefaultTextSize
	}

	r.Push()
	r.ApplyTransform(geometry.Translation(pin.At.X, pin.At.Y).Mul(geometry.Rotation(pin.Angle)))
	r.Polygon(chevronOutline(pin.Shape, s), c)
	r.Pop()

	r.Text(pin.Name, pin.At, graphics.TextOptions{
		Size:      pin.Effects.Font.Size,
		Thickness: effectiveThickness(pin.Effects),
		Angle:     pin.Angle,
		HAlign:    hAlignOf(pin.Effects.Justify),
		VAlign:    vAlignOf(pin.Effects.Justify),
		Color:     c,
	})
}
