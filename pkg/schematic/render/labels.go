package render

import (
	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
	"github.com/OpenTraceLab/TraceCanvas/pkg/schematic"
	"github.com/OpenTraceLab/TraceCanvas/pkg/view"
)

// Horizontal tail margin added to the global-label outline for directional
// shapes, as a multiple of the text height.
const tailMarginFactor = 0.75

// baselineOffset is the distance from the label's anchor point to its text
// baseline, derived from text size and stroke thickness.
func baselineOffset(e schematic.Effects) float64 {
	return e.Font.Size.Y*0.375 + effectiveThickness(e)*0.5
}

// labelLayout is the shared layout of the three label variants. The
// variants differ only in color, anchor offset, and decoration.
type labelLayout struct {
	text    string
	at      geometry.Vec2
	angle   geometry.Angle
	effects schematic.Effects
	color   graphics.Color

	// textShift is the local-frame displacement from the anchor to the
	// text origin; the decoration callback draws in the same frame.
	textShift  geometry.Vec2
	decoration func(r graphics.Renderer)
}

// paint renders the shared layout: the decoration in a pushed local
// rotated frame, then the text with only its offset direction rotated so
// 180-degree orientations keep upright glyphs. When the glyph angle is
// normalized (180 to 0, 270 to 90) the alignment mirrors along with the
// offset, so the text still extends away from the anchor.
func (l *labelLayout) paint(r graphics.Renderer) {
	if l.decoration != nil {
		r.Push()
		r.ApplyTransform(geometry.Translation(l.at.X, l.at.Y).Mul(geometry.Rotation(l.angle)))
		l.decoration(r)
		r.Pop()
	}

	if l.text == "" || l.effects.Hidden {
		return
	}
	ha := hAlignOf(l.effects.Justify)
	va := vAlignOf(l.effects.Justify)
	if l.angle.Normalize() != l.angle.NormalizeForText() {
		ha = mirrorH(ha)
		va = mirrorV(va)
	}
	at := l.at.Add(l.textShift.Rotate(l.angle))
	r.Text(l.text, at, graphics.TextOptions{
		Size:      l.effects.Font.Size,
		Thickness: effectiveThickness(l.effects),
		Angle:     l.angle,
		HAlign:    ha,
		VAlign:    va,
		Color:     l.color,
	})
}

func mirrorH(ha graphics.HAlign) graphics.HAlign {
	switch ha {
	case graphics.AlignLeft:
		return graphics.AlignRight
	case graphics.AlignRight:
		return graphics.AlignLeft
	}
	return ha
}

func mirrorV(va graphics.VAlign) graphics.VAlign {
	switch va {
	case graphics.AlignTop:
		return graphics.AlignBottom
	case graphics.AlignBottom:
		return graphics.AlignTop
	}
	return va
}

type labelPainter struct{ theme *Theme }

func (p *labelPainter) Layers(item any) []string { return []string{LayerLabel} }

func (p *labelPainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	l := item.(*schematic.Label)
	layout := labelLayout{
		text:      l.Text,
		at:        l.At,
		angle:     l.Angle,
		effects:   l.Effects,
		color:     p.theme.resolve(graphics.Transparent, r, layer.Name()),
		textShift: geometry.Vec2{Y: -baselineOffset(l.Effects)},
	}
	layout.paint(r)
}

// globalLabelOutline builds the pointed outline of a global label in its
// local frame, anchored at the connection point and extending along +X.
// Directional shapes grow the tail side by tailMarginFactor of the text
// height; that widening is what distinguishes them from the plain box.
func globalLabelOutline(text string, e schematic.Effects, shape string) []geometry.Vec2 {
	size := e.Font.Size
	th := effectiveThickness(e)
	margin := size.Y * 0.375
	half := size.Y/2 + margin
	body := graphics.MeasureText(text, size, th).X + 2*margin

	tail := 0.0
	switch shape {
	case "input", "bidirectional", "tri_state":
		tail = size.Y * tailMarginFactor
	}

	switch shape {
	case "input", "bidirectional", "tri_state":
		pts := []geometry.Vec2{
			{X: 0, Y: 0},
			{X: tail, Y: -half},
			{X: tail + body, Y: -half},
		}
		if shape == "input" {
			pts = append(pts,
				geometry.Vec2{X: tail + body, Y: half},
				geometry.Vec2{X: tail, Y: half},
			)
		} else {
			// Pointed on both ends.
			pts = append(pts,
				geometry.Vec2{X: tail + body + tail, Y: 0},
				geometry.Vec2{X: tail + body, Y: half},
				geometry.Vec2{X: tail, Y: half},
			)
		}
		return pts
	case "output":
		return []geometry.Vec2{
			{X: 0, Y: -half},
			{X: body, Y: -half},
			{X: body + half, Y: 0},
			{X: body, Y: half},
			{X: 0, Y: half},
		}
	default: // passive, unspecified
		return []geometry.Vec2{
			{X: 0, Y: -half},
			{X: body, Y: -half},
			{X: body, Y: half},
			{X: 0, Y: half},
		}
	}
}

type globalLabelPainter struct{ theme *Theme }

func (p *globalLabelPainter) Layers(item any) []string { return []string{LayerLabel} }

func (p *globalLabelPainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	l := item.(*schematic.GlobalLabel)
	c := p.theme.GlobalLabel
	if c.IsTransparent() {
		c = p.theme.resolve(graphics.Transparent, r, layer.Name())
	}

	outline := globalLabelOutline(l.Text, l.Effects, l.Shape)
	tail := 0.0
	switch l.Shape {
	case "input", "bidirectional", "tri_state":
		tail = l.Effects.Font.Size.Y * tailMarginFactor
	}
	margin := l.Effects.Font.Size.Y * 0.375
	body := graphics.MeasureText(l.Text, l.Effects.Font.Size, effectiveThickness(l.Effects)).X + 2*margin

	layout := labelLayout{
		text:    l.Text,
		at:      l.At,
		angle:   l.Angle,
		effects: l.Effects,
		color:   c,
		// Center the text inside the outline body.
		textShift: geometry.Vec2{X: tail + body/2},
		decoration: func(r graphics.Renderer) {
			closed := append(append([]geometry.Vec2{}, outline...), outline[0])
			r.Line(closed, effectiveThickness(l.Effects), c)
		},
	}
	layout.effects.Justify = schematic.Justify{}
	layout.paint(r)
}

// chevronOutline builds the directional marker of hierarchical labels and
// sheet pins: a triangle pointing at the anchor for inputs, away for
// outputs, and a diamond for bidirectional shapes.
func chevronOutline(shape string, s float64) []geometry.Vec2 {
	switch shape {
	case "output":
		return []geometry.Vec2{
			{X: s, Y: 0},
			{X: 0, Y: -s / 2},
			{X: 0, Y: s / 2},
		}
	case "bidirectional", "tri_state":
		return []geometry.Vec2{
			{X: 0, Y: 0},
			{X: s / 2, Y: -s / 2},
			{X: s, Y: 0},
			{X: s / 2, Y: s / 2},
		}
	default: // input, passive
		return []geometry.Vec2{
			{X: 0, Y: 0},
			{X: s, Y: -s / 2},
			{X: s, Y: s / 2},
		}
	}
}

type hierLabelPainter struct{ theme *Theme }

func (p *hierLabelPainter) Layers(item any) []string { return []string{LayerLabel} }

func (p *hierLabelPainter) Paint(r graphics.Renderer, layer *view.Layer, item any) {
	l := item.(*schematic.HierLabel)
	c := p.theme.HierLabel
	if c.IsTransparent() {
		c = p.theme.resolve(graphics.Transparent, r, layer.Name())
	}
	s := l.Effects.Font.Size.Y

	layout := labelLayout{
		text:      l.Text,
		at:        l.At,
		angle:     l.Angle,
		effects:   l.Effects,
		color:     c,
		textShift: geometry.Vec2{X: s * 1.5},
		decoration: func(r graphics.Renderer) {
			outline := chevronOutline(l.Shape, s)
			closed := append(append([]geometry.Vec2{}, outline...), outline[0])
			r.Line(closed, effectiveThickness(l.Effects), c)
		},
	}
	layout.effects.Justify = schematic.Justify{Horizontal: "left"}
	layout.paint(r)
}
