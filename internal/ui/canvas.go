package ui

import (
	"fmt"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
	"github.com/OpenTraceLab/TraceCanvas/pkg/schematic"
)

// Dragging less than this many pixels still counts as a click.
const clickSlopPx = 4.0

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.layoutToolbar),
		layout.Flexed(1, a.layoutCanvas),
		layout.Rigid(a.layoutStatusBar),
	)
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	th := a.gvTheme.Theme
	inset := layout.Inset{Top: 6, Bottom: 6, Left: 8, Right: 8}

	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						btn := material.IconButton(th, &a.openBtn, a.openIcon, "Open")
						btn.Size = unit.Dp(22)
						return btn.Layout(gtx)
					}),
					layout.Rigid(layout.Spacer{Width: 8}.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						btn := material.IconButton(th, &a.fitBtn, a.fitIcon, "Fit")
						btn.Size = unit.Dp(22)
						return btn.Layout(gtx)
					}),
					layout.Rigid(layout.Spacer{Width: 8}.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						btn := material.IconButton(th, &a.themeBtn, a.themeIcon, "Theme")
						btn.Size = unit.Dp(22)
						return btn.Layout(gtx)
					}),
					layout.Rigid(layout.Spacer{Width: 8}.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						btn := material.IconButton(th, &a.layersBtn, a.layersIcon, "Layers")
						btn.Size = unit.Dp(22)
						dims := btn.Layout(gtx)
						a.layersMenu.Layout(gtx, a.gvTheme)
						return dims
					}),
				)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return material.Body1(th, a.documentSummary()).Layout(gtx)
			}),
		)
	})
}

func (a *App) documentSummary() string {
	doc := a.viewer.Document()
	if doc == nil {
		return "Open a schematic (Ctrl+O)"
	}
	return fmt.Sprintf("Symbols: %d | Wires: %d | Nets: %d",
		len(doc.Symbols), len(doc.Wires), len(doc.NetNames()))
}

func (a *App) layoutCanvas(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	a.viewer.Viewport().SetScreenSize(float64(size.X), float64(size.Y))

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, a)
	a.handleCanvasEvents(gtx)

	a.viewer.RenderFrame(graphics.NewGioTarget(gtx, a.shaper))
	area.Pop()

	return layout.Dimensions{Size: size}
}

func (a *App) handleCanvasEvents(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  a,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Move | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -10, Max: 10},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		pos := geometry.Vec2{X: float64(pe.Position.X), Y: float64(pe.Position.Y)}

		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons == pointer.ButtonPrimary {
				a.dragging = true
				a.dragMoved = false
				a.dragOrigin = pos
				a.viewer.Viewport().StartDrag(pos)
			}

		case pointer.Drag:
			if a.dragging {
				if pos.Sub(a.dragOrigin).Length() > clickSlopPx {
					a.dragMoved = true
				}
				a.viewer.Viewport().Drag(pos)
			}

		case pointer.Release, pointer.Cancel:
			if a.dragging {
				a.viewer.Viewport().EndDrag()
				if !a.dragMoved && pe.Kind == pointer.Release {
					a.viewer.Click(pos)
				}
				a.dragging = false
			}

		case pointer.Move:
			a.viewer.PointerMoved(pos)

		case pointer.Scroll:
			a.viewer.Viewport().Scroll(pos, float64(pe.Scroll.Y))
		}
	}
}

func (a *App) layoutStatusBar(gtx layout.Context) layout.Dimensions {
	th := a.gvTheme.Theme
	inset := layout.Inset{Top: 4, Bottom: 4, Left: 8, Right: 8}

	world := a.viewer.MouseWorld()
	left := fmt.Sprintf("X: %.2f  Y: %.2f  |  Zoom: %.1fx",
		world.X, world.Y, a.viewer.Viewport().Camera().Zoom)

	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
			layout.Rigid(material.Caption(th, left).Layout),
			layout.Rigid(material.Caption(th, a.statusText).Layout),
		)
	})
}

func describeSelection(item any) string {
	switch it := item.(type) {
	case nil:
		return "Nothing selected"
	case *schematic.SymbolInstance:
		ref := it.Reference()
		if ref == "" {
			ref = it.LibID
		}
		return fmt.Sprintf("Symbol %s (%s)", ref, it.LibID)
	case *schematic.Wire:
		return "Wire"
	case *schematic.Bus:
		return "Bus"
	case *schematic.BusEntry:
		return "Bus entry"
	case *schematic.Junction:
		return "Junction"
	case *schematic.NoConnect:
		return "No-connect"
	case *schematic.Label:
		return fmt.Sprintf("Label %q", it.Text)
	case *schematic.GlobalLabel:
		return fmt.Sprintf("Global label %q", it.Text)
	case *schematic.HierLabel:
		return fmt.Sprintf("Hierarchical label %q", it.Text)
	case *schematic.Sheet:
		return fmt.Sprintf("Sheet %q", it.Name)
	case *schematic.Text:
		return "Text"
	case *schematic.Polyline:
		return "Polyline"
	case *schematic.Rectangle:
		return "Rectangle"
	default:
		return fmt.Sprintf("%T", item)
	}
}
