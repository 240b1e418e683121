// Package render turns schematic items into layered drawing primitives:
// the per-type painters, the layer priority table, the color themes, and
// the document viewer that ties them to the interactive pipeline.
package render

import (
	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
)

// Layer names, listed back to front.
const (
	LayerNotes            = "notes"
	LayerSheet            = "sheet"
	LayerBus              = "bus"
	LayerWire             = "wire"
	LayerJunction         = "junction"
	LayerNoConnect        = "noconnect"
	LayerSymbolBackground = "symbol:background"
	LayerSymbolForeground = "symbol:foreground"
	LayerSymbolPin        = "symbol:pin"
	LayerSymbolField      = "symbol:field"
	LayerLabel            = "label"
)

// DisplayOrder returns the fixed layer priority, back to front.
func DisplayOrder() []string {
	return []string{
		LayerNotes,
		LayerSheet,
		LayerBus,
		LayerWire,
		LayerJunction,
		LayerNoConnect,
		LayerSymbolBackground,
		LayerSymbolForeground,
		LayerSymbolPin,
		LayerSymbolField,
		LayerLabel,
	}
}

// Theme is the color scheme applied while painting.
type Theme struct {
	Background graphics.Color

	Wire      graphics.Color
	Bus       graphics.Color
	Junction  graphics.Color
	NoConnect graphics.Color

	Label       graphics.Color
	GlobalLabel graphics.Color
	HierLabel   graphics.Color

	SymbolBody graphics.Color
	SymbolFill graphics.Color
	SymbolPin  graphics.Color
	PinText    graphics.Color
	Field      graphics.Color

	Sheet     graphics.Color
	SheetFill graphics.Color

	Notes     graphics.Color
	Selection graphics.Color
}

func rgb(r, g, b float64) graphics.Color {
	return graphics.Color{R: r / 255, G: g / 255, B: b / 255, A: 1}
}

// LightTheme returns the white-background scheme.
func LightTheme() *Theme {
	return &Theme{
		Background: rgb(255, 255, 255),

		Wire:      rgb(0, 132, 0),
		Bus:       rgb(0, 0, 132),
		Junction:  rgb(0, 132, 0),
		NoConnect: rgb(0, 0, 132),

		Label:       rgb(0, 0, 0),
		GlobalLabel: rgb(132, 0, 0),
		HierLabel:   rgb(132, 66, 0),

		SymbolBody: rgb(132, 0, 0),
		SymbolFill: graphics.Color{R: 1, G: 1, B: 194.0 / 255, A: 0.5},
		SymbolPin:  rgb(132, 0, 0),
		PinText:    rgb(0, 100, 100),
		Field:      rgb(0, 0, 0),

		Sheet:     rgb(132, 0, 132),
		SheetFill: graphics.Color{R: 1, G: 1, B: 1, A: 0.25},

		Notes:     rgb(0, 0, 132),
		Selection: graphics.Color{R: 1, G: 0, B: 0, A: 0.5},
	}
}

// DarkTheme returns the dark-background scheme.
func DarkTheme() *Theme {
	return &Theme{
		Background: rgb(30, 30, 30),

		Wire:      rgb(0, 255, 0),
		Bus:       rgb(0, 150, 255),
		Junction:  rgb(0, 255, 0),
		NoConnect: rgb(0, 150, 255),

		Label:       rgb(255, 255, 0),
		GlobalLabel: rgb(255, 100, 100),
		HierLabel:   rgb(255, 150, 0),

		SymbolBody: rgb(255, 100, 100),
		SymbolFill: graphics.Color{R: 60.0 / 255, G: 60.0 / 255, B: 0, A: 0.5},
		SymbolPin:  rgb(255, 100, 100),
		PinText:    rgb(100, 255, 255),
		Field:      rgb(255, 255, 255),

		Sheet:     rgb(255, 100, 255),
		SheetFill: graphics.Color{R: 50.0 / 255, G: 40.0 / 255, B: 50.0 / 255, A: 0.25},

		Notes:     rgb(100, 150, 255),
		Selection: graphics.Color{R: 1, G: 100.0 / 255, B: 100.0 / 255, A: 0.5},
	}
}

// LayerDefault returns the theme's fallback color for a layer.
func (t *Theme) LayerDefault(layer string) graphics.Color {
	switch layer {
	case LayerWire:
		return t.Wire
	case LayerBus:
		return t.Bus
	case LayerJunction:
		return t.Junction
	case LayerNoConnect:
		return t.NoConnect
	case LayerLabel:
		return t.Label
	case LayerSymbolBackground:
		return t.SymbolFill
	case LayerSymbolForeground:
		return t.SymbolBody
	case LayerSymbolPin:
		return t.SymbolPin
	case LayerSymbolField:
		return t.Field
	case LayerSheet:
		return t.Sheet
	case LayerNotes:
		return t.Notes
	}
	return graphics.Transparent
}

// resolve walks the stroke-color fallback chain: the item's own color,
// the renderer's current stroke, the theme default for the layer, and
// finally the error color.
func (t *Theme) resolve(item graphics.Color, r graphics.Renderer, layer string) graphics.Color {
	if !item.IsTransparent() {
		return item
	}
	if c := r.State().StrokeColor; !c.IsTransparent() {
		return c
	}
	if c := t.LayerDefault(layer); !c.IsTransparent() {
		return c
	}
	return graphics.ErrorColor
}
