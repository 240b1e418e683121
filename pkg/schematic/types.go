// Package schematic models a schematic document: wires, buses, junctions,
// labels, symbols, sheets, and free graphics, loaded from the
// s-expression file format.
package schematic

import (
	"strconv"
	"strings"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
)

// Document is a parsed schematic file. Items are held by pointer so that
// a loaded item keeps a stable identity through painting and picking.
type Document struct {
	Version   int
	Generator string
	UUID      string
	Paper     string
	Title     TitleBlock

	Library map[string]*LibSymbol

	Wires        []*Wire
	Buses        []*Bus
	BusEntries   []*BusEntry
	Junctions    []*Junction
	NoConnects   []*NoConnect
	Labels       []*Label
	GlobalLabels []*GlobalLabel
	HierLabels   []*HierLabel
	Symbols      []*SymbolInstance
	Sheets       []*Sheet
	Polylines    []*Polyline
	Rectangles   []*Rectangle
	Texts        []*Text
}

// Items returns every drawable item of the document in a stable order.
func (d *Document) Items() []any {
	var out []any
	for _, v := range d.Texts {
		out = append(out, v)
	}
	for _, v := range d.Polylines {
		out = append(out, v)
	}
	for _, v := range d.Rectangles {
		out = append(out, v)
	}
	for _, v := range d.Sheets {
		out = append(out, v)
	}
	for _, v := range d.Buses {
		out = append(out, v)
	}
	for _, v := range d.BusEntries {
		out = append(out, v)
	}
	for _, v := range d.Wires {
		out = append(out, v)
	}
	for _, v := range d.Junctions {
		out = append(out, v)
	}
	for _, v := range d.NoConnects {
		out = append(out, v)
	}
	for _, v := range d.Symbols {
		out = append(out, v)
	}
	for _, v := range d.Labels {
		out = append(out, v)
	}
	for _, v := range d.GlobalLabels {
		out = append(out, v)
	}
	for _, v := range d.HierLabels {
		out = append(out, v)
	}
	return out
}

// SymbolByReference returns the symbol instance with the given reference
// designator, or nil.
func (d *Document) SymbolByReference(ref string) *SymbolInstance {
	for _, sym := range d.Symbols {
		if sym.Reference() == ref {
			return sym
		}
	}
	return nil
}

// NetNames returns the distinct label texts of the document, local,
// global, and hierarchical combined.
func (d *Document) NetNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			names = append(names, t)
		}
	}
	for _, l := range d.Labels {
		add(l.Text)
	}
	for _, l := range d.GlobalLabels {
		add(l.Text)
	}
	for _, l := range d.HierLabels {
		add(l.Text)
	}
	return names
}

// TitleBlock carries the sheet frame metadata.
type TitleBlock struct {
	Title    string
	Date     string
	Revision string
	Company  string
	Comments []string
}

// Stroke is the outline appearance of an item. A zero width means the
// item falls back to the theme's default width.
type Stroke struct {
	Width float64
	Type  string
	Color graphics.Color
}

// Fill is the area fill of a closed shape. Type is one of "none",
// "outline", or "background"; colored fills carry the color directly.
type Fill struct {
	Type  string
	Color graphics.Color
}

// Font carries the stroke-font parameters of a text item.
type Font struct {
	Size      geometry.Vec2
	Thickness float64
	Bold      bool
	Italic    bool
}

// Justify is the text anchor, using the file's own vocabulary: empty
// strings mean centered.
type Justify struct {
	Horizontal string
	Vertical   string
	Mirror     bool
}

// Effects bundles the text presentation of an item.
type Effects struct {
	Font    Font
	Justify Justify
	Hidden  bool
}

// DefaultTextSize is the stroke-font size used when a file omits the
// font size, in schematic units.
const DefaultTextSize = 1.27

// DefaultEffects returns effects with the standard font size filled in.
func DefaultEffects() Effects {
	return Effects{Font: Font{Size: geometry.Vec2{X: DefaultTextSize, Y: DefaultTextSize}}}
}

// Property is a named text field attached to a symbol or sheet.
type Property struct {
	Name    string
	Value   string
	At      geometry.Vec2
	Angle   geometry.Angle
	Effects Effects
}

// Wire is a net segment.
type Wire struct {
	Points []geometry.Vec2
	Stroke Stroke
	UUID   string
}

// Bus is a grouped-net segment, drawn heavier than a wire.
type Bus struct {
	Points []geometry.Vec2
	Stroke Stroke
	UUID   string
}

// BusEntry is the short diagonal stub joining a wire to a bus.
type BusEntry struct {
	At     geometry.Vec2
	Size   geometry.Vec2
	Stroke Stroke
	UUID   string
}

// Junction is a solder dot where wires connect.
type Junction struct {
	At       geometry.Vec2
	Diameter float64
	Color    graphics.Color
	UUID     string
}

// NoConnect is the small cross marking an intentionally unconnected pin.
type NoConnect struct {
	At   geometry.Vec2
	UUID string
}

// Label is a local net label.
type Label struct {
	Text    string
	At      geometry.Vec2
	Angle   geometry.Angle
	Effects Effects
	UUID    string
}

// GlobalLabel is a net label visible across all sheets, drawn inside a
// pointed outline whose shape encodes the direction.
type GlobalLabel struct {
	Text       string
	Shape      string
	At         geometry.Vec2
	Angle      geometry.Angle
	Effects    Effects
	UUID       string
	Properties []*Property
}

// HierLabel is a net label that connects to a pin of the parent sheet.
type HierLabel struct {
	Text    string
	Shape   string
	At      geometry.Vec2
	Angle   geometry.Angle
	Effects Effects
	UUID    string
}

// ShapeKind discriminates the graphic primitives of a symbol body.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
	ShapeArc
	ShapePolyline
)

// SymbolShape is one graphic primitive of a symbol body, in symbol-local
// coordinates.
type SymbolShape struct {
	Kind   ShapeKind
	Start  geometry.Vec2
	Mid    geometry.Vec2
	End    geometry.Vec2
	Center geometry.Vec2
	Radius float64
	Points []geometry.Vec2
	Stroke Stroke
	Fill   Fill
}

// Pin is a connection point of a library symbol.
type Pin struct {
	Electrical string
	Style      string
	At         geometry.Vec2
	Angle      geometry.Angle
	Length     float64
	Name       string
	NameFont   Effects
	Number     string
	NumberFont Effects
	Hidden     bool
}

// SymbolUnit is one unit of a library symbol. Unit 0 holds the graphics
// common to all units.
type SymbolUnit struct {
	Unit   int
	Shapes []*SymbolShape
	Pins   []*Pin
}

// LibSymbol is an embedded library symbol definition.
type LibSymbol struct {
	Name        string
	ShowPinNums bool
	ShowPinName bool
	Properties  []*Property
	Units       []*SymbolUnit
}

// UnitsFor returns the common unit plus the named unit's own graphics.
func (ls *LibSymbol) UnitsFor(unit int) []*SymbolUnit {
	var out []*SymbolUnit
	for _, u := range ls.Units {
		if u.Unit == 0 || u.Unit == unit {
			out = append(out, u)
		}
	}
	return out
}

// unitNumber extracts the unit index from a sub-symbol name of the form
// "<name>_<unit>_<style>".
func unitNumber(name string) int {
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return 0
	}
	n, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return 0
	}
	return n
}

// SymbolInstance is a placed symbol. Lib is resolved against the
// document's embedded library at load time.
type SymbolInstance struct {
	LibID      string
	At         geometry.Vec2
	Angle      geometry.Angle
	Mirror     string
	Unit       int
	UUID       string
	Properties []*Property
	Lib        *LibSymbol
}

// Reference returns the instance's reference designator, empty when the
// Reference property is missing.
func (s *SymbolInstance) Reference() string {
	return s.Property("Reference")
}

// Property returns the value of the named property, empty when absent.
func (s *SymbolInstance) Property(name string) string {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// SheetPin is a hierarchical pin on a sheet border.
type SheetPin struct {
	Name    string
	Shape   string
	At      geometry.Vec2
	Angle   geometry.Angle
	Effects Effects
	UUID    string
}

// Sheet is a hierarchical sub-sheet placed as a rectangle.
type Sheet struct {
	At       geometry.Vec2
	Size     geometry.Vec2
	Stroke   Stroke
	Fill     Fill
	UUID     string
	Name     string
	FileName string
	Pins     []*SheetPin
}

// Polyline is free line art outside any symbol.
type Polyline struct {
	Points []geometry.Vec2
	Stroke Stroke
	UUID   string
}

// Rectangle is free rectangle art outside any symbol.
type Rectangle struct {
	Start  geometry.Vec2
	End    geometry.Vec2
	Stroke Stroke
	Fill   Fill
	UUID   string
}

// Text is free text outside any symbol.
type Text struct {
	Text    string
	At      geometry.Vec2
	Angle   geometry.Angle
	Effects Effects
	UUID    string
}
