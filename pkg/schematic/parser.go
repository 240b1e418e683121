package schematic

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
	"github.com/OpenTraceLab/TraceCanvas/pkg/sexpr"
)

// MinSupportedVersion is the oldest file format version the loader
// accepts (the 6.0 format).
const MinSupportedVersion = 20211014

// LoadFile reads and parses a schematic file from disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schematic: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a schematic document from a reader. Unknown nodes are
// skipped; structural and version errors abort the load.
func Load(r io.Reader) (*Document, error) {
	root, err := sexpr.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("schematic: %w", err)
	}
	if root.Name() != "kicad_sch" {
		return nil, fmt.Errorf("schematic: not a schematic file, root is %q", root.Name())
	}

	doc := &Document{Library: make(map[string]*LibSymbol)}

	version, ok := root.Find("version")
	if !ok {
		return nil, fmt.Errorf("schematic: missing version")
	}
	doc.Version, err = version.Int(1)
	if err != nil {
		return nil, fmt.Errorf("schematic: %w", err)
	}
	if doc.Version < MinSupportedVersion {
		return nil, fmt.Errorf("schematic: file version %d too old, need %d or newer", doc.Version, MinSupportedVersion)
	}

	if n, ok := root.Find("generator"); ok {
		doc.Generator = n.StrOr(1, "")
	}
	if n, ok := root.Find("uuid"); ok {
		doc.UUID = n.StrOr(1, "")
	}
	if n, ok := root.Find("paper"); ok {
		doc.Paper = n.StrOr(1, "")
	}
	if n, ok := root.Find("title_block"); ok {
		doc.Title = parseTitleBlock(n)
	}
	if n, ok := root.Find("lib_symbols"); ok {
		for _, sn := range n.FindAll("symbol") {
			ls := parseLibSymbol(sn)
			doc.Library[ls.Name] = ls
		}
	}

	for _, n := range root.FindAll("wire") {
		doc.Wires = append(doc.Wires, &Wire{
			Points: parsePoints(n),
			Stroke: parseStroke(n),
			UUID:   parseUUID(n),
		})
	}
	for _, n := range root.FindAll("bus") {
		doc.Buses = append(doc.Buses, &Bus{
			Points: parsePoints(n),
			Stroke: parseStroke(n),
			UUID:   parseUUID(n),
		})
	}
	for _, n := range root.FindAll("bus_entry") {
		e := &BusEntry{Stroke: parseStroke(n), UUID: parseUUID(n)}
		e.At, _ = parseAt(n)
		if sz, ok := n.Find("size"); ok {
			e.Size = geometry.Vec2{X: sz.FloatOr(1, 0), Y: sz.FloatOr(2, 0)}
		}
		doc.BusEntries = append(doc.BusEntries, e)
	}
	for _, n := range root.FindAll("junction") {
		j := &Junction{UUID: parseUUID(n)}
		j.At, _ = parseAt(n)
		if d, ok := n.Find("diameter"); ok {
			j.Diameter = d.FloatOr(1, 0)
		}
		if c, ok := n.Find("color"); ok {
			j.Color = parseColor(c)
		}
		doc.Junctions = append(doc.Junctions, j)
	}
	for _, n := range root.FindAll("no_connect") {
		nc := &NoConnect{UUID: parseUUID(n)}
		nc.At, _ = parseAt(n)
		doc.NoConnects = append(doc.NoConnects, nc)
	}
	for _, n := range root.FindAll("label") {
		l := &Label{Text: n.StrOr(1, ""), Effects: parseEffects(n), UUID: parseUUID(n)}
		l.At, l.Angle = parseAt(n)
		doc.Labels = append(doc.Labels, l)
	}
	for _, n := range root.FindAll("global_label") {
		l := &GlobalLabel{
			Text:    n.StrOr(1, ""),
			Shape:   "input",
			Effects: parseEffects(n),
			UUID:    parseUUID(n),
		}
		if s, ok := n.Find("shape"); ok {
			l.Shape = s.StrOr(1, "input")
		}
		l.At, l.Angle = parseAt(n)
		for _, pn := range n.FindAll("property") {
			l.Properties = append(l.Properties, parseProperty(pn))
		}
		doc.GlobalLabels = append(doc.GlobalLabels, l)
	}
	for _, n := range root.FindAll("hierarchical_label") {
		l := &HierLabel{
			Text:    n.StrOr(1, ""),
			Shape:   "input",
			Effects: parseEffects(n),
			UUID:    parseUUID(n),
		}
		if s, ok := n.Find("shape"); ok {
			l.Shape = s.StrOr(1, "input")
		}
		l.At, l.Angle = parseAt(n)
		doc.HierLabels = append(doc.HierLabels, l)
	}
	for _, n := range root.FindAll("symbol") {
		doc.Symbols = append(doc.Symbols, parseSymbolInstance(n, doc.Library))
	}
	for _, n := range root.FindAll("sheet") {
		doc.Sheets = append(doc.Sheets, parseSheet(n))
	}
	for _, n := range root.FindAll("polyline") {
		doc.Polylines = append(doc.Polylines, &Polyline{
			Points: parsePoints(n),
			Stroke: parseStroke(n),
			UUID:   parseUUID(n),
		})
	}
	for _, n := range root.FindAll("rectangle") {
		doc.Rectangles = append(doc.Rectangles, &Rectangle{
			Start:  parseXYNode(n, "start"),
			End:    parseXYNode(n, "end"),
			Stroke: parseStroke(n),
			Fill:   parseFill(n),
			UUID:   parseUUID(n),
		})
	}
	for _, n := range root.FindAll("text") {
		t := &Text{Text: n.StrOr(1, ""), Effects: parseEffects(n), UUID: parseUUID(n)}
		t.At, t.Angle = parseAt(n)
		doc.Texts = append(doc.Texts, t)
	}

	return doc, nil
}

func parseTitleBlock(n *sexpr.Node) TitleBlock {
	tb := TitleBlock{}
	if t, ok := n.Find("title"); ok {
		tb.Title = t.StrOr(1, "")
	}
	if t, ok := n.Find("date"); ok {
		tb.Date = t.StrOr(1, "")
	}
	if t, ok := n.Find("rev"); ok {
		tb.Revision = t.StrOr(1, "")
	}
	if t, ok := n.Find("company"); ok {
		tb.Company = t.StrOr(1, "")
	}
	for _, c := range n.FindAll("comment") {
		tb.Comments = append(tb.Comments, c.StrOr(2, ""))
	}
	return tb
}

// parseAt reads an (at x y [angle]) node of the parent.
func parseAt(n *sexpr.Node) (geometry.Vec2, geometry.Angle) {
	at, ok := n.Find("at")
	if !ok {
		return geometry.Vec2{}, 0
	}
	return geometry.Vec2{X: at.FloatOr(1, 0), Y: at.FloatOr(2, 0)},
		geometry.Angle(at.FloatOr(3, 0))
}

// parsePoints reads the (pts (xy ..) ...) node of the parent.
func parsePoints(n *sexpr.Node) []geometry.Vec2 {
	pts, ok := n.Find("pts")
	if !ok {
		return nil
	}
	xys := pts.FindAll("xy")
	out := make([]geometry.Vec2, 0, len(xys))
	for _, xy := range xys {
		out = append(out, geometry.Vec2{X: xy.FloatOr(1, 0), Y: xy.FloatOr(2, 0)})
	}
	return out
}

func parseUUID(n *sexpr.Node) string {
	if u, ok := n.Find("uuid"); ok {
		return u.StrOr(1, "")
	}
	return ""
}

func parseColor(n *sexpr.Node) graphics.Color {
	return graphics.Color{
		R: n.FloatOr(1, 0) / 255.0,
		G: n.FloatOr(2, 0) / 255.0,
		B: n.FloatOr(3, 0) / 255.0,
		A: n.FloatOr(4, 0),
	}
}

func parseStroke(n *sexpr.Node) Stroke {
	s := Stroke{Type: "default"}
	sn, ok := n.Find("stroke")
	if !ok {
		return s
	}
	if w, ok := sn.Find("width"); ok {
		s.Width = w.FloatOr(1, 0)
	}
	if t, ok := sn.Find("type"); ok {
		s.Type = t.StrOr(1, "default")
	}
	if c, ok := sn.Find("color"); ok {
		s.Color = parseColor(c)
	}
	return s
}

func parseFill(n *sexpr.Node) Fill {
	f := Fill{Type: "none"}
	fn, ok := n.Find("fill")
	if !ok {
		return f
	}
	if t, ok := fn.Find("type"); ok {
		f.Type = t.StrOr(1, "none")
	}
	if c, ok := fn.Find("color"); ok {
		f.Color = parseColor(c)
	}
	return f
}

func parseEffects(n *sexpr.Node) Effects {
	e := DefaultEffects()
	en, ok := n.Find("effects")
	if !ok {
		return e
	}
	if fn, ok := en.Find("font"); ok {
		if sz, ok := fn.Find("size"); ok {
			e.Font.Size = geometry.Vec2{
				X: sz.FloatOr(2, DefaultTextSize),
				Y: sz.FloatOr(1, DefaultTextSize),
			}
		}
		if th, ok := fn.Find("thickness"); ok {
			e.Font.Thickness = th.FloatOr(1, 0)
		}
		e.Font.Bold = fn.Has("bold")
		e.Font.Italic = fn.Has("italic")
	}
	if jn, ok := en.Find("justify"); ok {
		for _, v := range jn.Values() {
			switch v.Value {
			case "left", "right":
				e.Justify.Horizontal = v.Value
			case "top", "bottom":
				e.Justify.Vertical = v.Value
			case "mirror":
				e.Justify.Mirror = true
			}
		}
	}
	e.Hidden = en.Has("hide")
	return e
}

func parseProperty(n *sexpr.Node) *Property {
	p := &Property{
		Name:    n.StrOr(1, ""),
		Value:   n.StrOr(2, ""),
		Effects: parseEffects(n),
	}
	p.At, p.Angle = parseAt(n)
	return p
}

func parseLibSymbol(n *sexpr.Node) *LibSymbol {
	ls := &LibSymbol{
		Name:        n.StrOr(1, ""),
		ShowPinNums: true,
		ShowPinName: true,
	}
	if pn, ok := n.Find("pin_numbers"); ok {
		ls.ShowPinNums = !pn.Has("hide")
	}
	if pn, ok := n.Find("pin_names"); ok {
		ls.ShowPinName = !pn.Has("hide")
	}
	for _, pn := range n.FindAll("property") {
		ls.Properties = append(ls.Properties, parseProperty(pn))
	}
	for _, un := range n.FindAll("symbol") {
		ls.Units = append(ls.Units, parseSymbolUnit(un))
	}
	return ls
}

func parseSymbolUnit(n *sexpr.Node) *SymbolUnit {
	u := &SymbolUnit{Unit: unitNumber(n.StrOr(1, ""))}
	for _, c := range n.Children {
		if !c.IsList() {
			continue
		}
		switch c.Name() {
		case "rectangle":
			s := &SymbolShape{Kind: ShapeRectangle, Stroke: parseStroke(c), Fill: parseFill(c)}
			s.Start = parseXYNode(c, "start")
			s.End = parseXYNode(c, "end")
			u.Shapes = append(u.Shapes, s)
		case "circle":
			s := &SymbolShape{Kind: ShapeCircle, Stroke: parseStroke(c), Fill: parseFill(c)}
			s.Center = parseXYNode(c, "center")
			if rn, ok := c.Find("radius"); ok {
				s.Radius = rn.FloatOr(1, 0)
			}
			u.Shapes = append(u.Shapes, s)
		case "arc":
			s := &SymbolShape{Kind: ShapeArc, Stroke: parseStroke(c), Fill: parseFill(c)}
			s.Start = parseXYNode(c, "start")
			s.Mid = parseXYNode(c, "mid")
			s.End = parseXYNode(c, "end")
			u.Shapes = append(u.Shapes, s)
		case "polyline":
			s := &SymbolShape{Kind: ShapePolyline, Stroke: parseStroke(c), Fill: parseFill(c)}
			s.Points = parsePoints(c)
			u.Shapes = append(u.Shapes, s)
		case "pin":
			u.Pins = append(u.Pins, parsePin(c))
		}
	}
	return u
}

func parseXYNode(n *sexpr.Node, key string) geometry.Vec2 {
	c, ok := n.Find(key)
	if !ok {
		return geometry.Vec2{}
	}
	return geometry.Vec2{X: c.FloatOr(1, 0), Y: c.FloatOr(2, 0)}
}

func parsePin(n *sexpr.Node) *Pin {
	p := &Pin{
		Electrical: n.StrOr(1, "passive"),
		Style:      n.StrOr(2, "line"),
		Hidden:     n.Has("hide"),
		NameFont:   DefaultEffects(),
		NumberFont: DefaultEffects(),
	}
	p.At, p.Angle = parseAt(n)
	if ln, ok := n.Find("length"); ok {
		p.Length = ln.FloatOr(1, 0)
	}
	if nn, ok := n.Find("name"); ok {
		p.Name = nn.StrOr(1, "")
		p.NameFont = parseEffects(nn)
	}
	if nn, ok := n.Find("number"); ok {
		p.Number = nn.StrOr(1, "")
		p.NumberFont = parseEffects(nn)
	}
	return p
}

func parseSymbolInstance(n *sexpr.Node, lib map[string]*LibSymbol) *SymbolInstance {
	s := &SymbolInstance{Unit: 1, UUID: parseUUID(n)}
	if ln, ok := n.Find("lib_id"); ok {
		s.LibID = ln.StrOr(1, "")
	}
	s.At, s.Angle = parseAt(n)
	if mn, ok := n.Find("mirror"); ok {
		s.Mirror = mn.StrOr(1, "")
	}
	if un, ok := n.Find("unit"); ok {
		if v, err := un.Int(1); err == nil {
			s.Unit = v
		}
	}
	for _, pn := range n.FindAll("property") {
		s.Properties = append(s.Properties, parseProperty(pn))
	}
	s.Lib = lib[s.LibID]
	return s
}

func parseSheet(n *sexpr.Node) *Sheet {
	sh := &Sheet{
		Stroke: parseStroke(n),
		Fill:   parseFill(n),
		UUID:   parseUUID(n),
	}
	sh.At, _ = parseAt(n)
	if sz, ok := n.Find("size"); ok {
		sh.Size = geometry.Vec2{X: sz.FloatOr(1, 0), Y: sz.FloatOr(2, 0)}
	}
	for _, pn := range n.FindAll("property") {
		p := parseProperty(pn)
		switch p.Name {
		case "Sheetname":
			sh.Name = p.Value
		case "Sheetfile":
			sh.FileName = p.Value
		}
	}
	for _, pn := range n.FindAll("pin") {
		sp := &SheetPin{
			Name:    pn.StrOr(1, ""),
			Shape:   pn.StrOr(2, "input"),
			Effects: parseEffects(pn),
			UUID:    parseUUID(pn),
		}
		sp.At, sp.Angle = parseAt(pn)
		sh.Pins = append(sh.Pins, sp)
	}
	return sh
}
