package schematic

import (
	"strings"
	"testing"
)

func TestLoadMinimalDocument(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid 862335ee-c981-4fe1-9eb9-84db19301dd4)
		(paper "A4")
		(title_block
			(title "Power Supply")
			(rev "B")
			(comment 1 "first")
		)
		(lib_symbols)
	)`

	doc, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Version != 20231120 {
		t.Errorf("version = %d", doc.Version)
	}
	if doc.Generator != "eeschema" || doc.Paper != "A4" {
		t.Errorf("header = %q %q", doc.Generator, doc.Paper)
	}
	if doc.Title.Title != "Power Supply" || doc.Title.Revision != "B" {
		t.Errorf("title block = %+v", doc.Title)
	}
	if len(doc.Title.Comments) != 1 || doc.Title.Comments[0] != "first" {
		t.Errorf("comments = %v", doc.Title.Comments)
	}
	if len(doc.Items()) != 0 {
		t.Errorf("empty document has %d items", len(doc.Items()))
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"not a schematic", `(kicad_pcb (version 20231120))`},
		{"missing version", `(kicad_sch (generator "x"))`},
		{"version too old", `(kicad_sch (version 20200101))`},
		{"malformed", `(kicad_sch (version`},
	}
	for _, tc := range cases {
		if _, err := Load(strings.NewReader(tc.input)); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestLoadWiresAndJunctions(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(wire (pts (xy 0 0) (xy 10.16 0))
			(stroke (width 0.25) (type solid) (color 255 0 0 1))
			(uuid w1))
		(bus (pts (xy 0 10) (xy 20 10)) (uuid b1))
		(junction (at 10.16 0) (diameter 0.9144) (color 0 0 0 0) (uuid j1))
		(no_connect (at 5 5) (uuid nc1))
		(bus_entry (at 20 10) (size 2.54 2.54) (uuid be1))
	)`

	doc, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Wires) != 1 {
		t.Fatalf("wires = %d", len(doc.Wires))
	}
	w := doc.Wires[0]
	if len(w.Points) != 2 || w.Points[1].X != 10.16 {
		t.Errorf("wire points = %v", w.Points)
	}
	if w.Stroke.Width != 0.25 || w.Stroke.Color.R != 1.0 {
		t.Errorf("wire stroke = %+v", w.Stroke)
	}
	if len(doc.Buses) != 1 || len(doc.Junctions) != 1 || len(doc.NoConnects) != 1 || len(doc.BusEntries) != 1 {
		t.Error("item counts wrong")
	}
	if doc.Junctions[0].Diameter != 0.9144 {
		t.Errorf("junction diameter = %v", doc.Junctions[0].Diameter)
	}
	if doc.BusEntries[0].Size.X != 2.54 {
		t.Errorf("bus entry size = %v", doc.BusEntries[0].Size)
	}
}

func TestLoadLabels(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(label "NET1" (at 10 20 90)
			(effects (font (size 1.27 1.27)) (justify left bottom))
			(uuid l1))
		(global_label "VCC" (shape input) (at 30 40 0)
			(effects (font (size 1.27 1.27)))
			(uuid g1))
		(hierarchical_label "DATA" (shape bidirectional) (at 50 60 180) (uuid h1))
		(global_label "NET1" (at 0 0 0))
	)`

	doc, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	l := doc.Labels[0]
	if l.Text != "NET1" || l.Angle != 90 {
		t.Errorf("label = %+v", l)
	}
	if l.Effects.Justify.Horizontal != "left" || l.Effects.Justify.Vertical != "bottom" {
		t.Errorf("justify = %+v", l.Effects.Justify)
	}

	g := doc.GlobalLabels[0]
	if g.Shape != "input" {
		t.Errorf("global shape = %q", g.Shape)
	}
	// Shape defaults to input when omitted.
	if doc.GlobalLabels[1].Shape != "input" {
		t.Errorf("default shape = %q", doc.GlobalLabels[1].Shape)
	}

	h := doc.HierLabels[0]
	if h.Shape != "bidirectional" || h.Angle != 180 {
		t.Errorf("hier label = %+v", h)
	}

	nets := doc.NetNames()
	if len(nets) != 3 {
		t.Errorf("net names = %v, duplicates must collapse", nets)
	}
}

const symbolFixture = `(kicad_sch
	(version 20231120)
	(lib_symbols
		(symbol "Device:R"
			(pin_numbers hide)
			(property "Reference" "R" (at 0 2 0))
			(symbol "R_0_1"
				(rectangle (start -1.016 -2.54) (end 1.016 2.54)
					(stroke (width 0.254) (type default))
					(fill (type background)))
			)
			(symbol "R_1_1"
				(pin passive line (at 0 3.81 270) (length 1.27)
					(name "~" (effects (font (size 1.27 1.27))))
					(number "1" (effects (font (size 1.27 1.27)))))
				(pin passive line (at 0 -3.81 90) (length 1.27)
					(name "~")
					(number "2"))
			)
		)
	)
	(symbol (lib_id "Device:R")
		(at 100 50 90)
		(mirror y)
		(unit 1)
		(uuid sym1)
		(property "Reference" "R1" (at 100 45 0)
			(effects (font (size 1.27 1.27))))
		(property "Value" "10k" (at 100 55 0)
			(effects (font (size 1.27 1.27)) hide))
	)
)`

func TestLoadSymbols(t *testing.T) {
	doc, err := Load(strings.NewReader(symbolFixture))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ls, ok := doc.Library["Device:R"]
	if !ok {
		t.Fatal("library symbol missing")
	}
	if ls.ShowPinNums {
		t.Error("pin numbers should be hidden")
	}
	if len(ls.Units) != 2 {
		t.Fatalf("units = %d", len(ls.Units))
	}
	if ls.Units[0].Unit != 0 || ls.Units[1].Unit != 1 {
		t.Errorf("unit numbers = %d %d", ls.Units[0].Unit, ls.Units[1].Unit)
	}
	if len(ls.Units[0].Shapes) != 1 || ls.Units[0].Shapes[0].Kind != ShapeRectangle {
		t.Error("body rectangle missing")
	}
	if got := ls.Units[0].Shapes[0].Fill.Type; got != "background" {
		t.Errorf("fill type = %q", got)
	}
	if len(ls.Units[1].Pins) != 2 {
		t.Fatalf("pins = %d", len(ls.Units[1].Pins))
	}
	pin := ls.Units[1].Pins[0]
	if pin.Electrical != "passive" || pin.Style != "line" || pin.Length != 1.27 || pin.Angle != 270 {
		t.Errorf("pin = %+v", pin)
	}

	if len(doc.Symbols) != 1 {
		t.Fatalf("instances = %d", len(doc.Symbols))
	}
	inst := doc.Symbols[0]
	if inst.Lib != ls {
		t.Error("library reference not resolved")
	}
	if inst.Angle != 90 || inst.Mirror != "y" {
		t.Errorf("placement = %v %q", inst.Angle, inst.Mirror)
	}
	if inst.Reference() != "R1" {
		t.Errorf("reference = %q", inst.Reference())
	}
	var hidden *Property
	for _, p := range inst.Properties {
		if p.Name == "Value" {
			hidden = p
		}
	}
	if hidden == nil || !hidden.Effects.Hidden {
		t.Error("hidden value property not flagged")
	}

	if doc.SymbolByReference("R1") != inst {
		t.Error("lookup by reference failed")
	}

	// UnitsFor returns the shared unit plus the requested one.
	units := ls.UnitsFor(1)
	if len(units) != 2 {
		t.Errorf("UnitsFor(1) = %d units", len(units))
	}
}

func TestLoadSheet(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(sheet (at 50 50) (size 40 30)
			(stroke (width 0.1524) (type solid))
			(fill (color 255 255 255 1))
			(uuid sh1)
			(property "Sheetname" "regulator" (at 50 49 0))
			(property "Sheetfile" "regulator.kicad_sch" (at 50 81 0))
			(pin "EN" input (at 50 60 180)
				(effects (font (size 1.27 1.27)) (justify right))
				(uuid sp1))
		)
	)`

	doc, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sh := doc.Sheets[0]
	if sh.Name != "regulator" || sh.FileName != "regulator.kicad_sch" {
		t.Errorf("sheet names = %q %q", sh.Name, sh.FileName)
	}
	if sh.Size.X != 40 || sh.Size.Y != 30 {
		t.Errorf("size = %v", sh.Size)
	}
	if len(sh.Pins) != 1 || sh.Pins[0].Name != "EN" || sh.Pins[0].Shape != "input" {
		t.Errorf("pins = %+v", sh.Pins)
	}
}
