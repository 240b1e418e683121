package render

import (
	"math"
	"strings"
	"testing"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
	"github.com/OpenTraceLab/TraceCanvas/pkg/schematic"
	"github.com/OpenTraceLab/TraceCanvas/pkg/view"
)

func paintOne(t *testing.T, theme *Theme, item any) (geometry.BBox, []graphics.Primitive) {
	t.Helper()
	reg := NewRegistry(theme)
	rec := graphics.NewRecorder()

	layers := reg.LayersFor(item)
	if len(layers) == 0 {
		t.Fatalf("no layers for %T", item)
	}

	layer := view.NewLayerSet(layers...).Layer(layers[0])

	rec.StartLayer(layers[0])
	rec.StartObject(item)
	reg.Paint(rec, layer, item)
	bbox := rec.EndObject()
	compiled := rec.EndLayer()
	return bbox, compiled.Primitives()
}

func TestSymbolContributesFourLayers(t *testing.T) {
	reg := NewRegistry(LightTheme())
	layers := reg.LayersFor(&schematic.SymbolInstance{})
	want := []string{LayerSymbolBackground, LayerSymbolForeground, LayerSymbolPin, LayerSymbolField}
	if len(layers) != len(want) {
		t.Fatalf("layers = %v", layers)
	}
	for i := range want {
		if layers[i] != want[i] {
			t.Errorf("layer %d = %q, want %q", i, layers[i], want[i])
		}
	}
}

func TestGlobalLabelTailMargin(t *testing.T) {
	effects := schematic.DefaultEffects()

	input := &schematic.GlobalLabel{Text: "CLK", Shape: "input", Effects: effects}
	passive := &schematic.GlobalLabel{Text: "CLK", Shape: "passive", Effects: effects}

	inBBox, _ := paintOne(t, LightTheme(), input)
	paBBox, _ := paintOne(t, LightTheme(), passive)

	gained := inBBox.W - paBBox.W
	want := effects.Font.Size.Y * tailMarginFactor
	if math.Abs(gained-want) > 1e-9 {
		t.Errorf("input outline wider by %v, want %v", gained, want)
	}
}

func TestLabelRotationNormalized(t *testing.T) {
	theme := LightTheme()
	at := geometry.Vec2{X: 10, Y: 10}

	shapeAngle := func(angle geometry.Angle) geometry.Angle {
		_, prims := paintOne(t, theme, &schematic.Label{
			Text: "NET", At: at, Angle: angle, Effects: schematic.DefaultEffects(),
		})
		for _, p := range prims {
			if txt, ok := p.(graphics.TextShape); ok {
				return txt.Angle
			}
		}
		t.Fatal("no text primitive")
		return 0
	}

	if a0, a180 := shapeAngle(0), shapeAngle(180); a0 != a180 {
		t.Errorf("angle 180 rendered as %v, angle 0 as %v", a180, a0)
	}
	if a90, a270 := shapeAngle(90), shapeAngle(270); a90 != a270 {
		t.Errorf("angle 270 rendered as %v, angle 90 as %v", a270, a90)
	}
}

func TestHierLabelTextClearsChevron(t *testing.T) {
	theme := LightTheme()
	at := geometry.Vec2{X: 100, Y: 100}
	s := schematic.DefaultTextSize

	textBox := func(angle geometry.Angle) geometry.BBox {
		_, prims := paintOne(t, theme, &schematic.HierLabel{
			Text:    "LONG_SIGNAL_NAME",
			Shape:   "input",
			At:      at,
			Angle:   angle,
			Effects: schematic.DefaultEffects(),
		})
		for _, p := range prims {
			if txt, ok := p.(graphics.TextShape); ok {
				return txt.BBox()
			}
		}
		t.Fatal("no text primitive")
		return geometry.BBox{}
	}

	// At angle 0 the chevron spans [at.X, at.X+s] and the text runs away
	// from the anchor, to the right of it.
	b0 := textBox(0)
	if b0.X < at.X+s {
		t.Errorf("angle 0: text starts at %v, inside the chevron ending at %v", b0.X, at.X+s)
	}

	// At angle 180 the chevron mirrors to [at.X-s, at.X]. The glyph angle
	// normalizes back to 0, so the alignment must flip with it or the text
	// runs back over the chevron.
	b180 := textBox(180)
	if right := b180.X + b180.W; right > at.X-s {
		t.Errorf("angle 180: text reaches %v, over the chevron starting at %v", right, at.X-s)
	}
}

// paintOneLayer paints a single named sub-layer of a multi-layer item.
func paintOneLayer(t *testing.T, theme *Theme, item any, name string) []graphics.Primitive {
	t.Helper()
	reg := NewRegistry(theme)
	rec := graphics.NewRecorder()

	layer := view.NewLayerSet(reg.LayersFor(item)...).Layer(name)
	rec.StartLayer(name)
	rec.StartObject(item)
	reg.Paint(rec, layer, item)
	rec.EndObject()
	return rec.EndLayer().Primitives()
}

func TestSymbolFieldPlacementThroughRotationAndMirror(t *testing.T) {
	theme := LightTheme()

	anchors := map[string]geometry.Vec2{}
	for _, mirror := range []string{"", "x", "y", "xy"} {
		prop := &schematic.Property{
			Name:  "Reference",
			Value: "U42",
			At:    geometry.Vec2{X: 105, Y: 97},
			Angle: 90,
			Effects: schematic.Effects{
				Font:    schematic.Font{Size: geometry.Vec2{X: 1.27, Y: 1.27}},
				Justify: schematic.Justify{Horizontal: "left", Vertical: "top"},
			},
		}
		sym := &schematic.SymbolInstance{
			LibID:      "Device:U",
			At:         geometry.Vec2{X: 100, Y: 100},
			Angle:      90,
			Mirror:     mirror,
			Unit:       1,
			Properties: []*schematic.Property{prop},
			Lib:        &schematic.LibSymbol{Name: "U"},
		}

		prims := paintOneLayer(t, theme, sym, LayerSymbolField)
		var txt graphics.TextShape
		found := false
		for _, p := range prims {
			if shape, ok := p.(graphics.TextShape); ok {
				txt, found = shape, true
			}
		}
		if !found {
			t.Fatalf("mirror %q: no field text painted", mirror)
		}

		// The field is measured at the origin under its own justification,
		// shifted to its anchor in library space, and carried through the
		// placement. The painted text must land centered on that box.
		placement := placementMatrix(sym)
		box := graphics.AlignedTextBBox(prop.Value, prop.Effects.Font.Size,
			effectiveThickness(prop.Effects),
			hAlignOf(prop.Effects.Justify), vAlignOf(prop.Effects.Justify))
		local := placement.Inverse().Transform(prop.At)
		box.X += local.X
		box.Y += local.Y
		want := box.Transform(placement).Center()

		got := txt.BBox().Center()
		if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
			t.Errorf("mirror %q: field centered at %v, want %v", mirror, got, want)
		}
		anchors[mirror] = got
	}

	// With an off-center justification the four placements are distinct;
	// identical anchors would mean a mirror axis was dropped.
	for _, a := range []string{"", "x", "y"} {
		for _, b := range []string{"x", "y", "xy"} {
			if a == b {
				continue
			}
			va, vb := anchors[a], anchors[b]
			if math.Abs(va.X-vb.X) < 1e-9 && math.Abs(va.Y-vb.Y) < 1e-9 {
				t.Errorf("mirror %q and %q placed the field identically at %v", a, b, va)
			}
		}
	}
}

func TestThemeResolveFallbackChain(t *testing.T) {
	theme := LightTheme()
	rec := graphics.NewRecorder()

	// Item color wins when set.
	red := graphics.Color{R: 1, A: 1}
	if got := theme.resolve(red, rec, LayerWire); got != red {
		t.Errorf("item color lost: %v", got)
	}

	// Renderer state is the second tier.
	rec.State().StrokeColor = graphics.Color{B: 1, A: 1}
	if got := theme.resolve(graphics.Transparent, rec, LayerWire); got != rec.State().StrokeColor {
		t.Errorf("state color lost: %v", got)
	}

	// Theme default third.
	rec.State().StrokeColor = graphics.Transparent
	if got := theme.resolve(graphics.Transparent, rec, LayerWire); got != theme.Wire {
		t.Errorf("theme default lost: %v", got)
	}

	// No tier matches: the error color, never a failure.
	if got := theme.resolve(graphics.Transparent, rec, "bogus-layer"); got != graphics.ErrorColor {
		t.Errorf("expected error color, got %v", got)
	}
}

func TestJunctionDefaultDiameter(t *testing.T) {
	bbox, _ := paintOne(t, LightTheme(), &schematic.Junction{At: geometry.Vec2{X: 5, Y: 5}})
	if math.Abs(bbox.W-defaultJunctionDiam) > 1e-9 {
		t.Errorf("junction bbox width = %v", bbox.W)
	}
}

const pickFixture = `(kicad_sch
	(version 20231120)
	(rectangle (start 10 10) (end 30 20)
		(stroke (width 0.3) (type solid))
		(fill (type none))
		(uuid rect1))
	(wire (pts (xy 100 100) (xy 120 100)) (uuid w1))
)`

func TestEndToEndPickOnNotesLayer(t *testing.T) {
	v := NewSchematicViewer(LightTheme())
	v.Setup(800, 600, func() {})

	if err := v.Load(strings.NewReader(pickFixture)); err != nil {
		t.Fatalf("load: %v", err)
	}

	doc := v.Document()
	if len(doc.Rectangles) != 1 || len(doc.Wires) != 1 {
		t.Fatalf("fixture parsed into %d rectangles, %d wires", len(doc.Rectangles), len(doc.Wires))
	}

	// Click a point inside the rectangle's recorded bbox.
	screen := v.Viewport().WorldToScreen(geometry.Vec2{X: 20, Y: 15})
	v.Click(screen)

	if v.Selected() != doc.Rectangles[0] {
		t.Fatalf("selected %T, want the rectangle", v.Selected())
	}

	notes := v.Layers().Layer(LayerNotes)
	if notes.Graphics() == nil || notes.Graphics().IsEmpty() {
		t.Error("notes layer not painted")
	}
}

func TestLoadFailureKeepsPreviousDocument(t *testing.T) {
	v := NewSchematicViewer(DarkTheme())
	v.Setup(800, 600, func() {})

	if err := v.Load(strings.NewReader(pickFixture)); err != nil {
		t.Fatalf("first load: %v", err)
	}
	first := v.Document()

	if err := v.Load(strings.NewReader("(garbage")); err == nil {
		t.Fatal("expected parse error")
	}
	if v.Document() != first {
		t.Error("failed load replaced the document")
	}
	if v.Layers() == nil {
		t.Error("failed load dropped the painted layers")
	}
}

func TestDisplayOrderStable(t *testing.T) {
	order := DisplayOrder()
	if order[0] != LayerNotes || order[len(order)-1] != LayerLabel {
		t.Errorf("display order = %v", order)
	}
	seen := map[string]bool{}
	for _, n := range order {
		if seen[n] {
			t.Errorf("duplicate layer %q", n)
		}
		seen[n] = true
	}
}
