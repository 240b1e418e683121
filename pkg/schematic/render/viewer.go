package render

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/TraceCanvas/pkg/schematic"
	"github.com/OpenTraceLab/TraceCanvas/pkg/view"
)

// NewRegistry builds the painter dispatch table for schematic items.
func NewRegistry(theme *Theme) *view.Registry {
	return view.NewRegistry([]view.Entry{
		{Prototype: &schematic.Wire{}, Painter: &wirePainter{theme}},
		{Prototype: &schematic.Bus{}, Painter: &busPainter{theme}},
		{Prototype: &schematic.BusEntry{}, Painter: &busEntryPainter{theme}},
		{Prototype: &schematic.Junction{}, Painter: &junctionPainter{theme}},
		{Prototype: &schematic.NoConnect{}, Painter: &noConnectPainter{theme}},
		{Prototype: &schematic.Polyline{}, Painter: &polylinePainter{theme}},
		{Prototype: &schematic.Rectangle{}, Painter: &rectanglePainter{theme}},
		{Prototype: &schematic.Text{}, Painter: &textPainter{theme}},
		{Prototype: &schematic.Sheet{}, Painter: &sheetPainter{theme}},
		{Prototype: &schematic.Label{}, Painter: &labelPainter{theme}},
		{Prototype: &schematic.GlobalLabel{}, Painter: &globalLabelPainter{theme}},
		{Prototype: &schematic.HierLabel{}, Painter: &hierLabelPainter{theme}},
		{Prototype: &schematic.SymbolInstance{}, Painter: &symbolPainter{theme}},
	})
}

// SchematicViewer is the concrete viewer for schematic documents.
type SchematicViewer struct {
	*view.Viewer
	theme *Theme
	doc   *schematic.Document
}

// NewSchematicViewer creates a viewer painting with the given theme.
func NewSchematicViewer(theme *Theme) *SchematicViewer {
	v := &SchematicViewer{
		Viewer: view.NewViewer(NewRegistry(theme)),
		theme:  theme,
	}
	v.Background = theme.Background
	v.OverlayColor = theme.Selection
	return v
}

// Document returns the loaded document, nil before load.
func (v *SchematicViewer) Document() *schematic.Document { return v.doc }

// Theme returns the active color scheme.
func (v *SchematicViewer) Theme() *Theme { return v.theme }

// SetTheme swaps the color scheme in place and repaints the loaded
// document. The painters share the viewer's theme pointer, so mutating
// it recolors everything on the next paint.
func (v *SchematicViewer) SetTheme(t *Theme) {
	*v.theme = *t
	v.Background = v.theme.Background
	v.OverlayColor = v.theme.Selection
	if v.doc != nil {
		if err := v.LoadItems(v.doc.Items(), DisplayOrder()); err == nil {
			v.ScheduleDraw()
		}
	} else {
		v.ScheduleDraw()
	}
}

// Load parses a document from the reader, paints it into layers, and
// frames the page. A parse failure leaves the previous document in place
// and settles the load cell with the error.
func (v *SchematicViewer) Load(r io.Reader) error {
	doc, err := schematic.Load(r)
	if err != nil {
		v.FinishLoad(err)
		return err
	}
	if err := v.LoadItems(doc.Items(), DisplayOrder()); err != nil {
		err = fmt.Errorf("render: %w", err)
		v.FinishLoad(err)
		return err
	}
	v.doc = doc
	v.ZoomToPage()
	v.FinishLoad(nil)
	return nil
}

// LoadFile loads a document from disk.
func (v *SchematicViewer) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("render: %w", err)
		v.FinishLoad(err)
		return err
	}
	defer f.Close()
	return v.Load(f)
}

// ZoomToPage frames the whole painted document.
func (v *SchematicViewer) ZoomToPage() {
	if v.Layers() == nil || !v.IsSetUp() {
		return
	}
	bbox := v.Layers().BBox()
	if !bbox.IsValid() {
		return
	}
	v.Viewport().FitBBox(bbox)
}
