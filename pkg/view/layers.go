package view

import (
	"log"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
)

// OverlayLayerName is the distinguished layer used for transient selection
// feedback. It is always rendered on top and never participates in picking
// or highlight queries.
const OverlayLayerName = ":Overlay"

type paintedItem struct {
	item any
	bbox geometry.BBox
}

// Layer is a named bucket of domain items plus their compiled graphics.
// The compiled graphics object is owned exclusively by the layer and
// replaced wholesale on repaint, so a draw in progress sees either the old
// or the new object, never a partial update.
type Layer struct {
	name    string
	items   []any
	painted []paintedItem
	gfx     *graphics.CompiledLayer

	Visible     bool
	Opacity     float64
	Highlighted bool
}

func newLayer(name string) *Layer {
	return &Layer{
		name:    name,
		Visible: true,
		Opacity: 1.0,
	}
}

// Name returns the layer's identity.
func (l *Layer) Name() string { return l.name }

// AddItem appends a domain item to the layer.
func (l *Layer) AddItem(item any) {
	l.items = append(l.items, item)
}

// Items returns the layer's items in insertion (paint) order.
func (l *Layer) Items() []any { return l.items }

// Graphics returns the compiled display list, nil before first paint.
func (l *Layer) Graphics() *graphics.CompiledLayer { return l.gfx }

// SetGraphics replaces the compiled display list wholesale.
func (l *Layer) SetGraphics(g *graphics.CompiledLayer) { l.gfx = g }

// ResetPainted drops the recorded per-item boxes before a repaint.
func (l *Layer) ResetPainted() { l.painted = l.painted[:0] }

// RecordBBox stores the painted box of one item. Paint order determines
// pick precedence within the layer: later entries are drawn on top.
func (l *Layer) RecordBBox(item any, bbox geometry.BBox) {
	l.painted = append(l.painted, paintedItem{item: item, bbox: bbox})
}

// ItemBBox returns the recorded painted box of the given item.
func (l *Layer) ItemBBox(item any) (geometry.BBox, bool) {
	for _, p := range l.painted {
		if p.item == item {
			return p.bbox, true
		}
	}
	return geometry.BBox{}, false
}

// BBox returns the union extent of everything painted on the layer.
func (l *Layer) BBox() geometry.BBox {
	bbox := geometry.InvalidBBox()
	for _, p := range l.painted {
		bbox = bbox.Union(p.bbox)
	}
	return bbox
}

// Hit is one pick candidate returned by LayerSet.QueryPoint.
type Hit struct {
	Item  any
	BBox  geometry.BBox
	Layer *Layer
}

// LayerSet owns all layers of one loaded document plus the overlay layer.
// Display order comes from a fixed priority table given at construction;
// it is independent of the order items were assigned to layers.
type LayerSet struct {
	order   []string
	byName  map[string]*Layer
	overlay *Layer
}

// NewLayerSet creates a layer set with the given back-to-front priority
// order. Layer names are unique; the overlay layer is always present and
// rendered last.
func NewLayerSet(displayOrder ...string) *LayerSet {
	ls := &LayerSet{
		byName:  make(map[string]*Layer, len(displayOrder)+1),
		overlay: newLayer(OverlayLayerName),
	}
	for _, name := range displayOrder {
		if _, dup := ls.byName[name]; dup {
			log.Printf("view: duplicate layer %q in display order, ignored", name)
			continue
		}
		ls.byName[name] = newLayer(name)
		ls.order = append(ls.order, name)
	}
	return ls
}

// Layer returns the named layer. Names outside the priority table are
// appended at the front of the display order (drawn last before the
// overlay) and logged, so an unexpected item still renders somewhere
// visible instead of disappearing.
func (ls *LayerSet) Layer(name string) *Layer {
	if name == OverlayLayerName {
		return ls.overlay
	}
	if l, ok := ls.byName[name]; ok {
		return l
	}
	log.Printf("view: layer %q not in display order, appending", name)
	l := newLayer(name)
	ls.byName[name] = l
	ls.order = append(ls.order, name)
	return l
}

// Overlay returns the dedicated selection-feedback layer.
func (ls *LayerSet) Overlay() *Layer { return ls.overlay }

// InDisplayOrder returns all layers back to front, the overlay last. The
// slice is rebuilt per call; iterating it multiple times per frame yields
// the same values unless the set is mutated in between.
func (ls *LayerSet) InDisplayOrder() []*Layer {
	out := make([]*Layer, 0, len(ls.order)+1)
	for _, name := range ls.order {
		out = append(out, ls.byName[name])
	}
	out = append(out, ls.overlay)
	return out
}

// QueryPoint returns the pick candidates whose recorded box contains the
// world point, ordered front-most layer first and, within a layer, most
// recently painted item first. The overlay layer is never a candidate.
func (ls *LayerSet) QueryPoint(p geometry.Vec2) []Hit {
	var hits []Hit
	for i := len(ls.order) - 1; i >= 0; i-- {
		layer := ls.byName[ls.order[i]]
		if !layer.Visible {
			continue
		}
		for j := len(layer.painted) - 1; j >= 0; j-- {
			painted := layer.painted[j]
			if painted.bbox.Contains(p) {
				hits = append(hits, Hit{Item: painted.item, BBox: painted.bbox, Layer: layer})
			}
		}
	}
	return hits
}

// IsAnyLayerHighlighted reports whether at least one non-overlay layer is
// highlighted. O(number of layers).
func (ls *LayerSet) IsAnyLayerHighlighted() bool {
	for _, name := range ls.order {
		if ls.byName[name].Highlighted {
			return true
		}
	}
	return false
}

// BBox returns the union extent of all non-overlay layers.
func (ls *LayerSet) BBox() geometry.BBox {
	bbox := geometry.InvalidBBox()
	for _, name := range ls.order {
		bbox = bbox.Union(ls.byName[name].BBox())
	}
	return bbox
}
