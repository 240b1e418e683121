package view

import (
	"log"
	"reflect"

	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
)

// Painter converts one domain item variant into drawing primitives and
// declares the layer(s) the variant contributes to. Painters are pure
// functions of their inputs except for renderer state, which they must
// push/pop around nested drawing.
type Painter interface {
	// Layers returns the names of the layers the item contributes to,
	// in paint order.
	Layers(item any) []string
	// Paint emits the item's primitives for one of its layers.
	Paint(r graphics.Renderer, layer *Layer, item any)
}

// Entry binds an item type, given by a prototype value, to its painter.
type Entry struct {
	Prototype any
	Painter   Painter
}

// Registry maps each domain item's runtime type to its painter. It is
// built once at startup from a static entry list and never mutated
// afterwards, which makes concurrent reads safe.
type Registry struct {
	painters map[reflect.Type]Painter
}

// NewRegistry builds a registry from a static entry list.
func NewRegistry(entries []Entry) *Registry {
	painters := make(map[reflect.Type]Painter, len(entries))
	for _, e := range entries {
		t := reflect.TypeOf(e.Prototype)
		if _, dup := painters[t]; dup {
			log.Printf("view: duplicate painter for %v, keeping first", t)
			continue
		}
		painters[t] = e.Painter
	}
	return &Registry{painters: painters}
}

// LayersFor returns the layers the item belongs to. An item with no
// registered painter yields nil: it is logged and skipped, never an error.
func (reg *Registry) LayersFor(item any) []string {
	p, ok := reg.painters[reflect.TypeOf(item)]
	if !ok {
		log.Printf("view: no painter for %T, item skipped", item)
		return nil
	}
	return p.Layers(item)
}

// Paint dispatches the item to its painter for the given layer. Unknown
// item types contribute nothing.
func (reg *Registry) Paint(r graphics.Renderer, layer *Layer, item any) {
	p, ok := reg.painters[reflect.TypeOf(item)]
	if !ok {
		return
	}
	p.Paint(r, layer, item)
}
