package graphics

import (
	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
)

// TextOptions bundles the layout parameters of a text primitive.
type TextOptions struct {
	Size      geometry.Vec2
	Thickness float64
	Angle     geometry.Angle
	HAlign    HAlign
	VAlign    VAlign
	Color     Color
}

// RenderState is the renderer-local drawing state painters read and write.
// Painters must bracket nested drawing with Push/Pop so state changes never
// leak to sibling items.
type RenderState struct {
	Matrix      geometry.Matrix
	StrokeColor Color
	FillColor   Color
	StrokeWidth float64
}

// Renderer is the recording half of the graphics backend: painters emit
// primitives through it and it accumulates them into compiled layers.
//
// Layer and object brackets must be balanced. StartObject begins per-item
// bounding-box capture; EndObject returns the box of everything emitted in
// between, tagged with the object's context reference.
type Renderer interface {
	State() *RenderState
	Push()
	Pop()
	// ApplyTransform multiplies the current transform by m.
	ApplyTransform(m geometry.Matrix)

	StartLayer(name string)
	EndLayer() *CompiledLayer
	StartObject(context any)
	EndObject() geometry.BBox

	Line(points []geometry.Vec2, width float64, c Color)
	Polygon(points []geometry.Vec2, c Color)
	Circle(center geometry.Vec2, radius, width float64, c Color)
	Arc(center geometry.Vec2, radius float64, start, end geometry.Angle, width float64, c Color)
	Text(text string, at geometry.Vec2, opts TextOptions) geometry.BBox
}

// RenderTarget is the rasterizing half of the backend: it can clear the
// output surface and replay one compiled layer under a camera transform.
// Layers drawn later with a larger depth appear in front.
type RenderTarget interface {
	Clear(c Color)
	Draw(layer *CompiledLayer, camera geometry.Matrix, depth, alpha float64)
}

// CompiledLayer is the opaque result of painting one layer: an immutable
// display list in world coordinates, reused across frames until the layer's
// contents change. It is owned by exactly one layer and replaced wholesale
// on repaint, never mutated.
type CompiledLayer struct {
	name  string
	prims []Primitive
	bbox  geometry.BBox
}

// Name returns the layer name the display list was recorded under.
func (l *CompiledLayer) Name() string { return l.name }

// Primitives returns the recorded display list. Callers must not modify it.
func (l *CompiledLayer) Primitives() []Primitive { return l.prims }

// BBox returns the union extent of the display list.
func (l *CompiledLayer) BBox() geometry.BBox { return l.bbox }

// IsEmpty reports whether nothing was recorded.
func (l *CompiledLayer) IsEmpty() bool { return len(l.prims) == 0 }
