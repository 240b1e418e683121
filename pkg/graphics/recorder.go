package graphics

import (
	"log"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
)

// Recorder is the standard Renderer implementation. It bakes the transform
// stack into every primitive at record time, so compiled layers hold plain
// world-space geometry that any target can replay.
type Recorder struct {
	states []RenderState

	layerName string
	inLayer   bool
	prims     []Primitive

	objStart   int
	objContext any
	inObject   bool
}

// NewRecorder returns a Recorder with identity transform and transparent
// colors.
func NewRecorder() *Recorder {
	return &Recorder{
		states: []RenderState{{Matrix: geometry.Identity(), StrokeWidth: 0}},
	}
}

// State returns the current mutable render state.
func (r *Recorder) State() *RenderState {
	return &r.states[len(r.states)-1]
}

// Push saves the current render state.
func (r *Recorder) Push() {
	r.states = append(r.states, *r.State())
}

// Pop restores the most recently pushed state. Popping the root state is a
// programming error and is logged rather than faulted.
func (r *Recorder) Pop() {
	if len(r.states) <= 1 {
		log.Printf("graphics: render state stack underflow")
		return
	}
	r.states = r.states[:len(r.states)-1]
}

// ApplyTransform multiplies the current transform by m.
func (r *Recorder) ApplyTransform(m geometry.Matrix) {
	st := r.State()
	st.Matrix = st.Matrix.Mul(m)
}

// StartLayer begins recording a new compiled layer.
func (r *Recorder) StartLayer(name string) {
	if r.inLayer {
		log.Printf("graphics: StartLayer(%q) while layer %q still open", name, r.layerName)
	}
	r.layerName = name
	r.inLayer = true
	r.prims = nil
}

// EndLayer finishes recording and returns the compiled layer.
func (r *Recorder) EndLayer() *CompiledLayer {
	bbox := geometry.InvalidBBox()
	for _, p := range r.prims {
		bbox = bbox.Union(p.BBox())
	}
	out := &CompiledLayer{name: r.layerName, prims: r.prims, bbox: bbox}
	r.prims = nil
	r.inLayer = false
	return out
}

// StartObject begins bounding-box capture for one domain item.
func (r *Recorder) StartObject(context any) {
	r.objStart = len(r.prims)
	r.objContext = context
	r.inObject = true
}

// EndObject returns the box of everything emitted since StartObject,
// carrying the object's context reference.
func (r *Recorder) EndObject() geometry.BBox {
	bbox := geometry.InvalidBBox()
	for _, p := range r.prims[r.objStart:] {
		bbox = bbox.Union(p.BBox())
	}
	bbox.Context = r.objContext
	r.objContext = nil
	r.inObject = false
	return bbox
}

// Line records a stroked polyline. A zero width falls back to the current
// stroke width; a transparent color to the current stroke color.
func (r *Recorder) Line(points []geometry.Vec2, width float64, c Color) {
	if len(points) < 2 {
		return
	}
	st := r.State()
	if width <= 0 {
		width = st.StrokeWidth
	}
	if c.IsTransparent() {
		c = st.StrokeColor
	}
	r.record(LineShape{
		Points: st.Matrix.TransformAll(points),
		Width:  width * st.Matrix.AbsScale(),
		Color:  c,
	})
}

// Polygon records a filled polygon. A transparent color falls back to the
// current fill color.
func (r *Recorder) Polygon(points []geometry.Vec2, c Color) {
	if len(points) < 3 {
		return
	}
	st := r.State()
	if c.IsTransparent() {
		c = st.FillColor
	}
	r.record(PolygonShape{
		Points: st.Matrix.TransformAll(points),
		Color:  c,
	})
}

// Circle records a circle, stroked when width > 0 and filled otherwise.
func (r *Recorder) Circle(center geometry.Vec2, radius, width float64, c Color) {
	st := r.State()
	if c.IsTransparent() {
		if width > 0 {
			c = st.StrokeColor
		} else {
			c = st.FillColor
		}
	}
	scale := st.Matrix.AbsScale()
	r.record(CircleShape{
		Center: st.Matrix.Transform(center),
		Radius: radius * scale,
		Width:  width * scale,
		Color:  c,
	})
}

// Arc records a stroked arc.
func (r *Recorder) Arc(center geometry.Vec2, radius float64, start, end geometry.Angle, width float64, c Color) {
	st := r.State()
	if width <= 0 {
		width = st.StrokeWidth
	}
	if c.IsTransparent() {
		c = st.StrokeColor
	}
	scale := st.Matrix.AbsScale()
	rot := st.Matrix.RotationAngle()
	r.record(ArcShape{
		Center: st.Matrix.Transform(center),
		Radius: radius * scale,
		Start:  (start + rot).Normalize(),
		End:    (end + rot).Normalize(),
		Width:  width * scale,
		Color:  c,
	})
}

// Text records shaped text and returns its world-space box.
func (r *Recorder) Text(text string, at geometry.Vec2, opts TextOptions) geometry.BBox {
	st := r.State()
	c := opts.Color
	if c.IsTransparent() {
		c = st.StrokeColor
	}
	shape := TextShape{
		Matrix:    st.Matrix,
		Text:      text,
		At:        at,
		Size:      opts.Size,
		Thickness: opts.Thickness,
		Angle:     opts.Angle.NormalizeForText(),
		HAlign:    opts.HAlign,
		VAlign:    opts.VAlign,
		Color:     c,
	}
	r.record(shape)
	return shape.BBox()
}

func (r *Recorder) record(p Primitive) {
	if !r.inLayer {
		log.Printf("graphics: primitive recorded outside a layer, dropped")
		return
	}
	r.prims = append(r.prims, p)
}
