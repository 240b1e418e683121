package view

import (
	"errors"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
	"github.com/OpenTraceLab/TraceCanvas/pkg/graphics"
)

// Alpha applied to non-highlighted layers while any layer is highlighted.
const dimmedAlpha = 0.25

// World-unit margin added around a selection before zooming to it, and
// around the selection box drawn on the overlay.
const (
	selectionZoomMargin = 10.0
	selectionBoxMargin  = 1.5
	selectionBoxWidth   = 0.5
)

// ErrNotSetUp is reported when load is attempted before Setup completed.
var ErrNotSetUp = errors.New("view: viewer not set up")

// SelectEvent carries the newly selected and previously selected item
// back-references; either may be nil.
type SelectEvent struct {
	Item     any
	Previous any
}

// LoadResult is a one-shot result cell for the first document load. It is
// created once per viewer and not re-armed for subsequent loads: a second
// load's outcome is not observable through it.
type LoadResult struct {
	done    chan struct{}
	err     error
	settled bool
}

func newLoadResult() *LoadResult {
	return &LoadResult{done: make(chan struct{})}
}

// Done is closed when the first load settles, successfully or not.
func (lr *LoadResult) Done() <-chan struct{} { return lr.done }

// Err returns the load error, valid once Done is closed.
func (lr *LoadResult) Err() error { return lr.err }

func (lr *LoadResult) settle(err error) {
	if lr.settled {
		return
	}
	lr.settled = true
	lr.err = err
	close(lr.done)
}

// Viewer orchestrates setup, per-frame drawing, mouse tracking, picking,
// and selection over a layered scene. It is single-threaded and
// event-driven: input handlers mutate state and schedule frames, and the
// host replays the scene when the frame fires.
type Viewer struct {
	registry *Registry
	recorder *graphics.Recorder

	viewport *Viewport
	layers   *LayerSet

	// Selection is a bbox snapshot copied at pick time; its Context
	// back-reference identifies the selected item.
	selection *geometry.BBox

	mouseWorld geometry.Vec2
	mouseKnown bool

	framePending bool
	requestFrame func()
	deferred     []func()

	isSetUp  bool
	disposed bool
	loaded   *LoadResult

	// Colors the concrete viewer configures before first draw.
	Background   graphics.Color
	OverlayColor graphics.Color

	onLoad      []func()
	onSelect    []func(SelectEvent)
	onMouseMove []func(geometry.Vec2)
}

// NewViewer creates a viewer over the given painter registry.
func NewViewer(registry *Registry) *Viewer {
	return &Viewer{
		registry:     registry,
		recorder:     graphics.NewRecorder(),
		loaded:       newLoadResult(),
		Background:   graphics.White,
		OverlayColor: graphics.Color{R: 0.1, G: 0.5, B: 1.0, A: 0.8},
	}
}

// Setup prepares the viewer: it constructs the viewport, wires its change
// callback to frame scheduling, and records the host's frame-request
// callback. It must complete before Load or drawing are meaningful.
func (v *Viewer) Setup(width, height float64, requestFrame func()) {
	v.viewport = NewViewport(width, height)
	v.viewport.SetOnChange(v.ScheduleDraw)
	v.viewport.EnablePanAndZoom(0.1, 1000.0)
	v.requestFrame = requestFrame
	v.isSetUp = true
}

// IsSetUp reports whether Setup has completed.
func (v *Viewer) IsSetUp() bool { return v.isSetUp }

// Viewport returns the viewport, nil before Setup.
func (v *Viewer) Viewport() *Viewport { return v.viewport }

// Layers returns the layer set of the loaded document, nil before load.
func (v *Viewer) Layers() *LayerSet { return v.layers }

// Loaded returns the one-shot result cell of the first load.
func (v *Viewer) Loaded() *LoadResult { return v.loaded }

// OnLoad registers a handler dispatched after each successful load.
func (v *Viewer) OnLoad(f func()) { v.onLoad = append(v.onLoad, f) }

// OnSelect registers a handler for selection changes.
func (v *Viewer) OnSelect(f func(SelectEvent)) { v.onSelect = append(v.onSelect, f) }

// OnMouseMove registers a handler for world-space mouse movement.
func (v *Viewer) OnMouseMove(f func(geometry.Vec2)) { v.onMouseMove = append(v.onMouseMove, f) }

// LoadItems partitions the document's items into layers by painter
// dispatch, paints every layer once, and replaces the previous layer set.
// Concrete viewers call it from their Load after parsing the source.
func (v *Viewer) LoadItems(items []any, displayOrder []string) error {
	if !v.isSetUp {
		return ErrNotSetUp
	}

	ls := NewLayerSet(displayOrder...)
	for _, item := range items {
		for _, name := range v.registry.LayersFor(item) {
			ls.Layer(name).AddItem(item)
		}
	}
	for _, layer := range ls.InDisplayOrder() {
		if layer == ls.Overlay() {
			continue
		}
		v.paintLayer(layer)
	}

	v.layers = ls
	v.selection = nil
	v.mouseKnown = false
	v.ScheduleDraw()
	return nil
}

// FinishLoad settles the one-shot load cell and, on success, dispatches
// the load event. Layers are only ever replaced by a successful
// LoadItems, so a failed load leaves no partial document visible.
func (v *Viewer) FinishLoad(err error) {
	if err != nil {
		v.loaded.settle(err)
		return
	}
	v.loaded.settle(nil)
	for _, f := range v.onLoad {
		f()
	}
}

// paintLayer repaints one layer's compiled graphics from its items,
// capturing each item's painted box for picking. The compiled object is
// replaced wholesale.
func (v *Viewer) paintLayer(layer *Layer) {
	r := v.recorder
	*r.State() = graphics.RenderState{Matrix: geometry.Identity()}

	r.StartLayer(layer.Name())
	layer.ResetPainted()
	for _, item := range layer.Items() {
		r.StartObject(item)
		v.registry.Paint(r, layer, item)
		if bbox := r.EndObject(); bbox.IsValid() {
			layer.RecordBBox(item, bbox)
		}
	}
	layer.SetGraphics(r.EndLayer())
}

// PointerMoved recomputes the world-space mouse position from a screen
// position. The mouse-move event fires only when the world position
// actually changed.
func (v *Viewer) PointerMoved(screen geometry.Vec2) {
	if !v.isSetUp || v.disposed {
		return
	}
	world := v.viewport.ScreenToWorld(screen)
	if v.mouseKnown && world == v.mouseWorld {
		return
	}
	v.mouseWorld = world
	v.mouseKnown = true
	for _, f := range v.onMouseMove {
		f(world)
	}
}

// MouseWorld returns the last known world-space mouse position.
func (v *Viewer) MouseWorld() geometry.Vec2 { return v.mouseWorld }

// Click picks the topmost item under the given screen position and
// selects it; a miss clears the selection.
func (v *Viewer) Click(screen geometry.Vec2) {
	if !v.isSetUp || v.disposed || v.layers == nil {
		return
	}
	world := v.viewport.ScreenToWorld(screen)
	hits := v.layers.QueryPoint(world)
	if len(hits) == 0 {
		v.Select(nil)
		return
	}
	v.Select(hits[0].Item)
}

// Select sets the selection to the given item, or clears it when nil. The
// viewer keeps its own bbox snapshot, decoupled from the live item. The
// select event fires synchronously; the overlay repaint is deferred to run
// after the current synchronous phase, so painting never reenters while
// selection state is still being mutated.
func (v *Viewer) Select(item any) {
	if v.layers == nil {
		return
	}

	var previous any
	if v.selection != nil {
		previous = v.selection.Context
	}

	v.selection = nil
	if item != nil {
		if bbox, ok := v.findItemBBox(item); ok {
			snapshot := bbox.Copy()
			v.selection = &snapshot
		}
	}

	ev := SelectEvent{Previous: previous}
	if v.selection != nil {
		ev.Item = v.selection.Context
	}
	for _, f := range v.onSelect {
		f(ev)
	}

	v.deferNextFrame(v.paintOverlay)
	v.ScheduleDraw()
}

// Selected returns the selected item's back-reference, nil when nothing
// is selected.
func (v *Viewer) Selected() any {
	if v.selection == nil {
		return nil
	}
	return v.selection.Context
}

// SelectionBBox returns a copy of the selection snapshot.
func (v *Viewer) SelectionBBox() (geometry.BBox, bool) {
	if v.selection == nil {
		return geometry.BBox{}, false
	}
	return v.selection.Copy(), true
}

// findItemBBox unions the item's boxes across every content layer, since
// one item may contribute to several (a symbol spans body, pin and field
// layers).
func (v *Viewer) findItemBBox(item any) (geometry.BBox, bool) {
	var union geometry.BBox
	found := false
	for _, layer := range v.layers.InDisplayOrder() {
		if layer == v.layers.Overlay() {
			continue
		}
		bbox, ok := layer.ItemBBox(item)
		if !ok {
			continue
		}
		if !found {
			union = bbox
			found = true
			continue
		}
		union = union.Union(bbox)
	}
	return union, found
}

// paintOverlay repaints the selection-feedback layer from the current
// selection snapshot.
func (v *Viewer) paintOverlay() {
	if v.layers == nil {
		return
	}
	r := v.recorder
	*r.State() = graphics.RenderState{Matrix: geometry.Identity()}

	overlay := v.layers.Overlay()
	r.StartLayer(overlay.Name())
	overlay.ResetPainted()
	if v.selection != nil {
		box := v.selection.Grow(selectionBoxMargin)
		outline := []geometry.Vec2{
			box.Start(), box.TopRight(), box.End(), box.BottomLeft(), box.Start(),
		}
		r.Line(outline, selectionBoxWidth, v.OverlayColor)
	}
	overlay.SetGraphics(r.EndLayer())
}

// ZoomToSelection frames the selection with a fixed margin. No-op when
// nothing is selected.
func (v *Viewer) ZoomToSelection() {
	if v.selection == nil || !v.isSetUp {
		return
	}
	v.viewport.FitBBox(v.selection.Grow(selectionZoomMargin))
}

// ScheduleDraw requests one frame. Multiple calls before the frame fires
// coalesce: only the first invokes the host's frame request. Before Setup
// there is no host to ask, so the call is a no-op.
func (v *Viewer) ScheduleDraw() {
	if v.disposed || !v.isSetUp || v.framePending {
		return
	}
	v.framePending = true
	if v.requestFrame != nil {
		v.requestFrame()
	}
}

// RenderFrame performs the scheduled draw: it runs deferred work, clears
// the target, and replays the layers in display order. Before setup or
// load this is a silent no-op; after Dispose it detects the torn-down
// state and does nothing.
func (v *Viewer) RenderFrame(target graphics.RenderTarget) {
	if v.disposed || !v.isSetUp {
		return
	}
	v.framePending = false
	v.runDeferred()

	target.Clear(v.Background)
	if v.layers == nil {
		return
	}

	camera := v.viewport.Camera().Matrix()
	anyHighlighted := v.layers.IsAnyLayerHighlighted()
	overlay := v.layers.Overlay()

	depth := 0.0
	for _, layer := range v.layers.InDisplayOrder() {
		if !layer.Visible {
			continue
		}
		gfx := layer.Graphics()
		if gfx == nil || gfx.IsEmpty() {
			continue
		}
		depth += 1.0

		alpha := layer.Opacity
		if anyHighlighted && !layer.Highlighted && layer != overlay {
			alpha = dimmedAlpha
		}
		target.Draw(gfx, camera, depth, alpha)
	}
}

// Dispose tears the viewer down. Any scheduled frame that fires afterwards
// no-ops; the host must also deregister its input forwarding.
func (v *Viewer) Dispose() {
	v.disposed = true
	v.layers = nil
	v.selection = nil
	v.deferred = nil
	v.requestFrame = nil
}

// IsDisposed reports whether Dispose has been called.
func (v *Viewer) IsDisposed() bool { return v.disposed }

// deferNextFrame queues work to run at the start of the next frame, after the
// current synchronous phase completes.
func (v *Viewer) deferNextFrame(f func()) {
	v.deferred = append(v.deferred, f)
}

func (v *Viewer) runDeferred() {
	queued := v.deferred
	v.deferred = nil
	for _, f := range queued {
		f()
	}
}
