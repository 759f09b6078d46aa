// Package scene renders the visual component tree and handles interaction:
// drag-move, drag-resize, expand toggles, port selection, value overlays,
// and the per-component context menu.
package scene

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"rtl-scope/internal/app"
	"rtl-scope/internal/scene"
	"rtl-scope/pkg/grid"
)

const (
	minZoom  = 0.25
	maxZoom  = 8.0
	zoomStep = 1.25
)

// CircuitView displays the visual tree inside a zoomable scroll viewport.
// Wheel input zooms; the scrollbars pan.
type CircuitView struct {
	widget.BaseWidget

	state *app.State
	win   fyne.Window

	zoom float64

	content *fyne.Container // absolute positioning, rebuilt on demand
	scroll  *zoomScroll

	widgets map[*scene.Node]*componentWidget
	wires   *wireLayer

	onZoomChange func(zoom float64)
	onStatus     func(text string)
	onLoadLayout func(n *scene.Node)
	onSaveLayout func(n *scene.Node)
}

// zoomScroll wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	view   *CircuitView
}

func newZoomScroll(content fyne.CanvasObject, view *CircuitView) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, view: view}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.view.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.view.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// NewCircuitView creates a view over the state's visual tree. The root node
// starts expanded so the circuit is visible on first show.
func NewCircuitView(state *app.State) *CircuitView {
	v := &CircuitView{
		state:   state,
		zoom:    1.0,
		widgets: make(map[*scene.Node]*componentWidget),
	}
	v.content = container.NewWithoutLayout()
	v.wires = newWireLayer(v)
	v.scroll = newZoomScroll(v.content, v)
	v.ExtendBaseWidget(v)

	state.Root.SetExpanded(true)
	state.On(app.EventValuesChanged, func(interface{}) { v.refreshLabels() })
	state.On(app.EventLayoutLoaded, func(interface{}) { v.Rebuild() })
	state.On(app.EventGeometryChanged, func(interface{}) { v.layout() })
	state.On(app.EventSelectionChanged, func(data interface{}) {
		if p, ok := data.(*scene.Port); ok {
			if p.Selected() {
				v.status("Selected " + p.Owner().Component().Name() + "." + p.Name())
			} else {
				v.status("Selection cleared")
			}
		}
		v.refreshWires()
	})

	v.Rebuild()
	return v
}

func (v *CircuitView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.scroll)
}

// SetWindow attaches the window used for dialogs and popup menus.
func (v *CircuitView) SetWindow(win fyne.Window) { v.win = win }

// Container returns the view for embedding in layouts.
func (v *CircuitView) Container() fyne.CanvasObject { return v }

// Root returns the visual tree root.
func (v *CircuitView) Root() *scene.Node { return v.state.Root }

// OnZoomChange sets a callback for zoom changes.
func (v *CircuitView) OnZoomChange(callback func(zoom float64)) {
	v.onZoomChange = callback
}

// OnStatus sets a callback for status line updates.
func (v *CircuitView) OnStatus(callback func(text string)) {
	v.onStatus = callback
}

// OnLayoutActions sets the handlers behind the context menu's load and save
// entries. Every node with children carries them; the handler receives the
// node whose subtree the layout applies to. The window owns the file dialogs.
func (v *CircuitView) OnLayoutActions(load, save func(n *scene.Node)) {
	v.onLoadLayout = load
	v.onSaveLayout = save
}

func (v *CircuitView) status(text string) {
	if v.onStatus != nil {
		v.onStatus(text)
	}
}

// cell returns the scene extent of one grid cell at the current zoom.
func (v *CircuitView) cell() float32 {
	return float32(grid.CellSize * v.zoom)
}

// SetZoom sets the zoom level and relays out the whole scene.
func (v *CircuitView) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	v.zoom = zoom
	v.layout()

	if v.onZoomChange != nil {
		v.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (v *CircuitView) GetZoom() float64 { return v.zoom }

// ZoomIn increases the zoom level.
func (v *CircuitView) ZoomIn() { v.SetZoom(v.zoom * zoomStep) }

// ZoomOut decreases the zoom level.
func (v *CircuitView) ZoomOut() { v.SetZoom(v.zoom / zoomStep) }

// ActualSize resets the zoom to 1:1.
func (v *CircuitView) ActualSize() { v.SetZoom(1.0) }

// SetOutputLabelsVisible shows or hides output value overlays tree-wide.
func (v *CircuitView) SetOutputLabelsVisible(visible bool) {
	var walk func(n *scene.Node)
	walk = func(n *scene.Node) {
		n.SetOutputLabelsVisible(visible)
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(v.state.Root)
	v.Rebuild()
}

// SetLocked locks or unlocks the whole tree.
func (v *CircuitView) SetLocked(locked bool) {
	v.state.Root.SetLocked(locked)
	v.Rebuild()
}

// origin returns a node's absolute position in cells, accumulated from its
// ancestor chain.
func (v *CircuitView) origin(n *scene.Node) grid.Point {
	p := grid.Pt(0, 0)
	for cur := n; cur != nil; cur = cur.Parent() {
		p = p.Add(cur.Pos())
	}
	return p
}

// Rebuild recreates the canvas objects from the visual tree. Called after
// structural changes: expand/collapse, hide, lock, layout load.
func (v *CircuitView) Rebuild() {
	v.content.Objects = nil

	// Keep only widgets the walk still reaches. A visible grandchild under
	// a collapsed ancestor is unreachable and must not be laid out.
	reached := make(map[*scene.Node]*componentWidget, len(v.widgets))
	var walk func(n *scene.Node)
	walk = func(n *scene.Node) {
		if !n.Visible() {
			return
		}
		w, ok := v.widgets[n]
		if !ok {
			w = newComponentWidget(v, n)
		}
		reached[n] = w
		v.content.Add(w)
		if n.Expanded() {
			for _, c := range n.Children() {
				walk(c)
			}
		}
	}
	walk(v.state.Root)
	v.widgets = reached

	v.wires.rebuild()
	for _, obj := range v.wires.objects {
		v.content.Add(obj)
	}
	v.layout()
}

// layout repositions every widget and redraws the wires for the current
// zoom and node geometry. Cheaper than Rebuild; used on move and resize.
func (v *CircuitView) layout() {
	cell := v.cell()
	bottomRight := fyne.NewPos(0, 0)

	for n, w := range v.widgets {
		bb := n.BoundingGridRect()
		origin := v.origin(n)
		pos := fyne.NewPos(
			grid.ToScene(origin.X+bb.X, cell),
			grid.ToScene(origin.Y+bb.Y, cell),
		)
		size := fyne.NewSize(grid.ToScene(bb.Width, cell), grid.ToScene(bb.Height, cell))
		w.Move(pos)
		w.Resize(size)
		w.Refresh()

		if right := pos.X + size.Width; right > bottomRight.X {
			bottomRight.X = right
		}
		if bottom := pos.Y + size.Height; bottom > bottomRight.Y {
			bottomRight.Y = bottom
		}
	}

	v.wires.layout()

	// Pad so a component dragged to the edge still has room.
	v.content.Resize(fyne.NewSize(bottomRight.X+4*cell, bottomRight.Y+4*cell))
	v.content.Refresh()
	v.scroll.Refresh()
}

// refreshLabels redraws only the value overlays after a simulation value
// change.
func (v *CircuitView) refreshLabels() {
	for _, w := range v.widgets {
		w.refreshValues()
	}
}

// refreshWires redraws the wire layer, after waypoint edits or selection
// changes.
func (v *CircuitView) refreshWires() {
	v.wires.layout()
}

var _ fyne.Widget = (*CircuitView)(nil)
