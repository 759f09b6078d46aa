package scene

import (
	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"

	"rtl-scope/internal/scene"
	"rtl-scope/pkg/grid"
)

// wireLayer draws every visible wire as polyline segments in absolute scene
// coordinates. Wires route from the driver's output point through their
// waypoints to each sink's input point; a selection anywhere on the signal
// path highlights the whole run.
type wireLayer struct {
	view *CircuitView

	// one entry per drawn wire, regenerated on rebuild
	runs    []wireRun
	objects []fyne.CanvasObject
}

type wireRun struct {
	wire      *scene.Wire
	container *scene.Node
	segments  []*fynecanvas.Line
}

func newWireLayer(view *CircuitView) *wireLayer {
	return &wireLayer{view: view}
}

// rebuild regenerates the line objects from the visual tree. Segment counts
// depend on waypoint counts, so structural edits to routing require a
// rebuild rather than a relayout.
func (wl *wireLayer) rebuild() {
	wl.runs = wl.runs[:0]
	wl.objects = wl.objects[:0]

	var walk func(n *scene.Node)
	walk = func(n *scene.Node) {
		if !n.Visible() {
			return
		}
		// A collapsed container draws none of its interior wires.
		if !n.Expanded() {
			return
		}
		for _, w := range n.Wires() {
			if !w.Visible() {
				continue
			}
			// One polyline per sink, one segment per hop.
			run := wireRun{wire: w, container: n}
			for _, path := range wl.paths(w, n) {
				for i := 0; i+1 < len(path); i++ {
					seg := fynecanvas.NewLine(colorWire)
					run.segments = append(run.segments, seg)
					wl.objects = append(wl.objects, seg)
				}
			}
			wl.runs = append(wl.runs, run)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(wl.view.state.Root)
}

// paths returns one point sequence per sink: output point, waypoints, input
// point, all in the container's cell coordinates.
func (wl *wireLayer) paths(w *scene.Wire, container *scene.Node) [][]grid.Point {
	trunk := append([]grid.Point{w.From().OutputPointIn(container)}, w.Waypoints()...)

	out := make([][]grid.Point, 0, len(w.Sinks()))
	for _, sink := range w.Sinks() {
		path := append(append([]grid.Point{}, trunk...), sink.InputPointIn(container))
		out = append(out, path)
	}
	return out
}

// layout repositions every segment for the current zoom and geometry and
// applies path-selection highlighting.
func (wl *wireLayer) layout() {
	cell := wl.view.cell()

	for _, run := range wl.runs {
		origin := wl.view.origin(run.container)
		color := colorWire
		width := float32(1)
		if run.wire.From().PathSelected() {
			color = colorSelected
			width = 2
		}

		i := 0
		for _, path := range wl.paths(run.wire, run.container) {
			for j := 0; j+1 < len(path) && i < len(run.segments); j++ {
				a := path[j].Add(origin)
				b := path[j+1].Add(origin)
				seg := run.segments[i]
				seg.Position1 = fyne.NewPos(grid.ToScene(a.X, cell), grid.ToScene(a.Y, cell))
				seg.Position2 = fyne.NewPos(grid.ToScene(b.X, cell), grid.ToScene(b.Y, cell))
				seg.StrokeColor = color
				seg.StrokeWidth = width
				seg.Refresh()
				i++
			}
		}
		run.wire.ClearDirty()
	}
}
