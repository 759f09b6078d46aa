package scene

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"rtl-scope/internal/app"
	"rtl-scope/internal/scene"
	"rtl-scope/internal/sim"
	"rtl-scope/pkg/grid"
)

func newTestView(t *testing.T) *CircuitView {
	t.Helper()
	test.NewApp()
	state, err := app.NewState(sim.Demo())
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	return NewCircuitView(state)
}

func viewChild(t *testing.T, v *CircuitView, name string) *scene.Node {
	t.Helper()
	for _, c := range v.Root().Children() {
		if c.Component().Name() == name {
			return c
		}
	}
	t.Fatalf("no child named %q", name)
	return nil
}

func TestZoomIsClamped(t *testing.T) {
	v := newTestView(t)

	v.SetZoom(100)
	if v.GetZoom() != maxZoom {
		t.Errorf("zoom = %v, want clamp to %v", v.GetZoom(), maxZoom)
	}
	v.SetZoom(0.001)
	if v.GetZoom() != minZoom {
		t.Errorf("zoom = %v, want clamp to %v", v.GetZoom(), minZoom)
	}
}

func TestRebuildTracksExpansion(t *testing.T) {
	v := newTestView(t)

	// The root starts expanded, so its children have widgets.
	if len(v.widgets) != 1+len(v.Root().Children()) {
		t.Errorf("widget count = %d, want root plus %d children",
			len(v.widgets), len(v.Root().Children()))
	}

	v.Root().SetExpanded(false)
	v.Rebuild()
	if len(v.widgets) != 1 {
		t.Errorf("widget count after collapse = %d, want 1", len(v.widgets))
	}
}

func TestRebuildPrunesCollapsedSubtrees(t *testing.T) {
	v := newTestView(t)
	alu := viewChild(t, v, "alu")
	alu.SetExpanded(true)
	v.Rebuild()

	want := 1 + len(v.Root().Children()) + len(alu.Children())
	if len(v.widgets) != want {
		t.Fatalf("widget count = %d, want %d", len(v.widgets), want)
	}

	// Collapsing the root leaves the grandchildren's own visible flags
	// set; they must still fall out of the widget map.
	v.Root().SetExpanded(false)
	v.Rebuild()
	if len(v.widgets) != 1 {
		t.Errorf("widget count after root collapse = %d, want 1", len(v.widgets))
	}
}

func TestGeometryEventsRelayout(t *testing.T) {
	v := newTestView(t)
	pc := viewChild(t, v, "pc")
	w := v.widgets[pc]
	before := w.Size()

	// Resizing through the scene layer alone must reach the widget via
	// the geometry event.
	r := pc.Rect()
	pc.ResizeTo(grid.Pt(r.Right()+3, r.Bottom()+2))

	after := w.Size()
	if after.Width <= before.Width || after.Height <= before.Height {
		t.Errorf("widget size %v did not grow from %v after resize", after, before)
	}
}

func TestSelectionEventUpdatesStatus(t *testing.T) {
	v := newTestView(t)
	var status string
	v.OnStatus(func(text string) { status = text })

	pc := viewChild(t, v, "pc")
	out := pc.Outputs()[0]
	out.SetSelected(true)
	v.state.Emit(app.EventSelectionChanged, out)

	if !strings.Contains(status, "pc.out") {
		t.Errorf("status = %q, want it to name pc.out", status)
	}

	out.SetSelected(false)
	v.state.Emit(app.EventSelectionChanged, out)
	if status != "Selection cleared" {
		t.Errorf("status = %q after deselect", status)
	}
}

func TestLayoutActionsOnEveryParentNode(t *testing.T) {
	v := newTestView(t)
	var loaded, saved *scene.Node
	v.OnLayoutActions(
		func(n *scene.Node) { loaded = n },
		func(n *scene.Node) { saved = n },
	)

	alu := viewChild(t, v, "alu")
	menu := v.widgets[alu].buildMenu()

	var load, save *fyne.MenuItem
	for _, it := range menu.Items {
		switch it.Label {
		case "Load layout...":
			load = it
		case "Save layout...":
			save = it
		}
	}
	if load == nil || save == nil {
		t.Fatal("inner node with children lacks layout menu entries")
	}
	load.Action()
	save.Action()
	if loaded != alu || saved != alu {
		t.Errorf("layout actions targeted %v/%v, want the menu's node", loaded, saved)
	}

	// Leaves carry no layout entries.
	for _, it := range v.widgets[viewChild(t, v, "pc")].buildMenu().Items {
		if it.Label == "Load layout..." || it.Label == "Save layout..." {
			t.Errorf("leaf node offers %q", it.Label)
		}
	}
}

func TestOriginAccumulatesAncestors(t *testing.T) {
	v := newTestView(t)
	child := v.Root().Children()[0]

	want := v.Root().Pos().Add(child.Pos())
	if got := v.origin(child); got != want {
		t.Errorf("origin = %+v, want %+v", got, want)
	}
}

func TestZoomCallbackFires(t *testing.T) {
	v := newTestView(t)

	var got float64
	v.OnZoomChange(func(zoom float64) { got = zoom })
	v.ZoomIn()
	if got == 0 {
		t.Error("zoom callback did not fire")
	}
}
