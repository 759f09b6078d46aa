package scene

import (
	"path/filepath"
	"reflect"
	"testing"

	"rtl-scope/internal/layoutfile"
	"rtl-scope/internal/sim"
	"rtl-scope/pkg/grid"
)

// routeEverything gives every wire in the tree a distinct waypoint sequence so
// the round trip below has something nontrivial to reproduce.
func routeEverything(n *Node, next *int) {
	for _, w := range n.Wires() {
		w.SetWaypoints([]grid.Point{
			grid.Pt(*next, *next+1),
			grid.Pt(*next+2, *next),
		})
		*next++
	}
	for _, c := range n.Children() {
		routeEverything(c, next)
	}
}

func collectInputWaypoints(n *Node, prefix string, out map[string][]grid.Point) {
	for _, p := range n.Inputs() {
		if w := p.IncomingWire(); w != nil {
			out[prefix+p.Name()] = w.Waypoints()
		}
	}
	for _, c := range n.Children() {
		collectInputWaypoints(c, prefix+c.Component().Name()+"/", out)
	}
}

func TestLayoutRoundTripReproducesWaypoints(t *testing.T) {
	src := demoTree(t)
	src.SetExpanded(true)
	childNamed(t, src, "alu").SetExpanded(true)

	counter := 1
	routeEverything(src, &counter)

	want := map[string][]grid.Point{}
	collectInputWaypoints(src, "", want)
	if len(want) == 0 {
		t.Fatal("no routed input wires to compare")
	}

	path, err := layoutfile.Save(filepath.Join(t.TempDir(), "demo"), src.CaptureLayout())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	doc, err := layoutfile.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	dst := demoTree(t)
	if err := dst.ApplyLayout(doc); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got := map[string][]grid.Point{}
	collectInputWaypoints(dst, "", got)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("waypoints after round trip = %v, want %v", got, want)
	}
}

func TestSubtreeLayoutRoundTrip(t *testing.T) {
	src := demoTree(t)
	src.SetExpanded(true)
	srcALU := childNamed(t, src, "alu")
	srcALU.SetExpanded(true)

	counter := 1
	routeEverything(srcALU, &counter)

	path, err := layoutfile.Save(filepath.Join(t.TempDir(), "alu"), srcALU.CaptureLayout())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	doc, err := layoutfile.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	dst := demoTree(t)
	dstALU := childNamed(t, dst, "alu")
	if err := dstALU.ApplyLayout(doc); err != nil {
		t.Fatalf("apply: %v", err)
	}

	want := map[string][]grid.Point{}
	collectInputWaypoints(srcALU, "", want)
	if len(want) == 0 {
		t.Fatal("no routed input wires to compare")
	}
	got := map[string][]grid.Point{}
	collectInputWaypoints(dstALU, "", got)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("alu waypoints after round trip = %v, want %v", got, want)
	}

	// The load was scoped to the alu subtree; the enclosing level keeps
	// its default straight routing.
	for _, w := range dst.Wires() {
		if len(w.Waypoints()) != 0 {
			t.Errorf("enclosing wire gained %d waypoints", len(w.Waypoints()))
		}
	}
}

func TestSaveAppendsExtension(t *testing.T) {
	path, err := layoutfile.Save(filepath.Join(t.TempDir(), "bare"), &layoutfile.Component{Name: "x"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Ext(path) != layoutfile.Extension {
		t.Errorf("saved path %q lacks %s extension", path, layoutfile.Extension)
	}
}

func TestApplyLayoutRejectsNameMismatch(t *testing.T) {
	root := sim.NewComponent("other", sim.TagGeneric)
	root.AddInput("a", 1)
	n, err := Build(root)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := n.ApplyLayout(&layoutfile.Component{Name: "core"}); err == nil {
		t.Error("applying a layout for a different component should fail")
	}
}

func TestApplyLayoutSkipsMissingChildren(t *testing.T) {
	root := demoTree(t)
	doc := root.CaptureLayout()
	doc.Children = append(doc.Children, layoutfile.Component{Name: "ghost"})
	if err := root.ApplyLayout(doc); err != nil {
		t.Errorf("extra child entries should be ignored, got %v", err)
	}
}
