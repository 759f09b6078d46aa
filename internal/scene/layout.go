package scene

import (
	"github.com/pkg/errors"

	"rtl-scope/internal/layoutfile"
	"rtl-scope/pkg/grid"
)

// CaptureLayout serializes the node's wire routing: the waypoints of its
// own input-port wires plus, per child recursively, the child's output-port
// wires. Applying the result to a structurally identical tree reproduces
// the waypoint sequence of every wire at every level.
func (n *Node) CaptureLayout() *layoutfile.Component {
	doc := &layoutfile.Component{
		Name:  n.comp.Name(),
		Wires: make(map[string][]grid.Point),
	}
	for _, p := range n.inputs {
		if p.out != nil {
			doc.Wires[layoutfile.PortKey("in", p.Name())] = clonePoints(p.out.Waypoints())
		}
	}
	for _, c := range n.children {
		child := c.CaptureLayout()
		for _, p := range c.outputs {
			if p.out != nil {
				child.Wires[layoutfile.PortKey("out", p.Name())] = clonePoints(p.out.Waypoints())
			}
		}
		doc.Children = append(doc.Children, *child)
	}
	return doc
}

// ApplyLayout replaces the tree's wire routing with a previously captured
// document. Components are matched by name; wires present in the tree but
// absent from the document keep their current routing.
func (n *Node) ApplyLayout(doc *layoutfile.Component) error {
	if doc.Name != n.comp.Name() {
		return errors.Errorf("layout is for component %q, not %q", doc.Name, n.comp.Name())
	}

	for _, p := range n.inputs {
		if p.out == nil {
			continue
		}
		if wp, ok := doc.Wires[layoutfile.PortKey("in", p.Name())]; ok {
			p.out.SetWaypoints(wp)
		}
	}
	for _, c := range n.children {
		child := doc.Child(c.comp.Name())
		if child == nil {
			continue
		}
		for _, p := range c.outputs {
			if p.out == nil {
				continue
			}
			if wp, ok := child.Wires[layoutfile.PortKey("out", p.Name())]; ok {
				p.out.SetWaypoints(wp)
			}
		}
		if err := c.ApplyLayout(child); err != nil {
			return err
		}
	}
	return nil
}

func clonePoints(points []grid.Point) []grid.Point {
	out := make([]grid.Point, len(points))
	copy(out, points)
	return out
}
