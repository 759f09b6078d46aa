package scene

import (
	"rtl-scope/internal/sim"
	"rtl-scope/pkg/grid"
)

// PortGridWidth is the width of a port glyph in grid cells. Ports sit on
// the outside of the component edge, so a component's bounding box is wider
// than its grid rectangle by one cell per occupied side.
const PortGridWidth = 1

// Port is the visual state of one connection point on a component edge.
// Its position is derived from the owning node's rectangle and its grid
// index; it is never stored as an absolute coordinate.
type Port struct {
	sim   *sim.Port
	owner *Node
	index int // grid row along the owning edge, recomputed on geometry change

	in  *Wire // wire driving this port, nil if undriven
	out *Wire // wire sourced at this port, nil if it drives nothing visible

	selected     bool
	labelVisible bool
	radix        Radix

	// constant is the absorbed constant-value source feeding this port,
	// drawn as an inline annotation instead of a distinct node.
	constant *sim.Port
}

func newPort(sp *sim.Port, owner *Node) *Port {
	p := &Port{sim: sp, owner: owner, radix: RadixHex}
	if src := sp.Source(); src != nil && src.Owner().IsConstant() {
		p.constant = src
	}
	return p
}

// Name returns the simulation-side port name.
func (p *Port) Name() string { return p.sim.Name() }

// Direction returns which edge of the component the port sits on.
func (p *Port) Direction() sim.Direction { return p.sim.Direction() }

// Sim returns the underlying simulation port handle.
func (p *Port) Sim() *sim.Port { return p.sim }

// Owner returns the owning node.
func (p *Port) Owner() *Node { return p.owner }

// GridIndex returns the port's row along the owning edge.
func (p *Port) GridIndex() int { return p.index }

// IncomingWire returns the wire driving this port, or nil.
func (p *Port) IncomingWire() *Wire { return p.in }

// OutgoingWires returns the wires sourced at this port.
func (p *Port) OutgoingWires() []*Wire {
	if p.out == nil {
		return nil
	}
	return []*Wire{p.out}
}

// Constant returns the absorbed constant source feeding this port, or nil.
func (p *Port) Constant() *sim.Port { return p.constant }

// InputPoint returns the point where a wire enters the port, in the owning
// node's coordinate space.
func (p *Port) InputPoint() grid.Point {
	if p.sim.Direction() == sim.In {
		return grid.Pt(-PortGridWidth, p.index)
	}
	return grid.Pt(p.owner.rect.Width, p.index)
}

// OutputPoint returns the point where a wire leaves the port, in the owning
// node's coordinate space.
func (p *Port) OutputPoint() grid.Point {
	if p.sim.Direction() == sim.In {
		return grid.Pt(0, p.index)
	}
	return grid.Pt(p.owner.rect.Width+PortGridWidth, p.index)
}

// InputPointIn maps InputPoint into container's coordinate space. The
// container must be the port's owner or the owner's parent.
func (p *Port) InputPointIn(container *Node) grid.Point {
	if p.owner == container {
		return p.InputPoint()
	}
	return p.InputPoint().Add(p.owner.pos)
}

// OutputPointIn maps OutputPoint into container's coordinate space.
func (p *Port) OutputPointIn(container *Node) grid.Point {
	if p.owner == container {
		return p.OutputPoint()
	}
	return p.OutputPoint().Add(p.owner.pos)
}

// Selected reports whether the port itself has been picked.
func (p *Port) Selected() bool { return p.selected }

// SetSelected marks the port as directly picked and dirties the connected
// wires so the highlight is redrawn along the whole signal path.
func (p *Port) SetSelected(selected bool) {
	p.selected = selected
	for q := range p.connectionGraph() {
		if q.in != nil {
			q.in.MarkDirty()
		}
		if q.out != nil {
			q.out.MarkDirty()
		}
	}
}

// PathSelected reports whether any port reachable through this port's
// connection graph is selected. It is what drives whole-signal-path
// highlighting, distinct from direct selection.
func (p *Port) PathSelected() bool {
	for q := range p.connectionGraph() {
		if q.selected {
			return true
		}
	}
	return false
}

// connectionGraph collects every port reachable through in/out wires.
func (p *Port) connectionGraph() map[*Port]bool {
	seen := make(map[*Port]bool)
	stack := []*Port{p}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[q] {
			continue
		}
		seen[q] = true
		if q.in != nil {
			stack = append(stack, q.in.from)
			stack = append(stack, q.in.to...)
		}
		if q.out != nil {
			stack = append(stack, q.out.to...)
		}
	}
	return seen
}

// LabelVisible reports whether the value overlay is shown.
func (p *Port) LabelVisible() bool { return p.labelVisible }

// SetLabelVisible toggles the value overlay.
func (p *Port) SetLabelVisible(visible bool) { p.labelVisible = visible }

// Radix returns the display radix of the value overlay.
func (p *Port) Radix() Radix { return p.radix }

// SetRadix changes the display radix of the value overlay.
func (p *Port) SetRadix(r Radix) { p.radix = r }

// ValueText formats the port's current value in the display radix.
func (p *Port) ValueText() string {
	return p.radix.Format(p.sim.Value(), p.sim.Width())
}
