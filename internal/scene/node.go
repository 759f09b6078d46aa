// Package scene owns the visual hierarchy mirroring a simulation graph: the
// recursive grid-coordinate layout algorithm, the expand/collapse state
// machine, move clamping and resize snapping, and wire bookkeeping. It is
// pure geometry; rendering and input live in ui/scene.
package scene

import (
	"math"

	"rtl-scope/internal/place"
	"rtl-scope/internal/shape"
	"rtl-scope/internal/sim"
	"rtl-scope/pkg/grid"
)

// GeometryChange is the reason a geometry recomputation runs. It selects
// the sizing branch and decides whether the change propagates to the parent.
type GeometryChange int

const (
	ChangeNone GeometryChange = iota
	ChangeResize
	ChangeExpand
	ChangeCollapse
	ChangeChildExpanded
	ChangeChildCollapsed
)

// nameCharsPerCell is the width allowance for the display name: two
// characters of the name widen the collapsed component by one cell.
const nameCharsPerCell = 2

// Node is the visual element for one simulation component. A parent node
// exclusively owns its children; the parent pointer is a non-owning
// back-reference.
type Node struct {
	comp   *sim.Component
	parent *Node

	children []*Node
	inputs   []*Port
	outputs  []*Port
	wires    []*Wire // wires drawn inside this node

	minRect grid.Rect  // intrinsic size from the shape registry
	rect    grid.Rect  // current size, anchored at the local origin
	pos     grid.Point // position within the parent

	expanded bool
	locked   bool
	visible  bool

	// restrictChildren is lifted only during this node's own placement
	// pass, so freshly placed children are not clamped against a rectangle
	// that has not been computed yet.
	restrictChildren bool
	initialized      bool

	outline    []shape.Vertex
	gridPoints []grid.Point // interior overlay, valid only while expanded

	// lookup maps simulation ports to scene ports across the whole tree.
	// Created at the root, shared by reference.
	lookup map[*sim.Port]*Port

	onGeometry func(*Node)
}

// NewNode mirrors a simulation component into an uninitialized node. Every
// special-port role the component's visual variant requires must be bound
// on the simulation side; a missing binding is a fatal configuration error.
func NewNode(c *sim.Component, parent *Node) (*Node, error) {
	for _, role := range shape.Lookup(c.Tag()).Roles {
		if c.SpecialPort(role) == nil {
			return nil, c.Errorf("special port %q not bound", role)
		}
	}

	n := &Node{
		comp:    c,
		parent:  parent,
		minRect: shape.MinRect(c.Tag()),
	}
	if parent != nil {
		n.lookup = parent.lookup
	} else {
		n.lookup = make(map[*sim.Port]*Port)
	}
	return n, nil
}

// Build mirrors a simulation component into a fully initialized visual tree.
func Build(c *sim.Component) (*Node, error) {
	n, err := NewNode(c, nil)
	if err != nil {
		return nil, err
	}
	if err := n.Initialize(); err != nil {
		return nil, err
	}
	return n, nil
}

// Initialize creates the node's ports, recursively instantiates child nodes
// for the component's subcomponents (constant sources are absorbed into the
// port they feed), wires them up, runs the placement collaborator, and
// leaves the node collapsed.
func (n *Node) Initialize() error {
	if n.initialized {
		return nil
	}

	for _, sp := range n.comp.Ports(sim.In) {
		p := newPort(sp, n)
		n.inputs = append(n.inputs, p)
		n.lookup[sp] = p
	}
	for _, sp := range n.comp.Ports(sim.Out) {
		p := newPort(sp, n)
		n.outputs = append(n.outputs, p)
		n.lookup[sp] = p
	}

	n.restrictChildren = false
	if len(n.comp.SubComponents()) > 0 {
		if err := n.createChildren(); err != nil {
			return err
		}
		n.connectWires()
		n.placeChildren()
	}
	n.SetExpanded(false)
	n.restrictChildren = true

	n.visible = true
	n.initialized = true
	return nil
}

func (n *Node) createChildren() error {
	for _, sub := range n.comp.SubComponents() {
		if sub.IsConstant() {
			// Drawn as an inline annotation on the port it feeds.
			continue
		}
		child, err := NewNode(sub, n)
		if err != nil {
			return err
		}
		if err := child.Initialize(); err != nil {
			return err
		}
		n.children = append(n.children, child)
	}
	return nil
}

// connectWires builds the wires drawn inside this node: from its own input
// ports and its children's output ports to the sinks that resolve within
// this level of the hierarchy.
func (n *Node) connectWires() {
	sources := make([]*Port, 0, len(n.inputs))
	sources = append(sources, n.inputs...)
	for _, c := range n.children {
		sources = append(sources, c.outputs...)
	}

	for _, src := range sources {
		var sinks []*Port
		for _, sp := range src.sim.Sinks() {
			q, ok := n.lookup[sp]
			if !ok {
				continue
			}
			if q.owner == n || q.owner.parent == n {
				sinks = append(sinks, q)
			}
		}
		if len(sinks) == 0 {
			continue
		}
		w := &Wire{from: src, to: sinks, visible: true}
		src.out = w
		for _, s := range sinks {
			s.in = w
		}
		n.wires = append(n.wires, w)
	}
}

// placeChildren asks the placement collaborator for one position per child.
func (n *Node) placeChildren() {
	sizes := make([]grid.Rect, len(n.children))
	index := make(map[*Node]int, len(n.children))
	for i, c := range n.children {
		sizes[i] = c.BoundingGridRect()
		index[c] = i
	}

	var edges [][2]int
	for i, c := range n.children {
		for _, p := range c.outputs {
			for _, sp := range p.sim.Sinks() {
				q, ok := n.lookup[sp]
				if !ok {
					continue
				}
				if j, sibling := index[q.owner]; sibling && j != i {
					edges = append(edges, [2]int{i, j})
				}
			}
		}
	}

	for i, pos := range place.Assign(sizes, edges) {
		n.children[i].pos = pos
	}
}

// HasChildren reports whether the node has visual subcomponents.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// Component returns the mirrored simulation component.
func (n *Node) Component() *sim.Component { return n.comp }

// Parent returns the enclosing node, nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the owned child nodes in creation order.
func (n *Node) Children() []*Node { return n.children }

// Inputs returns the input ports in definition order.
func (n *Node) Inputs() []*Port { return n.inputs }

// Outputs returns the output ports in definition order.
func (n *Node) Outputs() []*Port { return n.outputs }

// Wires returns the wires drawn inside this node.
func (n *Node) Wires() []*Wire { return n.wires }

// Rect returns the current grid rectangle, anchored at the local origin.
func (n *Node) Rect() grid.Rect { return n.rect }

// MinRect returns the intrinsic minimum rectangle from the shape registry.
func (n *Node) MinRect() grid.Rect { return n.minRect }

// Pos returns the node's position within its parent.
func (n *Node) Pos() grid.Point { return n.pos }

// SetPos places the node within its parent without clamping. Used when
// replaying a persisted layout.
func (n *Node) SetPos(p grid.Point) {
	n.pos = p
	n.markWiresDirty()
}

// Expanded reports whether the node currently shows its children.
func (n *Node) Expanded() bool { return n.expanded }

// Visible reports whether the node is drawn at all.
func (n *Node) Visible() bool { return n.visible }

// SetVisible shows or hides the node (the "Hide" context action).
func (n *Node) SetVisible(visible bool) { n.visible = visible }

// Locked reports whether interactive affordances are suppressed.
func (n *Node) Locked() bool { return n.locked }

// SetLocked locks or unlocks the node and its subtree. Locking hides the
// expand toggle and disables the context menu, movement, and resizing.
func (n *Node) SetLocked(locked bool) {
	n.locked = locked
	for _, c := range n.children {
		c.SetLocked(locked)
	}
}

// GridPoints returns the interior grid overlay points. Valid only while the
// node is expanded.
func (n *Node) GridPoints() []grid.Point { return n.gridPoints }

// Outline returns the draw shape scaled to the current rectangle, in
// fractional cell coordinates.
func (n *Node) Outline() []shape.Vertex { return n.outline }

// SpecialPorts returns the scene ports bound to the variant's special
// roles, keyed by role name.
func (n *Node) SpecialPorts() map[string]*Port {
	roles := shape.Lookup(n.comp.Tag()).Roles
	if len(roles) == 0 {
		return nil
	}
	out := make(map[string]*Port, len(roles))
	for _, role := range roles {
		if p := n.lookup[n.comp.SpecialPort(role)]; p != nil {
			out[role] = p
		}
	}
	return out
}

// OnGeometry registers a hook invoked after every geometry recomputation.
func (n *Node) OnGeometry(fn func(*Node)) { n.onGeometry = fn }

// PortOf returns the scene port mirroring a simulation port, or nil.
func (n *Node) PortOf(sp *sim.Port) *Port { return n.lookup[sp] }

// SetExpanded drives the expand/collapse state machine. Expanding a node
// without children is rejected; collapsing one is a plain geometry pass
// (used once during initialization to size the node).
func (n *Node) SetExpanded(state bool) {
	if !n.HasChildren() {
		if state {
			return
		}
		n.expanded = false
		n.UpdateGeometry(grid.Rect{}, ChangeNone)
		return
	}

	n.expanded = state
	for _, c := range n.children {
		c.visible = state
	}
	// Input ports stay drawn while collapsed, but every interior wire,
	// whether sourced at an own input or at a child output, runs inside
	// the component and must hide with it.
	for _, w := range n.wires {
		w.SetVisible(state)
	}

	reason := ChangeCollapse
	if state {
		reason = ChangeExpand
	}
	n.UpdateGeometry(grid.Rect{}, reason)
}

// ToggleChecked mirrors the expand toggle's checked state.
func (n *Node) ToggleChecked() bool { return n.expanded }

// adjustedMinRect is the intrinsic minimum rectangle grown so its height
// covers the larger port count plus a one-cell margin top and bottom, and,
// when includePorts is set, widened by the port columns on each occupied
// side (the footprint the placement collaborator sees).
func (n *Node) adjustedMinRect(includePorts bool) grid.Rect {
	r := n.minRect
	largest := len(n.inputs)
	if len(n.outputs) > largest {
		largest = len(n.outputs)
	}
	if add := largest + 2 - r.Height; add > 0 {
		r.Height += add
	}
	if includePorts {
		if len(n.inputs) > 0 {
			r.Width += PortGridWidth
		}
		if len(n.outputs) > 0 {
			r.Width += PortGridWidth
		}
	}
	return r
}

// BoundingGridRect returns the node's footprint in its parent's units,
// anchored at the local origin: the grid rectangle plus the port columns.
func (n *Node) BoundingGridRect() grid.Rect {
	r := n.rect
	if len(n.inputs) > 0 {
		r.X -= PortGridWidth
		r.Width += PortGridWidth
	}
	if len(n.outputs) > 0 {
		r.Width += PortGridWidth
	}
	return r
}

// childBoundingRect is the extent of the children's footprints from the
// local origin.
func (n *Node) childBoundingRect() grid.Rect {
	var right, bottom int
	for _, c := range n.children {
		bb := c.BoundingGridRect().Translated(c.pos)
		if bb.Right() > right {
			right = bb.Right()
		}
		if bb.Bottom() > bottom {
			bottom = bb.Bottom()
		}
	}
	return grid.NewRect(0, 0, right, bottom)
}

// snapToMinRect clamps a requested rectangle against the node's minimum
// bound: the child bounding rectangle while expanded, the port-adjusted
// minimum otherwise. Each undersized edge snaps outward to the bound; when
// both edges had to snap the request is rejected outright.
func (n *Node) snapToMinRect(r grid.Rect) (grid.Rect, bool) {
	bound := n.adjustedMinRect(true)
	if n.HasChildren() && n.expanded {
		bound = n.childBoundingRect()
	}

	snapRight := false
	snapBottom := false
	if r.Right() < bound.Right() {
		r.Width = bound.Right() - r.X
		snapRight = true
	}
	if r.Bottom() < bound.Bottom() {
		r.Height = bound.Bottom() - r.Y
		snapBottom = true
	}
	return r, !(snapRight && snapBottom)
}

// UpdateGeometry is the single algorithm governing all size changes. The
// reason selects the sizing branch; requested is only meaningful for
// ChangeResize. Afterwards ports are repositioned, the outline rescaled,
// the change propagated one level up for expand/collapse, and the interior
// grid regenerated.
func (n *Node) UpdateGeometry(requested grid.Rect, reason GeometryChange) {
	if (reason == ChangeExpand || reason == ChangeCollapse) && !n.HasChildren() {
		return
	}

	switch reason {
	case ChangeNone, ChangeCollapse:
		r := n.adjustedMinRect(false)
		r.Width += len(n.comp.DisplayName()) / nameCharsPerCell
		n.rect = r
	case ChangeResize:
		r, ok := n.snapToMinRect(requested)
		if !ok {
			return
		}
		n.rect = r
	case ChangeExpand, ChangeChildExpanded, ChangeChildCollapsed:
		r := n.childBoundingRect()
		// The node can never shrink below its port-adjusted minimum, even
		// when the children huddle in a corner.
		minimum := n.adjustedMinRect(false)
		if r.Width < minimum.Width {
			r.Width = minimum.Width
		}
		if r.Height < minimum.Height {
			r.Height = minimum.Height
		}
		n.rect = r
	}

	n.positionPorts()
	n.outline = shape.ScaledOutline(n.comp.Tag(), n.rect.Width, n.rect.Height)

	if n.parent != nil && (reason == ChangeExpand || reason == ChangeCollapse) {
		childReason := ChangeChildCollapsed
		if reason == ChangeExpand {
			childReason = ChangeChildExpanded
		}
		n.parent.UpdateGeometry(grid.Rect{}, childReason)
	}

	if n.HasChildren() && n.expanded {
		n.regenerateGridPoints()
	}

	n.markWiresDirty()
	if n.onGeometry != nil {
		n.onGeometry(n)
	}
}

// positionPorts spreads each edge's ports evenly over the rectangle height,
// snapping rows to the grid and rounding up so neighbors never collide.
// Order is preserved: port i always lies strictly between i-1 and i+1.
func (n *Node) positionPorts() {
	h := float64(n.rect.Height)
	if len(n.inputs) > 0 {
		seg := h / float64(len(n.inputs))
		for i, p := range n.inputs {
			p.index = int(math.Ceil(float64(i)*seg + seg/2))
		}
	}
	if len(n.outputs) > 0 {
		seg := h / float64(len(n.outputs))
		for i, p := range n.outputs {
			p.index = int(math.Ceil(float64(i)*seg + seg/2))
		}
	}
}

// regenerateGridPoints rebuilds the interior overlay, one cell inside each
// edge of the rectangle.
func (n *Node) regenerateGridPoints() {
	n.gridPoints = n.gridPoints[:0]
	for x := 1; x <= n.rect.Width-1; x++ {
		for y := 1; y <= n.rect.Height-1; y++ {
			n.gridPoints = append(n.gridPoints, grid.Pt(x, y))
		}
	}
}

// markWiresDirty flags every wire touching this node's ports for redraw.
func (n *Node) markWiresDirty() {
	for _, p := range n.inputs {
		if p.in != nil {
			p.in.MarkDirty()
		}
		if p.out != nil {
			p.out.MarkDirty()
		}
	}
	for _, p := range n.outputs {
		if p.in != nil {
			p.in.MarkDirty()
		}
		if p.out != nil {
			p.out.MarkDirty()
		}
	}
}

// MoveTo proposes a new position in fractional cells of the parent's
// coordinate space and returns the accepted, grid-snapped position. Without
// a parent, or while the parent's placement pass has restriction lifted,
// the snapped candidate is accepted unconditionally; otherwise the node's
// footprint is clamped per axis to stay inside the parent's rectangle.
func (n *Node) MoveTo(x, y float64) grid.Point {
	snapped := grid.SnapPoint(x, y)
	if n.parent == nil || !n.parent.restrictChildren {
		n.pos = snapped
		n.markWiresDirty()
		return n.pos
	}

	parentRect := grid.NewRect(0, 0, n.parent.rect.Width, n.parent.rect.Height)
	bb := n.BoundingGridRect()
	if parentRect.Contains(bb.Translated(snapped)) {
		n.pos = snapped
	} else {
		minX := parentRect.X - bb.X
		maxX := parentRect.Right() - bb.Right()
		minY := parentRect.Y - bb.Y
		maxY := parentRect.Bottom() - bb.Bottom()
		n.pos = grid.SnapPoint(clamp(x, minX, maxX), clamp(y, minY, maxY))
	}
	n.markWiresDirty()
	return n.pos
}

func clamp(v float64, lo, hi int) float64 {
	if v < float64(lo) {
		return float64(lo)
	}
	if v > float64(hi) {
		return float64(hi)
	}
	return v
}

// ResizeTo requests a new bottom-right corner, in the node's own grid
// units, and runs a resize geometry pass.
func (n *Node) ResizeTo(bottomRight grid.Point) {
	r := n.rect
	r.Width = bottomRight.X - r.X
	r.Height = bottomRight.Y - r.Y
	n.UpdateGeometry(r, ChangeResize)
}

// InResizeZone reports whether a node-local fractional cell position lies
// within one cell of the bottom-right corner. Always false while locked.
func (n *Node) InResizeZone(x, y float64) bool {
	if n.locked {
		return false
	}
	return float64(n.rect.Width)-x <= 1 && float64(n.rect.Height)-y <= 1
}

// TogglePos returns the expand toggle's position in fractional cells:
// the top-left corner while expanded, centered while collapsed.
func (n *Node) TogglePos() (float64, float64) {
	if n.expanded {
		return 0, 0
	}
	return float64(n.rect.Width)/2 - 0.5, float64(n.rect.Height)/2 - 0.5
}

// LabelPos returns the display-name anchor: centered at the top edge.
func (n *Node) LabelPos() (float64, float64) {
	return float64(n.rect.Width) / 2, 0
}

// ResetWires clears the interconnecting points of every wire inside this
// node: the children's output wires and this node's own input-port wires.
func (n *Node) ResetWires() {
	for _, c := range n.children {
		for _, p := range c.outputs {
			if p.out != nil {
				p.out.ClearWaypoints()
			}
		}
	}
	for _, p := range n.inputs {
		if p.out != nil {
			p.out.ClearWaypoints()
		}
	}
}

// SetOutputLabelsVisible shows or hides every output-port value overlay.
func (n *Node) SetOutputLabelsVisible(visible bool) {
	for _, p := range n.outputs {
		p.SetLabelVisible(visible)
	}
}
