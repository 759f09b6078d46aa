package scene

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"rtl-scope/internal/app"
	"rtl-scope/internal/scene"
	"rtl-scope/internal/sim"
	"rtl-scope/pkg/grid"
)

// componentWidget is the interactive canvas object for one visual node. It
// owns the body outline, name label, port glyphs, value overlays, and the
// expand toggle; wires are drawn by the shared wire layer so they can cross
// widget boundaries.
type componentWidget struct {
	widget.BaseWidget

	view *CircuitView
	node *scene.Node

	// Drag state. A drag starting in the resize zone resizes, any other
	// drag moves. Positions accumulate fractionally and snap in the scene
	// layer, so slow drags still cross cell boundaries.
	dragging  bool
	resizing  bool
	dragX     float64
	dragY     float64
	hoverSize bool

	valueTexts map[*scene.Port]*fynecanvas.Text
}

func newComponentWidget(view *CircuitView, node *scene.Node) *componentWidget {
	cw := &componentWidget{
		view:       view,
		node:       node,
		valueTexts: make(map[*scene.Port]*fynecanvas.Text),
	}
	cw.ExtendBaseWidget(cw)
	return cw
}

// portOffsetX is the width of the input-port column in cells: the node's
// rectangle origin sits this far into the widget.
func (cw *componentWidget) portOffsetX() int {
	if len(cw.node.Inputs()) > 0 {
		return scene.PortGridWidth
	}
	return 0
}

// toNodeCells converts a widget-local position to the node's fractional
// cell coordinates.
func (cw *componentWidget) toNodeCells(pos fyne.Position) (float64, float64) {
	cell := cw.view.cell()
	return grid.FromScene(pos.X, cell) - float64(cw.portOffsetX()),
		grid.FromScene(pos.Y, cell)
}

func (cw *componentWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &componentRenderer{w: cw}
	r.Refresh()
	return r
}

// Dragged moves or resizes the node, depending on where the drag started.
func (cw *componentWidget) Dragged(ev *fyne.DragEvent) {
	if cw.node.Locked() {
		return
	}
	cell := float64(cw.view.cell())

	if !cw.dragging {
		cw.dragging = true
		startX := float64(ev.Position.X-ev.Dragged.DX) / cell
		startY := float64(ev.Position.Y-ev.Dragged.DY) / cell
		cw.resizing = cw.node.InResizeZone(startX-float64(cw.portOffsetX()), startY)
		if cw.resizing {
			r := cw.node.Rect()
			cw.dragX = float64(r.Right())
			cw.dragY = float64(r.Bottom())
		} else {
			pos := cw.node.Pos()
			cw.dragX = float64(pos.X)
			cw.dragY = float64(pos.Y)
		}
	}

	cw.dragX += float64(ev.Dragged.DX) / cell
	cw.dragY += float64(ev.Dragged.DY) / cell

	if cw.resizing {
		cw.node.ResizeTo(grid.SnapPoint(cw.dragX, cw.dragY))
	} else {
		cw.node.MoveTo(cw.dragX, cw.dragY)
		cw.view.state.SetModified(true)
	}
	cw.view.layout()
}

func (cw *componentWidget) DragEnd() {
	cw.dragging = false
	cw.resizing = false
}

// Tapped toggles the expand state when the toggle is hit, otherwise picks
// the port under the cursor.
func (cw *componentWidget) Tapped(ev *fyne.PointEvent) {
	x, y := cw.toNodeCells(ev.Position)

	if !cw.node.Locked() && cw.node.HasChildren() {
		tx, ty := cw.node.TogglePos()
		if x >= tx && x <= tx+1 && y >= ty && y <= ty+1 {
			cw.node.SetExpanded(!cw.node.Expanded())
			cw.view.Rebuild()
			return
		}
	}

	// The selection event redraws the wire layer and the status line.
	if p := cw.portAt(x, y); p != nil {
		p.SetSelected(!p.Selected())
		cw.view.state.Emit(app.EventSelectionChanged, p)
		cw.Refresh()
	}
}

// portAt returns the port whose glyph covers a node-local cell position.
func (cw *componentWidget) portAt(x, y float64) *scene.Port {
	hit := func(cx, cy float64) bool {
		dx, dy := x-cx, y-cy
		return dx >= -0.6 && dx <= 0.6 && dy >= -0.6 && dy <= 0.6
	}
	for _, p := range cw.node.Inputs() {
		if hit(-0.5, float64(p.GridIndex())) {
			return p
		}
	}
	w := float64(cw.node.Rect().Width)
	for _, p := range cw.node.Outputs() {
		if hit(w+0.5, float64(p.GridIndex())) {
			return p
		}
	}
	return nil
}

// TappedSecondary opens the context menu, suppressed while locked.
func (cw *componentWidget) TappedSecondary(ev *fyne.PointEvent) {
	if cw.node.Locked() {
		return
	}
	menu := cw.buildMenu()
	cnv := fyne.CurrentApp().Driver().CanvasForObject(cw)
	if cnv == nil {
		return
	}
	widget.ShowPopUpMenuAtPosition(menu, cnv, ev.AbsolutePosition)
}

func (cw *componentWidget) buildMenu() *fyne.Menu {
	n := cw.node
	var items []*fyne.MenuItem

	if n.HasChildren() {
		label := "Expand"
		if n.Expanded() {
			label = "Collapse"
		}
		items = append(items, fyne.NewMenuItem(label, func() {
			n.SetExpanded(!n.Expanded())
			cw.view.Rebuild()
		}))
		items = append(items, fyne.NewMenuItem("Reset wires...", func() {
			dialog.ShowConfirm("Reset wires",
				"Reset all wire routing inside \""+n.Component().Name()+"\"?",
				func(ok bool) {
					if !ok {
						return
					}
					n.ResetWires()
					cw.view.state.SetModified(true)
					cw.view.Rebuild()
				}, cw.view.win)
		}))
		if cw.view.onLoadLayout != nil && cw.view.onSaveLayout != nil {
			items = append(items, fyne.NewMenuItem("Load layout...", func() {
				cw.view.onLoadLayout(n)
			}))
			items = append(items, fyne.NewMenuItem("Save layout...", func() {
				cw.view.onSaveLayout(n)
			}))
		}
		items = append(items, fyne.NewMenuItemSeparator())
	}

	showValues := fyne.NewMenuItem("Show output values", func() {
		n.SetOutputLabelsVisible(true)
		cw.Refresh()
	})
	hideValues := fyne.NewMenuItem("Hide output values", func() {
		n.SetOutputLabelsVisible(false)
		cw.Refresh()
	})
	items = append(items, showValues, hideValues)

	format := fyne.NewMenuItem("Value format", nil)
	var radixItems []*fyne.MenuItem
	for _, r := range scene.Radixes() {
		r := r
		radixItems = append(radixItems, fyne.NewMenuItem(r.String(), func() {
			for _, p := range n.Outputs() {
				p.SetRadix(r)
			}
			cw.Refresh()
		}))
	}
	format.ChildMenu = fyne.NewMenu("", radixItems...)
	items = append(items, format)

	if n.Parent() != nil {
		items = append(items, fyne.NewMenuItemSeparator())
		items = append(items, fyne.NewMenuItem("Hide", func() {
			n.SetVisible(false)
			cw.view.Rebuild()
		}))
	}

	return fyne.NewMenu("", items...)
}

// Desktop hover support for the resize affordance.

func (cw *componentWidget) MouseIn(ev *desktop.MouseEvent) { cw.MouseMoved(ev) }

func (cw *componentWidget) MouseMoved(ev *desktop.MouseEvent) {
	x, y := cw.toNodeCells(ev.Position)
	in := cw.node.InResizeZone(x, y)
	if in != cw.hoverSize {
		cw.hoverSize = in
		cw.Refresh()
	}
}

func (cw *componentWidget) MouseOut() {
	if cw.hoverSize {
		cw.hoverSize = false
		cw.Refresh()
	}
}

func (cw *componentWidget) Cursor() desktop.Cursor {
	if cw.hoverSize {
		return desktop.VResizeCursor
	}
	return desktop.DefaultCursor
}

// refreshValues updates the value overlay strings in place.
func (cw *componentWidget) refreshValues() {
	for p, txt := range cw.valueTexts {
		txt.Text = p.ValueText()
		txt.Refresh()
	}
}

var _ fyne.Draggable = (*componentWidget)(nil)
var _ fyne.Tappable = (*componentWidget)(nil)
var _ fyne.SecondaryTappable = (*componentWidget)(nil)
var _ desktop.Hoverable = (*componentWidget)(nil)
var _ desktop.Cursorable = (*componentWidget)(nil)

// componentRenderer regenerates the node's canvas primitives on refresh.
type componentRenderer struct {
	w       *componentWidget
	objects []fyne.CanvasObject
}

func (r *componentRenderer) Layout(fyne.Size) {}

func (r *componentRenderer) MinSize() fyne.Size { return fyne.NewSize(0, 0) }

func (r *componentRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *componentRenderer) Destroy() {}

func (r *componentRenderer) Refresh() {
	cw := r.w
	n := cw.node
	cell := cw.view.cell()
	offX := float32(cw.portOffsetX()) * cell

	r.objects = r.objects[:0]
	cw.valueTexts = make(map[*scene.Port]*fynecanvas.Text)

	at := func(x, y float64) fyne.Position {
		return fyne.NewPos(offX+float32(x*float64(cell)), float32(y*float64(cell)))
	}

	// Body fill sized to the grid rectangle.
	fill := fynecanvas.NewRectangle(colorFill)
	fill.Move(at(0, 0))
	fill.Resize(fyne.NewSize(float32(n.Rect().Width)*cell, float32(n.Rect().Height)*cell))
	r.objects = append(r.objects, fill)

	// Interior grid overlay while expanded.
	if n.Expanded() {
		for _, g := range n.GridPoints() {
			dot := fynecanvas.NewCircle(colorGridDot)
			dot.Move(at(float64(g.X)-0.07, float64(g.Y)-0.07))
			dot.Resize(fyne.NewSize(0.14*cell, 0.14*cell))
			r.objects = append(r.objects, dot)
		}
	}

	// Variant outline.
	outlineColor := colorOutline
	if n.Locked() {
		outlineColor = colorOutlineLock
	}
	pts := n.Outline()
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		seg := fynecanvas.NewLine(outlineColor)
		seg.StrokeWidth = 1.5
		seg.Position1 = at(a.X, a.Y)
		seg.Position2 = at(b.X, b.Y)
		r.objects = append(r.objects, seg)
	}

	// Resize affordance at the bottom-right corner.
	if cw.hoverSize {
		grip := fynecanvas.NewRectangle(colorSelected)
		grip.Move(at(float64(n.Rect().Width)-0.5, float64(n.Rect().Height)-0.5))
		grip.Resize(fyne.NewSize(0.5*cell, 0.5*cell))
		r.objects = append(r.objects, grip)
	}

	// Display name at the top edge.
	name := fynecanvas.NewText(n.Component().DisplayName(), colorName)
	name.TextSize = 0.7 * cell
	name.TextStyle = fyne.TextStyle{Bold: true}
	name.Alignment = fyne.TextAlignCenter
	lx, ly := n.LabelPos()
	name.Move(at(lx, ly))
	r.objects = append(r.objects, name)

	// Port stubs and labels.
	r.drawPorts(n.Inputs(), at, cell)
	r.drawPorts(n.Outputs(), at, cell)

	// Role annotations, e.g. the multiplexer select input.
	for role, p := range n.SpecialPorts() {
		if p.Owner() != n {
			continue
		}
		tag := fynecanvas.NewText(role, colorPortLabel)
		tag.TextSize = 0.45 * cell
		tag.TextStyle = fyne.TextStyle{Italic: true}
		row := float64(p.GridIndex())
		if p.Direction() == sim.In {
			tag.Move(at(0.15, row+0.05))
		} else {
			tag.Alignment = fyne.TextAlignTrailing
			tag.Move(at(float64(n.Rect().Width)-0.15, row+0.05))
		}
		r.objects = append(r.objects, tag)
	}

	// Expand toggle.
	if n.HasChildren() && !n.Locked() {
		tx, ty := n.TogglePos()
		box := fynecanvas.NewRectangle(color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff})
		box.StrokeColor = colorOutline
		box.StrokeWidth = 1
		box.Move(at(tx+0.1, ty+0.1))
		box.Resize(fyne.NewSize(0.8*cell, 0.8*cell))
		glyph := "+"
		if n.Expanded() {
			glyph = "-"
		}
		sign := fynecanvas.NewText(glyph, colorOutline)
		sign.TextSize = 0.7 * cell
		sign.Alignment = fyne.TextAlignCenter
		sign.Move(at(tx+0.5, ty+0.1))
		r.objects = append(r.objects, box, sign)
	}
}

func (r *componentRenderer) drawPorts(ports []*scene.Port, at func(x, y float64) fyne.Position, cell float32) {
	n := r.w.node
	for _, p := range ports {
		row := float64(p.GridIndex())

		var x0, x1 float64
		if p.Direction() == sim.In {
			x0, x1 = -1, 0
		} else {
			x0, x1 = float64(n.Rect().Width), float64(n.Rect().Width)+1
		}

		stubColor := colorWire
		if p.PathSelected() {
			stubColor = colorSelected
		}
		stub := fynecanvas.NewLine(stubColor)
		stub.StrokeWidth = 1.5
		stub.Position1 = at(x0, row)
		stub.Position2 = at(x1, row)
		r.objects = append(r.objects, stub)

		if p.LabelVisible() || p.Selected() {
			label := fynecanvas.NewText(p.Name(), colorPortLabel)
			label.TextSize = 0.5 * cell
			if p.Direction() == sim.In {
				label.Move(at(0.1, row-0.9))
			} else {
				label.Alignment = fyne.TextAlignTrailing
				label.Move(at(x0-0.1, row-0.9))
			}
			r.objects = append(r.objects, label)
		}

		// Absorbed constant drawn as an inline annotation on the port.
		if c := p.Constant(); c != nil {
			val := fynecanvas.NewText(scene.RadixDec.Format(c.Value(), c.Width()), colorConstant)
			val.TextSize = 0.6 * cell
			val.Alignment = fyne.TextAlignTrailing
			val.Move(at(x0-0.2, row-0.4))
			r.objects = append(r.objects, val)
		}

		if p.LabelVisible() && p.Direction() == sim.Out {
			val := fynecanvas.NewText(p.ValueText(), colorValueLabel)
			val.TextSize = 0.6 * cell
			val.Move(at(x1+0.2, row-0.4))
			r.objects = append(r.objects, val)
			r.w.valueTexts[p] = val
		}
	}
}
