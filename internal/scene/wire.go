package scene

import "rtl-scope/pkg/grid"

// Wire connects an output port to one or more input ports. The routed shape
// is the source's output point, the waypoint list, then each sink's input
// point; only the waypoints are stored (and persisted), the endpoints are
// derived from the port positions on every draw.
type Wire struct {
	from *Port
	to   []*Port

	waypoints []grid.Point
	visible   bool
	dirty     bool
}

// From returns the source port.
func (w *Wire) From() *Port { return w.from }

// Sinks returns the driven ports in connection order.
func (w *Wire) Sinks() []*Port { return w.to }

// Waypoints returns the interconnecting points between the endpoints.
func (w *Wire) Waypoints() []grid.Point { return w.waypoints }

// SetWaypoints replaces the interconnecting points.
func (w *Wire) SetWaypoints(points []grid.Point) {
	w.waypoints = append(w.waypoints[:0], points...)
	w.dirty = true
}

// ClearWaypoints removes all interconnecting points.
func (w *Wire) ClearWaypoints() {
	w.waypoints = nil
	w.dirty = true
}

// Visible reports whether the wire should be drawn at all. Interior wires
// of a collapsed component are hidden even though their ports remain drawn.
func (w *Wire) Visible() bool { return w.visible }

// SetVisible toggles drawing of the wire.
func (w *Wire) SetVisible(visible bool) { w.visible = visible }

// Dirty reports whether the wire needs redrawing because an endpoint moved
// or its routing changed.
func (w *Wire) Dirty() bool { return w.dirty }

// MarkDirty flags the wire for redraw.
func (w *Wire) MarkDirty() { w.dirty = true }

// ClearDirty acknowledges a completed redraw.
func (w *Wire) ClearDirty() { w.dirty = false }
