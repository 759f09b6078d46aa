// Package shape is the registry of visual variants. Each graphics tag maps
// to a minimum grid rectangle, a unit outline polygon scaled to the node's
// current rectangle at draw time, and the special-port roles the variant
// requires the simulation side to bind.
package shape

import (
	"rtl-scope/internal/sim"
	"rtl-scope/pkg/grid"
)

// Vertex is one corner of a unit outline, in [0,1] fractions of the node
// rectangle.
type Vertex struct {
	X float64
	Y float64
}

// Spec describes one visual variant.
type Spec struct {
	MinRect grid.Rect
	Outline []Vertex
	Roles   []string // special-port roles that must be bound
}

var box = []Vertex{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

var registry = map[sim.GraphicsTag]Spec{
	sim.TagGeneric: {
		MinRect: grid.NewRect(0, 0, 4, 3),
		Outline: box,
	},
	sim.TagRegister: {
		// Narrow and tall, with a clock notch on the bottom edge.
		MinRect: grid.NewRect(0, 0, 3, 4),
		Outline: []Vertex{{0, 0}, {1, 0}, {1, 1}, {0.6, 1}, {0.5, 0.9}, {0.4, 1}, {0, 1}},
	},
	sim.TagMultiplexer: {
		// Trapezoid narrowing toward the output side.
		MinRect: grid.NewRect(0, 0, 2, 5),
		Outline: []Vertex{{0, 0}, {1, 0.2}, {1, 0.8}, {0, 1}},
		Roles:   []string{sim.RoleSelect},
	},
	sim.TagConstant: {
		MinRect: grid.NewRect(0, 0, 1, 1),
		Outline: box,
	},
}

// Lookup returns the variant spec for a tag, falling back to the generic
// variant for unknown tags.
func Lookup(tag sim.GraphicsTag) Spec {
	if s, ok := registry[tag]; ok {
		return s
	}
	return registry[sim.TagGeneric]
}

// MinRect returns the intrinsic minimum grid rectangle for a tag.
func MinRect(tag sim.GraphicsTag) grid.Rect {
	return Lookup(tag).MinRect
}

// ScaledOutline returns the outline polygon scaled to a w-by-h cell
// rectangle, in fractional cell coordinates.
func ScaledOutline(tag sim.GraphicsTag, w, h int) []Vertex {
	unit := Lookup(tag).Outline
	out := make([]Vertex, len(unit))
	for i, v := range unit {
		out[i] = Vertex{X: v.X * float64(w), Y: v.Y * float64(h)}
	}
	return out
}
