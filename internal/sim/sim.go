// Package sim exposes the simulation-side structure consumed by the scene:
// components, typed ports, hierarchy, special-port role bindings, and value
// change notification. The simulation semantics themselves live behind this
// interface; the scene only mirrors structure and values.
package sim

import (
	"github.com/pkg/errors"
)

// Direction identifies which side of a component a port sits on.
type Direction int

const (
	In Direction = iota
	Out
)

// GraphicsTag selects the visual variant used to draw a component.
type GraphicsTag int

const (
	TagGeneric GraphicsTag = iota
	TagRegister
	TagMultiplexer
	TagConstant
)

func (t GraphicsTag) String() string {
	switch t {
	case TagRegister:
		return "register"
	case TagMultiplexer:
		return "multiplexer"
	case TagConstant:
		return "constant"
	default:
		return "generic"
	}
}

// RoleSelect is the special-port role a multiplexer must bind to its
// select line before the visual layer will accept it.
const RoleSelect = "select"

// Port is one typed connection point on a component.
type Port struct {
	name  string
	dir   Direction
	width int
	value uint64
	owner *Component

	source *Port   // driving port, nil for undriven inputs and all outputs
	sinks  []*Port // ports driven by this one
}

// Name returns the port name, unique per direction within its component.
func (p *Port) Name() string { return p.name }

// Direction returns whether the port is an input or an output.
func (p *Port) Direction() Direction { return p.dir }

// Width returns the port's bit width.
func (p *Port) Width() int { return p.width }

// Owner returns the component the port belongs to.
func (p *Port) Owner() *Component { return p.owner }

// Source returns the port driving this one, or nil.
func (p *Port) Source() *Port { return p.source }

// Sinks returns the ports driven by this one, in connection order.
func (p *Port) Sinks() []*Port { return p.sinks }

// Value returns the port's current value.
func (p *Port) Value() uint64 { return p.value }

// SetValue updates the port's value and notifies the owning component's
// observers. Sink ports follow the new value so that downstream labels stay
// consistent without a real simulation step.
func (p *Port) SetValue(v uint64) {
	if p.width < 64 {
		v &= (1 << uint(p.width)) - 1
	}
	p.value = v
	for _, s := range p.sinks {
		s.SetValue(v)
	}
	p.owner.notifyChanged()
}

// Component is one element of the simulation hierarchy.
type Component struct {
	name    string
	tag     GraphicsTag
	parent  *Component
	subs    []*Component
	inputs  []*Port
	outputs []*Port
	special map[string]*Port

	listeners []func()
}

// NewComponent creates a component with the given name and visual tag.
func NewComponent(name string, tag GraphicsTag) *Component {
	return &Component{
		name:    name,
		tag:     tag,
		special: make(map[string]*Port),
	}
}

// Name returns the component name, unique among its siblings.
func (c *Component) Name() string { return c.name }

// DisplayName returns the name shown in the scene.
func (c *Component) DisplayName() string { return c.name }

// Tag returns the component's visual tag.
func (c *Component) Tag() GraphicsTag { return c.tag }

// Parent returns the enclosing component, nil for the root.
func (c *Component) Parent() *Component { return c.parent }

// SubComponents returns the direct children in definition order.
func (c *Component) SubComponents() []*Component { return c.subs }

// IsConstant reports whether the component is a constant-value source.
// Constants are absorbed into the port they feed rather than drawn as
// their own scene node.
func (c *Component) IsConstant() bool { return c.tag == TagConstant }

// Ports returns the component's ports for one direction, in definition order.
func (c *Component) Ports(dir Direction) []*Port {
	if dir == In {
		return c.inputs
	}
	return c.outputs
}

// AddInput declares a new input port.
func (c *Component) AddInput(name string, width int) *Port {
	p := &Port{name: name, dir: In, width: width, owner: c}
	c.inputs = append(c.inputs, p)
	return p
}

// AddOutput declares a new output port.
func (c *Component) AddOutput(name string, width int) *Port {
	p := &Port{name: name, dir: Out, width: width, owner: c}
	c.outputs = append(c.outputs, p)
	return p
}

// AddSub attaches child as a direct subcomponent.
func (c *Component) AddSub(child *Component) *Component {
	child.parent = c
	c.subs = append(c.subs, child)
	return child
}

// SetSpecialPort binds a reserved role name to one of the component's ports.
// The visual layer validates these bindings at construction time.
func (c *Component) SetSpecialPort(role string, p *Port) {
	c.special[role] = p
}

// SpecialPort returns the port bound to role, or nil if unbound.
func (c *Component) SpecialPort(role string) *Port {
	return c.special[role]
}

// OnChange registers an observer invoked synchronously whenever one of the
// component's port values changes.
func (c *Component) OnChange(fn func()) {
	c.listeners = append(c.listeners, fn)
}

func (c *Component) notifyChanged() {
	for _, fn := range c.listeners {
		fn()
	}
}

// Errorf builds a configuration error attributed to this component. It is
// the error-reporting path used by the visual layer when the simulation
// side handed it an unusable structure.
func (c *Component) Errorf(format string, args ...interface{}) error {
	return errors.Wrapf(errors.Errorf(format, args...), "component %q", c.path())
}

func (c *Component) path() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.path() + "/" + c.name
}

// Connect wires an output port to an input port. Fan-out is unrestricted;
// an input may only be driven once.
func Connect(from, to *Port) error {
	// Valid shapes: output -> input across siblings, a component's own input
	// forwarded to a child's input, or a child's output forwarded to the
	// enclosing component's output.
	ok := (from.dir == Out && to.dir == In) ||
		(from.dir == In && to.dir == In && from.owner == to.owner.parent) ||
		(from.dir == Out && to.dir == Out && from.owner.parent == to.owner)
	if !ok {
		return errors.Errorf("invalid connection %q.%q -> %q.%q",
			from.owner.name, from.name, to.owner.name, to.name)
	}
	if to.source != nil {
		return errors.Errorf("port %q.%q is already driven", to.owner.name, to.name)
	}
	if from.width != to.width {
		return errors.Errorf("width mismatch %q.%q(%d) -> %q.%q(%d)",
			from.owner.name, from.name, from.width, to.owner.name, to.name, to.width)
	}
	to.source = from
	from.sinks = append(from.sinks, to)
	return nil
}

// MustConnect is Connect for statically known-good wiring.
func MustConnect(from, to *Port) {
	if err := Connect(from, to); err != nil {
		panic(err)
	}
}
