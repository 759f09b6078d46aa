package sim

import (
	"strings"
	"testing"
)

func pair(t *testing.T) (*Component, *Component, *Component) {
	t.Helper()
	top := NewComponent("top", TagGeneric)
	a := top.AddSub(NewComponent("a", TagGeneric))
	b := top.AddSub(NewComponent("b", TagGeneric))
	return top, a, b
}

func TestConnectOutputToInput(t *testing.T) {
	_, a, b := pair(t)
	out := a.AddOutput("out", 8)
	in := b.AddInput("in", 8)

	if err := Connect(out, in); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if in.Source() != out {
		t.Error("sink source not recorded")
	}
	if len(out.Sinks()) != 1 || out.Sinks()[0] != in {
		t.Error("driver sink list not recorded")
	}
}

func TestConnectForwardsOwnInputToChild(t *testing.T) {
	top, a, _ := pair(t)
	in := top.AddInput("in", 4)
	childIn := a.AddInput("in", 4)

	if err := Connect(in, childIn); err != nil {
		t.Errorf("input forwarding into a child should connect: %v", err)
	}
}

func TestConnectForwardsChildOutputToParent(t *testing.T) {
	top, a, _ := pair(t)
	childOut := a.AddOutput("out", 4)
	out := top.AddOutput("out", 4)

	if err := Connect(childOut, out); err != nil {
		t.Errorf("output forwarding to the parent should connect: %v", err)
	}
}

func TestConnectRejectsBackwardShapes(t *testing.T) {
	top, a, b := pair(t)

	if err := Connect(b.AddInput("in", 1), a.AddOutput("out", 1)); err == nil {
		t.Error("input -> output across siblings should fail")
	}
	if err := Connect(a.AddInput("x", 1), b.AddInput("y", 1)); err == nil {
		t.Error("input -> input across siblings should fail")
	}
	if err := Connect(top.AddOutput("o", 1), a.AddOutput("p", 1)); err == nil {
		t.Error("parent output -> child output should fail")
	}
}

func TestConnectRejectsSecondDriver(t *testing.T) {
	_, a, b := pair(t)
	in := b.AddInput("in", 1)
	MustConnect(a.AddOutput("o1", 1), in)

	if err := Connect(a.AddOutput("o2", 1), in); err == nil {
		t.Error("second driver on one input should fail")
	}
}

func TestConnectRejectsWidthMismatch(t *testing.T) {
	_, a, b := pair(t)
	err := Connect(a.AddOutput("out", 8), b.AddInput("in", 16))
	if err == nil || !strings.Contains(err.Error(), "width mismatch") {
		t.Errorf("want width mismatch error, got %v", err)
	}
}

func TestSetValueMasksToWidth(t *testing.T) {
	c := NewComponent("c", TagGeneric)
	p := c.AddOutput("out", 4)
	p.SetValue(0x1ff)

	if p.Value() != 0xf {
		t.Errorf("Value() = %#x, want %#x", p.Value(), 0xf)
	}
}

func TestSetValuePropagatesToSinks(t *testing.T) {
	_, a, b := pair(t)
	out := a.AddOutput("out", 8)
	in1 := b.AddInput("in1", 8)
	in2 := b.AddInput("in2", 8)
	MustConnect(out, in1)
	MustConnect(out, in2)

	out.SetValue(42)
	if in1.Value() != 42 || in2.Value() != 42 {
		t.Errorf("fanout values = %d, %d, want 42", in1.Value(), in2.Value())
	}
}

func TestOnChangeFiresForPortOwner(t *testing.T) {
	_, a, b := pair(t)
	out := a.AddOutput("out", 8)
	in := b.AddInput("in", 8)
	MustConnect(out, in)

	var fired int
	b.OnChange(func() { fired++ })

	out.SetValue(7)
	if fired != 1 {
		t.Errorf("sink owner notified %d times, want 1", fired)
	}
}

func TestErrorfIncludesComponentPath(t *testing.T) {
	_, a, _ := pair(t)
	err := a.Errorf("missing %s binding", "select")

	if !strings.Contains(err.Error(), "top/a") {
		t.Errorf("error %q lacks the component path", err)
	}
}

func TestDemoBuildsConsistentTree(t *testing.T) {
	core := Demo()

	if core.Parent() != nil {
		t.Error("demo root should have no parent")
	}
	var walk func(c *Component)
	walk = func(c *Component) {
		seen := map[string]bool{}
		for _, s := range c.SubComponents() {
			if s.Parent() != c {
				t.Errorf("%s: parent link broken for %s", c.Name(), s.Name())
			}
			if seen[s.Name()] {
				t.Errorf("%s: duplicate child name %s", c.Name(), s.Name())
			}
			seen[s.Name()] = true
			walk(s)
		}
		for _, in := range c.Ports(In) {
			if c.Parent() != nil && in.Source() == nil {
				t.Errorf("%s.%s is undriven", c.Name(), in.Name())
			}
		}
	}
	walk(core)
}
