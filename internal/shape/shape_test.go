package shape

import (
	"testing"

	"rtl-scope/internal/sim"
)

func TestUnknownTagFallsBackToGeneric(t *testing.T) {
	got := Lookup(sim.GraphicsTag(99))
	want := Lookup(sim.TagGeneric)

	if got.MinRect != want.MinRect || len(got.Outline) != len(want.Outline) {
		t.Errorf("unknown tag resolved to %+v, want generic %+v", got, want)
	}
}

func TestMultiplexerRequiresSelectRole(t *testing.T) {
	roles := Lookup(sim.TagMultiplexer).Roles
	if len(roles) != 1 || roles[0] != sim.RoleSelect {
		t.Errorf("multiplexer roles = %v, want [%s]", roles, sim.RoleSelect)
	}
}

func TestMinRectsAreNonEmpty(t *testing.T) {
	for tag, spec := range registry {
		if spec.MinRect.IsEmpty() {
			t.Errorf("%s: empty minimum rectangle", tag)
		}
		if len(spec.Outline) < 3 {
			t.Errorf("%s: outline is not a polygon", tag)
		}
	}
}

func TestScaledOutlineStaysInRect(t *testing.T) {
	const w, h = 6, 9
	for tag := range registry {
		for _, v := range ScaledOutline(tag, w, h) {
			if v.X < 0 || v.X > w || v.Y < 0 || v.Y > h {
				t.Errorf("%s: vertex %+v escapes the %dx%d rectangle", tag, v, w, h)
			}
		}
	}
}

func TestScaledOutlineSpansRect(t *testing.T) {
	// Every variant must touch all four edges of its rectangle, otherwise
	// ports would float off the body.
	const w, h = 4, 4
	for tag := range registry {
		var minX, maxX, minY, maxY = float64(w), 0.0, float64(h), 0.0
		for _, v := range ScaledOutline(tag, w, h) {
			if v.X < minX {
				minX = v.X
			}
			if v.X > maxX {
				maxX = v.X
			}
			if v.Y < minY {
				minY = v.Y
			}
			if v.Y > maxY {
				maxY = v.Y
			}
		}
		if minX != 0 || maxX != w || minY != 0 || maxY != h {
			t.Errorf("%s: outline spans x [%v,%v] y [%v,%v], want full rectangle", tag, minX, maxX, minY, maxY)
		}
	}
}
