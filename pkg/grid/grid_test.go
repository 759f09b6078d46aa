package grid

import (
	"encoding/json"
	"testing"
)

func TestSnapRoundsToNearestCell(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{2.6, 3},
		{-0.4, 0},
		{-1.6, -2},
	}
	for _, c := range cases {
		if got := Snap(c.in); got != c.want {
			t.Errorf("Snap(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSceneRoundTrip(t *testing.T) {
	const cell = float32(CellSize)
	for _, v := range []int{-3, 0, 1, 17} {
		if got := Snap(FromScene(ToScene(v, cell), cell)); got != v {
			t.Errorf("scene round trip of %d gave %d", v, got)
		}
	}
}

func TestRectEdgesAreExclusive(t *testing.T) {
	r := NewRect(1, 2, 3, 4)
	if r.Right() != 4 || r.Bottom() != 6 {
		t.Errorf("edges = (%d,%d), want (4,6)", r.Right(), r.Bottom())
	}
	if r.ContainsPoint(Pt(4, 2)) || r.ContainsPoint(Pt(1, 6)) {
		t.Error("exclusive edges must not contain boundary points")
	}
	if !r.ContainsPoint(Pt(3, 5)) {
		t.Error("last interior cell should be contained")
	}
}

func TestContains(t *testing.T) {
	outer := NewRect(0, 0, 10, 10)
	if !outer.Contains(NewRect(0, 0, 10, 10)) {
		t.Error("a rectangle should contain itself")
	}
	if outer.Contains(NewRect(5, 5, 6, 2)) {
		t.Error("overhanging rectangle reported as contained")
	}
}

func TestUnionIdentityOnEmpty(t *testing.T) {
	r := NewRect(2, 3, 4, 5)
	if got := r.Union(Rect{}); got != r {
		t.Errorf("union with empty = %+v, want %+v", got, r)
	}
	if got := (Rect{}).Union(r); got != r {
		t.Errorf("empty union = %+v, want %+v", got, r)
	}
}

func TestUnionCoversBoth(t *testing.T) {
	a := NewRect(0, 0, 2, 2)
	b := NewRect(5, 1, 3, 4)
	u := a.Union(b)
	if !u.Contains(a) || !u.Contains(b) {
		t.Errorf("union %+v does not cover both operands", u)
	}
	if u != NewRect(0, 0, 8, 5) {
		t.Errorf("union = %+v, want {0 0 8 5}", u)
	}
}

func TestTranslatedAndExpanded(t *testing.T) {
	r := NewRect(1, 1, 2, 2)
	if got := r.Translated(Pt(3, -1)); got != NewRect(4, 0, 2, 2) {
		t.Errorf("Translated = %+v", got)
	}
	if got := r.Expanded(1); got != NewRect(0, 0, 4, 4) {
		t.Errorf("Expanded = %+v", got)
	}
}

func TestPointJSONKeys(t *testing.T) {
	data, err := json.Marshal(Pt(3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"x":3,"y":4}` {
		t.Errorf("marshaled point = %s", data)
	}
}
