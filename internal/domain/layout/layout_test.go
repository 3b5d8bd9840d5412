package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/intavia/visualquery/internal/domain/constraint"
)

var center = Point{X: 100, Y: 100}

func ids(n int) []constraint.ID {
	all := []constraint.ID{
		constraint.IDPersonName,
		constraint.IDDateOfBirth,
		constraint.IDDateOfDeath,
		constraint.IDPlace,
		constraint.IDOccupation,
		constraint.IDEntityKind,
		"extra-1",
	}
	return all[:n]
}

func TestRing_Empty(t *testing.T) {
	if got := Ring(nil, center, 50, 80); len(got) != 0 {
		t.Errorf("Ring(nil) = %v, want empty", got)
	}
}

func TestRing_Partition(t *testing.T) {
	for n := 1; n <= 7; n++ {
		slots := Ring(ids(n), center, 50, 80)
		if len(slots) != n {
			t.Fatalf("n=%d: got %d slots", n, len(slots))
		}
		if slots[0].StartAngle != 0 {
			t.Errorf("n=%d: first start = %v", n, slots[0].StartAngle)
		}
		if slots[n-1].EndAngle != FullCircle {
			t.Errorf("n=%d: last end = %v", n, slots[n-1].EndAngle)
		}
		sum := 0.0
		for i, s := range slots {
			sum += s.Span()
			if s.ID != ids(n)[i] {
				t.Errorf("n=%d: slot %d id = %s", n, i, s.ID)
			}
			if i+1 < n && s.EndAngle != slots[i+1].StartAngle {
				t.Errorf("n=%d: gap between slot %d and %d", n, i, i+1)
			}
		}
		if math.Abs(sum-FullCircle) > 1e-9 {
			t.Errorf("n=%d: spans sum to %v", n, sum)
		}
	}
}

func TestPointAt(t *testing.T) {
	tests := []struct {
		deg  float64
		want Point
	}{
		{0, Point{100, 50}},
		{90, Point{150, 100}},
		{180, Point{100, 150}},
		{270, Point{50, 100}},
	}
	for _, tc := range tests {
		got := PointAt(center, 50, tc.deg)
		if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 {
			t.Errorf("PointAt(%v) = %+v, want %+v", tc.deg, got, tc.want)
		}
	}
}

func TestSlotAt(t *testing.T) {
	slots := Ring(ids(4), center, 50, 80)
	tests := []struct {
		deg  float64
		want constraint.ID
	}{
		{0, constraint.IDPersonName},
		{89.9, constraint.IDPersonName},
		{90, constraint.IDDateOfBirth},
		{359, constraint.IDPlace},
		{-1, constraint.IDPlace},
		{720, constraint.IDPersonName},
	}
	for _, tc := range tests {
		s, ok := SlotAt(slots, tc.deg)
		if !ok || s.ID != tc.want {
			t.Errorf("SlotAt(%v) = %s, %v; want %s", tc.deg, s.ID, ok, tc.want)
		}
	}
}

func TestArcPath_Quarter(t *testing.T) {
	s := Ring(ids(4), center, 50, 80)[0]
	want := "M 100 50 A 50 50 0 0 1 150 100 L 180 100 A 80 80 0 0 0 100 20 Z"
	if got := ArcPath(s); got != want {
		t.Errorf("ArcPath = %q\nwant     %q", got, want)
	}
}

func TestArcPath_AdjacentSlotsShareEdges(t *testing.T) {
	slots := Ring(ids(3), center, 50, 80)
	for i := range slots {
		next := slots[(i+1)%len(slots)]
		endOuter := PointAt(center, 80, slots[i].EndAngle)
		startOuter := PointAt(center, 80, next.StartAngle)
		if num(endOuter.X) != num(startOuter.X) || num(endOuter.Y) != num(startOuter.Y) {
			t.Errorf("slot %d outer end %+v != next start %+v", i, endOuter, startOuter)
		}
	}
}

func TestArcPath_FullRing(t *testing.T) {
	s := Ring(ids(1), center, 50, 80)[0]
	got := ArcPath(s)
	if strings.Count(got, "A") != 4 {
		t.Errorf("full ring should use four half arcs: %q", got)
	}
	if !strings.HasPrefix(got, "M 100 50 A 50 50 0 0 1 100 150 A 50 50 0 0 1 100 50 L 100 20") {
		t.Errorf("ArcPath = %q", got)
	}
}

func TestArcPath_LargeArcFlag(t *testing.T) {
	s := Slot{ID: "x", StartAngle: 0, EndAngle: 270, InnerRadius: 10, OuterRadius: 20, Center: center}
	if got := ArcPath(s); !strings.Contains(got, "A 10 10 0 1 1") {
		t.Errorf("ArcPath = %q, want large-arc flag", got)
	}
}

func TestLabelPath(t *testing.T) {
	s := Ring(ids(4), center, 40, 60)[1]
	l := LabelPath(s)
	if l.Path != "M 150 100 A 50 50 0 0 1 100 150" {
		t.Errorf("Path = %q", l.Path)
	}
	want := PointAt(center, 50, 135)
	if l.Anchor != want {
		t.Errorf("Anchor = %+v, want %+v", l.Anchor, want)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{-0.0001, "0"},
		{1.23456, "1.235"},
		{100, "100"},
	}
	for _, tc := range tests {
		if got := num(tc.in); got != tc.want {
			t.Errorf("num(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestColor_Deterministic(t *testing.T) {
	a := Color(constraint.IDPlace)
	Ring(ids(6), center, 1, 2)
	if Color(constraint.IDPlace) != a {
		t.Error("colour changed")
	}
	seen := map[string]constraint.ID{}
	for _, d := range constraint.Definitions() {
		c := Color(d.ID)
		if other, dup := seen[c]; dup {
			t.Errorf("%s and %s share colour %s", d.ID, other, c)
		}
		seen[c] = d.ID
	}
	if Color("unknown") != Color("unknown") {
		t.Error("fallback colour not stable")
	}
}

func TestFit(t *testing.T) {
	f := Fit(400, 300)
	if f.Center != (Point{200, 150}) {
		t.Errorf("Center = %+v", f.Center)
	}
	if f.OuterRadius != 150-Padding {
		t.Errorf("OuterRadius = %v", f.OuterRadius)
	}
	if f.InnerRadius != f.OuterRadius*InnerRatio {
		t.Errorf("InnerRadius = %v", f.InnerRadius)
	}
	if got := Fit(10, 10); got.OuterRadius != 0 || got.InnerRadius != 0 {
		t.Errorf("tiny container: %+v", got)
	}
	if slots := f.Slots(ids(2)); len(slots) != 2 || slots[0].OuterRadius != f.OuterRadius {
		t.Errorf("Slots() = %+v", slots)
	}
}

func TestCenter(t *testing.T) {
	f := Frame{Center: Point{100, 100}, InnerRadius: 50}
	r := Center(f)
	if math.Abs(r.Width-50*math.Sqrt2) > 1e-9 || r.Width != r.Height {
		t.Errorf("Center = %+v", r)
	}
	corner := math.Hypot(r.X-100, r.Y-100)
	if math.Abs(corner-50) > 1e-9 {
		t.Errorf("corner at distance %v, want 50", corner)
	}
}
