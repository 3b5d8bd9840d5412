package layout

import (
	"math"
	"strconv"
	"strings"
)

// ArcPath returns the SVG path of the donut slice: inner start, clockwise along
// the inner radius, out to the outer end, back along the outer radius, close.
// A full-ring slot is drawn as two half arcs per edge.
func ArcPath(s Slot) string {
	var b pathBuilder
	start, end := s.StartAngle, s.EndAngle
	if s.IsFull() {
		mid := start + FullCircle/2
		b.move(PointAt(s.Center, s.InnerRadius, start))
		b.arc(s.InnerRadius, false, true, PointAt(s.Center, s.InnerRadius, mid))
		b.arc(s.InnerRadius, false, true, PointAt(s.Center, s.InnerRadius, start))
		b.line(PointAt(s.Center, s.OuterRadius, start))
		b.arc(s.OuterRadius, false, false, PointAt(s.Center, s.OuterRadius, mid))
		b.arc(s.OuterRadius, false, false, PointAt(s.Center, s.OuterRadius, start))
		b.close()
		return b.String()
	}

	large := s.Span() > FullCircle/2
	b.move(PointAt(s.Center, s.InnerRadius, start))
	b.arc(s.InnerRadius, large, true, PointAt(s.Center, s.InnerRadius, end))
	b.line(PointAt(s.Center, s.OuterRadius, end))
	b.arc(s.OuterRadius, large, false, PointAt(s.Center, s.OuterRadius, start))
	b.close()
	return b.String()
}

// Label is the text path of a slot.
type Label struct {
	Path   string `json:"path"`
	Anchor Point  `json:"anchor"`
}

// LabelPath returns a clockwise arc at mid radius and the point at the arc
// midpoint where text is anchored.
func LabelPath(s Slot) Label {
	r := s.MidRadius()
	var b pathBuilder
	b.move(PointAt(s.Center, r, s.StartAngle))
	if s.IsFull() {
		mid := s.StartAngle + FullCircle/2
		b.arc(r, false, true, PointAt(s.Center, r, mid))
		b.arc(r, false, true, PointAt(s.Center, r, s.StartAngle))
	} else {
		b.arc(r, s.Span() > FullCircle/2, true, PointAt(s.Center, r, s.EndAngle))
	}
	return Label{Path: b.String(), Anchor: PointAt(s.Center, r, s.MidAngle())}
}

type pathBuilder struct {
	parts []string
}

func (b *pathBuilder) move(p Point) {
	b.parts = append(b.parts, "M", num(p.X), num(p.Y))
}

func (b *pathBuilder) line(p Point) {
	b.parts = append(b.parts, "L", num(p.X), num(p.Y))
}

func (b *pathBuilder) arc(r float64, large, clockwise bool, to Point) {
	b.parts = append(b.parts, "A", num(r), num(r), "0", flag(large), flag(clockwise), num(to.X), num(to.Y))
}

func (b *pathBuilder) close() {
	b.parts = append(b.parts, "Z")
}

func (b *pathBuilder) String() string {
	return strings.Join(b.parts, " ")
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// num rounds to three decimals; -0 prints as 0.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
