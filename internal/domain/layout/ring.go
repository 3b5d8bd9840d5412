// Package layout places constraint slots on the query ring. Angles are in
// degrees, 0 at 12 o'clock, growing clockwise in screen coordinates.
package layout

import (
	"math"

	"github.com/intavia/visualquery/internal/domain/constraint"
)

// FullCircle is the sweep of the ring in degrees.
const FullCircle = 360.0

// Point is a position in container pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Slot is the annular sector owned by one constraint.
type Slot struct {
	ID          constraint.ID `json:"id"`
	StartAngle  float64       `json:"start_angle"`
	EndAngle    float64       `json:"end_angle"`
	InnerRadius float64       `json:"inner_radius"`
	OuterRadius float64       `json:"outer_radius"`
	Center      Point         `json:"center"`
}

// Span returns the angular width of the slot.
func (s Slot) Span() float64 { return s.EndAngle - s.StartAngle }

// IsFull reports whether the slot covers the whole ring.
func (s Slot) IsFull() bool { return s.Span() >= FullCircle }

// MidAngle returns the angle halfway through the slot.
func (s Slot) MidAngle() float64 { return (s.StartAngle + s.EndAngle) / 2 }

// MidRadius returns the radius halfway between the ring edges.
func (s Slot) MidRadius() float64 { return (s.InnerRadius + s.OuterRadius) / 2 }

// Ring divides the circle into equal slots in list order. The first slot starts
// at 0 and each slot ends exactly where the next one starts.
func Ring(ids []constraint.ID, center Point, inner, outer float64) []Slot {
	n := len(ids)
	if n == 0 {
		return nil
	}
	slots := make([]Slot, n)
	for i, id := range ids {
		slots[i] = Slot{
			ID:          id,
			StartAngle:  boundary(i, n),
			EndAngle:    boundary(i+1, n),
			InnerRadius: inner,
			OuterRadius: outer,
			Center:      center,
		}
	}
	return slots
}

func boundary(i, n int) float64 {
	if i == n {
		return FullCircle
	}
	return float64(i) * FullCircle / float64(n)
}

// PointAt returns the point at angle deg on the circle of radius r around c.
func PointAt(c Point, r, deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{X: c.X + r*math.Sin(rad), Y: c.Y - r*math.Cos(rad)}
}

// SlotAt returns the slot under angle deg, normalised into [0, 360).
func SlotAt(slots []Slot, deg float64) (Slot, bool) {
	deg = math.Mod(deg, FullCircle)
	if deg < 0 {
		deg += FullCircle
	}
	for _, s := range slots {
		if deg >= s.StartAngle && deg < s.EndAngle {
			return s, true
		}
	}
	return Slot{}, false
}
