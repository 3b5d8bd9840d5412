package layout

import (
	"math"

	"github.com/intavia/visualquery/internal/domain/constraint"
)

const (
	// Padding keeps the ring off the container edge.
	Padding = 16.0
	// InnerRatio is the inner radius as a share of the outer radius.
	InnerRatio = 0.6
)

// Frame is the ring geometry for a container.
type Frame struct {
	Center      Point   `json:"center"`
	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
}

// Rect is an axis-aligned region in container pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Fit centers the ring in a width x height container.
func Fit(width, height float64) Frame {
	outer := math.Max(math.Min(width, height)/2-Padding, 0)
	return Frame{
		Center:      Point{X: width / 2, Y: height / 2},
		InnerRadius: outer * InnerRatio,
		OuterRadius: outer,
	}
}

// Slots lays out ids on the frame.
func (f Frame) Slots(ids []constraint.ID) []Slot {
	return Ring(ids, f.Center, f.InnerRadius, f.OuterRadius)
}

// Center returns the largest square inside the inner radius, where the open
// widget is rendered.
func Center(f Frame) Rect {
	side := f.InnerRadius * math.Sqrt2
	return Rect{
		X:      f.Center.X - side/2,
		Y:      f.Center.Y - side/2,
		Width:  side,
		Height: side,
	}
}
