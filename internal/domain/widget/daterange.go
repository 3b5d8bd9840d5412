package widget

import (
	"fmt"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
)

// Bar is one histogram column.
type Bar struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type dateRangeWidget struct {
	def constraint.Definition
}

func (w dateRangeWidget) ID() constraint.ID { return w.def.ID }

func (w dateRangeWidget) Render(v constraint.Value, d Data, size Size) View {
	view := baseView(w.def, d)
	if !d.OK() {
		return view
	}
	bins := d.Histogram.Bins
	if len(bins) == 0 || size.Width <= 0 {
		return view
	}

	bw := size.Width / float64(len(bins))
	peak := d.Histogram.MaxCount()
	view.Bars = make([]Bar, len(bins))
	for i, b := range bins {
		h := 0.0
		if peak > 0 {
			h = size.Height * float64(b.Count) / float64(peak)
		}
		view.Bars[i] = Bar{
			Label:  b.Label,
			Count:  b.Count,
			X:      float64(i) * bw,
			Y:      size.Height - h,
			Width:  bw,
			Height: h,
		}
	}

	start, end, ok := current(w.def, v).(constraint.DateRange).Bounds()
	if lo, hi, has := d.Histogram.Domain(); ok && has {
		s := NewScale(lo, hi, 0, size.Width)
		view.Brush = &[2]float64{clamp(s.Pixel(start), 0, size.Width), clamp(s.Pixel(end), 0, size.Width)}
	}
	return view
}

// Apply converts a brush in pixels into a date range. A cleared brush clears the value.
func (w dateRangeWidget) Apply(v constraint.Value, d Data, g Gesture) (constraint.Value, error) {
	switch g := g.(type) {
	case Brush:
		if !d.OK() {
			return nil, inert(w.def, d)
		}
		if g.Extent == nil {
			return constraint.DateRange{}, nil
		}
		lo, hi, ok := d.Histogram.Domain()
		if !ok {
			return nil, inert(w.def, d)
		}
		if g.Width <= 0 {
			return nil, fmt.Errorf("%w: brush width %v", domain.ErrInvalidGesture, g.Width)
		}
		s := NewScale(lo, hi, 0, g.Width)
		return constraint.NewDateRange(s.Invert(g.Extent[0]), s.Invert(g.Extent[1])), nil
	case Close:
		return current(w.def, v), nil
	default:
		return nil, invalidGesture(w.def, g)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
