// Package statistics holds the aggregate distributions that the constraint
// widgets visualize.
package statistics

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bin is one histogram bucket covering [Min, Max].
type Bin struct {
	Label string
	Count int
	Min   time.Time
	Max   time.Time
}

type binJSON struct {
	Label  string       `json:"label"`
	Count  int          `json:"count"`
	Values [2]time.Time `json:"values"`
}

// MarshalJSON encodes the bin in the API shape {label, count, values: [min, max]}.
func (b Bin) MarshalJSON() ([]byte, error) {
	return json.Marshal(binJSON{Label: b.Label, Count: b.Count, Values: [2]time.Time{b.Min, b.Max}})
}

// UnmarshalJSON decodes the API shape.
func (b *Bin) UnmarshalJSON(data []byte) error {
	var raw binJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode bin: %w", err)
	}
	*b = Bin{Label: raw.Label, Count: raw.Count, Min: raw.Values[0].UTC(), Max: raw.Values[1].UTC()}
	return nil
}

// Histogram is a date distribution (e.g. births) for the current filters.
type Histogram struct {
	Bins []Bin `json:"bins"`
}

// IsEmpty reports a histogram without bins or without any counted entity.
func (h Histogram) IsEmpty() bool {
	for _, b := range h.Bins {
		if b.Count > 0 {
			return false
		}
	}
	return true
}

// Domain returns the earliest and latest bounds over all bins.
func (h Histogram) Domain() (time.Time, time.Time, bool) {
	if len(h.Bins) == 0 {
		return time.Time{}, time.Time{}, false
	}
	lo, hi := h.Bins[0].Min, h.Bins[0].Max
	for _, b := range h.Bins[1:] {
		if b.Min.Before(lo) {
			lo = b.Min
		}
		if b.Max.After(hi) {
			hi = b.Max
		}
	}
	return lo, hi, true
}

// MaxCount returns the largest bin count.
func (h Histogram) MaxCount() int {
	m := 0
	for _, b := range h.Bins {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}
