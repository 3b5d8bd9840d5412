package widget

import (
	"math"
	"time"
)

// Scale maps a time domain linearly onto a pixel range. The domain is held in
// Unix milliseconds; historical spans overflow time.Duration.
type Scale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewScale creates a scale from [d0, d1] to [r0, r1].
func NewScale(d0, d1 time.Time, r0, r1 float64) Scale {
	return Scale{d0: float64(d0.UnixMilli()), d1: float64(d1.UnixMilli()), r0: r0, r1: r1}
}

// Pixel maps t to the range.
func (s Scale) Pixel(t time.Time) float64 {
	if s.d1 == s.d0 {
		return s.r0
	}
	f := (float64(t.UnixMilli()) - s.d0) / (s.d1 - s.d0)
	return s.r0 + f*(s.r1-s.r0)
}

// Invert maps a pixel back to the domain, clamping to the range ends.
func (s Scale) Invert(px float64) time.Time {
	if s.r1 == s.r0 {
		return time.UnixMilli(int64(s.d0)).UTC()
	}
	f := (px - s.r0) / (s.r1 - s.r0)
	f = math.Max(0, math.Min(1, f))
	return time.UnixMilli(int64(math.Round(s.d0 + f*(s.d1-s.d0)))).UTC()
}
