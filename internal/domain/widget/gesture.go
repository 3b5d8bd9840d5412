package widget

import "github.com/twpayne/go-geom"

// Gesture is one user interaction with a widget.
type Gesture interface {
	gesture()
}

// Input is a keystroke in the text widget carrying the raw field content.
type Input struct {
	Text string
}

// Brush is the end of a histogram brush. A nil Extent clears the brush.
type Brush struct {
	Extent *[2]float64
	Width  float64
}

// DrawEvent is the map draw callback that produced a Draw gesture.
type DrawEvent string

// Draw events.
const (
	DrawCreate DrawEvent = "create"
	DrawUpdate DrawEvent = "update"
	DrawDelete DrawEvent = "delete"
)

// IsValid reports whether e is a known draw event.
func (e DrawEvent) IsValid() bool {
	switch e {
	case DrawCreate, DrawUpdate, DrawDelete:
		return true
	default:
		return false
	}
}

// Draw is a map drawing callback.
type Draw struct {
	Event   DrawEvent
	Polygon *geom.Polygon
}

// Toggle flips one item of a multi-select widget.
type Toggle struct {
	Item string
}

// Close asks the container to collapse the widget.
type Close struct{}

func (Input) gesture()  {}
func (Brush) gesture()  {}
func (Draw) gesture()   {}
func (Toggle) gesture() {}
func (Close) gesture()  {}
