// Package widget implements the per-kind constraint editors: each renders the
// current value against its aggregate data and turns one user gesture into a
// new value. Widgets hold no state.
package widget

import (
	"encoding/json"
	"fmt"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
)

// Widget edits the value of one constraint.
type Widget interface {
	ID() constraint.ID
	// Render describes the widget for the given value and data.
	Render(v constraint.Value, d Data, size Size) View
	// Apply returns the value that results from gesture g.
	Apply(v constraint.Value, d Data, g Gesture) (constraint.Value, error)
}

// Size is the pixel area available to a widget.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// View is the render description of a widget. Only the fields of the widget kind are set.
type View struct {
	ID      constraint.ID   `json:"id"`
	Kind    constraint.Kind `json:"kind"`
	Label   string          `json:"label"`
	Status  Status          `json:"status"`
	Message string          `json:"message,omitempty"`
	Text    *string         `json:"text,omitempty"`
	Bars    []Bar           `json:"bars,omitempty"`
	Brush   *[2]float64     `json:"brush,omitempty"`
	Region  json.RawMessage `json:"region,omitempty"`
	Cells   []Cell          `json:"cells,omitempty"`
	Options []Option        `json:"options,omitempty"`
}

// For returns the widget of a catalogue constraint.
func For(id constraint.ID) (Widget, error) {
	def, ok := constraint.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownConstraint, id)
	}
	switch def.Kind {
	case constraint.KindText:
		return textWidget{def: def}, nil
	case constraint.KindDateRange:
		return dateRangeWidget{def: def}, nil
	case constraint.KindPlace:
		return placeWidget{def: def}, nil
	case constraint.KindVocabulary:
		return vocabularyWidget{def: def}, nil
	case constraint.KindEntityKind:
		return entityKindWidget{def: def}, nil
	default:
		return nil, fmt.Errorf("%w: %s has kind %s", domain.ErrUnknownConstraint, id, def.Kind)
	}
}

// NeedsData reports whether the widget of kind k renders fetched aggregates.
func NeedsData(k constraint.Kind) bool {
	switch k {
	case constraint.KindDateRange, constraint.KindVocabulary, constraint.KindEntityKind:
		return true
	default:
		return false
	}
}

// GesturesNeedData reports whether gestures on kind k are resolved against
// fetched aggregates (brush pixels to dates, clicks to tree nodes).
func GesturesNeedData(k constraint.Kind) bool {
	return k == constraint.KindDateRange || k == constraint.KindVocabulary
}

func baseView(def constraint.Definition, d Data) View {
	return View{ID: def.ID, Kind: def.Kind, Label: def.Label, Status: d.Status, Message: d.Message}
}

func invalidGesture(def constraint.Definition, g Gesture) error {
	return fmt.Errorf("%w: %T for %s", domain.ErrInvalidGesture, g, def.ID)
}

func inert(def constraint.Definition, d Data) error {
	return fmt.Errorf("%w: %s is %s", domain.ErrWidgetInert, def.ID, d.Status)
}

// current returns v when it has the widget's kind, else the kind default.
func current(def constraint.Definition, v constraint.Value) constraint.Value {
	if v == nil || v.Kind() != def.Kind {
		return constraint.DefaultValue(def.Kind)
	}
	return v
}
