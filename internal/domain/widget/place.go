package widget

import (
	"fmt"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/geo"
)

type placeWidget struct {
	def constraint.Definition
}

func (w placeWidget) ID() constraint.ID { return w.def.ID }

func (w placeWidget) Render(v constraint.Value, d Data, _ Size) View {
	view := baseView(w.def, d)
	if p := current(w.def, v).(constraint.Place).Polygon(); p != nil {
		if raw, err := geo.EncodePolygon(p); err == nil {
			view.Region = raw
		}
	}
	return view
}

// Apply keeps a single region: the latest drawn polygon replaces any earlier one.
func (w placeWidget) Apply(v constraint.Value, _ Data, g Gesture) (constraint.Value, error) {
	switch g := g.(type) {
	case Draw:
		switch g.Event {
		case DrawCreate, DrawUpdate:
			if g.Polygon == nil {
				return nil, fmt.Errorf("%w: %s without polygon", domain.ErrInvalidGesture, g.Event)
			}
			place, err := constraint.NewPlace(g.Polygon)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrInvalidValue, err)
			}
			return place, nil
		case DrawDelete:
			return constraint.Place{}, nil
		default:
			return nil, fmt.Errorf("%w: draw event %q", domain.ErrInvalidGesture, g.Event)
		}
	case Close:
		return current(w.def, v), nil
	default:
		return nil, invalidGesture(w.def, g)
	}
}
