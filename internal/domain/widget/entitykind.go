package widget

import (
	"fmt"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
)

// Option is one checkbox of the entity-kind widget.
type Option struct {
	Kind    constraint.EntityKind `json:"kind"`
	Count   int                   `json:"count"`
	Checked bool                  `json:"checked"`
}

type entityKindWidget struct {
	def constraint.Definition
}

func (w entityKindWidget) ID() constraint.ID { return w.def.ID }

// Render always lists the full enum; counts are filled in once data arrived.
func (w entityKindWidget) Render(v constraint.Value, d Data, _ Size) View {
	view := baseView(w.def, d)
	sel := current(w.def, v).(constraint.EntityKinds)
	for _, k := range constraint.AllEntityKinds() {
		opt := Option{Kind: k, Checked: sel.Contains(k)}
		if d.OK() {
			opt.Count = d.Kinds.CountFor(string(k))
		}
		view.Options = append(view.Options, opt)
	}
	return view
}

func (w entityKindWidget) Apply(v constraint.Value, _ Data, g Gesture) (constraint.Value, error) {
	switch g := g.(type) {
	case Toggle:
		k := constraint.EntityKind(g.Item)
		if !k.IsValid() {
			return nil, fmt.Errorf("%w: entity kind %q", domain.ErrInvalidGesture, g.Item)
		}
		return current(w.def, v).(constraint.EntityKinds).Toggle(k), nil
	case Close:
		return current(w.def, v), nil
	default:
		return nil, invalidGesture(w.def, g)
	}
}
