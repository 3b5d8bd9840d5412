package widget

import "github.com/intavia/visualquery/internal/domain/constraint"

type textWidget struct {
	def constraint.Definition
}

func (w textWidget) ID() constraint.ID { return w.def.ID }

func (w textWidget) Render(v constraint.Value, d Data, _ Size) View {
	view := baseView(w.def, d)
	s, _ := current(w.def, v).(constraint.Text).Get()
	view.Text = &s
	return view
}

// Apply stores the raw input. Whitespace is trimmed only when compiling.
func (w textWidget) Apply(v constraint.Value, _ Data, g Gesture) (constraint.Value, error) {
	switch g := g.(type) {
	case Input:
		return constraint.NewText(g.Text), nil
	case Close:
		return current(w.def, v), nil
	default:
		return nil, invalidGesture(w.def, g)
	}
}
