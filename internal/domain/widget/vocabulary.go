package widget

import (
	"fmt"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/vocabulary"
)

// Cell is one node of the vocabulary plot.
type Cell struct {
	vocabulary.Cell
	Selected bool `json:"selected"`
}

type vocabularyWidget struct {
	def constraint.Definition
}

func (w vocabularyWidget) ID() constraint.ID { return w.def.ID }

func (w vocabularyWidget) Render(v constraint.Value, d Data, size Size) View {
	view := baseView(w.def, d)
	if !d.OK() || d.Tree == nil {
		return view
	}
	sel := current(w.def, v).(constraint.Vocabulary)
	for _, c := range vocabulary.Partition(d.Tree, size.Width, size.Height) {
		view.Cells = append(view.Cells, Cell{Cell: c, Selected: sel.Contains(c.ID)})
	}
	return view
}

// Apply toggles one node. Parents and children are selected independently.
func (w vocabularyWidget) Apply(v constraint.Value, d Data, g Gesture) (constraint.Value, error) {
	switch g := g.(type) {
	case Toggle:
		if !d.OK() || d.Tree == nil {
			return nil, inert(w.def, d)
		}
		n := d.Tree.Find(g.Item)
		if n == nil || n.IsRoot() {
			return nil, fmt.Errorf("%w: no vocabulary node %q", domain.ErrInvalidGesture, g.Item)
		}
		return current(w.def, v).(constraint.Vocabulary).Toggle(n.ID), nil
	case Close:
		return current(w.def, v), nil
	default:
		return nil, invalidGesture(w.def, g)
	}
}
