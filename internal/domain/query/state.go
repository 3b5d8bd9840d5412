// Package query is the constraint store and query compiler of the visual query
// builder. All transitions are pure: they take a State and return a new one.
package query

import "github.com/intavia/visualquery/internal/domain/constraint"

// State is the set of active constraints in insertion order.
type State struct {
	order []constraint.ID
	items map[constraint.ID]constraint.Constraint
}

// NewState returns a state without constraints.
func NewState() State {
	return State{items: map[constraint.ID]constraint.Constraint{}}
}

// FromConstraints hydrates a state. Duplicate IDs keep the first entry and only
// the first open constraint stays open.
func FromConstraints(cs []constraint.Constraint) State {
	s := NewState()
	opened := false
	for _, c := range cs {
		if _, dup := s.items[c.ID()]; dup {
			continue
		}
		if c.IsOpen() {
			if opened {
				c = c.WithOpen(false)
			}
			opened = true
		}
		s.order = append(s.order, c.ID())
		s.items[c.ID()] = c
	}
	return s
}

// Len returns the number of active constraints.
func (s State) Len() int { return len(s.order) }

// Get returns the constraint for id.
func (s State) Get(id constraint.ID) (constraint.Constraint, bool) {
	c, ok := s.items[id]
	return c, ok
}

// Has reports whether id is active.
func (s State) Has(id constraint.ID) bool {
	_, ok := s.items[id]
	return ok
}

// IDs returns the active IDs in insertion order.
func (s State) IDs() []constraint.ID {
	out := make([]constraint.ID, len(s.order))
	copy(out, s.order)
	return out
}

// Constraints returns the active constraints in insertion order.
func (s State) Constraints() []constraint.Constraint {
	out := make([]constraint.Constraint, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Open returns the expanded constraint, if any.
func (s State) Open() (constraint.Constraint, bool) {
	for _, id := range s.order {
		if c := s.items[id]; c.IsOpen() {
			return c, true
		}
	}
	return constraint.Constraint{}, false
}

func (s State) clone() State {
	items := make(map[constraint.ID]constraint.Constraint, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	order := make([]constraint.ID, len(s.order))
	copy(order, s.order)
	return State{order: order, items: items}
}

// exclusive opens id and closes every other constraint.
func exclusive(s State, id constraint.ID) State {
	for k, c := range s.items {
		s.items[k] = c.WithOpen(k == id)
	}
	return s
}

// AddConstraint activates id with its default value and opens its widget,
// closing all others. An existing constraint keeps its value and is reopened.
// IDs outside the catalogue are ignored.
func AddConstraint(s State, id constraint.ID) State {
	if s.Has(id) {
		return exclusive(s.clone(), id)
	}
	c, err := constraint.New(id, true, nil)
	if err != nil {
		return s
	}
	next := s.clone()
	next.order = append(next.order, id)
	next.items[id] = c
	return exclusive(next, id)
}

// RemoveConstraint deletes id. Absent IDs are ignored.
func RemoveConstraint(s State, id constraint.ID) State {
	if !s.Has(id) {
		return s
	}
	next := s.clone()
	delete(next.items, id)
	order := next.order[:0]
	for _, x := range next.order {
		if x != id {
			order = append(order, x)
		}
	}
	next.order = order
	return next
}

// SetConstraintValue replaces the value of id, keeping its widget state.
// Unknown IDs and values of the wrong kind are ignored.
func SetConstraintValue(s State, id constraint.ID, v constraint.Value) State {
	c, ok := s.items[id]
	if !ok || v == nil || v.Kind() != c.Kind() {
		return s
	}
	next := s.clone()
	next.items[id] = c.WithValue(v)
	return next
}

// ToggleConstraintWidget flips the widget state of id. Opening closes all others.
func ToggleConstraintWidget(s State, id constraint.ID) State {
	c, ok := s.items[id]
	if !ok {
		return s
	}
	next := s.clone()
	if c.IsOpen() {
		next.items[id] = c.WithOpen(false)
		return next
	}
	return exclusive(next, id)
}

// ClearAll removes every constraint.
func ClearAll(State) State {
	return NewState()
}
