package query

import "github.com/intavia/visualquery/internal/domain/constraint"

// Action is a store transition triggered by one user event.
type Action interface {
	Name() string
	action()
}

// Add activates a constraint.
type Add struct{ ID constraint.ID }

// Remove deletes a constraint.
type Remove struct{ ID constraint.ID }

// SetValue replaces a constraint value.
type SetValue struct {
	ID    constraint.ID
	Value constraint.Value
}

// Toggle flips a constraint widget.
type Toggle struct{ ID constraint.ID }

// Clear removes all constraints.
type Clear struct{}

// Name implements Action.
func (Add) Name() string { return "add" }

// Name implements Action.
func (Remove) Name() string { return "remove" }

// Name implements Action.
func (SetValue) Name() string { return "set_value" }

// Name implements Action.
func (Toggle) Name() string { return "toggle" }

// Name implements Action.
func (Clear) Name() string { return "clear" }

func (Add) action()      {}
func (Remove) action()   {}
func (SetValue) action() {}
func (Toggle) action()   {}
func (Clear) action()    {}

// Reduce applies a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Add:
		return AddConstraint(s, a.ID)
	case Remove:
		return RemoveConstraint(s, a.ID)
	case SetValue:
		return SetConstraintValue(s, a.ID, a.Value)
	case Toggle:
		return ToggleConstraintWidget(s, a.ID)
	case Clear:
		return ClearAll(s)
	default:
		return s
	}
}
