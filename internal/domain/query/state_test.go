package query

import (
	"testing"

	"github.com/intavia/visualquery/internal/domain/constraint"
)

func openIDs(s State) []constraint.ID {
	var out []constraint.ID
	for _, c := range s.Constraints() {
		if c.IsOpen() {
			out = append(out, c.ID())
		}
	}
	return out
}

func TestAddConstraint(t *testing.T) {
	s := AddConstraint(NewState(), constraint.IDPersonName)
	s = AddConstraint(s, constraint.IDDateOfBirth)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	ids := s.IDs()
	if ids[0] != constraint.IDPersonName || ids[1] != constraint.IDDateOfBirth {
		t.Errorf("IDs() = %v, want insertion order", ids)
	}
	open := openIDs(s)
	if len(open) != 1 || open[0] != constraint.IDDateOfBirth {
		t.Errorf("open = %v, want only %s", open, constraint.IDDateOfBirth)
	}
	c, _ := s.Get(constraint.IDDateOfBirth)
	if !c.Value().IsEmpty() {
		t.Error("new constraint should carry an empty default value")
	}
}

func TestAddConstraint_IdempotentKeepsValue(t *testing.T) {
	s := AddConstraint(NewState(), constraint.IDPersonName)
	s = SetConstraintValue(s, constraint.IDPersonName, constraint.NewText("Mozart"))
	s = AddConstraint(s, constraint.IDOccupation)
	s = AddConstraint(s, constraint.IDPersonName)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	c, _ := s.Get(constraint.IDPersonName)
	if !c.IsOpen() {
		t.Error("re-added constraint should be open")
	}
	if txt, _ := c.Value().(constraint.Text).Get(); txt != "Mozart" {
		t.Errorf("value = %q, want Mozart", txt)
	}
	if open := openIDs(s); len(open) != 1 {
		t.Errorf("open = %v, want exactly one", open)
	}
}

func TestAddConstraint_UnknownIgnored(t *testing.T) {
	s := AddConstraint(NewState(), "nope")
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestAddConstraint_DoesNotMutateInput(t *testing.T) {
	before := AddConstraint(NewState(), constraint.IDPersonName)
	_ = AddConstraint(before, constraint.IDPlace)

	if before.Len() != 1 {
		t.Errorf("input Len() = %d, want 1", before.Len())
	}
	c, _ := before.Get(constraint.IDPersonName)
	if !c.IsOpen() {
		t.Error("input constraint was closed by a later transition")
	}
}

func TestRemoveConstraint(t *testing.T) {
	s := AddConstraint(NewState(), constraint.IDPersonName)
	s = AddConstraint(s, constraint.IDPlace)
	s = AddConstraint(s, constraint.IDOccupation)

	s = RemoveConstraint(s, constraint.IDPlace)
	ids := s.IDs()
	if len(ids) != 2 || ids[0] != constraint.IDPersonName || ids[1] != constraint.IDOccupation {
		t.Errorf("IDs() = %v", ids)
	}

	same := RemoveConstraint(s, constraint.IDPlace)
	if same.Len() != 2 {
		t.Errorf("removing absent id changed state: %v", same.IDs())
	}
}

func TestSetConstraintValue(t *testing.T) {
	s := AddConstraint(NewState(), constraint.IDPersonName)
	s = ToggleConstraintWidget(s, constraint.IDPersonName)

	s = SetConstraintValue(s, constraint.IDPersonName, constraint.NewText("Bach"))
	c, _ := s.Get(constraint.IDPersonName)
	if c.IsOpen() {
		t.Error("SetConstraintValue must not change widget state")
	}
	if txt, _ := c.Value().(constraint.Text).Get(); txt != "Bach" {
		t.Errorf("value = %q", txt)
	}

	tests := []struct {
		name string
		id   constraint.ID
		v    constraint.Value
	}{
		{"unknown id", constraint.IDPlace, constraint.NewText("x")},
		{"wrong kind", constraint.IDPersonName, constraint.NewVocabulary("a")},
		{"nil value", constraint.IDPersonName, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SetConstraintValue(s, tc.id, tc.v)
			if got.Len() != 1 {
				t.Fatalf("Len() = %d", got.Len())
			}
			c, _ := got.Get(constraint.IDPersonName)
			if txt, _ := c.Value().(constraint.Text).Get(); txt != "Bach" {
				t.Errorf("value changed to %q", txt)
			}
		})
	}
}

func TestToggleConstraintWidget(t *testing.T) {
	s := AddConstraint(NewState(), constraint.IDPersonName)
	s = AddConstraint(s, constraint.IDPlace)

	s = ToggleConstraintWidget(s, constraint.IDPersonName)
	if open := openIDs(s); len(open) != 1 || open[0] != constraint.IDPersonName {
		t.Errorf("after opening: open = %v", open)
	}

	s = ToggleConstraintWidget(s, constraint.IDPersonName)
	if open := openIDs(s); len(open) != 0 {
		t.Errorf("after closing: open = %v", open)
	}

	s = ToggleConstraintWidget(s, "missing")
	if s.Len() != 2 {
		t.Errorf("Len() = %d", s.Len())
	}
}

// stateOf builds a state directly, bypassing the single-open rule.
func stateOf(open map[constraint.ID]bool, ids ...constraint.ID) State {
	s := NewState()
	for _, id := range ids {
		s.order = append(s.order, id)
		s.items[id] = constraint.Reconstruct(id, open[id], nil)
	}
	return s
}

func TestExclusive(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		id       constraint.ID
		wantOpen []constraint.ID
	}{
		{
			name:  "absent id closes everything",
			state: stateOf(map[constraint.ID]bool{constraint.IDPlace: true}, constraint.IDPersonName, constraint.IDPlace),
			id:    constraint.IDOccupation,
		},
		{
			name:     "single entry",
			state:    stateOf(nil, constraint.IDPlace),
			id:       constraint.IDPlace,
			wantOpen: []constraint.ID{constraint.IDPlace},
		},
		{
			name: "several pre-opened",
			state: stateOf(map[constraint.ID]bool{
				constraint.IDPersonName:  true,
				constraint.IDDateOfBirth: true,
				constraint.IDEntityKind:  true,
			}, constraint.IDPersonName, constraint.IDDateOfBirth, constraint.IDPlace, constraint.IDEntityKind),
			id:       constraint.IDPlace,
			wantOpen: []constraint.ID{constraint.IDPlace},
		},
		{
			name:  "empty state",
			state: NewState(),
			id:    constraint.IDPlace,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.state.IDs()
			got := exclusive(tc.state.clone(), tc.id)
			open := openIDs(got)
			if len(open) != len(tc.wantOpen) {
				t.Fatalf("open = %v, want %v", open, tc.wantOpen)
			}
			for i := range open {
				if open[i] != tc.wantOpen[i] {
					t.Errorf("open = %v, want %v", open, tc.wantOpen)
				}
			}
			ids := got.IDs()
			if len(ids) != len(before) {
				t.Fatalf("IDs() = %v, want %v", ids, before)
			}
			for i := range ids {
				if ids[i] != before[i] {
					t.Errorf("IDs() = %v, want order %v", ids, before)
				}
			}
		})
	}
}

func TestToggleConstraintWidget_DoesNotMutateInput(t *testing.T) {
	in := stateOf(map[constraint.ID]bool{
		constraint.IDPersonName: true,
		constraint.IDPlace:      true,
	}, constraint.IDPersonName, constraint.IDPlace, constraint.IDOccupation)

	out := ToggleConstraintWidget(in, constraint.IDOccupation)

	if open := openIDs(out); len(open) != 1 || open[0] != constraint.IDOccupation {
		t.Errorf("output open = %v", open)
	}
	open := openIDs(in)
	if len(open) != 2 || open[0] != constraint.IDPersonName || open[1] != constraint.IDPlace {
		t.Errorf("input changed: open = %v", open)
	}
	if c, _ := in.Get(constraint.IDOccupation); c.IsOpen() {
		t.Error("input occupation opened")
	}
}

func TestClearAll(t *testing.T) {
	s := AddConstraint(NewState(), constraint.IDPersonName)
	s = ClearAll(s)
	if s.Len() != 0 {
		t.Errorf("Len() = %d", s.Len())
	}
	if _, ok := s.Open(); ok {
		t.Error("Open() should be empty")
	}
}

func TestFromConstraints(t *testing.T) {
	s := FromConstraints([]constraint.Constraint{
		constraint.Reconstruct(constraint.IDPersonName, true, constraint.NewText("a")),
		constraint.Reconstruct(constraint.IDPlace, true, constraint.Place{}),
		constraint.Reconstruct(constraint.IDPersonName, false, constraint.NewText("b")),
	})
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if open := openIDs(s); len(open) != 1 || open[0] != constraint.IDPersonName {
		t.Errorf("open = %v", open)
	}
}

func TestReduce(t *testing.T) {
	actions := []Action{
		Add{ID: constraint.IDPersonName},
		SetValue{ID: constraint.IDPersonName, Value: constraint.NewText("Mozart")},
		Add{ID: constraint.IDEntityKind},
		Toggle{ID: constraint.IDEntityKind},
		Add{ID: constraint.IDPlace},
		Remove{ID: constraint.IDPlace},
	}
	s := NewState()
	for _, a := range actions {
		s = Reduce(s, a)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if _, ok := s.Open(); ok {
		t.Error("no widget should be open")
	}
	s = Reduce(s, Clear{})
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d", s.Len())
	}
}

func TestActionNames(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{Add{}, "add"},
		{Remove{}, "remove"},
		{SetValue{}, "set_value"},
		{Toggle{}, "toggle"},
		{Clear{}, "clear"},
	}
	for _, tc := range tests {
		if got := tc.a.Name(); got != tc.want {
			t.Errorf("Name() = %q, want %q", got, tc.want)
		}
	}
}
