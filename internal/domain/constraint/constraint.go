package constraint

import "fmt"

// Constraint is one active filter criterion with its widget state.
type Constraint struct {
	id    ID
	open  bool
	value Value
}

// New validates and creates a Constraint. A nil value means the kind's default.
func New(id ID, open bool, value Value) (Constraint, error) {
	def, ok := Lookup(id)
	if !ok {
		return Constraint{}, fmt.Errorf("unknown constraint %q", id)
	}
	if value == nil {
		value = DefaultValue(def.Kind)
	}
	if value.Kind() != def.Kind {
		return Constraint{}, fmt.Errorf("constraint %q expects %s value, got %s", id, def.Kind, value.Kind())
	}
	return Constraint{id: id, open: open, value: value}, nil
}

// Reconstruct creates a Constraint without validation (hydration from a file or wire).
func Reconstruct(id ID, open bool, value Value) Constraint {
	return Constraint{id: id, open: open, value: value}
}

// ID returns the constraint identifier.
func (c Constraint) ID() ID { return c.id }

// Definition returns the palette entry, false for IDs outside the catalogue.
func (c Constraint) Definition() (Definition, bool) { return Lookup(c.id) }

// Kind returns the kind from the catalogue, empty for unknown IDs.
func (c Constraint) Kind() Kind {
	def, _ := Lookup(c.id)
	return def.Kind
}

// IsOpen reports whether the widget is expanded.
func (c Constraint) IsOpen() bool { return c.open }

// Value returns the current value.
func (c Constraint) Value() Value { return c.value }

// WithOpen returns a copy with the widget state replaced.
func (c Constraint) WithOpen(open bool) Constraint {
	c.open = open
	return c
}

// WithValue returns a copy with the value replaced.
func (c Constraint) WithValue(v Value) Constraint {
	c.value = v
	return c
}
