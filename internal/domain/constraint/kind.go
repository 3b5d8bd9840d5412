// Package constraint models the typed search criteria a user composes in the
// visual query builder.
package constraint

// Kind is the value discriminant of a constraint.
type Kind string

// Constraint kinds.
const (
	KindText       Kind = "text"
	KindDateRange  Kind = "date-range"
	KindPlace      Kind = "place"
	KindVocabulary Kind = "vocabulary"
	KindEntityKind Kind = "entity-kind"
)

// IsValid checks if the kind is supported.
func (k Kind) IsValid() bool {
	switch k {
	case KindText, KindDateRange, KindPlace, KindVocabulary, KindEntityKind:
		return true
	default:
		return false
	}
}

// ID identifies a constraint. At most one constraint per ID is active.
type ID string

// Constraint IDs in palette order.
const (
	IDPersonName  ID = "person-name"
	IDDateOfBirth ID = "date-of-birth"
	IDDateOfDeath ID = "date-of-death"
	IDPlace       ID = "place"
	IDOccupation  ID = "occupation"
	IDEntityKind  ID = "entity-kind"
)

// Event is the life event a date-range constraint refers to.
type Event string

// Life events for date-range constraints.
const (
	EventNone  Event = ""
	EventBirth Event = "birth"
	EventDeath Event = "death"
)

// Definition describes one entry of the constraint palette.
type Definition struct {
	ID    ID
	Kind  Kind
	Label string
	Event Event
}

var definitions = []Definition{
	{ID: IDPersonName, Kind: KindText, Label: "Name"},
	{ID: IDDateOfBirth, Kind: KindDateRange, Label: "Date of Birth", Event: EventBirth},
	{ID: IDDateOfDeath, Kind: KindDateRange, Label: "Date of Death", Event: EventDeath},
	{ID: IDPlace, Kind: KindPlace, Label: "Place"},
	{ID: IDOccupation, Kind: KindVocabulary, Label: "Occupation"},
	{ID: IDEntityKind, Kind: KindEntityKind, Label: "Entity Kind"},
}

// Definitions returns the palette in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for id.
func Lookup(id ID) (Definition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// EntityKind is the type of an entity returned by the search API.
type EntityKind string

// Entity kinds.
const (
	EntityPerson                 EntityKind = "person"
	EntityGroup                  EntityKind = "group"
	EntityPlace                  EntityKind = "place"
	EntityEvent                  EntityKind = "event"
	EntityCulturalHeritageObject EntityKind = "cultural-heritage-object"
)

var entityKinds = []EntityKind{
	EntityPerson, EntityGroup, EntityPlace, EntityEvent, EntityCulturalHeritageObject,
}

// AllEntityKinds returns the fixed enum in display order.
func AllEntityKinds() []EntityKind {
	out := make([]EntityKind, len(entityKinds))
	copy(out, entityKinds)
	return out
}

// IsValid checks if the entity kind is part of the enum.
func (k EntityKind) IsValid() bool {
	for _, e := range entityKinds {
		if e == k {
			return true
		}
	}
	return false
}
