package constraint

import (
	"fmt"
	"strings"
	"time"

	"github.com/twpayne/go-geom"

	"github.com/intavia/visualquery/internal/domain/geo"
)

// Value is the current value of a constraint. The variant is fixed by the kind.
type Value interface {
	Kind() Kind
	// IsEmpty reports whether the value contributes nothing to a compiled query.
	IsEmpty() bool
	sealed()
}

// DefaultValue returns the null/empty value for a kind, nil for unknown kinds.
func DefaultValue(k Kind) Value {
	switch k {
	case KindText:
		return Text{}
	case KindDateRange:
		return DateRange{}
	case KindPlace:
		return Place{}
	case KindVocabulary:
		return Vocabulary{}
	case KindEntityKind:
		return EntityKinds{}
	default:
		return nil
	}
}

// Text is a free-text search term, stored raw (untrimmed).
type Text struct {
	text string
	set  bool
}

// NewText creates a non-null text value.
func NewText(s string) Text { return Text{text: s, set: true} }

// Kind implements Value.
func (Text) Kind() Kind { return KindText }

// IsEmpty reports null or whitespace-only text.
func (v Text) IsEmpty() bool { return !v.set || strings.TrimSpace(v.text) == "" }

// Get returns the raw text and whether it is set.
func (v Text) Get() (string, bool) { return v.text, v.set }

func (Text) sealed() {}

// DateRange is an inclusive [start, end] range; both bounds are set together.
type DateRange struct {
	start time.Time
	end   time.Time
	set   bool
}

// NewDateRange creates a range, ordering the bounds.
func NewDateRange(a, b time.Time) DateRange {
	if b.Before(a) {
		a, b = b, a
	}
	return DateRange{start: a, end: b, set: true}
}

// Kind implements Value.
func (DateRange) Kind() Kind { return KindDateRange }

// IsEmpty reports a null range.
func (v DateRange) IsEmpty() bool { return !v.set }

// Bounds returns start, end and whether the range is set.
func (v DateRange) Bounds() (time.Time, time.Time, bool) { return v.start, v.end, v.set }

func (DateRange) sealed() {}

// Place is a single drawn region.
type Place struct {
	polygon *geom.Polygon
}

// NewPlace validates the polygon and creates a place value.
func NewPlace(p *geom.Polygon) (Place, error) {
	if err := geo.ValidatePolygon(p); err != nil {
		return Place{}, fmt.Errorf("place: %w", err)
	}
	return Place{polygon: p}, nil
}

// Kind implements Value.
func (Place) Kind() Kind { return KindPlace }

// IsEmpty reports a missing geometry.
func (v Place) IsEmpty() bool { return v.polygon == nil }

// Polygon returns the geometry, nil when empty.
func (v Place) Polygon() *geom.Polygon { return v.polygon }

// BBox returns the bounding box of the region.
func (v Place) BBox() (geo.BBox, bool) {
	if v.polygon == nil {
		return geo.BBox{}, false
	}
	return geo.BoundingBox(v.polygon), true
}

func (Place) sealed() {}

// Vocabulary is an insertion-ordered set of selected vocabulary node IDs.
// Selection is per node: selecting a parent says nothing about its children.
type Vocabulary struct {
	ids []string
}

// NewVocabulary creates a selection, dropping duplicates and empty IDs.
func NewVocabulary(ids ...string) Vocabulary {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || containsString(out, id) {
			continue
		}
		out = append(out, id)
	}
	return Vocabulary{ids: out}
}

// Kind implements Value.
func (Vocabulary) Kind() Kind { return KindVocabulary }

// IsEmpty reports an empty selection.
func (v Vocabulary) IsEmpty() bool { return len(v.ids) == 0 }

// IDs returns the selected IDs in insertion order.
func (v Vocabulary) IDs() []string {
	out := make([]string, len(v.ids))
	copy(out, v.ids)
	return out
}

// Contains reports whether id is selected.
func (v Vocabulary) Contains(id string) bool { return containsString(v.ids, id) }

// Toggle returns a copy with id added or removed.
func (v Vocabulary) Toggle(id string) Vocabulary {
	if id == "" {
		return v
	}
	if v.Contains(id) {
		out := make([]string, 0, len(v.ids)-1)
		for _, x := range v.ids {
			if x != id {
				out = append(out, x)
			}
		}
		return Vocabulary{ids: out}
	}
	out := make([]string, len(v.ids), len(v.ids)+1)
	copy(out, v.ids)
	return Vocabulary{ids: append(out, id)}
}

func (Vocabulary) sealed() {}

// EntityKinds is a nullable insertion-ordered set of entity kinds.
type EntityKinds struct {
	kinds []EntityKind
	set   bool
}

// NewEntityKinds validates the kinds and creates a non-null set.
func NewEntityKinds(kinds ...EntityKind) (EntityKinds, error) {
	out := make([]EntityKind, 0, len(kinds))
	for _, k := range kinds {
		if !k.IsValid() {
			return EntityKinds{}, fmt.Errorf("unknown entity kind %q", k)
		}
		if containsKind(out, k) {
			continue
		}
		out = append(out, k)
	}
	return EntityKinds{kinds: out, set: true}, nil
}

// Kind implements Value.
func (EntityKinds) Kind() Kind { return KindEntityKind }

// IsEmpty reports a null or empty set.
func (v EntityKinds) IsEmpty() bool { return len(v.kinds) == 0 }

// Kinds returns the selected kinds in insertion order.
func (v EntityKinds) Kinds() []EntityKind {
	out := make([]EntityKind, len(v.kinds))
	copy(out, v.kinds)
	return out
}

// Contains reports whether k is selected.
func (v EntityKinds) Contains(k EntityKind) bool { return containsKind(v.kinds, k) }

// Toggle returns a copy with k added or removed. Unknown kinds are ignored.
func (v EntityKinds) Toggle(k EntityKind) EntityKinds {
	if !k.IsValid() {
		return v
	}
	out := make([]EntityKind, 0, len(v.kinds)+1)
	found := false
	for _, x := range v.kinds {
		if x == k {
			found = true
			continue
		}
		out = append(out, x)
	}
	if !found {
		out = append(out, k)
	}
	return EntityKinds{kinds: out, set: true}
}

func (EntityKinds) sealed() {}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func containsKind(xs []EntityKind, k EntityKind) bool {
	for _, x := range xs {
		if x == k {
			return true
		}
	}
	return false
}
