package visualquery

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/geo"
	"github.com/intavia/visualquery/internal/domain/query"
	"github.com/intavia/visualquery/internal/domain/search/params"
)

// Builder is a fluent builder for constraint queries. Calling a setter twice
// replaces the earlier value. Invalid arguments are collected and reported by
// Params, Values and State.
type Builder struct {
	state query.State
	limit int
	errs  []error
}

// NewQuery starts an empty query.
func NewQuery() *Builder {
	return &Builder{state: query.NewState()}
}

// Name filters by entity name.
func (b *Builder) Name(q string) *Builder {
	return b.set(constraint.IDPersonName, constraint.NewText(q))
}

// BornBetween filters by date of birth. Bounds may be given in either order.
func (b *Builder) BornBetween(from, to time.Time) *Builder {
	return b.set(constraint.IDDateOfBirth, constraint.NewDateRange(from, to))
}

// DiedBetween filters by date of death. Bounds may be given in either order.
func (b *Builder) DiedBetween(from, to time.Time) *Builder {
	return b.set(constraint.IDDateOfDeath, constraint.NewDateRange(from, to))
}

// Within filters by a region given as a lon/lat ring. The ring is closed
// automatically; only its bounding box reaches the search.
func (b *Builder) Within(ring [][2]float64) *Builder {
	p, err := geo.NewPolygon(ring)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("within: %w", err))
		return b
	}
	place, err := constraint.NewPlace(p)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("within: %w", err))
		return b
	}
	return b.set(constraint.IDPlace, place)
}

// Occupations filters by occupation vocabulary IDs.
func (b *Builder) Occupations(ids ...string) *Builder {
	return b.set(constraint.IDOccupation, constraint.NewVocabulary(ids...))
}

// Kinds restricts the entity kinds ("person", "group", "place", "event",
// "cultural-heritage-object").
func (b *Builder) Kinds(kinds ...string) *Builder {
	ek := make([]constraint.EntityKind, len(kinds))
	for i, k := range kinds {
		ek[i] = constraint.EntityKind(k)
	}
	v, err := constraint.NewEntityKinds(ek...)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("kinds: %w", err))
		return b
	}
	return b.set(constraint.IDEntityKind, v)
}

// Limit sets the page size. Values above the API maximum are clamped.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// State returns the underlying constraint store.
func (b *Builder) State() (query.State, error) {
	if err := errors.Join(b.errs...); err != nil {
		return query.State{}, err
	}
	return b.state, nil
}

// Params compiles the query into first-page search parameters.
func (b *Builder) Params() (params.Params, error) {
	s, err := b.State()
	if err != nil {
		return params.Params{}, err
	}
	return query.CompileState(s, b.limit), nil
}

// Values compiles the query into URL parameters.
func (b *Builder) Values() (url.Values, error) {
	p, err := b.Params()
	if err != nil {
		return nil, err
	}
	return p.Values(), nil
}

func (b *Builder) set(id constraint.ID, v constraint.Value) *Builder {
	b.state = query.AddConstraint(b.state, id)
	b.state = query.SetConstraintValue(b.state, id, v)
	return b
}
