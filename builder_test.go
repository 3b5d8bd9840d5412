package visualquery

import (
	"testing"
	"time"

	"github.com/intavia/visualquery/internal/domain/constraint"
)

func date(y int) time.Time {
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func TestBuilder_Values(t *testing.T) {
	v, err := NewQuery().
		Name("  Mozart ").
		BornBetween(date(1800), date(1700)).
		Kinds("person").
		Occupations("composer", "pianist").
		Within([][2]float64{{10, 45}, {12, 45}, {12, 47}, {10, 47}}).
		Limit(20).
		Values()
	if err != nil {
		t.Fatalf("Values: %v", err)
	}

	want := map[string]string{
		"q":           "Mozart",
		"born_after":  "1700-01-01T00:00:00.000Z",
		"born_before": "1800-01-01T00:00:00.000Z",
		"kind":        "person",
		"bbox":        "10,45,12,47",
		"limit":       "20",
		"page":        "1",
	}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}
	if got := v["occupations_id"]; len(got) != 2 || got[0] != "composer" || got[1] != "pianist" {
		t.Errorf("occupations_id = %v", got)
	}
	if v.Has("died_after") {
		t.Error("died_after should be unset")
	}
}

func TestBuilder_Empty(t *testing.T) {
	p, err := NewQuery().Params()
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if p.Q != "" || len(p.Kind) != 0 || p.Limit != 0 {
		t.Errorf("unexpected params: %+v", p)
	}
}

func TestBuilder_LastSetterWins(t *testing.T) {
	b := NewQuery().Name("Bach").Name("Haydn").DiedBetween(date(1750), date(1760))
	p, err := b.Params()
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if p.Q != "Haydn" {
		t.Errorf("Q = %q, want Haydn", p.Q)
	}
	if p.DiedAfter != "1750-01-01T00:00:00.000Z" {
		t.Errorf("DiedAfter = %q", p.DiedAfter)
	}

	s, err := b.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("state has %d constraints, want 2", s.Len())
	}
	if _, ok := s.Get(constraint.IDPersonName); !ok {
		t.Error("person-name missing from state")
	}
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
	}{
		{"unknown kind", NewQuery().Kinds("spaceship")},
		{"degenerate ring", NewQuery().Within([][2]float64{{0, 0}, {1, 1}})},
		{"latitude range", NewQuery().Within([][2]float64{{0, 0}, {1, 95}, {2, 0}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.b.Params(); err == nil {
				t.Error("expected error")
			}
			if _, err := tt.b.Values(); err == nil {
				t.Error("expected error from Values")
			}
		})
	}
}

func TestBuilder_LimitClamped(t *testing.T) {
	p, err := NewQuery().Limit(5000).Params()
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if p.Limit != 1000 {
		t.Errorf("Limit = %d, want 1000", p.Limit)
	}
}
