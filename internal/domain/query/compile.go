package query

import (
	"strings"

	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/search/params"
)

// Compile folds constraints into search parameters. The result always starts at
// the first page; a limit equal to the default page size is elided. Unknown
// constraints and empty values contribute nothing.
func Compile(cs []constraint.Constraint, limit int) params.Params {
	p := params.Params{Page: params.FirstPage, Limit: params.NormalizeLimit(limit)}
	for _, c := range cs {
		apply(&p, c)
	}
	return p
}

// CompileExcept compiles every constraint but except. Widget aggregates are
// parameterised by all other active filters.
func CompileExcept(cs []constraint.Constraint, except constraint.ID, limit int) params.Params {
	rest := make([]constraint.Constraint, 0, len(cs))
	for _, c := range cs {
		if c.ID() != except {
			rest = append(rest, c)
		}
	}
	return Compile(rest, limit)
}

// CompileState compiles a settled store snapshot.
func CompileState(s State, limit int) params.Params {
	return Compile(s.Constraints(), limit)
}

func apply(p *params.Params, c constraint.Constraint) {
	def, ok := c.Definition()
	v := c.Value()
	if !ok || v == nil || v.IsEmpty() || v.Kind() != def.Kind {
		return
	}

	switch v := v.(type) {
	case constraint.Text:
		s, _ := v.Get()
		p.Q = strings.TrimSpace(s)
	case constraint.DateRange:
		start, end, _ := v.Bounds()
		switch def.Event {
		case constraint.EventBirth:
			p.BornAfter = constraint.FormatInstant(start)
			p.BornBefore = constraint.FormatInstant(end)
		case constraint.EventDeath:
			p.DiedAfter = constraint.FormatInstant(start)
			p.DiedBefore = constraint.FormatInstant(end)
		}
	case constraint.Place:
		box, _ := v.BBox()
		arr := box.Array()
		p.BBox = arr[:]
	case constraint.Vocabulary:
		if def.ID == constraint.IDOccupation {
			p.OccupationsID = v.IDs()
		}
	case constraint.EntityKinds:
		kinds := v.Kinds()
		out := make([]string, len(kinds))
		for i, k := range kinds {
			out[i] = string(k)
		}
		p.Kind = out
	}
}
