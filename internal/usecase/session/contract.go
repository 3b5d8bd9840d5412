package session

import (
	"context"

	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/search/params"
	"github.com/intavia/visualquery/internal/domain/search/result"
	"github.com/intavia/visualquery/internal/domain/widget"
)

// DataSource loads the aggregates a widget renders.
type DataSource interface {
	Data(ctx context.Context, guard *widget.Guard, cs []constraint.Constraint, id constraint.ID) widget.Data
}

// Navigator hands a compiled query to the search view.
type Navigator interface {
	Navigate(ctx context.Context, p params.Params) (result.Navigation, error)
}
