package domain

import (
	"context"

	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/search/params"
	"github.com/intavia/visualquery/internal/domain/search/result"
	"github.com/intavia/visualquery/internal/domain/statistics"
	"github.com/intavia/visualquery/internal/domain/vocabulary"
)

// KeyPrefix namespaces every key this service writes to the cache.
const KeyPrefix = "visualquery:"

// Statistics serves the aggregate distributions shown by the widgets. Each call
// is parameterised by the compiled filters of the other active constraints.
type Statistics interface {
	DateHistogram(ctx context.Context, event constraint.Event, p params.Params) (statistics.Histogram, error)
	EntityKinds(ctx context.Context, p params.Params) (statistics.KindCounts, error)
	Occupations(ctx context.Context, p params.Params) (*vocabulary.Node, error)
}

// EntitySearcher runs the paginated entity search.
type EntitySearcher interface {
	SearchEntities(ctx context.Context, p params.Params) (result.Page, error)
}

// EntityAPI is the full upstream contract.
type EntityAPI interface {
	Statistics
	EntitySearcher
}

// HealthChecker verifies upstream availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
