package navigation

import (
	"context"

	"github.com/intavia/visualquery/internal/domain/search/params"
	"github.com/intavia/visualquery/internal/domain/search/result"
)

// Searcher runs the entity search behind a navigation.
type Searcher interface {
	SearchEntities(ctx context.Context, p params.Params) (result.Page, error)
}
