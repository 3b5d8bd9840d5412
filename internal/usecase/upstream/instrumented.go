package upstream

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/search/params"
	"github.com/intavia/visualquery/internal/domain/search/result"
	"github.com/intavia/visualquery/internal/domain/statistics"
	"github.com/intavia/visualquery/internal/domain/vocabulary"
	"github.com/intavia/visualquery/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(n int64)
	Remaining() int64
}

// Compile-time check: Instrumented is the full entity API.
var _ domain.EntityAPI = (*Instrumented)(nil)

// Instrumented wraps the entity API with budget enforcement and logging.
// Transport metrics are recorded in transport/intavia.
type Instrumented struct {
	inner  domain.EntityAPI
	budget BudgetChecker
	logger *zap.Logger
}

// NewInstrumented wraps inner. budget can be nil.
func NewInstrumented(inner domain.EntityAPI, budget BudgetChecker, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, budget: budget, logger: logger}
}

// SearchEntities implements domain.EntitySearcher.
func (u *Instrumented) SearchEntities(ctx context.Context, p params.Params) (result.Page, error) {
	return call(ctx, u, "entities", p, func(ctx context.Context) (result.Page, error) {
		return u.inner.SearchEntities(ctx, p)
	})
}

// DateHistogram implements domain.Statistics.
func (u *Instrumented) DateHistogram(
	ctx context.Context, event constraint.Event, p params.Params,
) (statistics.Histogram, error) {
	return call(ctx, u, "histogram_"+string(event), p, func(ctx context.Context) (statistics.Histogram, error) {
		return u.inner.DateHistogram(ctx, event, p)
	})
}

// EntityKinds implements domain.Statistics.
func (u *Instrumented) EntityKinds(ctx context.Context, p params.Params) (statistics.KindCounts, error) {
	return call(ctx, u, "entity_kinds", p, func(ctx context.Context) (statistics.KindCounts, error) {
		return u.inner.EntityKinds(ctx, p)
	})
}

// Occupations implements domain.Statistics.
func (u *Instrumented) Occupations(ctx context.Context, p params.Params) (*vocabulary.Node, error) {
	return call(ctx, u, "occupations", p, func(ctx context.Context) (*vocabulary.Node, error) {
		return u.inner.Occupations(ctx, p)
	})
}

func call[T any](
	ctx context.Context, u *Instrumented, op string, p params.Params,
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T
	if u.budget != nil {
		if err := u.budget.Check(ctx); err != nil {
			u.logger.Error("Upstream budget exceeded", zap.String("op", op), zap.Error(err))
			return zero, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()

	res, err := fn(ctx)

	duration := time.Since(start)

	if u.budget != nil {
		u.budget.Record(1)
		metrics.UpstreamBudgetRemaining.Set(float64(u.budget.Remaining()))
	}

	if err != nil {
		u.logger.Warn("Upstream request failed",
			zap.String("op", op),
			zap.String("params", p.Encode()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	u.logger.Debug("Upstream request completed",
		zap.String("op", op),
		zap.String("params", p.Encode()),
		zap.Duration("duration", duration),
	)
	return res, nil
}
