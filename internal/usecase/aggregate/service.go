// Package aggregate loads the statistics each widget renders. Every widget sees
// the distribution under all other active filters, never its own.
package aggregate

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/query"
	"github.com/intavia/visualquery/internal/domain/search/params"
	"github.com/intavia/visualquery/internal/domain/widget"
	"github.com/intavia/visualquery/internal/metrics"
)

// Service resolves widget data. It never returns errors: failures become an
// inline error state of the widget.
type Service struct {
	stats  domain.Statistics
	logger *zap.Logger
}

// New creates an aggregate service.
func New(stats domain.Statistics, logger *zap.Logger) *Service {
	return &Service{stats: stats, logger: logger}
}

// Data returns the aggregates for constraint id given the active constraints cs.
// A response superseded in guard by a newer request for the same widget is
// dropped and reported as loading.
func (s *Service) Data(
	ctx context.Context, guard *widget.Guard, cs []constraint.Constraint, id constraint.ID,
) widget.Data {
	def, ok := constraint.Lookup(id)
	if !ok {
		return widget.Failed("")
	}
	if !widget.NeedsData(def.Kind) {
		return widget.Ready()
	}

	p := query.CompileExcept(cs, id, 0).Unpaged()
	ticket := guard.Begin(id, p.CacheKey())

	d, err := s.load(ctx, def, p)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return widget.Loading()
		}
		s.logger.Warn("Widget data unavailable",
			zap.String("constraint", string(id)),
			zap.String("params", p.Encode()),
			zap.Error(err),
		)
		d = widget.Failed("")
	}

	if !guard.Accept(ticket) {
		s.logger.Debug("Discarding stale widget data", zap.String("constraint", string(id)))
		return widget.Loading()
	}

	metrics.WidgetDataTotal.WithLabelValues(string(id), string(d.Status)).Inc()
	return d
}

func (s *Service) load(ctx context.Context, def constraint.Definition, p params.Params) (widget.Data, error) {
	switch def.Kind {
	case constraint.KindDateRange:
		h, err := s.stats.DateHistogram(ctx, def.Event, p)
		if err != nil {
			return widget.Data{}, err
		}
		if len(h.Bins) == 0 || h.IsEmpty() {
			return widget.Failed(""), nil
		}
		return widget.Data{Status: widget.StatusSuccess, Histogram: h}, nil
	case constraint.KindVocabulary:
		tree, err := s.stats.Occupations(ctx, p)
		if err != nil {
			return widget.Data{}, err
		}
		if tree == nil || len(tree.Children) == 0 {
			return widget.Failed(""), nil
		}
		return widget.Data{Status: widget.StatusSuccess, Tree: tree}, nil
	case constraint.KindEntityKind:
		kinds, err := s.stats.EntityKinds(ctx, p)
		if err != nil {
			return widget.Data{}, err
		}
		return widget.Data{Status: widget.StatusSuccess, Kinds: kinds}, nil
	default:
		return widget.Ready(), nil
	}
}
