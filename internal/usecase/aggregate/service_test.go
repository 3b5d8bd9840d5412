package aggregate

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/search/params"
	"github.com/intavia/visualquery/internal/domain/statistics"
	"github.com/intavia/visualquery/internal/domain/vocabulary"
	"github.com/intavia/visualquery/internal/domain/widget"
)

type mockStats struct {
	histogramFn func(ctx context.Context, event constraint.Event, p params.Params) (statistics.Histogram, error)
	kindsFn     func(ctx context.Context, p params.Params) (statistics.KindCounts, error)
	occFn       func(ctx context.Context, p params.Params) (*vocabulary.Node, error)
}

func (m *mockStats) DateHistogram(ctx context.Context, e constraint.Event, p params.Params) (statistics.Histogram, error) {
	return m.histogramFn(ctx, e, p)
}

func (m *mockStats) EntityKinds(ctx context.Context, p params.Params) (statistics.KindCounts, error) {
	return m.kindsFn(ctx, p)
}

func (m *mockStats) Occupations(ctx context.Context, p params.Params) (*vocabulary.Node, error) {
	return m.occFn(ctx, p)
}

var (
	y1800 = time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)
	y1900 = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
)

func active(t *testing.T) []constraint.Constraint {
	t.Helper()
	name, err := constraint.New(constraint.IDPersonName, false, constraint.NewText("Mozart"))
	if err != nil {
		t.Fatal(err)
	}
	birth, err := constraint.New(constraint.IDDateOfBirth, true, constraint.NewDateRange(y1800, y1900))
	if err != nil {
		t.Fatal(err)
	}
	return []constraint.Constraint{name, birth}
}

func TestData_HistogramExcludesOwnFilter(t *testing.T) {
	var got params.Params
	var gotEvent constraint.Event
	stats := &mockStats{
		histogramFn: func(_ context.Context, e constraint.Event, p params.Params) (statistics.Histogram, error) {
			got, gotEvent = p, e
			return statistics.Histogram{Bins: []statistics.Bin{{Label: "1800", Count: 3, Min: y1800, Max: y1900}}}, nil
		},
	}
	svc := New(stats, zap.NewNop())

	d := svc.Data(context.Background(), widget.NewGuard(), active(t), constraint.IDDateOfBirth)
	if !d.OK() {
		t.Fatalf("status = %s (%s)", d.Status, d.Message)
	}
	if gotEvent != constraint.EventBirth {
		t.Errorf("event = %q", gotEvent)
	}
	if got.Q != "Mozart" {
		t.Errorf("q = %q, want Mozart", got.Q)
	}
	if got.BornAfter != "" || got.BornBefore != "" {
		t.Errorf("own filter leaked: %+v", got)
	}
	if got.Page != 0 || got.Limit != 0 {
		t.Errorf("statistics params should be unpaged: %+v", got)
	}
}

func TestData_EmptyAggregates(t *testing.T) {
	stats := &mockStats{
		histogramFn: func(context.Context, constraint.Event, params.Params) (statistics.Histogram, error) {
			return statistics.Histogram{}, nil
		},
		occFn: func(context.Context, params.Params) (*vocabulary.Node, error) {
			return vocabulary.NewRoot(), nil
		},
	}
	svc := New(stats, zap.NewNop())

	for _, id := range []constraint.ID{constraint.IDDateOfDeath, constraint.IDOccupation} {
		d := svc.Data(context.Background(), widget.NewGuard(), nil, id)
		if d.Status != widget.StatusError || d.Message != widget.NothingFound {
			t.Errorf("%s: data = %+v", id, d)
		}
	}
}

func TestData_UpstreamError(t *testing.T) {
	stats := &mockStats{
		kindsFn: func(context.Context, params.Params) (statistics.KindCounts, error) {
			return nil, domain.ErrUpstream
		},
	}
	svc := New(stats, zap.NewNop())

	d := svc.Data(context.Background(), widget.NewGuard(), nil, constraint.IDEntityKind)
	if d.Status != widget.StatusError {
		t.Errorf("status = %s, want error", d.Status)
	}
	if d.Message != widget.NothingFound {
		t.Errorf("message = %q", d.Message)
	}
}

func TestData_NoAggregatesNeeded(t *testing.T) {
	svc := New(&mockStats{}, zap.NewNop())
	d := svc.Data(context.Background(), widget.NewGuard(), nil, constraint.IDPersonName)
	if !d.OK() {
		t.Errorf("text widget data = %+v", d)
	}
}

func TestData_Unknown(t *testing.T) {
	svc := New(&mockStats{}, zap.NewNop())
	d := svc.Data(context.Background(), widget.NewGuard(), nil, "nope")
	if d.Status != widget.StatusError {
		t.Errorf("status = %s", d.Status)
	}
}

func TestData_StaleResponseDropped(t *testing.T) {
	guard := widget.NewGuard()
	stats := &mockStats{
		kindsFn: func(context.Context, params.Params) (statistics.KindCounts, error) {
			// A newer request for the same widget starts while this one is in flight.
			guard.Begin(constraint.IDEntityKind, "newer")
			return statistics.KindCounts{{Kind: "person", Count: 1}}, nil
		},
	}
	svc := New(stats, zap.NewNop())

	d := svc.Data(context.Background(), guard, nil, constraint.IDEntityKind)
	if d.Status != widget.StatusLoading {
		t.Errorf("status = %s, want loading", d.Status)
	}
}

func TestData_OverlappingSameParamsAccepted(t *testing.T) {
	guard := widget.NewGuard()
	stats := &mockStats{
		kindsFn: func(_ context.Context, p params.Params) (statistics.KindCounts, error) {
			// A render of the same widget with the same filters starts meanwhile.
			guard.Begin(constraint.IDEntityKind, p.CacheKey())
			return statistics.KindCounts{{Kind: "person", Count: 1}}, nil
		},
	}
	svc := New(stats, zap.NewNop())

	d := svc.Data(context.Background(), guard, nil, constraint.IDEntityKind)
	if d.Status != widget.StatusSuccess {
		t.Errorf("status = %s, want success", d.Status)
	}
}

func TestData_Vocabulary(t *testing.T) {
	tree := vocabulary.NewRoot(&vocabulary.Node{ID: "arts", Label: "Arts", Count: 4})
	stats := &mockStats{
		occFn: func(_ context.Context, p params.Params) (*vocabulary.Node, error) {
			if p.OccupationsID != nil {
				t.Errorf("own occupation filter leaked: %v", p.OccupationsID)
			}
			return tree, nil
		},
	}
	occ, err := constraint.New(constraint.IDOccupation, true, constraint.NewVocabulary("arts"))
	if err != nil {
		t.Fatal(err)
	}
	svc := New(stats, zap.NewNop())

	d := svc.Data(context.Background(), widget.NewGuard(), []constraint.Constraint{occ}, constraint.IDOccupation)
	if !d.OK() || d.Tree != tree {
		t.Errorf("data = %+v", d)
	}
}
