package statcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/intavia/visualquery/internal/db"
	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/search/params"
	"github.com/intavia/visualquery/internal/domain/statistics"
	"github.com/intavia/visualquery/internal/domain/vocabulary"
)

type mockStatistics struct {
	mu        sync.Mutex
	calls     int
	histogram statistics.Histogram
	kinds     statistics.KindCounts
	tree      *vocabulary.Node
	err       error

	// When gate is set, EntityKinds signals entered once and waits for gate,
	// then records the context error it observes.
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
	ctxErr  error
}

func (m *mockStatistics) record() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *mockStatistics) DateHistogram(_ context.Context, _ constraint.Event, _ params.Params) (statistics.Histogram, error) {
	m.record()
	return m.histogram, m.err
}

func (m *mockStatistics) EntityKinds(ctx context.Context, _ params.Params) (statistics.KindCounts, error) {
	m.record()
	if m.gate != nil {
		m.once.Do(func() { close(m.entered) })
		<-m.gate
		m.mu.Lock()
		m.ctxErr = ctx.Err()
		m.mu.Unlock()
	}
	return m.kinds, m.err
}

func (m *mockStatistics) Occupations(_ context.Context, _ params.Params) (*vocabulary.Node, error) {
	m.record()
	return m.tree, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCache(t *testing.T, inner *mockStatistics) (*Cache, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, time.Minute, nil, zap.NewNop()), ms
}
