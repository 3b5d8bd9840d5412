// Package statcache caches widget aggregates in the key-value store.
package statcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/intavia/visualquery/internal/db"
	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/search/params"
	"github.com/intavia/visualquery/internal/domain/statistics"
	"github.com/intavia/visualquery/internal/domain/vocabulary"
)

var cacheKeyPrefix = domain.KeyPrefix + "stats:"

// Compile-time check: Cache is a statistics source.
var _ domain.Statistics = (*Cache)(nil)

// store is the consumer interface for the statistics cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is a read-through decorator over a statistics source. Concurrent misses
// for the same key share one upstream call.
type Cache struct {
	inner      domain.Statistics
	store      store
	ttl        time.Duration
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "source" and "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Statistics,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// DateHistogram returns the cached histogram or loads it.
func (c *Cache) DateHistogram(
	ctx context.Context, event constraint.Event, p params.Params,
) (statistics.Histogram, error) {
	return cached(ctx, c, "histogram_"+string(event), p, func(ctx context.Context) (statistics.Histogram, error) {
		return c.inner.DateHistogram(ctx, event, p)
	})
}

// EntityKinds returns the cached entity-type counts or loads them.
func (c *Cache) EntityKinds(ctx context.Context, p params.Params) (statistics.KindCounts, error) {
	return cached(ctx, c, "entity_kinds", p, func(ctx context.Context) (statistics.KindCounts, error) {
		return c.inner.EntityKinds(ctx, p)
	})
}

// Occupations returns the cached occupation tree or loads it.
func (c *Cache) Occupations(ctx context.Context, p params.Params) (*vocabulary.Node, error) {
	return cached(ctx, c, "occupations", p, func(ctx context.Context) (*vocabulary.Node, error) {
		return c.inner.Occupations(ctx, p)
	})
}

func cached[T any](
	ctx context.Context, c *Cache, source string, p params.Params,
	load func(context.Context) (T, error),
) (T, error) {
	key := cacheKey(source, p)

	var v T
	if c.getFromCache(ctx, key, &v) {
		c.incCache(source, "hit")
		return v, nil
	}
	c.incCache(source, "miss")

	// The shared load outlives any single caller; each waiter honours its own ctx.
	ch := c.group.DoChan(key, func() (any, error) {
		// Bounded by the upstream client timeout.
		shared := context.WithoutCancel(ctx)
		loaded, err := load(shared)
		if err != nil {
			return nil, err
		}
		c.putToCache(shared, key, loaded)
		return loaded, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("load %s: %w", source, ctx.Err())
	}
	if err := res.Err; err != nil {
		var zero T
		return zero, fmt.Errorf("load %s: %w", source, err)
	}
	return res.Val.(T), nil
}

func (c *Cache) incCache(source, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(source, result).Inc()
	}
}

// cacheKey hashes the unpaged parameters; aggregates ignore pagination.
func cacheKey(source string, p params.Params) string {
	h := sha256.Sum256([]byte(source + "?" + p.Unpaged().CacheKey()))
	return cacheKeyPrefix + source + ":" + hex.EncodeToString(h[:])
}

func (c *Cache) getFromCache(ctx context.Context, key string, dst any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached statistics", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Failed to parse cached statistics", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Cache) putToCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode statistics", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache statistics", zap.String("key", key), zap.Error(err))
	}
}
