// Package upstream guards calls to the entity API with a daily request budget
// and request logging.
package upstream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/intavia/visualquery/internal/domain"
)

// BudgetAction defines behavior when the request budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request.
	BudgetActionReject BudgetAction = "reject"
)

// BudgetStore is the persistence interface for budget counters.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// BudgetTracker counts upstream requests per UTC day. Check is in-memory only;
// Record updates memory first, then writes behind to the store.
type BudgetTracker struct {
	mu        sync.Mutex
	used      int64
	limit     int64
	action    BudgetAction
	lastReset time.Time
	store     BudgetStore
	now       func() time.Time
	logger    *zap.Logger
}

// NewBudgetTracker creates a tracker. A zero limit means unlimited.
func NewBudgetTracker(limit int64, action BudgetAction, logger *zap.Logger) *BudgetTracker {
	b := &BudgetTracker{
		limit:  limit,
		action: action,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
	b.lastReset = truncateToDay(b.now())
	return b
}

// WithStore attaches a persistence store and loads today's counter.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	key := b.key(b.now())
	val, err := store.Get(ctx, key)
	if err != nil {
		b.logger.Warn("Failed to load upstream budget from store", zap.String("key", key), zap.Error(err))
		return b
	}
	b.used = val
	b.logger.Info("Upstream budget loaded from store", zap.Int64("used", b.used), zap.Int64("limit", b.limit))
	return b
}

func (b *BudgetTracker) key(t time.Time) string {
	return fmt.Sprintf("%sbudget:upstream:daily:%s", domain.KeyPrefix, t.Format(time.DateOnly))
}

// Check verifies the budget allows a new request.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()
	if b.limit <= 0 || b.used < b.limit {
		return nil
	}
	if b.action == BudgetActionReject {
		return domain.ErrQuotaExceeded
	}
	b.logger.Warn("Upstream request budget exceeded", zap.Int64("used", b.used), zap.Int64("limit", b.limit))
	return nil
}

// Record registers n upstream requests.
func (b *BudgetTracker) Record(n int64) {
	b.mu.Lock()
	b.resetIfNeeded()
	b.used += n
	store := b.store
	key := b.key(b.now())
	b.mu.Unlock()

	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := store.IncrBy(ctx, key, n); err != nil {
		b.logger.Warn("Failed to persist upstream budget", zap.String("key", key), zap.Error(err))
	}
}

// Remaining returns requests left today (-1 if unlimited).
func (b *BudgetTracker) Remaining() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()
	if b.limit <= 0 {
		return -1
	}
	if rest := b.limit - b.used; rest > 0 {
		return rest
	}
	return 0
}

// resetIfNeeded zeroes the counter when the day rolls over.
func (b *BudgetTracker) resetIfNeeded() {
	today := truncateToDay(b.now())
	if today.After(b.lastReset) {
		b.used = 0
		b.lastReset = today
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
