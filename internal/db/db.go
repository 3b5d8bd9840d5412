// Package db declares the key-value contract of the cache server. Statistics
// responses and the daily upstream request counter are its only tenants.
package db

import (
	"context"
	"time"
)

// Store is what the composition root holds: a KV store it can probe at startup
// and close on shutdown. Consumers depend on narrower interfaces.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger is probed by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore is byte-valued get/set with TTLs plus the counter commands the
// request budget needs. Get returns ErrKeyNotFound for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}
