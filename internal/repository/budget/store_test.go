package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/intavia/visualquery/internal/db"
)

type mockStore struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	incrFn   func(ctx context.Context, key string, val int64) error
	expireFn func(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) IncrBy(ctx context.Context, key string, val int64) error {
	if m.incrFn != nil {
		return m.incrFn(ctx, key, val)
	}
	return nil
}

func (m *mockStore) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	if m.expireFn != nil {
		return m.expireFn(ctx, key, ttl, nx)
	}
	return nil
}

func TestIncrBy_SetsTTLOnce(t *testing.T) {
	var gotIncr int64
	var gotTTL time.Duration
	var gotNX bool
	ms := &mockStore{
		incrFn: func(_ context.Context, _ string, val int64) error {
			gotIncr = val
			return nil
		},
		expireFn: func(_ context.Context, _ string, ttl time.Duration, nx bool) error {
			gotTTL, gotNX = ttl, nx
			return nil
		},
	}
	s := New(ms, 48*time.Hour)
	if err := s.IncrBy(context.Background(), "k", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotIncr != 2 || gotTTL != 48*time.Hour || !gotNX {
		t.Errorf("incr=%d ttl=%v nx=%v", gotIncr, gotTTL, gotNX)
	}
}

func TestIncrBy_Errors(t *testing.T) {
	boom := errors.New("boom")
	s := New(&mockStore{incrFn: func(context.Context, string, int64) error { return boom }}, time.Hour)
	if err := s.IncrBy(context.Background(), "k", 1); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	s = New(&mockStore{expireFn: func(context.Context, string, time.Duration, bool) error { return boom }}, time.Hour)
	if err := s.IncrBy(context.Background(), "k", 1); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		err     error
		want    int64
		wantErr bool
	}{
		{"missing key", nil, db.ErrKeyNotFound, 0, false},
		{"value", []byte("42"), nil, 42, false},
		{"garbage", []byte("x"), nil, 0, true},
		{"store error", nil, errors.New("down"), 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(&mockStore{getFn: func(context.Context, string) ([]byte, error) { return tc.data, tc.err }}, time.Hour)
			got, err := s.Get(context.Background(), "k")
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}
