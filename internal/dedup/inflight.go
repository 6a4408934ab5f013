package dedup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Registry coalesces concurrent calls that share a fingerprint.
// A singleflight.Group guarantees one underlying call per key; the key is
// released as the outcome is delivered, success or failure, so the next call
// after a failure starts fresh.
type Registry struct {
	group  singleflight.Group
	logger *zap.Logger

	mu      sync.Mutex
	waiting map[Fingerprint]int
}

// NewRegistry creates an empty in-flight registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger:  logger,
		waiting: make(map[Fingerprint]int),
	}
}

// StartFunc performs the underlying call. The context it receives is detached
// from any single caller and bounded only by the registry call's timeout.
type StartFunc func(ctx context.Context) (any, error)

// JoinOrStart attaches the caller to the pending call for key, or starts one
// with start. Every joined caller receives the same value and error.
//
// The shared call runs under its own timeout. Cancelling ctx only abandons
// this caller's wait; the call keeps running for the others. shared reports
// whether the outcome was delivered to more than one caller.
func (r *Registry) JoinOrStart(ctx context.Context, key Fingerprint, timeout time.Duration, start StartFunc) (v any, shared bool, err error) {
	r.enter(key)
	defer r.leave(key)

	ch := r.group.DoChan(string(key), func() (interface{}, error) {
		callCtx := context.WithoutCancel(ctx)
		if timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, timeout)
			defer cancel()
		}

		started := time.Now()
		v, err := start(callCtx)
		r.logger.Debug("In-flight call resolved",
			zap.String("fingerprint", string(key)),
			zap.Duration("took", time.Since(started)),
			zap.Bool("failed", err != nil))
		return v, err
	})

	select {
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	case <-ctx.Done():
		r.logger.Debug("Caller abandoned in-flight call", zap.String("fingerprint", string(key)))
		return nil, false, ctx.Err()
	}
}

// Waiting returns how many callers are currently waiting on key
func (r *Registry) Waiting(key Fingerprint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waiting[key]
}

func (r *Registry) enter(key Fingerprint) {
	r.mu.Lock()
	r.waiting[key]++
	r.mu.Unlock()
}

func (r *Registry) leave(key Fingerprint) {
	r.mu.Lock()
	if r.waiting[key] <= 1 {
		delete(r.waiting, key)
	} else {
		r.waiting[key]--
	}
	r.mu.Unlock()
}

// Do is JoinOrStart with a typed result
func Do[T any](ctx context.Context, r *Registry, key Fingerprint, timeout time.Duration, start func(ctx context.Context) (T, error)) (T, bool, error) {
	v, shared, err := r.JoinOrStart(ctx, key, timeout, func(ctx context.Context) (any, error) {
		return start(ctx)
	})

	var zero T
	if err != nil {
		return zero, shared, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, shared, nil
	}
	return typed, shared, nil
}
