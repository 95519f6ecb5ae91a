package delivery

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// CounterStore is a remote or local record holding a single delivery count.
// Implementations are not transactional; concurrent bumps may lose updates.
type CounterStore interface {
	Read(ctx context.Context) (int, error)
	Write(ctx context.Context, count int) error
}

// Bump reads the current count and writes count+1.
func Bump(ctx context.Context, store CounterStore) (int, error) {
	count, err := store.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("delivery: read counter: %w", err)
	}
	next := count + 1
	if err := store.Write(ctx, next); err != nil {
		return 0, fmt.Errorf("delivery: write counter: %w", err)
	}
	return next, nil
}

// CounterObserver receives the outcome of each detached bump.
type CounterObserver interface {
	ObserveCounterUpdate(err error)
}

// Detached fires counter bumps in the background. Fire never blocks on the
// network and never reports failures to its caller.
type Detached struct {
	store    CounterStore
	logger   *zap.Logger
	observer CounterObserver
	wg       sync.WaitGroup
}

// DetachedOption customises a Detached runner.
type DetachedOption func(*Detached)

// WithCounterLogger records bump outcomes at debug level.
func WithCounterLogger(logger *zap.Logger) DetachedOption {
	return func(d *Detached) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithCounterObserver reports bump outcomes, typically to metrics.
func WithCounterObserver(observer CounterObserver) DetachedOption {
	return func(d *Detached) {
		d.observer = observer
	}
}

// NewDetached wraps store. A nil store turns Fire into a no-op.
func NewDetached(store CounterStore, options ...DetachedOption) *Detached {
	d := &Detached{store: store, logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Fire starts one read-increment-write. The bump outlives ctx cancellation
// but keeps its values.
func (d *Detached) Fire(ctx context.Context) {
	if d == nil || d.store == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		count, err := Bump(bg, d.store)
		if d.observer != nil {
			d.observer.ObserveCounterUpdate(err)
		}
		if err != nil {
			d.logger.Debug("delivery counter update failed", zap.Error(err))
			return
		}
		d.logger.Debug("delivery counter updated", zap.Int("count", count))
	}()
}

// Wait blocks until in-flight bumps finish. Used on shutdown and in tests.
func (d *Detached) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
