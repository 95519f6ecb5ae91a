package delivery

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Dispatcher pairs a Sink with the optional detached delivery counter.
type Dispatcher struct {
	sink    Sink
	counter *Detached
	logger  *zap.Logger
}

// NewDispatcher builds a Dispatcher. counter may be nil.
func NewDispatcher(sink Sink, counter *Detached, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sink: sink, counter: counter, logger: logger}
}

// Deliver hands the artifact to the sink and, when count is set, fires the
// detached counter bump. Counter outcomes never change the result.
func (d *Dispatcher) Deliver(ctx context.Context, artifact Artifact, count bool) error {
	if d == nil || d.sink == nil {
		return errors.New("delivery: sink is not configured")
	}
	if err := d.sink.Deliver(ctx, artifact); err != nil {
		return fmt.Errorf("delivery: %s: %w", artifact.Filename, err)
	}
	if count {
		d.counter.Fire(ctx)
	}
	d.logger.Info("document delivered",
		zap.String("document", artifact.Document),
		zap.String("filename", artifact.Filename),
		zap.Int("bytes", len(artifact.Data)),
	)
	return nil
}

// Wait blocks until detached counter bumps finish.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.counter.Wait()
}
