package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/storage/redislock"
)

// Locker is a cross-process lock, normally *redislock.Lock.
type Locker interface {
	Acquire(ctx context.Context) (func(context.Context) error, error)
}

// Gate serializes recomputes and ranking submissions. Inside one process a
// single-slot channel is the mutex; across processes the optional Locker is
// held as well.
type Gate struct {
	slot    chan struct{}
	remote  Locker
	logger  *zap.Logger
	metrics metrics.Recorder
}

// NewGate builds a gate. remote may be nil when only one instance runs.
func NewGate(remote Locker, logger *zap.Logger, rec metrics.Recorder) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Gate{
		slot:    make(chan struct{}, 1),
		remote:  remote,
		logger:  logger,
		metrics: rec,
	}
}

// Do runs fn while holding the gate. It returns an error wrapping
// domain.ErrBusy when ctx ends before the gate is free.
func (g *Gate) Do(ctx context.Context, fn func(context.Context) error) error {
	start := time.Now()

	select {
	case g.slot <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrBusy, ctx.Err())
	}
	defer func() { <-g.slot }()

	if g.remote != nil {
		release, err := g.remote.Acquire(ctx)
		if err != nil {
			if errors.Is(err, redislock.ErrNotAcquired) {
				return fmt.Errorf("%w: %v", domain.ErrBusy, err)
			}
			return fmt.Errorf("acquire recompute lock: %w", err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				g.logger.Warn("release recompute lock", zap.Error(err))
			}
		}()
	}

	g.metrics.RecordLockWait(time.Since(start))
	return fn(ctx)
}
