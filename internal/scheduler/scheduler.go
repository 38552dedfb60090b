// Package scheduler runs assignment recomputes on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

// Recomputer is satisfied by the assignment service.
type Recomputer interface {
	Recompute(ctx context.Context, trigger string) (*domain.RecomputeRun, error)
}

type Scheduler struct {
	cron    *cron.Cron
	spec    string
	job     Recomputer
	logger  *zap.Logger
	timeout time.Duration
	baseCtx context.Context
}

// New validates spec (six fields, seconds first, or a descriptor such as
// "@every 5m") and prepares the schedule. Overlapping ticks are skipped.
func New(spec string, job Recomputer, logger *zap.Logger, timeout time.Duration) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}

	s := &Scheduler{
		spec:    spec,
		job:     job,
		logger:  logger,
		timeout: timeout,
		baseCtx: context.Background(),
	}
	cl := cronLogger{logger.Sugar()}
	s.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid ASSIGN_CRON %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running recompute to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.baseCtx = ctx
	s.cron.Start()
	s.logger.Info("recompute scheduler started", zap.String("spec", s.spec))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("recompute scheduler stopped")
	return nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(s.baseCtx, s.timeout)
	defer cancel()

	run, err := s.job.Recompute(ctx, domain.TriggerCron)
	if err != nil {
		s.logger.Debug("scheduled recompute did not complete", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled recompute finished", zap.String("run_id", run.RunID))
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
