package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/assignment"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

const defaultApplyTimeout = 10 * time.Second

type AssignmentStore interface {
	Snapshot(ctx context.Context) (assignment.Snapshot, error)
	ReplaceAssignments(ctx context.Context, res assignment.Result) error
	Current(ctx context.Context) ([]domain.Assignment, error)
}

type RunStore interface {
	Create(ctx context.Context, run *domain.RecomputeRun) error
	Update(ctx context.Context, run *domain.RecomputeRun) error
	Get(ctx context.Context, runID string) (*domain.RecomputeRun, error)
	Recent(ctx context.Context, limit int) ([]domain.RecomputeRun, error)
}

// AssignmentService runs the assignment engine against the store and keeps
// a history of runs.
type AssignmentService struct {
	store        AssignmentStore
	runs         RunStore
	gate         *Gate
	logger       *zap.Logger
	metrics      metrics.Recorder
	applyTimeout time.Duration
	now          func() time.Time
}

func NewAssignmentService(store AssignmentStore, runs RunStore, gate *Gate, logger *zap.Logger, rec metrics.Recorder, applyTimeout time.Duration) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	if applyTimeout <= 0 {
		applyTimeout = defaultApplyTimeout
	}
	return &AssignmentService{
		store:        store,
		runs:         runs,
		gate:         gate,
		logger:       logger,
		metrics:      rec,
		applyTimeout: applyTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Recompute reads the current preferences, solves the assignment and
// replaces the persisted assignees. The returned run is never nil.
func (s *AssignmentService) Recompute(ctx context.Context, trigger string) (*domain.RecomputeRun, error) {
	started := s.now()
	run := &domain.RecomputeRun{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		Status:    domain.RunStatusRunning,
		StartedAt: started,
	}
	log := s.logger.With(zap.String("run_id", run.RunID), zap.String("trigger", trigger))

	if err := s.runs.Create(ctx, run); err != nil {
		log.Warn("record recompute run", zap.Error(err))
	}

	err := s.gate.Do(ctx, func(ctx context.Context) error {
		return s.recompute(ctx, run)
	})

	finished := s.now()
	run.FinishedAt = &finished
	outcome := metrics.OutcomeCompleted
	if err != nil {
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
		outcome = metrics.OutcomeFailed
		if errors.Is(err, domain.ErrBusy) {
			outcome = metrics.OutcomeBusy
		}
	} else {
		run.Status = domain.RunStatusCompleted
	}

	if uerr := s.runs.Update(context.WithoutCancel(ctx), run); uerr != nil {
		log.Warn("record recompute run", zap.Error(uerr))
	}
	elapsed := finished.Sub(started)
	s.metrics.RecordRecompute(trigger, outcome, elapsed)

	fields := []zap.Field{
		zap.Int("projects", run.Projects),
		zap.Int("people", run.People),
		zap.Int("matrix_size", run.MatrixSize),
		zap.Int("assigned", run.Assigned),
		zap.Int("total_cost", run.TotalCost),
		zap.Duration("elapsed", elapsed),
	}
	switch {
	case err == nil:
		log.Info("assignments recomputed", fields...)
	case errors.Is(err, domain.ErrBusy):
		log.Warn("recompute skipped", append(fields, zap.Error(err))...)
	default:
		log.Error("recompute failed", append(fields, zap.Error(err))...)
	}
	return run, err
}

func (s *AssignmentService) recompute(ctx context.Context, run *domain.RecomputeRun) error {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	solveStart := time.Now()
	res, err := assignment.Compute(snap)
	s.metrics.RecordSolve(res.MatrixSize, time.Since(solveStart))
	if err != nil {
		return fmt.Errorf("compute assignment: %w", err)
	}

	run.Projects = len(res.Projects)
	run.People = len(res.People)
	run.MatrixSize = res.MatrixSize
	run.TotalCost = res.TotalCost
	run.RealCost = res.RealCost
	run.Assigned = res.AssignedCount()

	// The write must not be torn by the caller going away.
	applyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.applyTimeout)
	defer cancel()
	if err := s.store.ReplaceAssignments(applyCtx, res); err != nil {
		return fmt.Errorf("apply assignments: %w", err)
	}

	s.metrics.RecordAssigned(run.Assigned)
	return nil
}

// Current returns the persisted assignments.
func (s *AssignmentService) Current(ctx context.Context) ([]domain.Assignment, error) {
	return s.store.Current(ctx)
}

// Run returns one recompute run.
func (s *AssignmentService) Run(ctx context.Context, runID string) (*domain.RecomputeRun, error) {
	return s.runs.Get(ctx, runID)
}

// RecentRuns returns the newest runs first.
func (s *AssignmentService) RecentRuns(ctx context.Context, limit int) ([]domain.RecomputeRun, error) {
	return s.runs.Recent(ctx, limit)
}
