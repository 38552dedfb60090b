package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

// RunLog keeps recompute runs in memory when Redis is not configured.
type RunLog struct {
	mu   sync.Mutex
	runs map[string]domain.RecomputeRun
}

func NewRunLog() *RunLog {
	return &RunLog{runs: make(map[string]domain.RecomputeRun)}
}

func (l *RunLog) Create(_ context.Context, run *domain.RecomputeRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs[run.RunID] = *run
	return nil
}

func (l *RunLog) Update(_ context.Context, run *domain.RecomputeRun) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.runs[run.RunID]; !ok {
		return domain.ErrRunNotFound
	}
	l.runs[run.RunID] = *run
	return nil
}

func (l *RunLog) Get(_ context.Context, runID string) (*domain.RecomputeRun, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	run, ok := l.runs[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return &run, nil
}

func (l *RunLog) Recent(_ context.Context, limit int) ([]domain.RecomputeRun, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.RecomputeRun, 0, len(l.runs))
	for _, run := range l.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit < len(out) {
		if limit < 0 {
			limit = 0
		}
		out = out[:limit]
	}
	return out, nil
}
