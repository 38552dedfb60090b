package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

const (
	runKeyPrefix = "assign:run:"      // assign:run:{run_id} -> JSON RecomputeRun
	runIndexKey  = "assign:runs"      // sorted set of run ids scored by start time
	EventChannel = "assign:events"    // pub/sub channel for finished runs
	runTTL       = 7 * 24 * time.Hour // run records expire after a week
	runIndexCap  = 200                // newest runs kept in the index
)

// RunRepository keeps recompute run history in Redis.
type RunRepository struct {
	client *redis.Client
}

func NewRunRepository(client *redis.Client) *RunRepository {
	return &RunRepository{client: client}
}

// Create stores a new run, assigning an id and start time when missing.
func (r *RunRepository) Create(ctx context.Context, run *domain.RecomputeRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.runKey(run.RunID), data, runTTL)
	pipe.ZAdd(ctx, runIndexKey, redis.Z{Score: float64(run.StartedAt.UnixNano()), Member: run.RunID})
	pipe.ZRemRangeByRank(ctx, runIndexKey, 0, -runIndexCap-1)
	pipe.Expire(ctx, runIndexKey, runTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// Update overwrites a run and announces it on EventChannel once finished.
func (r *RunRepository) Update(ctx context.Context, run *domain.RecomputeRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	ok, err := r.client.SetXX(ctx, r.runKey(run.RunID), data, runTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if !ok {
		return domain.ErrRunNotFound
	}

	if run.Finished() {
		if err := r.client.Publish(ctx, EventChannel, data).Err(); err != nil {
			return fmt.Errorf("failed to publish run event: %w", err)
		}
	}
	return nil
}

// Get returns a run by id.
func (r *RunRepository) Get(ctx context.Context, runID string) (*domain.RecomputeRun, error) {
	data, err := r.client.Get(ctx, r.runKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var run domain.RecomputeRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// Recent returns up to limit runs, newest first. Expired records are skipped.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]domain.RecomputeRun, error) {
	if limit <= 0 {
		return []domain.RecomputeRun{}, nil
	}
	ids, err := r.client.ZRevRange(ctx, runIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	out := make([]domain.RecomputeRun, 0, len(ids))
	for _, id := range ids {
		run, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrRunNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, nil
}

func (r *RunRepository) runKey(runID string) string {
	return runKeyPrefix + runID
}
