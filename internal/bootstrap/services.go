package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-selection-backend/config"
	authservice "github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/service"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/service"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/storage/redislock"
)

// RecomputeLockKey is the Redis key of the cross-instance recompute lock.
const RecomputeLockKey = "assign:lock"

type Services struct {
	Auth        *authservice.AuthService
	Projects    *service.ProjectService
	Preferences *service.PreferenceService
	Assignments *service.AssignmentService
}

// NewServices wires the services over stores. Preference submissions and
// recomputes share one gate, which also holds the Redis lock when rdb is set.
func NewServices(stores *Stores, rdb *redis.Client, cfg config.AssignmentConfig, logger *zap.Logger, rec metrics.Recorder) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}

	var locker service.Locker
	if rdb != nil {
		locker = redislock.New(rdb, RecomputeLockKey, cfg.LockTTL)
	}
	gate := service.NewGate(locker, logger.Named("gate"), rec)

	return &Services{
		Auth:        authservice.NewAuthService(stores.People),
		Projects:    service.NewProjectService(stores.Projects),
		Preferences: service.NewPreferenceService(stores.Preferences, gate),
		Assignments: service.NewAssignmentService(stores.Assignments, stores.Runs, gate, logger.Named("assignment"), rec, cfg.ApplyTimeout),
	}
}
