package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/project-selection-backend/config"
	httpapi "github.com/GoSim-25-26J-441/project-selection-backend/internal/api/http"
	authrepo "github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/repository"
	authservice "github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/service"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/repository"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/service"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/storage/memory"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/storage/postgres"
)

// Stores bundles the persistence backends chosen by STORE_DRIVER. Run
// history lives in Redis when a client is given, in memory otherwise.
type Stores struct {
	People      authservice.PersonStore
	Projects    service.ProjectStore
	Preferences service.PreferenceStore
	Assignments service.AssignmentStore
	Runs        service.RunStore
	DB          httpapi.Pinger

	close func() error
}

func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func OpenStores(ctx context.Context, cfg *config.DatabaseConfig, rdb *redis.Client) (*Stores, error) {
	var runs service.RunStore = memory.NewRunLog()
	if rdb != nil {
		runs = repository.NewRunRepository(rdb)
	}

	switch cfg.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		return &Stores{
			People:      store,
			Projects:    store,
			Preferences: store,
			Assignments: store,
			Runs:        runs,
			DB:          store,
		}, nil

	case config.StoreDriverPostgres:
		db, err := postgres.NewConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Stores{
			People:      authrepo.NewPersonRepository(db),
			Projects:    repository.NewProjectRepository(db),
			Preferences: repository.NewPreferenceRepository(db),
			Assignments: repository.NewAssignmentRepository(db),
			Runs:        runs,
			DB:          db,
			close:       db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}
}
