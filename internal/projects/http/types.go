package http

import (
	"context"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

type projectService interface {
	Create(ctx context.Context, name string) (*domain.Project, error)
	List(ctx context.Context, viewerID string) ([]domain.Project, error)
	Get(ctx context.Context, id int64) (*domain.Project, error)
}

type preferenceService interface {
	List(ctx context.Context, personID string) ([]domain.RankedProject, error)
	Submit(ctx context.Context, personID string, ranks map[int64]int) ([]domain.RankedProject, error)
}

type assignmentService interface {
	Recompute(ctx context.Context, trigger string) (*domain.RecomputeRun, error)
	Current(ctx context.Context) ([]domain.Assignment, error)
	Run(ctx context.Context, runID string) (*domain.RecomputeRun, error)
	RecentRuns(ctx context.Context, limit int) ([]domain.RecomputeRun, error)
}

// Handler bundles the dependencies for project, preference and assignment
// endpoints.
type Handler struct {
	projects    projectService
	preferences preferenceService
	assignments assignmentService
}

func New(projects projectService, preferences preferenceService, assignments assignmentService) *Handler {
	return &Handler{projects: projects, preferences: preferences, assignments: assignments}
}
