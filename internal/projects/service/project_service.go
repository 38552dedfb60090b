package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

const maxProjectNameLength = 500

type ProjectStore interface {
	Create(ctx context.Context, name string) (*domain.Project, error)
	List(ctx context.Context, viewerID string) ([]domain.Project, error)
	Get(ctx context.Context, id int64) (*domain.Project, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	store ProjectStore
}

// NewProjectService creates a new project service
func NewProjectService(store ProjectStore) *ProjectService {
	return &ProjectService{store: store}
}

// Create adds a project. Names are trimmed and must be unique.
func (s *ProjectService) Create(ctx context.Context, name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > maxProjectNameLength {
		return nil, &domain.ValidationError{Field: "name", Message: "name must be at most 500 characters"}
	}
	return s.store.Create(ctx, name)
}

// List returns all projects as seen by viewerID.
func (s *ProjectService) List(ctx context.Context, viewerID string) ([]domain.Project, error) {
	return s.store.List(ctx, viewerID)
}

// Get returns one project.
func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	return s.store.Get(ctx, id)
}
