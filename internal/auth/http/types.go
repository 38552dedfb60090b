package http

import (
	"context"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/domain"
)

type personService interface {
	GetPerson(ctx context.Context, id string) (*domain.Person, error)
	Sync(ctx context.Context, req domain.SyncRequest) (*domain.Person, error)
}

type Handler struct {
	authService personService
}

func New(authService personService) *Handler {
	return &Handler{
		authService: authService,
	}
}
