package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/domain"
)

type PersonStore interface {
	GetPerson(ctx context.Context, id string) (*domain.Person, error)
	UpsertPerson(ctx context.Context, p *domain.Person) error
	EnsurePerson(ctx context.Context, p *domain.Person) error
}

type AuthService struct {
	people PersonStore
}

func NewAuthService(people PersonStore) *AuthService {
	return &AuthService{people: people}
}

// GetPerson retrieves a person by Firebase UID
func (s *AuthService) GetPerson(ctx context.Context, id string) (*domain.Person, error) {
	return s.people.GetPerson(ctx, id)
}

// Sync creates or updates a person from sign-in data. Fields missing from
// the request keep their stored values.
func (s *AuthService) Sync(ctx context.Context, req domain.SyncRequest) (*domain.Person, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, fmt.Errorf("person id required")
	}

	person, err := s.people.GetPerson(ctx, req.ID)
	switch {
	case errors.Is(err, domain.ErrPersonNotFound):
		person = &domain.Person{ID: req.ID}
	case err != nil:
		return nil, err
	}

	if req.Email != nil {
		person.Email = strings.TrimSpace(*req.Email)
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) != "" {
		person.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if person.DisplayName == "" {
		person.DisplayName = defaultDisplayName(person.ID, person.Email)
	}

	if err := s.people.UpsertPerson(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

// Ensure makes sure a row exists for id without touching an existing one.
func (s *AuthService) Ensure(ctx context.Context, id, email, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultDisplayName(id, email)
	}
	return s.people.EnsurePerson(ctx, &domain.Person{ID: id, Email: strings.TrimSpace(email), DisplayName: name})
}

func defaultDisplayName(id, email string) string {
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return id
}
