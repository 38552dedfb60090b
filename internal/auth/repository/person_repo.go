package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/domain"
)

type PersonRepository struct {
	db *sql.DB
}

func NewPersonRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// GetPerson retrieves a person by Firebase UID
func (r *PersonRepository) GetPerson(ctx context.Context, id string) (*domain.Person, error) {
	const q = `
SELECT id, email, display_name, created_at, updated_at
FROM people
WHERE id = $1;
`
	var p domain.Person
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&p.ID, &p.Email, &p.DisplayName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPerson inserts the person or overwrites email and display name.
func (r *PersonRepository) UpsertPerson(ctx context.Context, p *domain.Person) error {
	const q = `
INSERT INTO people (id, email, display_name)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET email = EXCLUDED.email,
    display_name = EXCLUDED.display_name,
    updated_at = now()
RETURNING created_at, updated_at;
`
	return r.db.QueryRowContext(ctx, q, p.ID, p.Email, p.DisplayName).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// EnsurePerson creates the person when missing and leaves an existing row
// untouched.
func (r *PersonRepository) EnsurePerson(ctx context.Context, p *domain.Person) error {
	const q = `
INSERT INTO people (id, email, display_name)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING;
`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Email, p.DisplayName)
	return err
}
