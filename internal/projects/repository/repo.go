package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project. Names are unique across the service.
func (r *ProjectRepository) Create(ctx context.Context, name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name required")
	}

	const q = `
INSERT INTO projects (name)
VALUES ($1)
RETURNING id, name, created_at, updated_at;
`
	var p domain.Project
	err := r.db.QueryRowContext(ctx, q, name).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}
	return &p, nil
}

// List returns every project with its current assignee and the rank the
// viewer gave it, ordered by id.
func (r *ProjectRepository) List(ctx context.Context, viewerID string) ([]domain.Project, error) {
	const q = `
SELECT p.id, p.name, p.assignee_id, pe.display_name, pr.rank, p.created_at, p.updated_at
FROM projects p
LEFT JOIN people pe ON pe.id = p.assignee_id
LEFT JOIN preferences pr ON pr.project_id = p.id AND pr.person_id = $1
ORDER BY p.id;
`
	rows, err := r.db.QueryContext(ctx, q, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var (
			p            domain.Project
			assigneeID   sql.NullString
			assigneeName sql.NullString
			rank         sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &assigneeID, &assigneeName, &rank, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.AssigneeID = nullString(assigneeID)
		p.AssigneeName = nullString(assigneeName)
		p.MyRank = nullInt(rank)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single project by id.
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*domain.Project, error) {
	const q = `
SELECT p.id, p.name, p.assignee_id, pe.display_name, p.created_at, p.updated_at
FROM projects p
LEFT JOIN people pe ON pe.id = p.assignee_id
WHERE p.id = $1;
`
	var (
		p            domain.Project
		assigneeID   sql.NullString
		assigneeName sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&p.ID, &p.Name, &assigneeID, &assigneeName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.AssigneeID = nullString(assigneeID)
	p.AssigneeName = nullString(assigneeName)
	return &p, nil
}

func isPQCode(err error, code pq.ErrorCode) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
