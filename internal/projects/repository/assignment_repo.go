package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/assignment"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

// AssignmentRepository reads the engine's input snapshot and persists its
// results.
type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Snapshot reads projects, people and preferences from one consistent view.
func (r *AssignmentRepository) Snapshot(ctx context.Context) (assignment.Snapshot, error) {
	var snap assignment.Snapshot

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return snap, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT id, name FROM projects ORDER BY id`)
	if err != nil {
		return snap, fmt.Errorf("load projects: %w", err)
	}
	for rows.Next() {
		var p assignment.Project
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return snap, err
		}
		snap.Projects = append(snap.Projects, p)
	}
	if err := closeRows(rows); err != nil {
		return snap, err
	}

	rows, err = tx.QueryContext(ctx, `SELECT id, display_name FROM people ORDER BY id`)
	if err != nil {
		return snap, fmt.Errorf("load people: %w", err)
	}
	for rows.Next() {
		var p assignment.Person
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return snap, err
		}
		snap.People = append(snap.People, p)
	}
	if err := closeRows(rows); err != nil {
		return snap, err
	}

	rows, err = tx.QueryContext(ctx, `SELECT project_id, person_id, rank FROM preferences ORDER BY project_id, person_id`)
	if err != nil {
		return snap, fmt.Errorf("load preferences: %w", err)
	}
	for rows.Next() {
		var p assignment.Preference
		if err := rows.Scan(&p.ProjectID, &p.PersonID, &p.Rank); err != nil {
			rows.Close()
			return snap, err
		}
		snap.Preferences = append(snap.Preferences, p)
	}
	if err := closeRows(rows); err != nil {
		return snap, err
	}

	return snap, tx.Commit()
}

// ReplaceAssignments clears the assignee of every project in res and of any
// project currently held by a person in res, then writes the new ones. Either
// all of it commits or none of it does.
func (r *AssignmentRepository) ReplaceAssignments(ctx context.Context, res assignment.Result) error {
	if len(res.Projects) == 0 && len(res.People) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]int64, len(res.Projects))
	for i, id := range res.Projects {
		ids[i] = int64(id)
	}
	people := make([]string, len(res.People))
	for i, id := range res.People {
		people[i] = string(id)
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE projects
SET assignee_id = NULL, updated_at = now()
WHERE id = ANY($1) OR assignee_id = ANY($2);
`, pq.Array(ids), pq.Array(people)); err != nil {
		return fmt.Errorf("clear assignees: %w", err)
	}

	for _, id := range res.Projects {
		personID := res.Assignments[id]
		if personID == nil {
			continue
		}
		out, err := tx.ExecContext(ctx, `
UPDATE projects
SET assignee_id = $2, updated_at = now()
WHERE id = $1;
`, int64(id), string(*personID))
		if err != nil {
			if isPQCode(err, pqForeignKeyViolation) {
				return fmt.Errorf("assign project %d: %w", id, domain.ErrPersonNotFound)
			}
			return fmt.Errorf("assign project %d: %w", id, err)
		}
		if n, err := out.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("assign project %d: %w", id, domain.ErrNotFound)
		}
	}

	return tx.Commit()
}

// Current returns the persisted assignee of every project.
func (r *AssignmentRepository) Current(ctx context.Context) ([]domain.Assignment, error) {
	const q = `
SELECT p.id, p.name, p.assignee_id, pe.display_name
FROM projects p
LEFT JOIN people pe ON pe.id = p.assignee_id
ORDER BY p.id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Assignment, 0, 16)
	for rows.Next() {
		var (
			a          domain.Assignment
			personID   sql.NullString
			personName sql.NullString
		)
		if err := rows.Scan(&a.ProjectID, &a.ProjectName, &personID, &personName); err != nil {
			return nil, err
		}
		a.PersonID = nullString(personID)
		a.PersonName = nullString(personName)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
