package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

// PreferenceRepository stores each person's ranking of projects.
type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ListForPerson returns every project together with the rank personID gave
// it, ordered by project id.
func (r *PreferenceRepository) ListForPerson(ctx context.Context, personID string) ([]domain.RankedProject, error) {
	const q = `
SELECT p.id, p.name, pr.rank
FROM projects p
LEFT JOIN preferences pr ON pr.project_id = p.id AND pr.person_id = $1
ORDER BY p.id;
`
	rows, err := r.db.QueryContext(ctx, q, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.RankedProject, 0, 16)
	for rows.Next() {
		var (
			rp   domain.RankedProject
			rank sql.NullInt64
		)
		if err := rows.Scan(&rp.ProjectID, &rp.ProjectName, &rank); err != nil {
			return nil, err
		}
		rp.Rank = nullInt(rank)
		out = append(out, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Replace swaps personID's whole ranking for ranks in one transaction.
func (r *PreferenceRepository) Replace(ctx context.Context, personID string, ranks map[int64]int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists string
	err = tx.QueryRowContext(ctx, `SELECT id FROM people WHERE id = $1 FOR UPDATE`, personID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrPersonNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM preferences WHERE person_id = $1`, personID); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}

	projectIDs := make([]int64, 0, len(ranks))
	for id := range ranks {
		projectIDs = append(projectIDs, id)
	}
	sort.Slice(projectIDs, func(i, j int) bool { return projectIDs[i] < projectIDs[j] })

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO preferences (project_id, person_id, rank)
VALUES ($1, $2, $3);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range projectIDs {
		if _, err := stmt.ExecContext(ctx, id, personID, ranks[id]); err != nil {
			if isPQCode(err, pqForeignKeyViolation) {
				return fmt.Errorf("%w: %d", domain.ErrUnknownProject, id)
			}
			return fmt.Errorf("insert preference for project %d: %w", id, err)
		}
	}

	return tx.Commit()
}
