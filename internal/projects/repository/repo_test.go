package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/assignment"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func personPtr(id string) *assignment.PersonID {
	p := assignment.PersonID(id)
	return &p
}

func TestProjectRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("inserts trimmed name", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs("Alpha").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
				AddRow(int64(1), "Alpha", now, now))

		p, err := repo.Create(ctx, "  Alpha ")
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		assert.Equal(t, "Alpha", p.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate name", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs("Alpha").
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Create(ctx, "Alpha")
		assert.ErrorIs(t, err, domain.ErrDuplicateName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := repo.Create(ctx, "   ")
		assert.Error(t, err)
	})
}

func TestProjectRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM projects p`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "assignee_id", "display_name", "rank", "created_at", "updated_at"}).
			AddRow(int64(1), "Alpha", "bob", "Bob", int64(2), now, now).
			AddRow(int64(2), "Beta", nil, nil, nil, now, now))

	items, err := repo.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NotNil(t, items[0].AssigneeID)
	assert.Equal(t, "bob", *items[0].AssigneeID)
	assert.Equal(t, "Bob", *items[0].AssigneeName)
	require.NotNil(t, items[0].MyRank)
	assert.Equal(t, 2, *items[0].MyRank)

	assert.Nil(t, items[1].AssigneeID)
	assert.Nil(t, items[1].AssigneeName)
	assert.Nil(t, items[1].MyRank)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_GetMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectQuery(`FROM projects p`).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreferenceRepository_Replace(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites ranking in project order", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPreferenceRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM people`).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("alice"))
		mock.ExpectExec(`DELETE FROM preferences`).WithArgs("alice").
			WillReturnResult(sqlmock.NewResult(0, 3))
		prep := mock.ExpectPrepare(`INSERT INTO preferences`)
		prep.ExpectExec().WithArgs(int64(1), "alice", 2).WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().WithArgs(int64(5), "alice", 1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Replace(ctx, "alice", map[int64]int{5: 1, 1: 2}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown person", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPreferenceRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM people`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Replace(ctx, "ghost", map[int64]int{1: 1})
		assert.ErrorIs(t, err, domain.ErrPersonNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown project rolls back", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPreferenceRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM people`).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("alice"))
		mock.ExpectExec(`DELETE FROM preferences`).WithArgs("alice").
			WillReturnResult(sqlmock.NewResult(0, 0))
		prep := mock.ExpectPrepare(`INSERT INTO preferences`)
		prep.ExpectExec().WithArgs(int64(42), "alice", 1).WillReturnError(&pq.Error{Code: "23503"})
		mock.ExpectRollback()

		err := repo.Replace(ctx, "alice", map[int64]int{42: 1})
		assert.ErrorIs(t, err, domain.ErrUnknownProject)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPreferenceRepository_ListForPerson(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPreferenceRepository(db)

	mock.ExpectQuery(`FROM projects p`).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rank"}).
			AddRow(int64(1), "Alpha", int64(1)).
			AddRow(int64(2), "Beta", nil))

	items, err := repo.ListForPerson(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, *items[0].Rank)
	assert.Nil(t, items[1].Rank)
}

func TestAssignmentRepository_Snapshot(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, name FROM projects`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Alpha").AddRow(int64(2), "Beta"))
	mock.ExpectQuery(`SELECT id, display_name FROM people`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name"}).AddRow("alice", "Alice"))
	mock.ExpectQuery(`SELECT project_id, person_id, rank FROM preferences`).
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "person_id", "rank"}).AddRow(int64(2), "alice", int64(1)))
	mock.ExpectCommit()

	snap, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []assignment.Project{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}}, snap.Projects)
	assert.Equal(t, []assignment.Person{{ID: "alice", Name: "Alice"}}, snap.People)
	assert.Equal(t, []assignment.Preference{{ProjectID: 2, PersonID: "alice", Rank: 1}}, snap.Preferences)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepository_ReplaceAssignments(t *testing.T) {
	ctx := context.Background()
	res := assignment.Result{
		Projects:    []assignment.ProjectID{1, 2, 3},
		People:      []assignment.PersonID{"alice", "bob"},
		Assignments: map[assignment.ProjectID]*assignment.PersonID{1: personPtr("bob"), 2: nil, 3: personPtr("alice")},
	}

	t.Run("clears then assigns in one transaction", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAssignmentRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`WHERE id = ANY\(\$1\) OR assignee_id = ANY\(\$2\)`).
			WithArgs(pq.Array([]int64{1, 2, 3}), pq.Array([]string{"alice", "bob"})).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`SET assignee_id = \$2`).WithArgs(int64(1), "bob").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`SET assignee_id = \$2`).WithArgs(int64(3), "alice").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.ReplaceAssignments(ctx, res))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed write rolls back", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAssignmentRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`SET assignee_id = NULL`).WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`SET assignee_id = \$2`).WithArgs(int64(1), "bob").
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := repo.ReplaceAssignments(ctx, res)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "assign project 1")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("vanished project rolls back", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAssignmentRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`SET assignee_id = NULL`).WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`SET assignee_id = \$2`).WithArgs(int64(1), "bob").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ReplaceAssignments(ctx, res)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result touches nothing", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAssignmentRepository(db)

		require.NoError(t, repo.ReplaceAssignments(ctx, assignment.Result{}))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAssignmentRepository_Current(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(`FROM projects p`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "assignee_id", "display_name"}).
			AddRow(int64(1), "Alpha", "bob", "Bob").
			AddRow(int64(2), "Beta", nil, nil))

	items, err := repo.Current(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "bob", *items[0].PersonID)
	assert.Nil(t, items[1].PersonID)
}
