package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/assignment"
	authdomain "github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/domain"
	authservice "github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/service"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/service"
)

var (
	_ service.ProjectStore    = (*Store)(nil)
	_ service.PreferenceStore = (*Store)(nil)
	_ service.AssignmentStore = (*Store)(nil)
	_ service.RunStore        = (*RunLog)(nil)
	_ authservice.PersonStore = (*Store)(nil)
)

func seed(t *testing.T) (*Store, int64, int64) {
	t.Helper()
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.UpsertPerson(ctx, &authdomain.Person{ID: "bob", DisplayName: "Bob"}))
	require.NoError(t, s.UpsertPerson(ctx, &authdomain.Person{ID: "alice", DisplayName: "Alice"}))
	a, err := s.Create(ctx, "Alpha")
	require.NoError(t, err)
	b, err := s.Create(ctx, "Beta")
	require.NoError(t, err)
	return s, a.ID, b.ID
}

func TestStore_People(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.GetPerson(ctx, "alice")
	assert.ErrorIs(t, err, authdomain.ErrPersonNotFound)

	require.NoError(t, s.EnsurePerson(ctx, &authdomain.Person{ID: "alice", DisplayName: "alice"}))
	require.NoError(t, s.UpsertPerson(ctx, &authdomain.Person{ID: "alice", DisplayName: "Alice L."}))
	// Ensure never overwrites an existing person.
	require.NoError(t, s.EnsurePerson(ctx, &authdomain.Person{ID: "alice", DisplayName: "other"}))

	p, err := s.GetPerson(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", p.DisplayName)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestStore_Projects(t *testing.T) {
	s, a, b := seed(t)
	ctx := context.Background()

	assert.Less(t, a, b)
	_, err := s.Create(ctx, "Alpha")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	require.NoError(t, s.Replace(ctx, "alice", map[int64]int{b: 1}))
	items, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].MyRank)
	assert.Equal(t, 1, *items[1].MyRank)

	_, err = s.Get(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ReplacePreferencesIsAtomic(t *testing.T) {
	s, a, b := seed(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, "alice", map[int64]int{a: 1, b: 2}))
	err := s.Replace(ctx, "alice", map[int64]int{a: 2, 999: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownProject)

	form, err := s.ListForPerson(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, *form[0].Rank)
	assert.Equal(t, 2, *form[1].Rank)

	assert.ErrorIs(t, s.Replace(ctx, "ghost", map[int64]int{a: 1}), domain.ErrPersonNotFound)
}

func TestStore_SnapshotIsSorted(t *testing.T) {
	s, a, b := seed(t)
	ctx := context.Background()
	require.NoError(t, s.Replace(ctx, "bob", map[int64]int{b: 1, a: 2}))
	require.NoError(t, s.Replace(ctx, "alice", map[int64]int{a: 1}))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []assignment.Person{{ID: "alice", Name: "Alice"}, {ID: "bob", Name: "Bob"}}, snap.People)
	assert.Equal(t, []assignment.Preference{
		{ProjectID: assignment.ProjectID(a), PersonID: "alice", Rank: 1},
		{ProjectID: assignment.ProjectID(a), PersonID: "bob", Rank: 2},
		{ProjectID: assignment.ProjectID(b), PersonID: "bob", Rank: 1},
	}, snap.Preferences)
}

func TestStore_ReplaceAssignmentsRollsBack(t *testing.T) {
	s, a, b := seed(t)
	ctx := context.Background()

	alice := assignment.PersonID("alice")
	bob := assignment.PersonID("bob")
	ok := assignment.Result{
		Projects:    []assignment.ProjectID{assignment.ProjectID(a), assignment.ProjectID(b)},
		Assignments: map[assignment.ProjectID]*assignment.PersonID{assignment.ProjectID(a): &alice, assignment.ProjectID(b): &bob},
	}
	require.NoError(t, s.ReplaceAssignments(ctx, ok))

	ghost := assignment.PersonID("ghost")
	bad := assignment.Result{
		Projects:    []assignment.ProjectID{assignment.ProjectID(a), assignment.ProjectID(b)},
		Assignments: map[assignment.ProjectID]*assignment.PersonID{assignment.ProjectID(a): &bob, assignment.ProjectID(b): &ghost},
	}
	err := s.ReplaceAssignments(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrPersonNotFound)

	current, err := s.Current(ctx)
	require.NoError(t, err)
	require.Len(t, current, 2)
	assert.Equal(t, "alice", *current[0].PersonID)
	assert.Equal(t, "Alice", *current[0].PersonName)
	assert.Equal(t, "bob", *current[1].PersonID)
}

func TestStore_ReplaceAssignmentsClearsHeldProjects(t *testing.T) {
	s, a, b := seed(t)
	ctx := context.Background()

	alice := assignment.PersonID("alice")
	bob := assignment.PersonID("bob")
	require.NoError(t, s.ReplaceAssignments(ctx, assignment.Result{
		Projects:    []assignment.ProjectID{assignment.ProjectID(a), assignment.ProjectID(b)},
		People:      []assignment.PersonID{alice, bob},
		Assignments: map[assignment.ProjectID]*assignment.PersonID{assignment.ProjectID(a): &alice, assignment.ProjectID(b): &bob},
	}))

	// Alpha leaves the matrix while alice stays in it and moves to Beta.
	require.NoError(t, s.ReplaceAssignments(ctx, assignment.Result{
		Projects:    []assignment.ProjectID{assignment.ProjectID(b)},
		People:      []assignment.PersonID{alice},
		Assignments: map[assignment.ProjectID]*assignment.PersonID{assignment.ProjectID(b): &alice},
	}))

	current, err := s.Current(ctx)
	require.NoError(t, err)
	require.Len(t, current, 2)
	assert.Nil(t, current[0].PersonID)
	assert.Equal(t, "alice", *current[1].PersonID)
}

func TestRunLog(t *testing.T) {
	l := NewRunLog()
	ctx := context.Background()

	first := &domain.RecomputeRun{Status: domain.RunStatusRunning}
	require.NoError(t, l.Create(ctx, first))
	second := &domain.RecomputeRun{Status: domain.RunStatusRunning, StartedAt: first.StartedAt.Add(1)}
	require.NoError(t, l.Create(ctx, second))

	first.Status = domain.RunStatusCompleted
	require.NoError(t, l.Update(ctx, first))
	assert.ErrorIs(t, l.Update(ctx, &domain.RecomputeRun{RunID: "x"}), domain.ErrRunNotFound)

	got, err := l.Get(ctx, first.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, got.Status)

	recent, err := l.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, second.RunID, recent[0].RunID)

	_, err = l.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
