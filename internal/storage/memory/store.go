// Package memory provides an in-memory implementation of the project store
// used for tests and ephemeral environments (STORE_DRIVER=memory).
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/assignment"
	authdomain "github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

type projectRow struct {
	id         int64
	name       string
	assigneeID *string
	createdAt  time.Time
	updatedAt  time.Time
}

type memoryState struct {
	people   map[string]authdomain.Person
	projects map[int64]projectRow
	// prefs maps person id to project id to rank.
	prefs map[string]map[int64]int
}

func newMemoryState() memoryState {
	return memoryState{
		people:   make(map[string]authdomain.Person),
		projects: make(map[int64]projectRow),
		prefs:    make(map[string]map[int64]int),
	}
}

func (s memoryState) clone() memoryState {
	out := newMemoryState()
	for k, v := range s.people {
		out.people[k] = v
	}
	for k, v := range s.projects {
		if v.assigneeID != nil {
			id := *v.assigneeID
			v.assigneeID = &id
		}
		out.projects[k] = v
	}
	for person, ranks := range s.prefs {
		cp := make(map[int64]int, len(ranks))
		for k, v := range ranks {
			cp[k] = v
		}
		out.prefs[person] = cp
	}
	return out
}

// Store keeps people, projects and preferences in process memory. Every
// mutation works on a copy of the state and swaps it in only on success.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	nextID int64
	now    func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		state: newMemoryState(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// PingContext always succeeds; it lets the health handler treat the store
// like a database.
func (s *Store) PingContext(context.Context) error { return nil }

func (s *Store) update(fn func(tx *memoryState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Store) sortedProjects() []projectRow {
	rows := make([]projectRow, 0, len(s.state.projects))
	for _, p := range s.state.projects {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	return rows
}

func (s *Store) personName(id *string) *string {
	if id == nil {
		return nil
	}
	p, ok := s.state.people[*id]
	if !ok {
		return nil
	}
	name := p.DisplayName
	return &name
}

// People

func (s *Store) GetPerson(_ context.Context, id string) (*authdomain.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.people[id]
	if !ok {
		return nil, authdomain.ErrPersonNotFound
	}
	return &p, nil
}

func (s *Store) UpsertPerson(_ context.Context, p *authdomain.Person) error {
	return s.update(func(tx *memoryState) error {
		now := s.now()
		if existing, ok := tx.people[p.ID]; ok {
			p.CreatedAt = existing.CreatedAt
		} else {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		tx.people[p.ID] = *p
		return nil
	})
}

func (s *Store) EnsurePerson(_ context.Context, p *authdomain.Person) error {
	return s.update(func(tx *memoryState) error {
		if _, ok := tx.people[p.ID]; ok {
			return nil
		}
		now := s.now()
		cp := *p
		cp.CreatedAt, cp.UpdatedAt = now, now
		tx.people[p.ID] = cp
		return nil
	})
}

// Projects

func (s *Store) Create(_ context.Context, name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name required")
	}
	var created projectRow
	err := s.update(func(tx *memoryState) error {
		for _, p := range tx.projects {
			if p.name == name {
				return domain.ErrDuplicateName
			}
		}
		s.nextID++
		now := s.now()
		created = projectRow{id: s.nextID, name: name, createdAt: now, updatedAt: now}
		tx.projects[created.id] = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.Project{ID: created.id, Name: created.name, CreatedAt: created.createdAt, UpdatedAt: created.updatedAt}, nil
}

func (s *Store) List(_ context.Context, viewerID string) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ranks := s.state.prefs[viewerID]
	out := make([]domain.Project, 0, len(s.state.projects))
	for _, row := range s.sortedProjects() {
		p := domain.Project{
			ID:           row.id,
			Name:         row.name,
			AssigneeID:   copyString(row.assigneeID),
			AssigneeName: s.personName(row.assigneeID),
			CreatedAt:    row.createdAt,
			UpdatedAt:    row.updatedAt,
		}
		if rank, ok := ranks[row.id]; ok {
			r := rank
			p.MyRank = &r
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id int64) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.state.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Project{
		ID:           row.id,
		Name:         row.name,
		AssigneeID:   copyString(row.assigneeID),
		AssigneeName: s.personName(row.assigneeID),
		CreatedAt:    row.createdAt,
		UpdatedAt:    row.updatedAt,
	}, nil
}

// Preferences

func (s *Store) ListForPerson(_ context.Context, personID string) ([]domain.RankedProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ranks := s.state.prefs[personID]
	out := make([]domain.RankedProject, 0, len(s.state.projects))
	for _, row := range s.sortedProjects() {
		rp := domain.RankedProject{ProjectID: row.id, ProjectName: row.name}
		if rank, ok := ranks[row.id]; ok {
			r := rank
			rp.Rank = &r
		}
		out = append(out, rp)
	}
	return out, nil
}

func (s *Store) Replace(_ context.Context, personID string, ranks map[int64]int) error {
	return s.update(func(tx *memoryState) error {
		if _, ok := tx.people[personID]; !ok {
			return domain.ErrPersonNotFound
		}
		next := make(map[int64]int, len(ranks))
		for projectID, rank := range ranks {
			if _, ok := tx.projects[projectID]; !ok {
				return fmt.Errorf("%w: %d", domain.ErrUnknownProject, projectID)
			}
			next[projectID] = rank
		}
		if len(next) == 0 {
			delete(tx.prefs, personID)
			return nil
		}
		tx.prefs[personID] = next
		return nil
	})
}

// Assignments

func (s *Store) Snapshot(_ context.Context) (assignment.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap assignment.Snapshot
	for _, row := range s.sortedProjects() {
		snap.Projects = append(snap.Projects, assignment.Project{ID: assignment.ProjectID(row.id), Name: row.name})
	}

	peopleIDs := make([]string, 0, len(s.state.people))
	for id := range s.state.people {
		peopleIDs = append(peopleIDs, id)
	}
	sort.Strings(peopleIDs)
	for _, id := range peopleIDs {
		snap.People = append(snap.People, assignment.Person{ID: assignment.PersonID(id), Name: s.state.people[id].DisplayName})
	}

	for _, personID := range peopleIDs {
		for projectID, rank := range s.state.prefs[personID] {
			snap.Preferences = append(snap.Preferences, assignment.Preference{
				ProjectID: assignment.ProjectID(projectID),
				PersonID:  assignment.PersonID(personID),
				Rank:      rank,
			})
		}
	}
	sort.Slice(snap.Preferences, func(i, j int) bool {
		a, b := snap.Preferences[i], snap.Preferences[j]
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		return a.PersonID < b.PersonID
	})
	return snap, nil
}

func (s *Store) ReplaceAssignments(ctx context.Context, res assignment.Result) error {
	return s.update(func(tx *memoryState) error {
		now := s.now()
		for _, id := range res.Projects {
			if _, ok := tx.projects[int64(id)]; !ok {
				return fmt.Errorf("assign project %d: %w", id, domain.ErrNotFound)
			}
		}

		inResult := make(map[int64]bool, len(res.Projects))
		for _, id := range res.Projects {
			inResult[int64(id)] = true
		}
		inMatrix := make(map[string]bool, len(res.People))
		for _, id := range res.People {
			inMatrix[string(id)] = true
		}
		for id, row := range tx.projects {
			held := row.assigneeID != nil && inMatrix[*row.assigneeID]
			if !inResult[id] && !held {
				continue
			}
			row.assigneeID = nil
			row.updatedAt = now
			tx.projects[id] = row
		}
		for _, id := range res.Projects {
			if err := ctx.Err(); err != nil {
				return err
			}
			personID := res.Assignments[id]
			if personID == nil {
				continue
			}
			if _, ok := tx.people[string(*personID)]; !ok {
				return fmt.Errorf("assign project %d: %w", id, domain.ErrPersonNotFound)
			}
			row := tx.projects[int64(id)]
			assignee := string(*personID)
			row.assigneeID = &assignee
			tx.projects[int64(id)] = row
		}
		return nil
	})
}

func (s *Store) Current(_ context.Context) ([]domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Assignment, 0, len(s.state.projects))
	for _, row := range s.sortedProjects() {
		out = append(out, domain.Assignment{
			ProjectID:   row.id,
			ProjectName: row.name,
			PersonID:    copyString(row.assigneeID),
			PersonName:  s.personName(row.assigneeID),
		})
	}
	return out, nil
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
