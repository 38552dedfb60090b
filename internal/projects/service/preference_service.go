package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

type PreferenceStore interface {
	ListForPerson(ctx context.Context, personID string) ([]domain.RankedProject, error)
	Replace(ctx context.Context, personID string, ranks map[int64]int) error
}

// PreferenceService validates and stores rankings.
type PreferenceService struct {
	store PreferenceStore
	gate  *Gate
}

func NewPreferenceService(store PreferenceStore, gate *Gate) *PreferenceService {
	return &PreferenceService{store: store, gate: gate}
}

// List returns the preference form of personID.
func (s *PreferenceService) List(ctx context.Context, personID string) ([]domain.RankedProject, error) {
	return s.store.ListForPerson(ctx, personID)
}

// Submit replaces the whole ranking of personID. Ranks must be positive and
// distinct; they are stored compacted to 1..k with their order preserved.
// An empty ranking withdraws the person from the next recompute.
func (s *PreferenceService) Submit(ctx context.Context, personID string, ranks map[int64]int) ([]domain.RankedProject, error) {
	dense, err := normalizeRanks(ranks)
	if err != nil {
		return nil, err
	}

	err = s.gate.Do(ctx, func(ctx context.Context) error {
		return s.store.Replace(ctx, personID, dense)
	})
	if err != nil {
		return nil, err
	}
	return s.store.ListForPerson(ctx, personID)
}

func normalizeRanks(ranks map[int64]int) (map[int64]int, error) {
	ids := make([]int64, 0, len(ranks))
	for id := range ranks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	seen := make(map[int]int64, len(ranks))
	for _, id := range ids {
		rank := ranks[id]
		if id <= 0 {
			return nil, &domain.ValidationError{Field: "ranks", Message: fmt.Sprintf("invalid project id %d", id)}
		}
		if rank <= 0 {
			return nil, &domain.ValidationError{
				Field:   fmt.Sprintf("ranks[%d]", id),
				Message: "rank must be a positive integer",
			}
		}
		if other, dup := seen[rank]; dup {
			return nil, &domain.ValidationError{
				Field:   "ranks",
				Message: fmt.Sprintf("projects cannot have the same priority: %d and %d are both ranked %d", other, id, rank),
			}
		}
		seen[rank] = id
	}

	sort.SliceStable(ids, func(i, j int) bool { return ranks[ids[i]] < ranks[ids[j]] })
	dense := make(map[int64]int, len(ids))
	for i, id := range ids {
		dense[id] = i + 1
	}
	return dense, nil
}
