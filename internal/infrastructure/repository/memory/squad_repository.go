package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wickethq/fantasy-cricket/internal/domain/squad"
)

type squadKey struct {
	userID       string
	tournamentID string
}

type SquadRepository struct {
	mu    sync.RWMutex
	items map[squadKey]squad.LiveSquad
}

func NewSquadRepository(seed []squad.LiveSquad) *SquadRepository {
	items := make(map[squadKey]squad.LiveSquad, len(seed))
	for _, item := range seed {
		items[squadKey{userID: item.UserID, tournamentID: item.TournamentID}] = item
	}
	return &SquadRepository{items: items}
}

func (r *SquadRepository) GetByUserAndTournament(_ context.Context, userID, tournamentID string) (squad.LiveSquad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[squadKey{userID: userID, tournamentID: tournamentID}]
	if ok {
		s.PlayerIDs = clonePlayerIDs(s.PlayerIDs)
	}
	return s, ok, nil
}

func (r *SquadRepository) ListByTournament(_ context.Context, tournamentID string) ([]squad.LiveSquad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]squad.LiveSquad, 0)
	for _, s := range r.items {
		if s.TournamentID != tournamentID {
			continue
		}
		s.PlayerIDs = clonePlayerIDs(s.PlayerIDs)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// Upsert exists for seeding fixtures and local development.
func (r *SquadRepository) Upsert(_ context.Context, s squad.LiveSquad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.PlayerIDs = clonePlayerIDs(s.PlayerIDs)
	r.items[squadKey{userID: s.UserID, tournamentID: s.TournamentID}] = s
	return nil
}

func clonePlayerIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
