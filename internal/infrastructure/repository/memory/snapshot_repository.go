package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wickethq/fantasy-cricket/internal/domain/snapshot"
)

type SnapshotRepository struct {
	// items is keyed per (user, match), mirroring the unique index the table
	// enforces.
	mu    sync.RWMutex
	items map[string]snapshot.MatchSquadSnapshot

	// CreateHook, when set, runs before each Create and can veto it.
	CreateHook func(s snapshot.MatchSquadSnapshot) error
}

func NewSnapshotRepository(seed []snapshot.MatchSquadSnapshot) *SnapshotRepository {
	items := make(map[string]snapshot.MatchSquadSnapshot, len(seed))
	for _, item := range seed {
		items[snapshotKey(item.UserID, item.MatchID)] = item
	}
	return &SnapshotRepository{items: items}
}

func snapshotKey(userID, matchID string) string {
	return userID + "|" + matchID
}

func (r *SnapshotRepository) GetByUserAndMatch(_ context.Context, userID, matchID string) (snapshot.MatchSquadSnapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[snapshotKey(userID, matchID)]
	if !ok {
		return snapshot.MatchSquadSnapshot{}, false, nil
	}
	s.PlayerIDs = clonePlayerIDs(s.PlayerIDs)
	return s, true, nil
}

func (r *SnapshotRepository) LatestByUser(_ context.Context, userID, tournamentID string) (snapshot.MatchSquadSnapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest snapshot.MatchSquadSnapshot
	found := false
	for _, s := range r.items {
		if s.UserID != userID || s.TournamentID != tournamentID {
			continue
		}
		if !found || s.LockedAt.After(latest.LockedAt) {
			latest = s
			found = true
		}
	}
	if found {
		latest.PlayerIDs = clonePlayerIDs(latest.PlayerIDs)
	}
	return latest, found, nil
}

func (r *SnapshotRepository) ListByMatch(_ context.Context, matchID string) ([]snapshot.MatchSquadSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]snapshot.MatchSquadSnapshot, 0)
	for _, s := range r.items {
		if s.MatchID != matchID {
			continue
		}
		s.PlayerIDs = clonePlayerIDs(s.PlayerIDs)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *SnapshotRepository) Create(_ context.Context, s snapshot.MatchSquadSnapshot) error {
	if r.CreateHook != nil {
		if err := r.CreateHook(s); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// The insert is conflict-tolerant: a snapshot already present for the
	// (user, match) pair wins and the new write is dropped.
	key := snapshotKey(s.UserID, s.MatchID)
	if _, exists := r.items[key]; exists {
		return nil
	}
	s.PlayerIDs = clonePlayerIDs(s.PlayerIDs)
	r.items[key] = s
	return nil
}

func (r *SnapshotRepository) DeleteByMatch(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.items {
		if s.MatchID == matchID {
			delete(r.items, id)
		}
	}
	return nil
}
