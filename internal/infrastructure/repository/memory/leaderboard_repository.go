package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wickethq/fantasy-cricket/internal/domain/leaderboard"
)

type pointsKey struct {
	userID  string
	matchID string
}

type LeaderboardRepository struct {
	mu      sync.RWMutex
	points  map[pointsKey]leaderboard.UserMatchPoints
	entries map[string][]leaderboard.Entry
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{
		points:  make(map[pointsKey]leaderboard.UserMatchPoints),
		entries: make(map[string][]leaderboard.Entry),
	}
}

func (r *LeaderboardRepository) UpsertUserMatchPoints(_ context.Context, p leaderboard.UserMatchPoints) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.points[pointsKey{userID: p.UserID, matchID: p.MatchID}] = p
	return nil
}

func (r *LeaderboardRepository) ListUserMatchPointsByTournament(_ context.Context, tournamentID string) ([]leaderboard.UserMatchPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]leaderboard.UserMatchPoints, 0)
	for _, p := range r.points {
		if p.TournamentID == tournamentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out, nil
}

func (r *LeaderboardRepository) ReplaceEntries(_ context.Context, tournamentID string, entries []leaderboard.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cloned := make([]leaderboard.Entry, len(entries))
	copy(cloned, entries)
	r.entries[tournamentID] = cloned
	return nil
}

func (r *LeaderboardRepository) ListEntries(_ context.Context, tournamentID string) ([]leaderboard.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.entries[tournamentID]
	out := make([]leaderboard.Entry, len(stored))
	copy(out, stored)
	return out, nil
}
