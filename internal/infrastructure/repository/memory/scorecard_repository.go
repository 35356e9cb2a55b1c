package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wickethq/fantasy-cricket/internal/domain/scorecard"
)

type ScorecardRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]scorecard.PlayerMatchScore
}

func NewScorecardRepository() *ScorecardRepository {
	return &ScorecardRepository{items: make(map[string]map[string]scorecard.PlayerMatchScore)}
}

func (r *ScorecardRepository) UpsertScores(_ context.Context, matchID string, scores []scorecard.PlayerMatchScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byPlayer, ok := r.items[matchID]
	if !ok {
		byPlayer = make(map[string]scorecard.PlayerMatchScore, len(scores))
		r.items[matchID] = byPlayer
	}
	for _, score := range scores {
		score.MatchID = matchID
		byPlayer[score.PlayerName] = score
	}
	return nil
}

func (r *ScorecardRepository) ListByMatch(_ context.Context, matchID string) ([]scorecard.PlayerMatchScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scorecard.PlayerMatchScore, 0, len(r.items[matchID]))
	for _, score := range r.items[matchID] {
		out = append(out, score)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerName < out[j].PlayerName })
	return out, nil
}
