package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wickethq/fantasy-cricket/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository(seed []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(seed))
	for _, item := range seed {
		items[item.ID] = item
	}
	return &MatchRepository{items: items}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	return m, ok, nil
}

func (r *MatchRepository) ListByTournament(_ context.Context, tournamentID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListLockCandidates(_ context.Context, now time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if match.NormalizeStatus(m.Status) != match.StatusUpcoming || m.LockProcessed {
			continue
		}
		if m.ActualStartAt.After(now) {
			continue
		}
		out = append(out, m)
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListLockedUnscored(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if match.NormalizeStatus(m.Status) != match.StatusLocked {
			continue
		}
		if !m.LockProcessed || m.PointsProcessed {
			continue
		}
		out = append(out, m)
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListNotifiable(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		switch match.NormalizeStatus(m.Status) {
		case match.StatusUpcoming, match.StatusLocked, match.StatusAbandoned:
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListUpcomingOn(_ context.Context, dayStart, dayEnd time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if match.NormalizeStatus(m.Status) != match.StatusUpcoming {
			continue
		}
		if m.ActualStartAt.Before(dayStart) || !m.ActualStartAt.Before(dayEnd) {
			continue
		}
		out = append(out, m)
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) MarkLocked(_ context.Context, matchID string, lockedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok || m.LockProcessed {
		return false, nil
	}

	m.Status = match.StatusLocked
	m.LockProcessed = true
	at := lockedAt
	m.LockedAt = &at
	r.items[matchID] = m
	return true, nil
}

func (r *MatchRepository) MarkPointsProcessed(_ context.Context, matchID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok || m.PointsProcessed {
		return false, nil
	}

	m.PointsProcessed = true
	r.items[matchID] = m
	return true, nil
}

func (r *MatchRepository) SetNotificationSent(_ context.Context, matchID string, tier match.NotificationTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return nil
	}
	m.NotificationSent = tier
	r.items[matchID] = m
	return nil
}

func (r *MatchRepository) ResetForRainDelay(_ context.Context, matchID string, newStartAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return nil
	}
	m.Status = match.StatusUpcoming
	m.ActualStartAt = newStartAt
	m.LockProcessed = false
	m.LockedAt = nil
	m.NotificationSent = match.TierNone
	r.items[matchID] = m
	return nil
}

func sortMatches(items []match.Match) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].ActualStartAt.Equal(items[j].ActualStartAt) {
			return items[i].ActualStartAt.Before(items[j].ActualStartAt)
		}
		return items[i].ID < items[j].ID
	})
}
