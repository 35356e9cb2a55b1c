package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wickethq/fantasy-cricket/internal/domain/profile"
)

type ProfileRepository struct {
	mu    sync.RWMutex
	items map[string]profile.Profile
}

func NewProfileRepository(seed []profile.Profile) *ProfileRepository {
	items := make(map[string]profile.Profile, len(seed))
	for _, item := range seed {
		items[item.UserID] = item
	}
	return &ProfileRepository{items: items}
}

func (r *ProfileRepository) ListNotifiable(_ context.Context) ([]profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.Profile, 0, len(r.items))
	for _, p := range r.items {
		if p.Notifiable() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
