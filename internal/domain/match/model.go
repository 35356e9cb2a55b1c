package match

import (
	"strings"
	"time"
)

const (
	StatusUpcoming  = "UPCOMING"
	StatusLocked    = "LOCKED"
	StatusAbandoned = "ABANDONED"
)

// Match is one scheduled fixture between two real teams.
type Match struct {
	ID               string
	TournamentID     string
	HomeTeam         string
	AwayTeam         string
	Venue            string
	OriginalStartAt  time.Time
	ActualStartAt    time.Time
	Status           string
	LockProcessed    bool
	PointsProcessed  bool
	LockedAt         *time.Time
	NotificationSent NotificationTier
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusUpcoming
	}
	return status
}

// IsDelayed reports whether the actual start was pushed past the original
// schedule while the match is still upcoming.
func (m Match) IsDelayed() bool {
	return NormalizeStatus(m.Status) == StatusUpcoming && m.ActualStartAt.After(m.OriginalStartAt)
}

// StartsWithin reports whether the match begins inside the given window from now.
func (m Match) StartsWithin(now time.Time, window time.Duration) bool {
	if m.ActualStartAt.Before(now) {
		return false
	}
	return m.ActualStartAt.Sub(now) <= window
}
