package match

import (
	"context"
	"time"
)

// Repository exposes match persistence. The Mark* methods are conditional
// writes: they return false when the guarding flag already flipped, which is
// how concurrent engine runs stay race-free.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Match, error)

	// ListLockCandidates returns upcoming matches with lock_processed=false
	// whose actual start time is at or before now.
	ListLockCandidates(ctx context.Context, now time.Time) ([]Match, error)

	// ListLockedUnscored returns locked matches whose points have not been
	// processed yet. The lock engine re-visits these so a user whose snapshot
	// write failed after the match locked still gets one before scoring.
	ListLockedUnscored(ctx context.Context) ([]Match, error)

	// ListNotifiable returns matches in the upcoming/locked/abandoned states.
	ListNotifiable(ctx context.Context) ([]Match, error)

	// ListUpcomingOn returns upcoming matches starting inside [dayStart, dayEnd).
	ListUpcomingOn(ctx context.Context, dayStart, dayEnd time.Time) ([]Match, error)

	// MarkLocked flips status to locked and lock_processed to true, guarded on
	// lock_processed=false. Returns false when another run won the race.
	MarkLocked(ctx context.Context, matchID string, lockedAt time.Time) (bool, error)

	// MarkPointsProcessed flips points_processed, guarded on the false state.
	MarkPointsProcessed(ctx context.Context, matchID string) (bool, error)

	// SetNotificationSent persists the per-match waterfall marker.
	SetNotificationSent(ctx context.Context, matchID string, tier NotificationTier) error

	// ResetForRainDelay is the administrative override: status back to
	// upcoming, lock flag and timestamps cleared, notification marker cleared,
	// and a new actual start time recorded.
	ResetForRainDelay(ctx context.Context, matchID string, newStartAt time.Time) error
}
