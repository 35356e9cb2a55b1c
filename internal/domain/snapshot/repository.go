package snapshot

import "context"

type Repository interface {
	GetByUserAndMatch(ctx context.Context, userID, matchID string) (MatchSquadSnapshot, bool, error)

	// LatestByUser returns the user's most recent snapshot in the tournament,
	// ordered by lock time newest first. This is the head of the chain used
	// for substitution accounting.
	LatestByUser(ctx context.Context, userID, tournamentID string) (MatchSquadSnapshot, bool, error)

	ListByMatch(ctx context.Context, matchID string) ([]MatchSquadSnapshot, error)

	// Create persists a snapshot and its player list. Snapshots are immutable;
	// a duplicate (user, match) pair is a caller bug surfaced as an error.
	Create(ctx context.Context, snap MatchSquadSnapshot) error

	// DeleteByMatch purges all snapshots for a match (rain-delay reset only).
	DeleteByMatch(ctx context.Context, matchID string) error
}
