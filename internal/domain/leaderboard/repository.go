package leaderboard

import "context"

type Repository interface {
	UpsertUserMatchPoints(ctx context.Context, points UserMatchPoints) error
	ListUserMatchPointsByTournament(ctx context.Context, tournamentID string) ([]UserMatchPoints, error)

	// ReplaceEntries swaps in the freshly computed ranking for a tournament.
	ReplaceEntries(ctx context.Context, tournamentID string, entries []Entry) error
	ListEntries(ctx context.Context, tournamentID string) ([]Entry, error)
}
