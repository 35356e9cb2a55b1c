package scorecard

import "context"

type Repository interface {
	// UpsertScores replaces the per-player scores for a match. Keyed on
	// (match, player name) so a retried points run writes the same rows.
	UpsertScores(ctx context.Context, matchID string, scores []PlayerMatchScore) error
	ListByMatch(ctx context.Context, matchID string) ([]PlayerMatchScore, error)
}
