package leaderboard

import "time"

// UserMatchPoints is one user's fantasy total for one processed match.
type UserMatchPoints struct {
	UserID       string
	MatchID      string
	TournamentID string
	Points       float64
	CalculatedAt time.Time
}

// Entry is one row of the derived season ranking for a tournament.
type Entry struct {
	TournamentID     string
	UserID           string
	TotalPoints      float64
	Rank             int
	LastCalculatedAt time.Time
}
