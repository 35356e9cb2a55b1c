package postgres

import "time"

type playerMatchScoreTableModel struct {
	ID         int64     `db:"id"`
	MatchID    string    `db:"match_public_id"`
	PlayerName string    `db:"player_name"`
	Points     float64   `db:"points"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type playerMatchScoreInsertModel struct {
	MatchID    string  `db:"match_public_id"`
	PlayerName string  `db:"player_name"`
	Points     float64 `db:"points"`
}

type userMatchPointsTableModel struct {
	ID           int64     `db:"id"`
	UserID       string    `db:"user_id"`
	MatchID      string    `db:"match_public_id"`
	TournamentID string    `db:"tournament_public_id"`
	Points       float64   `db:"points"`
	CalculatedAt time.Time `db:"calculated_at"`
}

type userMatchPointsInsertModel struct {
	UserID       string    `db:"user_id"`
	MatchID      string    `db:"match_public_id"`
	TournamentID string    `db:"tournament_public_id"`
	Points       float64   `db:"points"`
	CalculatedAt time.Time `db:"calculated_at"`
}

type leaderboardEntryTableModel struct {
	ID               int64     `db:"id"`
	TournamentID     string    `db:"tournament_public_id"`
	UserID           string    `db:"user_id"`
	TotalPoints      float64   `db:"total_points"`
	Rank             int       `db:"rank"`
	LastCalculatedAt time.Time `db:"last_calculated_at"`
}

type leaderboardEntryInsertModel struct {
	TournamentID     string    `db:"tournament_public_id"`
	UserID           string    `db:"user_id"`
	TotalPoints      float64   `db:"total_points"`
	Rank             int       `db:"rank"`
	LastCalculatedAt time.Time `db:"last_calculated_at"`
}
