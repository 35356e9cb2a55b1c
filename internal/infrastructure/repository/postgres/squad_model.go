package postgres

import (
	"time"

	"github.com/lib/pq"
)

type liveSquadTableModel struct {
	ID            int64          `db:"id"`
	UserID        string         `db:"user_id"`
	TournamentID  string         `db:"tournament_public_id"`
	Name          string         `db:"name"`
	PlayerIDs     pq.StringArray `db:"player_ids"`
	CaptainID     string         `db:"captain_player_id"`
	ViceCaptainID string         `db:"vice_captain_player_id"`
	CreditsUsed   float64        `db:"credits_used"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	DeletedAt     *time.Time     `db:"deleted_at"`
}
