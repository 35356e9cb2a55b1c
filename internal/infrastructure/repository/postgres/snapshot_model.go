package postgres

import (
	"time"

	"github.com/lib/pq"
)

type snapshotTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	UserID           string         `db:"user_id"`
	MatchID          string         `db:"match_public_id"`
	TournamentID     string         `db:"tournament_public_id"`
	PlayerIDs        pq.StringArray `db:"player_ids"`
	CaptainID        string         `db:"captain_player_id"`
	ViceCaptainID    string         `db:"vice_captain_player_id"`
	SubsUsedForMatch int            `db:"subs_used_for_match"`
	TotalSubsUsed    int            `db:"total_subs_used"`
	LockedAt         time.Time      `db:"locked_at"`
	CreatedAt        time.Time      `db:"created_at"`
}

type snapshotInsertModel struct {
	PublicID         string         `db:"public_id"`
	UserID           string         `db:"user_id"`
	MatchID          string         `db:"match_public_id"`
	TournamentID     string         `db:"tournament_public_id"`
	PlayerIDs        pq.StringArray `db:"player_ids"`
	CaptainID        string         `db:"captain_player_id"`
	ViceCaptainID    string         `db:"vice_captain_player_id"`
	SubsUsedForMatch int            `db:"subs_used_for_match"`
	TotalSubsUsed    int            `db:"total_subs_used"`
	LockedAt         time.Time      `db:"locked_at"`
}
