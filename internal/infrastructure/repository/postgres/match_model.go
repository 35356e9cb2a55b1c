package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID               int64        `db:"id"`
	PublicID         string       `db:"public_id"`
	TournamentID     string       `db:"tournament_public_id"`
	HomeTeam         string       `db:"home_team"`
	AwayTeam         string       `db:"away_team"`
	Venue            string       `db:"venue"`
	OriginalStartAt  time.Time    `db:"original_start_at"`
	ActualStartAt    time.Time    `db:"actual_start_at"`
	Status           string       `db:"status"`
	LockProcessed    bool         `db:"lock_processed"`
	PointsProcessed  bool         `db:"points_processed"`
	LockedAt         sql.NullTime `db:"locked_at"`
	NotificationSent string       `db:"last_notification_sent"`
	CreatedAt        time.Time    `db:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at"`
	DeletedAt        *time.Time   `db:"deleted_at"`
}
